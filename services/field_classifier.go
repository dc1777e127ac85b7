package services

// ClassifyKind maps a tag name and type attribute to a semantic field
// kind. Unrecognized input types default to text, matching how generic
// forms treat them; unrecognized tags classify as unknown.
func ClassifyKind(tag, typeAttr string) FieldKind {
	switch tag {
	case "select":
		return FieldSelect
	case "textarea":
		return FieldTextarea
	case "button", "a":
		return FieldButton
	case "input":
		switch typeAttr {
		case "radio":
			return FieldRadio
		case "checkbox":
			return FieldCheckbox
		case "file":
			return FieldFile
		case "submit", "button", "image", "reset":
			return FieldButton
		case "email":
			return FieldEmail
		case "tel":
			return FieldTel
		case "number":
			return FieldNumber
		case "date":
			return FieldDate
		default:
			return FieldText
		}
	default:
		return FieldUnknown
	}
}

// ProcessableFields returns the subset of a snapshot that still needs
// work this cycle. The exclusion rule is re-evaluated every cycle, so
// a field filled on a previous pass is naturally skipped on the next.
func ProcessableFields(fields []FormField) []FormField {
	processable := make([]FormField, 0, len(fields))
	for _, f := range fields {
		if !f.Visible || f.Kind == FieldButton {
			continue
		}
		if f.Kind == FieldFile && f.Value != "" {
			continue
		}
		if (f.Kind == FieldRadio || f.Kind == FieldCheckbox) && f.Value == "true" {
			continue
		}
		// Any non-empty value counts as already filled, even when the
		// content is placeholder-like default text. Known heuristic
		// limitation: such fields are skipped without inspection.
		if f.Kind != FieldRadio && f.Kind != FieldCheckbox && f.Value != "" {
			continue
		}
		processable = append(processable, f)
	}
	return processable
}
