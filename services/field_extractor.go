package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxLabelLength = 100

// FieldExtractor turns the driver's raw element snapshot into typed
// FormField records. It is re-invoked every cycle: an element that
// becomes visible later is picked up on the next extraction, never
// retroactively. No network or persistence side effects.
type FieldExtractor struct {
	driver PageDriver
}

// NewFieldExtractor creates an extractor bound to one page driver.
func NewFieldExtractor(driver PageDriver) *FieldExtractor {
	return &FieldExtractor{driver: driver}
}

// Extract returns the current snapshot of visible interactive fields
// in DOM document order. Hidden elements are not part of the snapshot,
// so a field revealed by a visibility toggle grows the next one.
func (e *FieldExtractor) Extract(ctx context.Context) ([]FormField, error) {
	elements, err := e.driver.QueryInteractive(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not query page elements: %w", err)
	}

	fields := make([]FormField, 0, len(elements))
	for _, el := range elements {
		if !el.Visible {
			continue
		}
		kind := ClassifyKind(el.Tag, el.TypeAttr)

		field := FormField{
			ID:       fieldID(el),
			Selector: el.Selector,
			Kind:     kind,
			Label:    resolveLabel(el, kind),
			Value:    fieldValue(el, kind),
			Required: el.Required,
			Visible:  el.Visible,
		}
		if kind == FieldSelect {
			field.Options = el.Options
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// fieldID prefers the element's own id, then its name, then a
// positional fallback. Only stable within one snapshot.
func fieldID(el RawElement) string {
	if el.ID != "" {
		return el.ID
	}
	if el.Name != "" {
		return el.Name
	}
	return fmt.Sprintf("field_%d", el.Index)
}

// resolveLabel applies the label heuristics in priority order:
// bound <label for=...>, ARIA label, placeholder, nearest enclosing
// label, then proximate container text. An input with no label at all
// falls back to its own identifier; buttons never do.
func resolveLabel(el RawElement, kind FieldKind) string {
	candidates := []string{
		el.LabelFor,
		el.AriaLabel,
		el.Placeholder,
		el.EnclosingLabel,
		el.NearbyText,
	}
	if kind == FieldButton {
		// Buttons label themselves with their visible text.
		candidates = append([]string{el.Text}, candidates...)
	}
	for _, c := range candidates {
		if normalized := normalizeLabel(c); normalized != "" {
			return normalized
		}
	}
	if kind == FieldButton {
		// A textless button carries no affordance to match on.
		return ""
	}
	return fieldID(el)
}

// normalizeLabel collapses whitespace and truncates to 100 characters,
// cutting on a rune boundary so multi-byte labels stay valid UTF-8.
func normalizeLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) > maxLabelLength {
		runes := []rune(s)
		s = strings.TrimSpace(string(runes[:maxLabelLength]))
	}
	return s
}

// fieldValue encodes check state as "true"/"" for radio and checkbox
// fields; everything else carries its literal value.
func fieldValue(el RawElement, kind FieldKind) string {
	if kind == FieldRadio || kind == FieldCheckbox {
		if el.Checked {
			return "true"
		}
		return ""
	}
	return el.Value
}
