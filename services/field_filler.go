package services

import (
	"context"
	"log"
	"strings"
	"time"
)

// FieldFiller executes the interaction primitive matching each field's
// kind. A driver failure on one field is logged and never aborts the
// rest of the batch; that is a hard contract of the filler.
type FieldFiller struct {
	driver PageDriver
}

// NewFieldFiller creates a filler bound to one page driver.
func NewFieldFiller(driver PageDriver) *FieldFiller {
	return &FieldFiller{driver: driver}
}

// FillAll fills every field that has a non-empty answer (file fields
// may proceed with an empty answer when a resume path is set) and
// returns the number of fields actually mutated.
func (fl *FieldFiller) FillAll(ctx context.Context, fields []FormField, answers AnswerMap, actx *AutomationContext) int {
	filled := 0
	for _, field := range fields {
		answer := answers[field.ID]
		if answer == "" && field.Kind != FieldFile {
			continue
		}
		if fl.fillOne(ctx, field, answer, actx) {
			filled++
			if filled%3 == 0 {
				fl.driver.Wait(ctx, 300*time.Millisecond)
			}
		}
	}
	return filled
}

func (fl *FieldFiller) fillOne(ctx context.Context, field FormField, answer string, actx *AutomationContext) bool {
	var err error

	switch field.Kind {
	case FieldText, FieldEmail, FieldTel, FieldNumber, FieldDate, FieldTextarea:
		err = fl.driver.Fill(ctx, field.Selector, answer)

	case FieldSelect:
		if err = fl.driver.SelectOption(ctx, field.Selector, answer); err != nil {
			match := fuzzyOptionMatch(field.Options, answer)
			if match == "" {
				log.Printf("No option of %q matches answer %q, skipping", field.Label, answer)
				return false
			}
			err = fl.driver.SelectOption(ctx, field.Selector, match)
		}

	case FieldCheckbox:
		switch strings.ToLower(answer) {
		case "true", "yes":
			err = fl.driver.Check(ctx, field.Selector)
		case "false", "no":
			err = fl.driver.Uncheck(ctx, field.Selector)
		default:
			return false
		}

	case FieldRadio:
		// Select only the radio option whose own label overlaps the
		// chosen answer text.
		if !textOverlaps(field.Label, answer) {
			return false
		}
		err = fl.driver.Check(ctx, field.Selector)

	case FieldFile:
		if actx == nil || actx.ResumePath == "" {
			return false
		}
		err = fl.driver.SetFiles(ctx, field.Selector, actx.ResumePath)

	default:
		return false
	}

	if err != nil {
		log.Printf("Could not fill field %s (%s): %v", field.ID, field.Label, err)
		return false
	}
	return true
}

// fuzzyOptionMatch finds the first option related to the answer by
// case-insensitive substring containment in either direction.
func fuzzyOptionMatch(options []string, answer string) string {
	needle := strings.ToLower(strings.TrimSpace(answer))
	if needle == "" {
		return ""
	}
	for _, option := range options {
		haystack := strings.ToLower(strings.TrimSpace(option))
		if haystack == "" {
			continue
		}
		if strings.Contains(haystack, needle) || strings.Contains(needle, haystack) {
			return option
		}
	}
	return ""
}

// textOverlaps reports case-insensitive containment in either direction.
func textOverlaps(a, b string) bool {
	al := strings.ToLower(strings.TrimSpace(a))
	bl := strings.ToLower(strings.TrimSpace(b))
	if al == "" || bl == "" {
		return false
	}
	return strings.Contains(al, bl) || strings.Contains(bl, al)
}
