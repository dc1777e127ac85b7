package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtract_LabelPriority(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "input", TypeAttr: "text", ID: "a", Selector: "#a", Visible: true,
				LabelFor: "Bound label", AriaLabel: "Aria label", Placeholder: "Placeholder"},
			{Tag: "input", TypeAttr: "text", ID: "b", Selector: "#b", Visible: true,
				AriaLabel: "Aria label", Placeholder: "Placeholder"},
			{Tag: "input", TypeAttr: "text", ID: "c", Selector: "#c", Visible: true,
				Placeholder: "Placeholder"},
			{Tag: "input", TypeAttr: "text", ID: "d", Selector: "#d", Visible: true,
				EnclosingLabel: "Enclosing label"},
			{Tag: "input", TypeAttr: "text", ID: "e", Selector: "#e", Visible: true,
				NearbyText: "Nearby text"},
			{Tag: "input", TypeAttr: "text", ID: "f", Selector: "#f", Visible: true},
		},
	})

	fields, err := NewFieldExtractor(driver).Extract(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, "Bound label", fields[0].Label)
	assert.Equal(t, "Aria label", fields[1].Label)
	assert.Equal(t, "Placeholder", fields[2].Label)
	assert.Equal(t, "Enclosing label", fields[3].Label)
	assert.Equal(t, "Nearby text", fields[4].Label)
	// No label at all falls back to the identifier.
	assert.Equal(t, "f", fields[5].Label)
}

func TestExtract_ButtonUsesOwnText(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "button", ID: "go", Selector: "#go", Visible: true,
				Text: "Submit application", NearbyText: "Some surrounding copy"},
		},
	})

	fields, err := NewFieldExtractor(driver).Extract(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, FieldButton, fields[0].Kind)
	assert.Equal(t, "Submit application", fields[0].Label)
}

func TestExtract_LabelNormalization(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "input", TypeAttr: "text", ID: "a", Selector: "#a", Visible: true,
				LabelFor: "  What   is \n\t your  name?  "},
			{Tag: "input", TypeAttr: "text", ID: "b", Selector: "#b", Visible: true,
				LabelFor: strings.Repeat("long ", 60)},
			{Tag: "input", TypeAttr: "text", ID: "c", Selector: "#c", Visible: true,
				LabelFor: strings.Repeat("Prénom é", 30)},
		},
	})

	fields, err := NewFieldExtractor(driver).Extract(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "What is your name?", fields[0].Label)
	assert.LessOrEqual(t, utf8.RuneCountInString(fields[1].Label), 100)
	// Truncation must never split a multi-byte rune.
	assert.True(t, utf8.ValidString(fields[2].Label))
	assert.LessOrEqual(t, utf8.RuneCountInString(fields[2].Label), 100)
}

func TestExtract_SkipsHiddenElements(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "input", TypeAttr: "text", ID: "shown", Selector: "#shown", Visible: true},
			{Tag: "input", TypeAttr: "text", ID: "hidden", Selector: "#hidden", Visible: false},
			{Tag: "button", ID: "also_hidden", Selector: "#also_hidden", Text: "Submit"},
		},
	})

	extractor := NewFieldExtractor(driver)
	fields, err := extractor.Extract(context.Background())
	assert.NoError(t, err)
	assert.Len(t, fields, 1)
	assert.Equal(t, "shown", fields[0].ID)

	// Flipping visibility grows the next snapshot.
	driver.page().elements[1].Visible = true
	fields, err = extractor.Extract(context.Background())
	assert.NoError(t, err)
	assert.Len(t, fields, 2)
}

func TestExtract_TextlessButtonHasNoLabel(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "button", ID: "next-step", Selector: "#next-step", Visible: true},
		},
	})

	fields, err := NewFieldExtractor(driver).Extract(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, FieldButton, fields[0].Kind)
	assert.Empty(t, fields[0].Label)
}

func TestExtract_IDFallbacks(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "input", TypeAttr: "text", ID: "has_id", Name: "has_name", Selector: "#x", Visible: true},
			{Tag: "input", TypeAttr: "text", Name: "only_name", Selector: "#y", Visible: true},
			{Tag: "input", TypeAttr: "text", Index: 7, Selector: "#z", Visible: true},
		},
	})

	fields, err := NewFieldExtractor(driver).Extract(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "has_id", fields[0].ID)
	assert.Equal(t, "only_name", fields[1].ID)
	assert.Equal(t, "field_7", fields[2].ID)
}

func TestExtract_CheckStateAndOptions(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "input", TypeAttr: "checkbox", ID: "on", Selector: "#on", Checked: true, Visible: true},
			{Tag: "input", TypeAttr: "checkbox", ID: "off", Selector: "#off", Visible: true},
			{Tag: "select", ID: "country", Selector: "#country", Visible: true,
				Options: []string{"United States", "Canada"}},
		},
	})

	fields, err := NewFieldExtractor(driver).Extract(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "true", fields[0].Value)
	assert.Equal(t, "", fields[1].Value)
	assert.Equal(t, []string{"United States", "Canada"}, fields[2].Options)
}
