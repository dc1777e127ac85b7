package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillAll_TextAndSelect(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "input", TypeAttr: "text", ID: "name", Selector: "#name", Visible: true},
			{Tag: "select", ID: "auth", Selector: "#auth", Visible: true,
				Options: []string{"Yes", "No"}},
		},
	})

	fields := []FormField{
		{ID: "name", Selector: "#name", Kind: FieldText, Visible: true},
		{ID: "auth", Selector: "#auth", Kind: FieldSelect, Options: []string{"Yes", "No"}, Visible: true},
	}
	answers := AnswerMap{"name": "Jane Smith", "auth": "Yes"}

	filled := NewFieldFiller(driver).FillAll(context.Background(), fields, answers, testContext())

	assert.Equal(t, 2, filled)
	assert.Equal(t, "Jane Smith", driver.pages[0].elements[0].Value)
	assert.Equal(t, "Yes", driver.pages[0].elements[1].Value)
}

func TestFillAll_FuzzySelectMatch(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "select", ID: "auth", Selector: "#auth", Visible: true,
				Options: []string{"Yes, I am authorized", "No, I require sponsorship"}},
		},
	})

	fields := []FormField{
		{ID: "auth", Selector: "#auth", Kind: FieldSelect,
			Options: []string{"Yes, I am authorized", "No, I require sponsorship"}, Visible: true},
	}

	// Exact selection of "yes" fails; the fuzzy pass picks the option
	// containing it.
	filled := NewFieldFiller(driver).FillAll(context.Background(), fields, AnswerMap{"auth": "yes"}, testContext())

	assert.Equal(t, 1, filled)
	assert.Equal(t, "Yes, I am authorized", driver.pages[0].elements[0].Value)
}

func TestFillAll_SelectNoMatchSkips(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "select", ID: "auth", Selector: "#auth", Visible: true, Options: []string{"Yes", "No"}},
		},
	})

	fields := []FormField{
		{ID: "auth", Selector: "#auth", Kind: FieldSelect, Options: []string{"Yes", "No"}, Visible: true},
	}

	filled := NewFieldFiller(driver).FillAll(context.Background(), fields, AnswerMap{"auth": "Maybe later"}, testContext())

	assert.Equal(t, 0, filled)
	assert.Empty(t, driver.pages[0].elements[0].Value)
}

func TestFillAll_Checkbox(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "input", TypeAttr: "checkbox", ID: "agree", Selector: "#agree", Visible: true},
			{Tag: "input", TypeAttr: "checkbox", ID: "spam", Selector: "#spam", Checked: true, Visible: true},
		},
	})

	fields := []FormField{
		{ID: "agree", Selector: "#agree", Kind: FieldCheckbox, Visible: true},
		{ID: "spam", Selector: "#spam", Kind: FieldCheckbox, Visible: true},
	}
	answers := AnswerMap{"agree": "yes", "spam": "no"}

	filled := NewFieldFiller(driver).FillAll(context.Background(), fields, answers, testContext())

	assert.Equal(t, 2, filled)
	assert.True(t, driver.pages[0].elements[0].Checked)
	assert.False(t, driver.pages[0].elements[1].Checked)
}

func TestFillAll_RadioLabelOverlap(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "input", TypeAttr: "radio", ID: "r_yes", Selector: "#r_yes", Visible: true},
			{Tag: "input", TypeAttr: "radio", ID: "r_no", Selector: "#r_no", Visible: true},
		},
	})

	fields := []FormField{
		{ID: "r_yes", Selector: "#r_yes", Kind: FieldRadio, Label: "Yes", Visible: true},
		{ID: "r_no", Selector: "#r_no", Kind: FieldRadio, Label: "No", Visible: true},
	}
	// Both radios of the group carry the group answer; only the one
	// whose own label overlaps gets checked.
	answers := AnswerMap{"r_yes": "Yes", "r_no": "Yes"}

	filled := NewFieldFiller(driver).FillAll(context.Background(), fields, answers, testContext())

	assert.Equal(t, 1, filled)
	assert.True(t, driver.pages[0].elements[0].Checked)
	assert.False(t, driver.pages[0].elements[1].Checked)
}

func TestFillAll_FileUpload(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "input", TypeAttr: "file", ID: "resume", Selector: "#resume", Visible: true},
		},
	})

	fields := []FormField{
		{ID: "resume", Selector: "#resume", Kind: FieldFile, Visible: true},
	}

	actx := testContext()
	actx.ResumePath = "/tmp/resume.docx"
	filled := NewFieldFiller(driver).FillAll(context.Background(), fields, AnswerMap{}, actx)
	assert.Equal(t, 1, filled)
	assert.Equal(t, "/tmp/resume.docx", driver.pages[0].elements[0].Value)

	// Without a resume path the field is skipped, not errored.
	driver.pages[0].elements[0].Value = ""
	actx.ResumePath = ""
	filled = NewFieldFiller(driver).FillAll(context.Background(), fields, AnswerMap{}, actx)
	assert.Equal(t, 0, filled)
}

func TestFillAll_DriverErrorDoesNotAbortBatch(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "input", TypeAttr: "text", ID: "ok", Selector: "#ok", Visible: true},
		},
	})

	fields := []FormField{
		// This selector matches nothing, the driver errors on it.
		{ID: "gone", Selector: "#gone", Kind: FieldText, Visible: true},
		{ID: "ok", Selector: "#ok", Kind: FieldText, Visible: true},
	}
	answers := AnswerMap{"gone": "x", "ok": "filled anyway"}

	filled := NewFieldFiller(driver).FillAll(context.Background(), fields, answers, testContext())

	assert.Equal(t, 1, filled)
	assert.Equal(t, "filled anyway", driver.pages[0].elements[0].Value)
}

func TestFuzzyOptionMatch(t *testing.T) {
	options := []string{"Yes, I am authorized", "No"}

	assert.Equal(t, "Yes, I am authorized", fuzzyOptionMatch(options, "yes"))
	assert.Equal(t, "No", fuzzyOptionMatch(options, "no"))
	assert.Equal(t, "", fuzzyOptionMatch(options, "maybe"))
	assert.Equal(t, "", fuzzyOptionMatch(options, "  "))
}
