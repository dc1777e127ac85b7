package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_SubmitBeatsNext(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "button", ID: "next", Selector: "#next", Text: "Next", Visible: true},
			{Tag: "button", ID: "submit", Selector: "#submit", Text: "Submit application", Visible: true},
		},
	})

	fields := []FormField{
		{ID: "next", Selector: "#next", Kind: FieldButton, Label: "Next", Visible: true},
		{ID: "submit", Selector: "#submit", Kind: FieldButton, Label: "Submit application", Visible: true},
	}

	outcome := NewNavigationResolver(driver).Resolve(context.Background(), fields)

	assert.Equal(t, NavSubmitting, outcome)
	assert.Equal(t, []string{"#submit"}, driver.clicks)
}

func TestResolve_NextWhenNoSubmit(t *testing.T) {
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "button", ID: "continue", Selector: "#continue", Text: "Continue", Visible: true},
		},
	})

	fields := []FormField{
		{ID: "back", Selector: "#back", Kind: FieldButton, Label: "Back", Visible: true},
		{ID: "continue", Selector: "#continue", Kind: FieldButton, Label: "Continue", Visible: true},
	}

	outcome := NewNavigationResolver(driver).Resolve(context.Background(), fields)

	assert.Equal(t, NavNextPage, outcome)
	assert.Equal(t, []string{"#continue"}, driver.clicks)
}

func TestResolve_IgnoresInvisibleButtons(t *testing.T) {
	driver := newFakeDriver(&fakePage{})

	fields := []FormField{
		{ID: "submit", Selector: "#submit", Kind: FieldButton, Label: "Submit", Visible: false},
	}

	outcome := NewNavigationResolver(driver).Resolve(context.Background(), fields)

	assert.Equal(t, NavNoAction, outcome)
	assert.Empty(t, driver.clicks)
}

func TestResolve_NoButtons(t *testing.T) {
	driver := newFakeDriver(&fakePage{})

	fields := []FormField{
		{ID: "name", Selector: "#name", Kind: FieldText, Label: "Name", Visible: true},
	}

	assert.Equal(t, NavNoAction, NewNavigationResolver(driver).Resolve(context.Background(), fields))
}

func TestResolve_ClickFailureDowngrades(t *testing.T) {
	driver := newFakeDriver(&fakePage{})
	driver.failClicks["#submit"] = true

	fields := []FormField{
		{ID: "submit", Selector: "#submit", Kind: FieldButton, Label: "Apply", Visible: true},
	}

	assert.Equal(t, NavNoAction, NewNavigationResolver(driver).Resolve(context.Background(), fields))
}

func TestResolve_IgnoresTextlessButtonWithSuggestiveID(t *testing.T) {
	// A button whose only "label" would be its element id must not be
	// treated as a continue affordance.
	driver := newFakeDriver(&fakePage{
		elements: []RawElement{
			{Tag: "button", ID: "next-step", Selector: "#next-step", Visible: true},
		},
	})

	fields, err := NewFieldExtractor(driver).Extract(context.Background())
	assert.NoError(t, err)

	outcome := NewNavigationResolver(driver).Resolve(context.Background(), fields)

	assert.Equal(t, NavNoAction, outcome)
	assert.Empty(t, driver.clicks)
}

func TestResolve_MatchesCommonLabels(t *testing.T) {
	submitLabels := []string{"Submit", "Apply now", "Finish", "Send Application"}
	nextLabels := []string{"Next", "Continue", "Proceed", "Next step"}

	for _, label := range submitLabels {
		assert.True(t, submitTextPattern.MatchString(label), "expected submit match for %q", label)
	}
	for _, label := range nextLabels {
		assert.True(t, nextTextPattern.MatchString(label), "expected next match for %q", label)
		assert.False(t, submitTextPattern.MatchString(label), "unexpected submit match for %q", label)
	}
}
