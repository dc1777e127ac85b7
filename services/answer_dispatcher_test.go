package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatch_InlinesSelectOptions(t *testing.T) {
	var captured []Question
	client := &capturingAnswerClient{onCall: func(qs []Question) {
		captured = qs
	}}

	fields := []FormField{
		{ID: "auth", Kind: FieldSelect, Label: "Are you authorized to work?",
			Options: []string{"Yes", "No"}},
		{ID: "name", Kind: FieldText, Label: "Full name"},
	}

	NewAnswerDispatcher(client).Dispatch(context.Background(), fields, testContext())

	assert.Len(t, captured, 2)
	assert.Equal(t, "Are you authorized to work? [Options: Yes, No]", captured[0].Label)
	assert.Equal(t, "Full name", captured[1].Label)
}

func TestDispatch_ErrorReturnsEmptyMap(t *testing.T) {
	client := &fakeAnswerClient{err: fmt.Errorf("rate limited")}

	fields := []FormField{{ID: "name", Kind: FieldText, Label: "Full name"}}
	answers := NewAnswerDispatcher(client).Dispatch(context.Background(), fields, testContext())

	assert.Empty(t, answers)
}

func TestDispatch_TrimsAndDropsBlankAnswers(t *testing.T) {
	client := &fakeAnswerClient{answers: map[string]string{
		"name":  "  Jane Smith  ",
		"blank": "   ",
	}}

	fields := []FormField{
		{ID: "name", Kind: FieldText, Label: "Full name"},
		{ID: "blank", Kind: FieldText, Label: "Middle name"},
	}
	answers := NewAnswerDispatcher(client).Dispatch(context.Background(), fields, testContext())

	assert.Equal(t, AnswerMap{"name": "Jane Smith"}, answers)
}

func TestDispatch_EmptyBatchSkipsClient(t *testing.T) {
	client := &fakeAnswerClient{fallback: "x"}

	answers := NewAnswerDispatcher(client).Dispatch(context.Background(), nil, testContext())

	assert.Empty(t, answers)
	assert.Zero(t, client.calls)
}

func TestDispatch_NilClientUsesProfileHeuristics(t *testing.T) {
	fields := []FormField{
		{ID: "email", Kind: FieldEmail, Label: "Email address"},
		{ID: "phone", Kind: FieldTel, Label: "Mobile number"},
		{ID: "name", Kind: FieldText, Label: "Full name"},
		{ID: "company", Kind: FieldText, Label: "Company name"},
		{ID: "city", Kind: FieldText, Label: "City of residence"},
		{ID: "cover", Kind: FieldTextarea, Label: "Why do you want this job?"},
		{ID: "misc", Kind: FieldText, Label: "Referral code"},
	}

	actx := testContext()
	answers := NewAnswerDispatcher(nil).Dispatch(context.Background(), fields, actx)

	assert.Equal(t, actx.Profile.Email, answers["email"])
	assert.Equal(t, actx.Profile.Phone, answers["phone"])
	assert.Equal(t, actx.Profile.FullName, answers["name"])
	assert.Equal(t, actx.Profile.Location, answers["city"])
	assert.Equal(t, "Please refer to my resume.", answers["cover"])
	// "Company name" contains "name" but names the employer, not the
	// applicant, so the heuristic must leave it alone.
	assert.NotContains(t, answers, "company")
	assert.NotContains(t, answers, "misc")
}

type capturingAnswerClient struct {
	onCall func([]Question)
}

func (c *capturingAnswerClient) AnswerApplicationQuestions(ctx context.Context, questions []Question, profile *UserProfileData, resumeText, jobContext string) (map[string]string, error) {
	if c.onCall != nil {
		c.onCall(questions)
	}
	return map[string]string{}, nil
}
