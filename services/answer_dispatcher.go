package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Question is the reduced view of a field sent to the answering
// service: identifier, label (with the option list inlined for
// selects), and kind.
type Question struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  string `json:"type"`
}

// AnswerClient is the answering collaborator boundary: it maps a batch
// of form questions plus applicant context to proposed answers. The
// result is untrusted and must be validated by the caller.
type AnswerClient interface {
	AnswerApplicationQuestions(ctx context.Context, questions []Question, profile *UserProfileData, resumeText, jobContext string) (map[string]string, error)
}

// AnswerDispatcher batches the unanswered fields of one cycle into a
// single collaborator request so the request count stays bounded by
// the step budget.
type AnswerDispatcher struct {
	client  AnswerClient
	timeout time.Duration
}

// NewAnswerDispatcher creates a dispatcher. A nil client is allowed:
// answers then come from the local profile heuristic only.
func NewAnswerDispatcher(client AnswerClient) *AnswerDispatcher {
	return &AnswerDispatcher{
		client:  client,
		timeout: 60 * time.Second,
	}
}

// Dispatch requests answers for the whole batch. On any collaborator
// error (timeout, network, malformed payload) it returns an empty map:
// the filler skips those fields this cycle and they remain candidates
// on the next one, bounded by the overall step budget. No retry happens
// here; retry is a property of the step loop.
func (d *AnswerDispatcher) Dispatch(ctx context.Context, fields []FormField, actx *AutomationContext) AnswerMap {
	if len(fields) == 0 {
		return AnswerMap{}
	}

	questions := make([]Question, 0, len(fields))
	for _, f := range fields {
		label := f.Label
		if len(f.Options) > 0 {
			label = fmt.Sprintf("%s [Options: %s]", label, strings.Join(f.Options, ", "))
		}
		questions = append(questions, Question{ID: f.ID, Label: label, Kind: string(f.Kind)})
	}

	if d.client == nil {
		log.Printf("No answering service configured - using profile heuristics for %d fields", len(questions))
		return heuristicAnswers(questions, actx.Profile)
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	raw, err := d.client.AnswerApplicationQuestions(callCtx, questions, actx.Profile, actx.ResumeText, actx.JobContext)
	if err != nil {
		log.Printf("Answer dispatch failed, fields stay pending this cycle: %v", err)
		return AnswerMap{}
	}

	answers := make(AnswerMap, len(raw))
	for id, answer := range raw {
		if trimmed := strings.TrimSpace(answer); trimmed != "" {
			answers[id] = trimmed
		}
	}
	return answers
}

// heuristicAnswers fills the obvious contact fields straight from the
// profile and points free-text questions at the resume.
func heuristicAnswers(questions []Question, profile *UserProfileData) AnswerMap {
	answers := AnswerMap{}
	if profile == nil {
		return answers
	}
	for _, q := range questions {
		label := strings.ToLower(q.Label)
		switch {
		case strings.Contains(label, "email"):
			answers[q.ID] = profile.Email
		case strings.Contains(label, "phone") || strings.Contains(label, "mobile"):
			answers[q.ID] = profile.Phone
		case strings.Contains(label, "name") && !strings.Contains(label, "company"):
			answers[q.ID] = profile.FullName
		case strings.Contains(label, "location") || strings.Contains(label, "city"):
			answers[q.ID] = profile.Location
		case strings.Contains(label, "linkedin"):
			answers[q.ID] = profile.LinkedIn
		case q.Kind == string(FieldTextarea):
			answers[q.ID] = "Please refer to my resume."
		}
	}
	return answers
}
