package services

import (
	"strings"
)

// SubmissionCheckerService decides whether page content amounts to a
// submission confirmation. It only inspects the text it is handed; the
// controller supplies a fresh page snapshot every cycle.
type SubmissionCheckerService struct{}

// Phrases that on their own confirm a completed application.
var confirmationPhrases = []string{
	"application submitted",
	"thank you for applying",
	"thank you for your application",
	"your application has been submitted",
	"application received",
	"we have received your application",
	"successfully submitted",
	"submission successful",
	"application complete",
	"you're all set",
}

// IsConfirmation reports whether the page content contains
// submission-confirmation language.
func (s *SubmissionCheckerService) IsConfirmation(content string) bool {
	lower := strings.ToLower(content)
	for _, phrase := range confirmationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	// "success" alone is too common on the open web; require it
	// alongside explicit receipt language.
	if strings.Contains(lower, "success") && strings.Contains(lower, "received your application") {
		return true
	}
	return false
}

// IsConfirmationURL catches confirmation pages that carry the outcome
// in their address instead of their copy.
func (s *SubmissionCheckerService) IsConfirmationURL(url string) bool {
	lower := strings.ToLower(url)
	for _, marker := range []string{"/success", "/confirmation", "/thank-you", "/application-complete"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
