package services

import (
	"context"
	"log"
	"regexp"
)

var (
	submitTextPattern = regexp.MustCompile(`(?i)submit|apply|finish|send application`)
	nextTextPattern   = regexp.MustCompile(`(?i)next|continue|proceed|step`)
)

// NavigationResolver scans the visible buttons and button-like links of
// a snapshot for submit or continue affordances and clicks the winner.
// A submit-like match anywhere in scan order beats any next-like match;
// scan order is DOM document order.
type NavigationResolver struct {
	driver PageDriver
}

// NewNavigationResolver creates a resolver bound to one page driver.
func NewNavigationResolver(driver PageDriver) *NavigationResolver {
	return &NavigationResolver{driver: driver}
}

// Resolve clicks the best navigation affordance and reports what it
// did. A click failure downgrades to NavNoAction so the controller's
// counters stay in charge of termination.
func (n *NavigationResolver) Resolve(ctx context.Context, fields []FormField) NavigationOutcome {
	var next *FormField
	for i := range fields {
		field := &fields[i]
		if field.Kind != FieldButton || !field.Visible {
			continue
		}
		if submitTextPattern.MatchString(field.Label) {
			log.Printf("Clicking submit control %q", field.Label)
			if err := n.driver.Click(ctx, field.Selector); err != nil {
				log.Printf("Submit click failed: %v", err)
				return NavNoAction
			}
			return NavSubmitting
		}
		if next == nil && nextTextPattern.MatchString(field.Label) {
			next = field
		}
	}

	if next != nil {
		log.Printf("Clicking continue control %q", next.Label)
		if err := n.driver.Click(ctx, next.Selector); err != nil {
			log.Printf("Continue click failed: %v", err)
			return NavNoAction
		}
		return NavNextPage
	}
	return NavNoAction
}

// ForceSubmit clicks a bare submit control as a last resort when no
// labeled affordance was found. Returns false when none exists.
func (n *NavigationResolver) ForceSubmit(ctx context.Context) bool {
	if err := n.driver.Click(ctx, "button[type='submit'], input[type='submit']"); err != nil {
		log.Printf("Force submit found nothing clickable: %v", err)
		return false
	}
	return true
}
