package services

import (
	"context"
	"fmt"
	"log"
	"time"
)

// RunState is the controller's position in its state machine.
type RunState string

const (
	StateAnalyzing  RunState = "analyzing"
	StateFilling    RunState = "filling"
	StateNavigating RunState = "navigating"
	StateSubmitting RunState = "submitting"
	StateSucceeded  RunState = "succeeded"
	StateFailed     RunState = "failed"
)

// MaxAutomationSteps bounds the controller loop, first iteration
// included. The engine cannot know how many pages a form spans or
// whether filling will reveal more fields, so the step budget and the
// consecutive-no-action counter are the only safety valves against a
// page that never terminates.
const MaxAutomationSteps = 16

// AutomationController drives one already-navigated page to a terminal
// outcome: extract, classify, answer, fill, navigate, check. It owns
// nothing shared; each run builds its own controller.
type AutomationController struct {
	driver     PageDriver
	extractor  *FieldExtractor
	dispatcher *AnswerDispatcher
	filler     *FieldFiller
	navigator  *NavigationResolver
	checker    *SubmissionCheckerService
	state      RunState

	// Settle delays between page mutations and re-inspection. The fake
	// driver used in tests makes these instant.
	fillSettleWait time.Duration
	nextPageWait   time.Duration
	submitWait     time.Duration
}

// NewAutomationController wires a controller around one page driver
// and one answering client.
func NewAutomationController(driver PageDriver, answers AnswerClient) *AutomationController {
	return &AutomationController{
		driver:         driver,
		extractor:      NewFieldExtractor(driver),
		dispatcher:     NewAnswerDispatcher(answers),
		filler:         NewFieldFiller(driver),
		navigator:      NewNavigationResolver(driver),
		checker:        &SubmissionCheckerService{},
		state:          StateAnalyzing,
		fillSettleWait: time.Second,
		nextPageWait:   2 * time.Second,
		submitWait:     5 * time.Second,
	}
}

// State returns the controller's current state.
func (c *AutomationController) State() RunState {
	return c.state
}

// Run executes the bounded filling loop. Recoverable field and cycle
// errors never escape it; the returned result is terminal and is not
// mutated afterward.
func (c *AutomationController) Run(ctx context.Context, actx *AutomationContext) *AutomationResult {
	consecutiveNoAction := 0

	for step := 1; step <= MaxAutomationSteps; step++ {
		if err := ctx.Err(); err != nil {
			return c.fail(fmt.Sprintf("run cancelled: %v", err))
		}

		c.state = StateAnalyzing
		log.Printf("Step %d/%d: analyzing page state", step, MaxAutomationSteps)

		// Completion first: confirmation language short-circuits the
		// remaining work this cycle.
		if content, err := c.driver.Content(ctx); err != nil {
			log.Printf("Could not read page content: %v", err)
		} else if c.checker.IsConfirmation(content) {
			c.state = StateSucceeded
			log.Printf("Confirmation language found, application submitted")
			return &AutomationResult{Success: true, Message: "Application submitted successfully"}
		}

		fields, err := c.extractor.Extract(ctx)
		if err != nil {
			log.Printf("Field extraction failed: %v", err)
			fields = nil
		}
		processable := ProcessableFields(fields)
		log.Printf("Found %d interactive fields, %d to process", len(fields), len(processable))

		result := StepResult{FieldsProcessed: len(processable)}

		if len(processable) > 0 {
			c.state = StateFilling
			answers := c.dispatcher.Dispatch(ctx, processable, actx)
			result.FieldsFilled = c.filler.FillAll(ctx, processable, answers, actx)
			log.Printf("Filled %d of %d fields", result.FieldsFilled, len(processable))

			if result.FieldsFilled > 0 {
				consecutiveNoAction = 0

				// Conditional fields: filling may have revealed inputs
				// that were not in this snapshot. Re-analyze without
				// navigating; the step budget still bounds this branch.
				c.driver.Wait(ctx, c.fillSettleWait)
				after, err := c.extractor.Extract(ctx)
				if err == nil && len(after) > len(fields) {
					result.NewFields = true
					log.Printf("New fields appeared after filling, repeating analysis")
					continue
				}
			}
		}

		c.state = StateNavigating
		result.Navigation = c.navigator.Resolve(ctx, fields)

		switch result.Navigation {
		case NavSubmitting:
			c.state = StateSubmitting
			log.Printf("Submitting form, waiting for submission effects")
			c.driver.Wait(ctx, c.submitWait)
			consecutiveNoAction = 0

		case NavNextPage:
			log.Printf("Moving to next page")
			c.driver.Wait(ctx, c.nextPageWait)
			consecutiveNoAction = 0

		case NavNoAction:
			consecutiveNoAction++
			if result.FieldsProcessed == 0 && consecutiveNoAction >= 2 {
				log.Printf("No actions available and no fields left to fill")
				if !c.navigator.ForceSubmit(ctx) {
					return c.fail("stuck on page, no navigation found")
				}
			}
		}
	}

	return c.fail("max steps reached without confirmed success")
}

func (c *AutomationController) fail(message string) *AutomationResult {
	c.state = StateFailed
	log.Printf("Automation failed: %s", message)
	return &AutomationResult{Success: false, Message: message}
}
