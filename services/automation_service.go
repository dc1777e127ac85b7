package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

const navigationTimeout = 60 * time.Second

// AutomationService is the engine boundary exposed to callers. It owns
// the shared Playwright install and hands every run its own isolated
// browser context; no automation state is shared between runs.
type AutomationService struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser

	answers     AnswerClient
	screenshots *ScreenshotService
}

// NewAutomationService creates the engine. The browser is launched
// lazily on the first run so the API can come up on hosts without
// browsers installed; a launch failure is then a fatal-run error for
// that run, not a startup crash.
func NewAutomationService(answers AnswerClient, screenshots *ScreenshotService) *AutomationService {
	return &AutomationService{
		answers:     answers,
		screenshots: screenshots,
	}
}

// Close shuts down the browser and Playwright.
func (s *AutomationService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			log.Printf("Error closing browser: %v", err)
		}
		s.browser = nil
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			log.Printf("Error stopping playwright: %v", err)
		}
		s.pw = nil
	}
	return nil
}

func (s *AutomationService) ensureBrowser() (playwright.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser != nil {
		return s.browser, nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	headless := true
	if os.Getenv("HEADLESS") == "false" {
		headless = false
		log.Println("Running browser in visible mode (HEADLESS=false)")
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--no-sandbox",
			"--disable-blink-features=AutomationControlled",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	s.pw = pw
	s.browser = browser
	return browser, nil
}

// NewDriver opens a fresh page driver on an isolated browser context.
func (s *AutomationService) NewDriver() (PageDriver, error) {
	browser, err := s.ensureBrowser()
	if err != nil {
		return nil, err
	}
	return NewPlaywrightDriver(browser)
}

// Run navigates to jobURL and drives the form to a terminal result.
// The browser context for the run is released on every exit path, and
// a screenshot artifact is written on both success and failure.
func (s *AutomationService) Run(ctx context.Context, jobURL string, actx *AutomationContext) (*AutomationResult, error) {
	log.Printf("Starting automation run for %s", jobURL)

	driver, err := s.NewDriver()
	if err != nil {
		return nil, fmt.Errorf("could not open browser session: %w", err)
	}
	defer driver.Close()

	if err := driver.Navigate(ctx, jobURL, navigationTimeout); err != nil {
		result := &AutomationResult{
			Success: false,
			Message: fmt.Sprintf("could not load job page: %v", err),
		}
		s.captureOutcome(ctx, driver, result)
		return result, nil
	}

	// Allow initial scripts to settle before the first analysis.
	driver.Wait(ctx, 3*time.Second)

	controller := NewAutomationController(driver, s.answers)
	result := controller.Run(ctx, actx)
	s.captureOutcome(ctx, driver, result)

	log.Printf("Automation run finished: success=%t message=%q", result.Success, result.Message)
	return result, nil
}

// captureOutcome writes the best-effort outcome screenshot, named by
// outcome prefix and timestamp.
func (s *AutomationService) captureOutcome(ctx context.Context, driver PageDriver, result *AutomationResult) {
	if s.screenshots == nil {
		return
	}
	prefix := "error"
	if result.Success {
		prefix = "success"
	}
	url, err := s.screenshots.Capture(ctx, driver, prefix)
	if err != nil {
		log.Printf("Failed to take %s screenshot: %v", prefix, err)
		return
	}
	result.ScreenshotURL = url
}
