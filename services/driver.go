package services

import (
	"context"
	"time"
)

// RawElement is the driver's untyped view of one interactive element.
// The label candidates the extractor needs are gathered from the
// surrounding DOM in a single pass, so the engine never has to walk
// the page again to resolve them.
type RawElement struct {
	Index          int      `json:"index"`
	Tag            string   `json:"tag"`
	TypeAttr       string   `json:"type"`
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Selector       string   `json:"selector"`
	Value          string   `json:"value"`
	Checked        bool     `json:"checked"`
	Required       bool     `json:"required"`
	Visible        bool     `json:"visible"`
	Options        []string `json:"options"`
	Text           string   `json:"text"`
	LabelFor       string   `json:"labelFor"`
	AriaLabel      string   `json:"ariaLabel"`
	Placeholder    string   `json:"placeholder"`
	EnclosingLabel string   `json:"enclosingLabel"`
	NearbyText     string   `json:"nearbyText"`
}

// PageDriver is the capability set the automation engine needs from a
// live browser session. The engine depends only on this interface, not
// on any concrete browser library.
type PageDriver interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	QueryInteractive(ctx context.Context) ([]RawElement, error)
	Fill(ctx context.Context, selector, value string) error
	SelectOption(ctx context.Context, selector, label string) error
	Check(ctx context.Context, selector string) error
	Uncheck(ctx context.Context, selector string) error
	SetFiles(ctx context.Context, selector, path string) error
	Click(ctx context.Context, selector string) error
	Content(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Wait(ctx context.Context, d time.Duration)
	Close() error
}

// DriverFactory opens a fresh, isolated page driver. Each automation
// run gets its own so concurrent runs never share browser state.
type DriverFactory interface {
	NewDriver() (PageDriver, error)
}
