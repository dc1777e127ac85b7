package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const defaultActionTimeoutMs = 5000

// extractElementsJS collects every interactive element with its label
// candidates in a single page pass. Returned as a JSON string so the
// Go side can decode it into RawElement records directly.
const extractElementsJS = `() => {
	const collapse = (s) => (s || '').replace(/\s+/g, ' ').trim();
	const results = [];
	const nodes = document.querySelectorAll('input, textarea, select, button, a[role="button"]');
	nodes.forEach((el, index) => {
		const style = window.getComputedStyle(el);
		const visible = style.display !== 'none' &&
			style.visibility !== 'hidden' &&
			style.opacity !== '0' &&
			!el.hasAttribute('hidden');
		const tag = el.tagName.toLowerCase();
		const typeAttr = (el.getAttribute('type') || '').toLowerCase();

		let selector = tag;
		if (el.id) {
			selector = '#' + CSS.escape(el.id);
		} else if (el.getAttribute('name')) {
			selector = tag + '[name="' + el.getAttribute('name').replace(/"/g, '\\"') + '"]';
		} else if (el.parentElement) {
			const children = Array.from(el.parentElement.children);
			selector = tag + ':nth-child(' + (children.indexOf(el) + 1) + ')';
		}

		let labelFor = '';
		if (el.id) {
			const bound = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
			if (bound) labelFor = collapse(bound.textContent);
		}
		let enclosing = '';
		const parentLabel = el.closest('label');
		if (parentLabel) enclosing = collapse(parentLabel.textContent);
		let nearby = '';
		const container = el.parentElement;
		if (container && container.textContent) {
			const text = collapse(container.textContent.replace(el.innerText || '', ''));
			if (text.length > 0 && text.length < 100) nearby = text;
		}

		let value = '';
		if (tag === 'input' || tag === 'textarea' || tag === 'select') value = el.value || '';
		let checked = false;
		if (typeAttr === 'radio' || typeAttr === 'checkbox') checked = !!el.checked;
		let options = [];
		if (tag === 'select') options = Array.from(el.options).map(o => collapse(o.text));

		results.push({
			index: index,
			tag: tag,
			type: typeAttr,
			id: el.id || '',
			name: el.getAttribute('name') || '',
			selector: selector,
			value: value,
			checked: checked,
			required: el.hasAttribute('required') || el.getAttribute('aria-required') === 'true',
			visible: visible,
			options: options,
			text: collapse(el.innerText || el.value || ''),
			labelFor: labelFor,
			ariaLabel: el.getAttribute('aria-label') || '',
			placeholder: el.getAttribute('placeholder') || '',
			enclosingLabel: enclosing,
			nearbyText: nearby
		});
	});
	return JSON.stringify(results);
}`

// PlaywrightDriver implements PageDriver on an isolated Playwright
// browser context. One driver per automation run; Close releases the
// context and must be called on every exit path.
type PlaywrightDriver struct {
	browserCtx playwright.BrowserContext
	page       playwright.Page
}

// NewPlaywrightDriver opens a fresh browser context and page.
func NewPlaywrightDriver(browser playwright.Browser) (*PlaywrightDriver, error) {
	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1920,
			Height: 1080,
		},
		UserAgent: playwright.String("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return &PlaywrightDriver{browserCtx: browserCtx, page: page}, nil
}

func (d *PlaywrightDriver) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("could not navigate to %s: %w", url, err)
	}
	return nil
}

func (d *PlaywrightDriver) QueryInteractive(ctx context.Context) ([]RawElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, err := d.page.Evaluate(extractElementsJS)
	if err != nil {
		return nil, fmt.Errorf("element query failed: %w", err)
	}
	payload, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected element query result type %T", value)
	}
	var elements []RawElement
	if err := json.Unmarshal([]byte(payload), &elements); err != nil {
		return nil, fmt.Errorf("could not decode element snapshot: %w", err)
	}
	return elements, nil
}

func (d *PlaywrightDriver) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.page.Fill(selector, value, playwright.PageFillOptions{
		Timeout: playwright.Float(defaultActionTimeoutMs),
	})
}

func (d *PlaywrightDriver) SelectOption(ctx context.Context, selector, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	selected, err := d.page.SelectOption(selector, playwright.SelectOptionValues{
		Labels: &[]string{label},
	}, playwright.PageSelectOptionOptions{
		Timeout: playwright.Float(defaultActionTimeoutMs),
	})
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no option labeled %q in %s", label, selector)
	}
	return nil
}

func (d *PlaywrightDriver) Check(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.page.Check(selector, playwright.PageCheckOptions{
		Timeout: playwright.Float(defaultActionTimeoutMs),
	})
}

func (d *PlaywrightDriver) Uncheck(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.page.Uncheck(selector, playwright.PageUncheckOptions{
		Timeout: playwright.Float(defaultActionTimeoutMs),
	})
}

func (d *PlaywrightDriver) SetFiles(ctx context.Context, selector, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.page.Locator(selector).First().SetInputFiles(path)
}

func (d *PlaywrightDriver) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(defaultActionTimeoutMs),
	})
}

func (d *PlaywrightDriver) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.page.Content()
}

func (d *PlaywrightDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
}

// Wait sleeps for d or until the run is cancelled, whichever is first.
func (d *PlaywrightDriver) Wait(ctx context.Context, wait time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
}

func (d *PlaywrightDriver) Close() error {
	if d.page != nil {
		if err := d.page.Close(); err != nil {
			return err
		}
	}
	if d.browserCtx != nil {
		return d.browserCtx.Close()
	}
	return nil
}
