// Package siebel drives the Siebel order-entry UI: locating fields by their
// accessible labels, extracting candidate tables, walking the five form
// sections, and resolving free-text addresses against the server's candidate
// lists. The remote UI renders asynchronously and reuses selectors across
// loading states, so every read and write goes through a settle-wait.
package siebel

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Element is a located DOM node. References obtained from an Element are
// positional and stay valid only until the next DOM mutation.
type Element interface {
	TextContent() (string, error)
	QuerySelectorAll(selector string) ([]Element, error)
}

// Page is the narrow browser-page surface the driver needs. The production
// implementation wraps a Playwright page; tests substitute fakes. A timeout
// of 0 means the page's default timeout.
type Page interface {
	Click(selector string, timeout float64) error
	DispatchClick(selector string) error
	Fill(selector, value string) error
	Press(selector, key string) error
	InputValue(selector string) (string, error)
	Check(selector string, checked bool) error
	IsDisabled(selector string) (bool, error)
	QuerySelector(selector string) (Element, error)
	WaitForSelector(selector, state string, timeout float64) error
	WaitForLoadState() error
	Pause() error
}

// playwrightPage adapts a playwright.Page to the Page interface, translating
// Playwright timeout errors into ErrTimeout so callers can branch on them
// with errors.Is.
type playwrightPage struct {
	page playwright.Page
}

// NewPage wraps a live Playwright page.
func NewPage(page playwright.Page) Page {
	return &playwrightPage{page: page}
}

func classify(err error, selector string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s", ErrTimeout, selector)
	}
	return err
}

func (p *playwrightPage) Click(selector string, timeout float64) error {
	opts := playwright.PageClickOptions{}
	if timeout > 0 {
		opts.Timeout = playwright.Float(timeout)
	}
	return classify(p.page.Click(selector, opts), selector)
}

// DispatchClick fires a synthesized DOM click event. Some Siebel controls
// (the field picker icons) ignore real pointer input but react to the event.
func (p *playwrightPage) DispatchClick(selector string) error {
	return classify(p.page.DispatchEvent(selector, "click", nil), selector)
}

func (p *playwrightPage) Fill(selector, value string) error {
	return classify(p.page.Fill(selector, value), selector)
}

func (p *playwrightPage) Press(selector, key string) error {
	return classify(p.page.Press(selector, key), selector)
}

func (p *playwrightPage) InputValue(selector string) (string, error) {
	value, err := p.page.InputValue(selector)
	return value, classify(err, selector)
}

func (p *playwrightPage) Check(selector string, checked bool) error {
	if checked {
		return classify(p.page.Check(selector), selector)
	}
	return classify(p.page.Uncheck(selector), selector)
}

func (p *playwrightPage) IsDisabled(selector string) (bool, error) {
	disabled, err := p.page.IsDisabled(selector)
	return disabled, classify(err, selector)
}

func (p *playwrightPage) QuerySelector(selector string) (Element, error) {
	handle, err := p.page.QuerySelector(selector)
	if err != nil {
		return nil, classify(err, selector)
	}
	if handle == nil {
		return nil, nil
	}
	return &playwrightElement{handle: handle}, nil
}

func (p *playwrightPage) WaitForSelector(selector, state string, timeout float64) error {
	opts := playwright.PageWaitForSelectorOptions{}
	if state != "" {
		s := playwright.WaitForSelectorState(state)
		opts.State = &s
	}
	if timeout > 0 {
		opts.Timeout = playwright.Float(timeout)
	}
	_, err := p.page.WaitForSelector(selector, opts)
	return classify(err, selector)
}

func (p *playwrightPage) WaitForLoadState() error {
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

// Pause hands control to a human: it suspends the script and opens the
// Playwright inspector until resumed.
func (p *playwrightPage) Pause() error {
	return p.page.Pause()
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func (e *playwrightElement) TextContent() (string, error) {
	return e.handle.TextContent()
}

func (e *playwrightElement) QuerySelectorAll(selector string) ([]Element, error) {
	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, len(handles))
	for i, h := range handles {
		elements[i] = &playwrightElement{handle: h}
	}
	return elements, nil
}
