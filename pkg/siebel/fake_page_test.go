package siebel

import (
	"fmt"

	"github.com/entrhq/skyorder/pkg/logging"
)

// fakePage is a scriptable Page implementation. Tests populate its maps to
// describe what the remote form would show; interaction hooks simulate the
// form reacting to clicks and fills.
type fakePage struct {
	values   map[string]string  // input selector → current value
	visible  map[string]Element // selector → visible element
	attached map[string]bool    // selectors present but not necessarily visible
	disabled map[string]bool
	checked  map[string]bool
	clickErr map[string]error
	onClick  map[string]func(f *fakePage)
	onFill   map[string]func(f *fakePage, value string)
	clicked  []string
	pauses   int
}

func newFakePage() *fakePage {
	return &fakePage{
		values:   make(map[string]string),
		visible:  make(map[string]Element),
		attached: make(map[string]bool),
		disabled: make(map[string]bool),
		checked:  make(map[string]bool),
		clickErr: make(map[string]error),
		onClick:  make(map[string]func(f *fakePage)),
		onFill:   make(map[string]func(f *fakePage, value string)),
	}
}

func (f *fakePage) Click(selector string, _ float64) error {
	if err := f.clickErr[selector]; err != nil {
		return err
	}
	f.clicked = append(f.clicked, selector)
	if hook := f.onClick[selector]; hook != nil {
		hook(f)
	}
	return nil
}

func (f *fakePage) DispatchClick(selector string) error {
	return f.Click(selector, 0)
}

func (f *fakePage) Fill(selector, value string) error {
	f.values[selector] = value
	if hook := f.onFill[selector]; hook != nil {
		hook(f, value)
	}
	return nil
}

func (f *fakePage) Press(string, string) error { return nil }

func (f *fakePage) InputValue(selector string) (string, error) {
	return f.values[selector], nil
}

func (f *fakePage) Check(selector string, checked bool) error {
	f.checked[selector] = checked
	return nil
}

func (f *fakePage) IsDisabled(selector string) (bool, error) {
	return f.disabled[selector], nil
}

func (f *fakePage) QuerySelector(selector string) (Element, error) {
	return f.visible[selector], nil
}

func (f *fakePage) WaitForSelector(selector, state string, _ float64) error {
	if state == "attached" && f.attached[selector] {
		return nil
	}
	if _, ok := f.visible[selector]; ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTimeout, selector)
}

func (f *fakePage) WaitForLoadState() error { return nil }

func (f *fakePage) Pause() error {
	f.pauses++
	return nil
}

func (f *fakePage) clickCount(selector string) int {
	count := 0
	for _, s := range f.clicked {
		if s == selector {
			count++
		}
	}
	return count
}

// fakeElement is a minimal DOM node for table extraction tests.
type fakeElement struct {
	text     string
	children map[string][]Element
}

func (e *fakeElement) TextContent() (string, error) {
	return e.text, nil
}

func (e *fakeElement) QuerySelectorAll(selector string) ([]Element, error) {
	return e.children[selector], nil
}

// tableOf builds a tbody-like element from rows of cell texts.
func tableOf(rows [][]string) Element {
	trs := make([]Element, len(rows))
	for i, row := range rows {
		tds := make([]Element, len(row))
		for j, text := range row {
			tds[j] = &fakeElement{text: text}
		}
		trs[i] = &fakeElement{children: map[string][]Element{"td": tds}}
	}
	return &fakeElement{children: map[string][]Element{"tr": trs}}
}

// classifyTimeout builds the timeout error the live page adapter would
// produce for the given selector.
func classifyTimeout(selector string) error {
	return fmt.Errorf("%w: %s", ErrTimeout, selector)
}

// newTestDriver wires a fake page into a driver with no settle delays.
func newTestDriver(page Page) *Driver {
	d := NewDriver(page, logging.Discard())
	d.SetSettleGrace(0)
	return d
}
