package siebel

import (
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/skyorder/pkg/logging"
)

// DefaultSettleGrace is the fixed delay appended after network idle before a
// field is read. Label-bearing controls can be repainted after data loads,
// so network idle alone is not a reliable completion signal.
const DefaultSettleGrace = 500 * time.Millisecond

// Driver is the interaction layer over one order-entry page. All methods
// are sequential; the driver owns the page exclusively for one order.
type Driver struct {
	page  Page
	log   *logging.Logger
	grace time.Duration
}

// NewDriver creates a driver for the given page.
func NewDriver(page Page, log *logging.Logger) *Driver {
	return &Driver{
		page:  page,
		log:   log,
		grace: DefaultSettleGrace,
	}
}

// SetSettleGrace overrides the post-idle grace delay. Tests set it to zero.
func (d *Driver) SetSettleGrace(grace time.Duration) {
	d.grace = grace
}

// Page exposes the underlying page for callers that need raw interactions
// (action buttons, manual pause).
func (d *Driver) Page() Page {
	return d.page
}

// settle waits for the network to go idle plus the grace delay.
func (d *Driver) settle() error {
	if err := d.page.WaitForLoadState(); err != nil {
		return err
	}
	if d.grace > 0 {
		time.Sleep(d.grace)
	}
	return nil
}

// Settle waits for the UI to finish re-rendering. Exposed for section
// handlers that click action buttons directly.
func (d *Driver) Settle() error {
	return d.settle()
}

func fieldSelector(scope, label string) string {
	selector := fmt.Sprintf(`input[aria-label="%s"]`, label)
	if scope != "" {
		selector = scope + " " + selector
	}
	return selector
}

// WriteField locates the input labelled label, replaces its content with
// value, and commits it with Enter. Writes are committed immediately.
func (d *Driver) WriteField(label, value string) error {
	return d.WriteFieldIn("", label, value)
}

// WriteFieldIn is WriteField restricted to a named sub-region of the page.
func (d *Driver) WriteFieldIn(scope, label, value string) error {
	selector := fieldSelector(scope, label)
	d.log.Debugf("writing %q to %s", value, selector)

	if err := d.page.Click(selector, 0); err != nil {
		return locateErr(err, label)
	}
	if err := d.page.Fill(selector, value); err != nil {
		return locateErr(err, label)
	}
	if err := d.page.Press(selector, "Enter"); err != nil {
		return locateErr(err, label)
	}
	return nil
}

// ReadField waits for the UI to settle and returns the current value of the
// input labelled label.
func (d *Driver) ReadField(label string) (string, error) {
	return d.ReadFieldIn("", label)
}

// ReadFieldIn is ReadField restricted to a named sub-region of the page.
func (d *Driver) ReadFieldIn(scope, label string) (string, error) {
	if err := d.settle(); err != nil {
		return "", err
	}
	selector := fieldSelector(scope, label)
	value, err := d.page.InputValue(selector)
	if err != nil {
		return "", locateErr(err, label)
	}
	d.log.Debugf("read %q from %s", value, selector)
	return value, nil
}

// SetCheck checks or unchecks the checkbox labelled label.
func (d *Driver) SetCheck(label string, checked bool) error {
	selector := fieldSelector("", label)
	if err := d.page.Check(selector, checked); err != nil {
		return locateErr(err, label)
	}
	return nil
}

// OpenFieldTable opens the candidate picker attached to the field labelled
// label. The picker icon ignores real pointer input, so the click is
// dispatched as a DOM event.
func (d *Driver) OpenFieldTable(label string) error {
	selector := fieldSelector("", label) + ` + span[aria-label="Auswahlfeld"]`
	if err := d.page.WaitForSelector(selector, "attached", 0); err != nil {
		return locateErr(err, label)
	}
	if err := d.settle(); err != nil {
		return err
	}
	d.log.Debugf("opening picker %s", selector)
	if err := d.page.DispatchClick(selector); err != nil {
		return locateErr(err, label)
	}
	return nil
}

// pickerConfirmSelector is the confirm button of the candidate picker popup.
const pickerConfirmSelector = `span.siebui-popup-button > button[data-display="Auswählen"]`

// ClosePicker confirms and closes the currently open candidate picker.
func (d *Driver) ClosePicker() error {
	if err := d.page.Click(pickerConfirmSelector, 0); err != nil {
		return locateErr(err, "picker confirm button")
	}
	return d.settle()
}

// Click clicks an arbitrary selector. A timeout of 0 uses the page default;
// a positive timeout bounds the wait and yields ErrTimeout on expiry.
func (d *Driver) Click(selector string, timeout time.Duration) error {
	return d.page.Click(selector, float64(timeout.Milliseconds()))
}

// Pause suspends the run for manual intervention.
func (d *Driver) Pause() error {
	d.log.Warnf("pausing for manual intervention")
	return d.page.Pause()
}

// locateErr maps wait timeouts onto ErrElementNotFound: for field access a
// control that never appears is a missing control, not a slow one.
func locateErr(err error, what string) error {
	if errors.Is(err, ErrTimeout) {
		return fmt.Errorf("%w: %s", ErrElementNotFound, what)
	}
	return err
}
