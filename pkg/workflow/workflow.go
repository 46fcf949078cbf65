// Package workflow sequences one subscription order through the five-section
// order-entry form: Address, Contract, Customer, Tech and Overview. Each
// section handler is a fixed recipe of driver operations plus its business
// rules; the Overview handler cross-checks the form's computed prices against
// an independent estimate before the order is handed over for manual review.
package workflow

import (
	"errors"
	"time"

	"github.com/entrhq/skyorder/pkg/logging"
	"github.com/entrhq/skyorder/pkg/order"
	"github.com/entrhq/skyorder/pkg/siebel"
)

// Uploader runs complete orders against one exclusively owned form session.
type Uploader struct {
	driver        *siebel.Driver
	log           *logging.Logger
	stepDelay     time.Duration
	clearingDelay time.Duration
}

const (
	// defaultStepDelay separates section transitions; the form keeps
	// loading data briefly after a section reports idle.
	defaultStepDelay = time.Second

	// defaultClearingDelay is the wait between writing the IBAN and
	// reading back the derived bank identifier.
	defaultClearingDelay = time.Second
)

// NewUploader creates an uploader over the given driver.
func NewUploader(driver *siebel.Driver, log *logging.Logger) *Uploader {
	return &Uploader{
		driver:        driver,
		log:           log,
		stepDelay:     defaultStepDelay,
		clearingDelay: defaultClearingDelay,
	}
}

// SetDelays overrides the inter-section and IBAN clearing delays. Tests set
// them to zero.
func (u *Uploader) SetDelays(step, clearing time.Duration) {
	u.stepDelay = step
	u.clearingDelay = clearing
}

// Run processes one order end to end. On success the session is left as-is
// for manual review; the caller decides how long to keep it open. On error
// the caller must tear the session down.
func (u *Uploader) Run(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	if err := u.openContract(); err != nil {
		return err
	}
	u.log.Infof("contract open, filling sections")

	steps := []struct {
		name    string
		handler func(*order.Order) error
	}{
		{"address", u.handleAddress},
		{"contract", u.handleContract},
		{"customer", u.handleCustomer},
		{"tech", u.handleTech},
		{"overview", u.handleOverview},
	}

	for _, step := range steps {
		u.log.Infof("handling %s section", step.name)
		if err := step.handler(o); err != nil {
			return err
		}
		time.Sleep(u.stepDelay)
	}

	u.log.Infof("order uploaded, price checks passed")
	return nil
}

// Contract acquisition selectors.
const (
	newContractText     = `text="Neuer Vertrag"`
	searchContractText  = `text="Vertrag Suchen"`
	showContractText    = `text="Vertrag Anzeigen"`
	newRecordButton     = `#NewRecord`
	statusCell          = `td[aria-roledescription="Status"]`
	contractResultCell  = `table[summary="Alle Bestellungen"] tbody tr td >> visible=true`
	refreshOverviewSpan = `button span:has-text("Aktualisieren")`

	inProgressStatus = "IN BEARBEITUNG"

	// contractSearchTimeout bounds the wait for a search hit; no hit
	// within it means there is no resumable contract.
	contractSearchTimeout = 2 * time.Second
)

// openContract resumes an in-progress contract when one exists, otherwise
// creates a fresh one. Resuming walks every section once and refreshes the
// overview, so later writes land on fully loaded sections.
func (u *Uploader) openContract() error {
	d := u.driver

	if err := d.Click(newContractText, 0); err != nil {
		return err
	}
	if err := d.Click(searchContractText, 0); err != nil {
		return err
	}
	time.Sleep(2 * u.stepDelay)
	if err := d.Page().Press(searchContractText, "Alt+KeyQ"); err != nil {
		return err
	}

	// Filter the result list down to in-progress contracts.
	if err := d.Click(statusCell, 0); err != nil {
		return err
	}
	statusInput := statusCell + " input"
	if err := d.Click(statusInput, 0); err != nil {
		return err
	}
	if err := d.Page().Fill(statusInput, inProgressStatus); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if err := d.Page().Press(statusInput, "Enter"); err != nil {
			return err
		}
	}

	err := d.Click(contractResultCell, contractSearchTimeout)
	if errors.Is(err, siebel.ErrTimeout) {
		u.log.Infof("no resumable contract, creating a new one")
		return u.createContract()
	}
	if err != nil {
		return err
	}

	time.Sleep(u.stepDelay)
	if err := d.Click(showContractText, 0); err != nil {
		return err
	}

	u.log.Infof("resuming existing contract")
	for _, section := range siebel.Sections {
		if err := d.GoToSection(section); err != nil {
			return err
		}
	}
	if err := d.Click(refreshOverviewSpan, 0); err != nil {
		return err
	}
	return d.GoToSection(siebel.SectionAddress)
}

func (u *Uploader) createContract() error {
	if err := u.driver.Click(newContractText, 0); err != nil {
		return err
	}
	return u.driver.Click(newRecordButton, 0)
}
