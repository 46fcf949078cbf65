package workflow

import (
	"fmt"
	"time"

	"github.com/entrhq/skyorder/pkg/order"
	"github.com/entrhq/skyorder/pkg/siebel"
)

const (
	promotionsTableSelector = `table[summary="Promotions"] tbody`

	// promotionCodeColumn is the column carrying the promotion code.
	promotionCodeColumn = 2

	// promotionCode is the one fixed promotion every order is keyed to.
	promotionCode = "12902"

	// pickerTableTimeout bounds waits for picker-backed tables that must
	// render; expiry here is an error, not a control-flow signal.
	pickerTableTimeout = 15 * time.Second
)

// handleContract fills the Contract section: promotion selection, the
// package filter and program-package label, and add-on reconciliation.
func (u *Uploader) handleContract(o *order.Order) error {
	d := u.driver

	if err := d.GoToSection(siebel.SectionContract); err != nil {
		return err
	}
	// The contract section keeps loading pickers after the section
	// itself reports idle.
	time.Sleep(2 * u.stepDelay)

	if err := u.selectPromotion(); err != nil {
		return err
	}

	if err := d.WriteField("Paketfilter", o.PackageFilter()); err != nil {
		return err
	}
	if err := d.WriteField("Programmpaket", o.ProgramPackage()); err != nil {
		return err
	}

	return u.reconcileOptions(o)
}

// selectPromotion opens the offer picker and selects the row keyed by the
// fixed promotion code.
func (u *Uploader) selectPromotion() error {
	d := u.driver

	if err := d.OpenFieldTable("Angebot"); err != nil {
		return err
	}
	table, err := d.ExtractTable(promotionsTableSelector, pickerTableTimeout)
	if err != nil {
		return err
	}
	cell, ok := table.Index(promotionCodeColumn)[promotionCode]
	if !ok {
		return fmt.Errorf("%w: code %s", ErrPromotionNotFound, promotionCode)
	}
	if err := d.Click(cell.Selector, 0); err != nil {
		return err
	}
	return d.ClosePicker()
}
