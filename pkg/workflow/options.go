package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/skyorder/pkg/order"
	"github.com/entrhq/skyorder/pkg/siebel"
	"github.com/samber/lo"
)

const (
	availableServicesTable = `table[summary="Verfügbare Services"] tbody`
	addServiceButton       = `button[title="Verfügbare Services:Hinzufügen"]`
	removeServiceButton    = `button[title="Ausgewählter Service:Löschen"]`

	// serviceNameColumn is the display-name column of the available
	// services table.
	serviceNameColumn = 1

	// clearTimeout bounds each click in the clear loop; expiry means the
	// selected-services list is empty.
	clearTimeout = 2 * time.Second
)

// optionDisplayNames maps add-on identifiers to their display names in the
// available services table. Identifiers without an entry exist upstream but
// are not implemented here yet; they pause the run for manual handling.
var optionDisplayNames = map[order.OptionID]string{
	order.OptionDAZNYearly:      "DAZN 12M 18,99€",
	order.OptionDAZNMonthly:     "DAZN 1M 29,99€",
	order.OptionHDPlus:          "HD+ 1 MONAT 6€ PRESELECT",
	order.OptionMultiscreen:     "MULTISCREEN SERVICE",
	order.OptionPlus18:          "BLUE MOVIE/SELECT18+ DUMMY",
	order.OptionNetflixStandard: "HD NETFLIX 5€",
	order.OptionTrendSports:     "TRENDSPORTS 5,99€",
	order.OptionNetflixPremium:  "UHD NETFLIX 10€",
}

// specialOptions are excluded from generic table handling: they are carried
// by the UHD toggle, by the program-package composition (kids), or implicitly
// by the selected promotion.
var specialOptions = []order.OptionID{
	order.OptionHDPlusTrial,
	order.OptionUHD,
	order.OptionDAZNGeneric,
	order.OptionKids,
}

// reconcileOptions makes the selected-services list match the order's add-on
// set. It first clears all prior selections, so re-entering a partially
// filled contract is idempotent.
func (u *Uploader) reconcileOptions(o *order.Order) error {
	if o.HasOption(order.OptionDAZNGeneric) {
		return fmt.Errorf("%w: dazn_generic must be ordered as dazn_yearly or dazn_monthly", ErrInvalidOption)
	}

	if err := u.clearSelectedServices(); err != nil {
		return err
	}

	if err := u.driver.SetCheck("UHD-Sender", o.HasOption(order.OptionUHD)); err != nil {
		return err
	}

	for _, id := range o.Options {
		if lo.Contains(specialOptions, id) {
			continue
		}
		if err := u.addOption(id); err != nil {
			return err
		}
	}
	return nil
}

// clearSelectedServices clicks the remove action until it times out, which
// means the list is empty.
func (u *Uploader) clearSelectedServices() error {
	for {
		err := u.driver.Click(removeServiceButton, clearTimeout)
		if err == nil {
			u.log.Debugf("removed a pre-selected service")
			continue
		}
		if errors.Is(err, siebel.ErrTimeout) {
			return nil
		}
		return err
	}
}

// addOption selects one add-on in the available services table and adds it.
func (u *Uploader) addOption(id order.OptionID) error {
	name, ok := optionDisplayNames[id]
	if !ok {
		// Known upstream but not implemented here: hand over to a
		// human instead of failing the order.
		u.log.Warnf("no display name for option %q, pausing for manual selection", id)
		return u.driver.Pause()
	}

	table, err := u.driver.ExtractTable(availableServicesTable, pickerTableTimeout)
	if err != nil {
		return err
	}
	cell, ok := table.Index(serviceNameColumn)[name]
	if !ok {
		return fmt.Errorf("%w: %s (%q)", ErrOptionNotFound, id, name)
	}
	if err := u.driver.Click(cell.Selector, 0); err != nil {
		return err
	}
	return u.driver.Click(addServiceButton, 0)
}
