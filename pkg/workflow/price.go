package workflow

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/entrhq/skyorder/pkg/catalog"
	"github.com/entrhq/skyorder/pkg/order"
	"github.com/entrhq/skyorder/pkg/siebel"
)

const (
	refreshServicesButton = `button[title="Service:Aktualisieren"]`
	serviceTableSelector  = `table[summary="Service"] tbody`

	subscriptionFeeLabel = "Abogebühren"

	serviceProductColumn = 1
	servicePriceColumn   = 2

	// priceEpsilon absorbs float noise when comparing parsed display
	// prices against catalog sums. Displayed prices carry two decimals.
	priceEpsilon = 0.005
)

// Estimate holds the two independently derived monetary figures checked
// against the form: the package-only price and the total including the
// accounted add-ons.
type Estimate struct {
	Package catalog.Price
	Total   catalog.Price
}

// accountedOptions are the add-ons that contribute to the displayed
// subscription fee. The others are billed separately by their providers.
var accountedOptions = []order.OptionID{
	order.OptionKids,
	order.OptionNetflixStandard,
	order.OptionNetflixPremium,
}

// EstimatePrice derives the expected prices purely from the order record and
// the pricing catalog.
func EstimatePrice(o *order.Order) (Estimate, error) {
	ids := []string{string(o.BasePackage)}
	for _, p := range o.PremiumPackages {
		ids = append(ids, string(p))
	}
	pkg, err := catalog.Sum(ids...)
	if err != nil {
		return Estimate{}, err
	}

	var optionIDs []string
	for _, id := range o.Options {
		for _, accounted := range accountedOptions {
			if id == accounted {
				optionIDs = append(optionIDs, string(id))
			}
		}
	}
	options, err := catalog.Sum(optionIDs...)
	if err != nil {
		return Estimate{}, err
	}

	return Estimate{
		Package: pkg,
		Total:   pkg.Add(options),
	}, nil
}

// handleOverview recomputes the form's service list and asserts that the
// displayed prices match the estimate. Any mismatch pauses the run for
// manual inspection and fails the order.
func (u *Uploader) handleOverview(o *order.Order) error {
	d := u.driver

	if err := d.GoToSection(siebel.SectionOverview); err != nil {
		return err
	}
	if err := d.Click(refreshServicesButton, 0); err != nil {
		return err
	}

	estimate, err := EstimatePrice(o)
	if err != nil {
		return err
	}
	u.log.Infof("price estimate: package %.2f/month, total %.2f/year",
		estimate.Package.Monthly, estimate.Total.Annual)

	if err := u.checkSubscriptionFee(estimate); err != nil {
		return err
	}
	if err := u.checkPackagePrice(o, estimate); err != nil {
		return err
	}

	u.log.Infof("price check passed")
	return nil
}

// checkSubscriptionFee compares the displayed annual subscription fee
// against the estimated total.
func (u *Uploader) checkSubscriptionFee(estimate Estimate) error {
	displayed, err := u.driver.ReadField(subscriptionFeeLabel)
	if err != nil {
		return err
	}
	fee, err := parsePrice(displayed)
	if err != nil {
		return fmt.Errorf("cannot parse subscription fee %q: %w", displayed, err)
	}
	if math.Abs(fee-estimate.Total.Annual) > priceEpsilon {
		return u.priceMismatch("subscription fee", fee, estimate.Total.Annual)
	}
	return nil
}

// checkPackagePrice compares the service-table row of the composed
// program-package label against the estimated package monthly price.
func (u *Uploader) checkPackagePrice(o *order.Order, estimate Estimate) error {
	table, err := u.driver.ExtractTable(serviceTableSelector, pickerTableTimeout)
	if err != nil {
		return err
	}
	prices := table.MapColumns(serviceProductColumn, servicePriceColumn)

	label := o.ProgramPackage()
	displayed, ok := prices[label]
	if !ok {
		_ = u.driver.Pause()
		return fmt.Errorf("%w: program package %q not in service table", ErrPriceMismatch, label)
	}
	monthly, err := parsePrice(displayed)
	if err != nil {
		return fmt.Errorf("cannot parse package price %q: %w", displayed, err)
	}
	if math.Abs(monthly-estimate.Package.Monthly) > priceEpsilon {
		return u.priceMismatch(label, monthly, estimate.Package.Monthly)
	}
	return nil
}

// priceMismatch pauses for inspection and reports the divergence.
func (u *Uploader) priceMismatch(what string, displayed, estimated float64) error {
	_ = u.driver.Pause()
	return fmt.Errorf("%w: %s displayed %.2f, estimated %.2f", ErrPriceMismatch, what, displayed, estimated)
}

// parsePrice parses a locale-decimal-comma price display.
func parsePrice(s string) (float64, error) {
	normalized := strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	return strconv.ParseFloat(normalized, 64)
}
