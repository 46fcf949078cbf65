package workflow

import (
	"fmt"

	"github.com/entrhq/skyorder/pkg/order"
	"github.com/entrhq/skyorder/pkg/siebel"
)

// receiveTypeValues maps the order's receive type onto the form's enum.
var receiveTypeValues = map[order.ReceiveType]string{
	order.ReceiveInternet:  "INTERNET",
	order.ReceiveCable:     "CABLE",
	order.ReceiveSatellite: "SAT",
}

// handleAddress fills the Address section: receive type, billing address via
// the location resolver, hardware and the cooperation program fields. The
// pipeline starts on this section, so no section switch is needed.
func (u *Uploader) handleAddress(o *order.Order) error {
	d := u.driver

	value, ok := receiveTypeValues[o.ReceiveType]
	if !ok {
		return fmt.Errorf("unknown receive type %q", o.ReceiveType)
	}
	if err := d.WriteField("Empfangsart", value); err != nil {
		return err
	}

	if err := d.ResolveLocation("", siebel.Location{
		City:       o.Billing.City,
		Street:     o.Billing.Street,
		PostalCode: o.Billing.PostalCode,
	}); err != nil {
		return err
	}
	if err := d.WriteField("Hausnummer", o.Billing.HouseNumber); err != nil {
		return err
	}
	if err := d.WriteField("Adresszusatz", o.Billing.Supplement); err != nil {
		return err
	}

	// Pure internet products ship no receiver hardware.
	if o.ReceiveType != order.ReceiveInternet {
		if err := d.WriteField("Hardware des Kunden", o.Hardware); err != nil {
			return err
		}
	}

	cooperation := "KEINE KOOPERATION"
	if o.PaybackNumber != "" {
		cooperation = "PAYBACK"
	}
	if err := d.WriteField("Vertragstyp", cooperation); err != nil {
		return err
	}
	if o.PaybackNumber != "" {
		if err := d.WriteField("Externe Kundennummer", o.PaybackNumber); err != nil {
			return err
		}
	}
	return nil
}
