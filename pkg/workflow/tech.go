package workflow

import (
	"github.com/entrhq/skyorder/pkg/order"
	"github.com/entrhq/skyorder/pkg/siebel"
)

const (
	verifyDevicesButton = `button[title="Gerätemerkmale:Prüfen"]`

	// deliveryScope restricts field lookups to the delivery-address
	// applet; its field labels collide with the customer section's.
	deliveryScope = `div[title="Lieferadresse"]`
)

// handleTech runs the device verification and, when the order ships to a
// differing delivery address, fills the delivery applet.
func (u *Uploader) handleTech(o *order.Order) error {
	d := u.driver

	if err := d.GoToSection(siebel.SectionTech); err != nil {
		return err
	}
	if err := d.Click(verifyDevicesButton, 0); err != nil {
		return err
	}

	if o.Delivery == nil {
		return nil
	}

	if err := d.ResolveLocation(deliveryScope, siebel.Location{
		City:       o.Delivery.City,
		Street:     o.Delivery.Street,
		PostalCode: o.Delivery.PostalCode,
	}); err != nil {
		return err
	}

	fields := []struct {
		label string
		value string
	}{
		{"Anrede", salutationValue(o.Delivery.Salutation)},
		{"Titel", titleValue(o.Delivery.Title)},
		{"Vorname", o.Delivery.FirstName},
		{"Name", o.Delivery.LastName},
		{"DHL Postnummer/Adresszusatz", o.Delivery.HouseNumber},
	}
	for _, f := range fields {
		if err := d.WriteFieldIn(deliveryScope, f.label, f.value); err != nil {
			return err
		}
	}
	return nil
}
