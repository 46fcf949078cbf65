package siebel

import "fmt"

// Section is one logical page of the five-step order form. The values are
// the literal button labels of the target system.
type Section string

const (
	SectionAddress  Section = "Adresse"
	SectionContract Section = "Vertrag"
	SectionCustomer Section = "Kunde & Bezahlung"
	SectionTech     Section = "Technik & Services"
	SectionOverview Section = "Übersicht"
)

// Sections lists all form sections in their forward order.
var Sections = []Section{
	SectionAddress,
	SectionContract,
	SectionCustomer,
	SectionTech,
	SectionOverview,
}

func (s Section) selector() string {
	return fmt.Sprintf(`button:has-text("%s")`, s)
}

// GoToSection activates the given form section and waits for it to settle.
// The current section's button is disabled, so re-entering it is a no-op.
func (d *Driver) GoToSection(section Section) error {
	selector := section.selector()

	disabled, err := d.page.IsDisabled(selector)
	if err != nil {
		return locateErr(err, string(section))
	}
	if disabled {
		d.log.Debugf("section %q is already selected", section)
		return nil
	}

	d.log.Infof("switching to section %q", section)
	if err := d.page.Click(selector, 0); err != nil {
		return locateErr(err, string(section))
	}
	return d.settle()
}
