// Package order defines the structured subscription order record consumed by
// the upload workflow, along with validation and the derived program-package
// labels the remote order form expects.
package order

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// ReceiveType is the delivery technology of the subscription.
type ReceiveType string

const (
	ReceiveInternet  ReceiveType = "internet"
	ReceiveCable     ReceiveType = "cable"
	ReceiveSatellite ReceiveType = "satellit"
)

// BasePackage is the core subscription tier.
type BasePackage string

const (
	Entertainment     BasePackage = "entertainment"
	EntertainmentPlus BasePackage = "entertainmentplus"
)

// PremiumPackage is a content bundle layered on a base package.
type PremiumPackage string

const (
	Cinema     PremiumPackage = "cinema"
	Sport      PremiumPackage = "sport"
	Bundesliga PremiumPackage = "bundesliga"
)

// OptionID identifies an optional add-on service.
type OptionID string

const (
	OptionDAZNYearly      OptionID = "dazn_yearly"
	OptionDAZNMonthly     OptionID = "dazn_monthly"
	OptionDAZNGeneric     OptionID = "dazn_generic"
	OptionHDPlus          OptionID = "hdplus"
	OptionHDPlusTrial     OptionID = "hdplus4monategratis"
	OptionMultiscreen     OptionID = "multiscreen"
	OptionPlus18          OptionID = "plus18"
	OptionNetflixStandard OptionID = "netflixstandard"
	OptionNetflixPremium  OptionID = "netflixpremium"
	OptionTrendSports     OptionID = "trendsports"
	OptionUHD             OptionID = "uhd"
	OptionKids            OptionID = "kids"
)

// NoSalutation and NoTitle are the placeholder values the upstream form
// parser emits when the subscriber left those fields blank.
const (
	NoSalutation = "keine_angabe"
	NoTitle      = "Kein_Titel"
)

// Address is a billing address.
type Address struct {
	Street      string `json:"street" yaml:"street"`
	HouseNumber string `json:"house_number" yaml:"house_number"`
	Supplement  string `json:"supplement,omitempty" yaml:"supplement,omitempty"`
	PostalCode  string `json:"postal_code" yaml:"postal_code"`
	City        string `json:"city" yaml:"city"`
}

// DeliveryAddress is a differing delivery address, including the recipient
// identity fields the delivery applet carries. Street may name a Packstation
// and HouseNumber may carry a DHL customer number instead.
type DeliveryAddress struct {
	Salutation  string `json:"salutation" yaml:"salutation"`
	Title       string `json:"title" yaml:"title"`
	FirstName   string `json:"first_name" yaml:"first_name"`
	LastName    string `json:"last_name" yaml:"last_name"`
	Street      string `json:"street" yaml:"street"`
	HouseNumber string `json:"house_number" yaml:"house_number"`
	Supplement  string `json:"supplement,omitempty" yaml:"supplement,omitempty"`
	PostalCode  string `json:"postal_code" yaml:"postal_code"`
	City        string `json:"city" yaml:"city"`
}

// DirectDebit holds SEPA direct-debit payment details.
type DirectDebit struct {
	IBAN string `json:"iban" yaml:"iban"`
	BIC  string `json:"bic" yaml:"bic"`
}

// BankTransfer holds legacy bank-transfer payment details.
type BankTransfer struct {
	BankCode      string `json:"bank_code" yaml:"bank_code"`
	AccountNumber string `json:"account_number" yaml:"account_number"`
}

// Order is one structured subscription order. It is immutable input: the
// workflow reads it but never modifies it.
type Order struct {
	Salutation  string   `json:"salutation" yaml:"salutation"`
	Title       string   `json:"title" yaml:"title"`
	FirstName   string   `json:"first_name" yaml:"first_name"`
	LastName    string   `json:"last_name" yaml:"last_name"`
	BirthDate   string   `json:"birth_date" yaml:"birth_date"`
	Email       string   `json:"email" yaml:"email"`
	Phone       string   `json:"phone" yaml:"phone"`
	ExtraPhones []string `json:"extra_phones,omitempty" yaml:"extra_phones,omitempty"`

	Billing  Address          `json:"billing" yaml:"billing"`
	Delivery *DeliveryAddress `json:"delivery,omitempty" yaml:"delivery,omitempty"`

	// Exactly one of DirectDebit and BankTransfer must be set.
	DirectDebit  *DirectDebit  `json:"direct_debit,omitempty" yaml:"direct_debit,omitempty"`
	BankTransfer *BankTransfer `json:"bank_transfer,omitempty" yaml:"bank_transfer,omitempty"`

	// AccountHolder is empty when the subscriber is the account holder,
	// otherwise the alternate holder's full name.
	AccountHolder string `json:"account_holder,omitempty" yaml:"account_holder,omitempty"`

	ReceiveType   ReceiveType `json:"receive_type" yaml:"receive_type"`
	Hardware      string      `json:"hardware" yaml:"hardware"`
	PaybackNumber string      `json:"payback_number,omitempty" yaml:"payback_number,omitempty"`

	BasePackage     BasePackage      `json:"base_package" yaml:"base_package"`
	PremiumPackages []PremiumPackage `json:"premium_packages,omitempty" yaml:"premium_packages,omitempty"`
	Options         []OptionID       `json:"options,omitempty" yaml:"options,omitempty"`
}

var (
	validReceiveTypes = []ReceiveType{ReceiveInternet, ReceiveCable, ReceiveSatellite}
	validBasePackages = []BasePackage{Entertainment, EntertainmentPlus}
	validPremiums     = []PremiumPackage{Cinema, Sport, Bundesliga}
)

// Validate checks the shape invariants the workflow relies on. It returns
// the first violation found.
func (o *Order) Validate() error {
	if !lo.Contains(validBasePackages, o.BasePackage) {
		return fmt.Errorf("unknown base package %q", o.BasePackage)
	}
	if !lo.Contains(validReceiveTypes, o.ReceiveType) {
		return fmt.Errorf("unknown receive type %q", o.ReceiveType)
	}
	for _, p := range o.PremiumPackages {
		if !lo.Contains(validPremiums, p) {
			return fmt.Errorf("unknown premium package %q", p)
		}
	}
	if (o.DirectDebit == nil) == (o.BankTransfer == nil) {
		return fmt.Errorf("exactly one of direct_debit and bank_transfer must be set")
	}
	if o.Delivery != nil {
		if o.Delivery.City == "" || o.Delivery.Street == "" || o.Delivery.PostalCode == "" {
			return fmt.Errorf("delivery address is incomplete")
		}
	}
	return nil
}

// HasOption reports whether the order requests the given add-on.
func (o *Order) HasOption(id OptionID) bool {
	return lo.Contains(o.Options, id)
}

// premiumPriority is the fixed rendering order of premium packages in the
// program-package label.
var premiumPriority = []PremiumPackage{Cinema, Sport, Bundesliga}

// baseLabel is the display form of a base package.
func baseLabel(p BasePackage) string {
	switch p {
	case EntertainmentPlus:
		return "ENTERTAINMENT PLUS"
	default:
		return strings.ToUpper(string(p))
	}
}

// ProgramPackage composes the program-package label the order form expects:
// "SKY <base>" joined with the premium packages in fixed priority order, and
// "KIDS" appended last when the kids option is requested.
func (o *Order) ProgramPackage() string {
	parts := []string{"SKY " + baseLabel(o.BasePackage)}

	premiums := make([]PremiumPackage, len(o.PremiumPackages))
	copy(premiums, o.PremiumPackages)
	sortByPriority(premiums)
	for _, p := range premiums {
		parts = append(parts, strings.ToUpper(string(p)))
	}

	if o.HasOption(OptionKids) {
		parts = append(parts, "KIDS")
	}
	return strings.Join(parts, " + ")
}

// sortByPriority orders premium packages by their index in premiumPriority.
// The sort is stable so unknown values keep their input order.
func sortByPriority(premiums []PremiumPackage) {
	idx := func(p PremiumPackage) int {
		for i, q := range premiumPriority {
			if p == q {
				return i
			}
		}
		return len(premiumPriority)
	}
	sort.SliceStable(premiums, func(i, j int) bool {
		return idx(premiums[i]) < idx(premiums[j])
	})
}

// PackageFilter derives the free-text package filter: the base package label
// plus "KIDS" when the kids option is requested.
func (o *Order) PackageFilter() string {
	filter := baseLabel(o.BasePackage)
	if o.HasOption(OptionKids) {
		filter += " KIDS"
	}
	return strings.TrimSpace(filter)
}

// LoadFile reads an order record from a YAML or JSON file, chosen by
// extension, and validates it.
func LoadFile(path string) (*Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read order file: %w", err)
	}

	var o Order
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("failed to parse order YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("failed to parse order JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported order file extension %q", ext)
	}

	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}
	return &o, nil
}
