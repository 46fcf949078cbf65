package workflow

import "errors"

// Sentinel errors for order processing. All of them are fatal for the order
// in flight; none are retried automatically.
var (
	// ErrTooManyPhoneNumbers means the order carries more extra phone
	// numbers than the form has fields for, indicating malformed
	// upstream data.
	ErrTooManyPhoneNumbers = errors.New("too many extra phone numbers")

	// ErrInvalidOption means an add-on identifier that is never valid
	// for ordering was requested.
	ErrInvalidOption = errors.New("invalid add-on option")

	// ErrOptionNotFound means a requested add-on is absent from the
	// remote service catalog.
	ErrOptionNotFound = errors.New("add-on option not available")

	// ErrPromotionNotFound means the fixed promotion code is absent from
	// the promotions table.
	ErrPromotionNotFound = errors.New("promotion not found")

	// ErrPriceMismatch means a UI-displayed price diverges from the
	// independently derived estimate. This is the system's core safety
	// property; processing halts for manual inspection.
	ErrPriceMismatch = errors.New("price mismatch")

	// ErrBankIdentifierMismatch means the bank identifier the form
	// derived from the IBAN contradicts the one on the order.
	ErrBankIdentifierMismatch = errors.New("bank identifier mismatch")
)
