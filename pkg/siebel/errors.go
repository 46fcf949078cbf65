package siebel

import "errors"

// Sentinel errors for the driver layer. ErrTimeout and ErrTableTimeout are
// control-flow signals at some call sites (a candidate table that never
// renders means "no ambiguity"); everything else is fatal for the order
// being processed.
var (
	// ErrTimeout is a bounded wait that elapsed without the element
	// reaching the requested state.
	ErrTimeout = errors.New("timed out waiting for element")

	// ErrElementNotFound means a selector did not resolve to a control.
	ErrElementNotFound = errors.New("element not found")

	// ErrTableTimeout means a table region never became visible within
	// its bounded timeout.
	ErrTableTimeout = errors.New("table not visible within timeout")

	// ErrPostalCodeNotFound means the street candidate table rendered but
	// contained no row keyed by the target postal code.
	ErrPostalCodeNotFound = errors.New("postal code not found in street table")

	// ErrLocationUnresolved means the city candidate list was exhausted
	// without the postal-code field converging on the target.
	ErrLocationUnresolved = errors.New("location could not be resolved")
)
