package ledger

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPaymentNotFound is returned by RemovePayment when the debt holds
	// no payment with the given id.
	ErrPaymentNotFound = errors.New("payment not found")
)
