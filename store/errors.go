package store

import (
	"errors"

	"github.com/norwaiw/NetDebt/ledger"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDebtNotFound is returned by any id-keyed operation when the
	// collection holds no debt with that id.
	ErrDebtNotFound = errors.New("debt not found")

	// ErrPaymentNotFound is re-exported from the ledger so callers only
	// need this package's errors for store operations.
	ErrPaymentNotFound = ledger.ErrPaymentNotFound
)
