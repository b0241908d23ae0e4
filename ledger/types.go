/*
Package ledger implements the debt ledger engine.

PURPOSE:
  This package contains the pure domain model for personal debts: the Debt
  aggregate, its owned Payment entities, and every derived-state rule
  (remaining balance, payment progress, paid status, overdue/urgency
  classification). There is no I/O here - all functions are value
  transformations, which keeps the accounting rules trivially testable.

KEY CONCEPTS IN THIS FILE (types.go):
  - Debt: the aggregate root, one entry of money owed between the owner
    and a counterparty
  - Payment: a recorded reduction against a debt's principal, owned
    exclusively by its parent Debt
  - PaymentStatus: Unpaid / PartiallyPaid / Paid, derived from payments
  - Urgency: how close the due date is, used for prioritization

DESIGN PRINCIPLES:
  1. Precision: amounts use decimal.Decimal, never floats
  2. Value semantics: transforms return a new Debt, callers own mutation
  3. IsPaid is a flag kept consistent with the balance by the transforms,
     but it remains overridable (TogglePaid) - see payments.go

SEE ALSO:
  - balance.go: remaining amount, progress, status derivation
  - urgency.go: due-date classification
  - payments.go: ApplyPayment / RemovePayment / TogglePaid transforms
*/
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// DEBT - Aggregate root
// =============================================================================

// Debt represents money owed between the owner and a counterparty.
// Amount is the principal, fixed at creation; the live balance is always
// derived from Payments (see balance.go).
type Debt struct {
	ID           string
	PersonName   string
	IsOwedToMe   bool // true: counterparty owes the owner; false: the owner owes
	Amount       decimal.Decimal
	Currency     string
	DueDate      *time.Time // nil means no deadline
	Notes        string
	InterestRate decimal.Decimal // informational only, never compounded
	IsPaid       bool
	DateCreated  time.Time
	Payments     []Payment
}

// Payment is a recorded partial (or full) settlement against a Debt.
// It has no lifecycle of its own - it exists only inside its parent Debt.
type Payment struct {
	ID     string
	Amount decimal.Decimal
	Date   time.Time
	Note   string
}

// NewDebt creates a debt with a fresh id and creation timestamp.
func NewDebt(personName string, amount decimal.Decimal, currency string, owedToMe bool) Debt {
	return Debt{
		ID:          uuid.NewString(),
		PersonName:  personName,
		IsOwedToMe:  owedToMe,
		Amount:      amount,
		Currency:    currency,
		DateCreated: time.Now(),
	}
}

// NewPayment creates a payment entry. A zero date defaults to now.
func NewPayment(amount decimal.Decimal, note string, date time.Time) Payment {
	if date.IsZero() {
		date = time.Now()
	}
	return Payment{
		ID:     uuid.NewString(),
		Amount: amount,
		Date:   date,
		Note:   note,
	}
}

// Clone returns a deep copy of the debt. Transforms operate on clones so
// the caller's value is never mutated in place.
func (d Debt) Clone() Debt {
	out := d
	if d.DueDate != nil {
		due := *d.DueDate
		out.DueDate = &due
	}
	out.Payments = make([]Payment, len(d.Payments))
	copy(out.Payments, d.Payments)
	return out
}

// =============================================================================
// STATUS & URGENCY
// =============================================================================

// PaymentStatus is the settlement state of a debt.
type PaymentStatus string

const (
	StatusUnpaid        PaymentStatus = "unpaid"
	StatusPartiallyPaid PaymentStatus = "partially_paid"
	StatusPaid          PaymentStatus = "paid"
)

// Urgency classifies how close a debt's due date is.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
	UrgencyOverdue  Urgency = "overdue"
)
