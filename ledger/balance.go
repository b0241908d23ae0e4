package ledger

import "github.com/shopspring/decimal"

// =============================================================================
// BALANCE DERIVATION - Pure reads over a Debt value
// =============================================================================

// PaidTotal returns the sum of all recorded payment amounts.
func (d Debt) PaidTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// RemainingAmount returns principal minus payments, floored at zero.
// Manually entered payments may exceed the principal; the floor keeps the
// displayed balance sane without rewriting the payment records.
func (d Debt) RemainingAmount() decimal.Decimal {
	remaining := d.Amount.Sub(d.PaidTotal())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// PaymentProgress returns paid/principal clamped to [0,1].
// A zero principal yields 0 (guards division by zero).
func (d Debt) PaymentProgress() decimal.Decimal {
	if !d.Amount.IsPositive() {
		return decimal.Zero
	}
	progress := d.PaidTotal().Div(d.Amount)
	one := decimal.NewFromInt(1)
	if progress.GreaterThan(one) {
		return one
	}
	if progress.IsNegative() {
		return decimal.Zero
	}
	return progress
}

// Status derives the settlement state. The IsPaid flag wins: a debt toggled
// back to unpaid reads Unpaid even when its payments already cover the
// principal (the flag is overridable, the records are history).
func (d Debt) Status() PaymentStatus {
	if d.IsPaid {
		return StatusPaid
	}
	if len(d.Payments) > 0 && d.RemainingAmount().IsPositive() {
		return StatusPartiallyPaid
	}
	return StatusUnpaid
}
