/*
payments.go - Payment application and paid-status transitions

PURPOSE:
  The three transforms that move a debt through its settlement state
  machine:

    Unpaid -> PartiallyPaid   first payment, balance still open
    PartiallyPaid -> Paid     payment clears the balance, or explicit toggle
    Paid -> Unpaid/Partial    payment removal reopens balance, or toggle

  Each transform returns a new Debt value; nothing is mutated in place.
  The store layer owns applying the result and its side effects.

POLICY DECISIONS:
  - TogglePaid to paid with zero recorded payments synthesizes a single
    full-amount "full settlement" payment so the balance agrees with the
    flag. Toggling back to unpaid leaves payment records intact: they are
    user-entered history, and deleting them would silently lose data. The
    remaining balance can therefore read 0 while the debt is unpaid.
  - ApplyPayment records whatever amount it is given. Overpayment
    rejection is the edge layer's job (see api package); the engine never
    re-validates or caps stored records retroactively.

SEE ALSO:
  - balance.go: how the resulting state is derived
  - store/store.go: persistence and reminder side effects per transform
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// FullSettlementNote marks the payment synthesized by TogglePaid when a
// debt with no recorded payments is marked paid.
const FullSettlementNote = "full settlement"

// ApplyPayment appends a payment and returns the new debt state. When the
// payment clears the remaining balance the paid flag is set as part of the
// same transformation.
func (d Debt) ApplyPayment(amount decimal.Decimal, note string, date time.Time) Debt {
	out := d.Clone()
	out.Payments = append(out.Payments, NewPayment(amount, note, date))
	if !out.RemainingAmount().IsPositive() {
		out.IsPaid = true
	}
	return out
}

// RemovePayment deletes the payment with the given id and returns the new
// state. A paid debt whose balance reopens is flipped back to unpaid.
func (d Debt) RemovePayment(paymentID string) (Debt, error) {
	idx := -1
	for i, p := range d.Payments {
		if p.ID == paymentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d, ErrPaymentNotFound
	}

	out := d.Clone()
	out.Payments = append(out.Payments[:idx], out.Payments[idx+1:]...)
	if out.IsPaid && out.RemainingAmount().IsPositive() {
		out.IsPaid = false
	}
	return out, nil
}

// TogglePaid flips the paid flag. Marking paid with no recorded payments
// synthesizes a full-amount payment so balance accounting stays consistent
// with the flag; marking unpaid leaves payments untouched.
func (d Debt) TogglePaid() Debt {
	out := d.Clone()
	out.IsPaid = !out.IsPaid
	if out.IsPaid && len(out.Payments) == 0 {
		out.Payments = append(out.Payments, NewPayment(out.Amount, FullSettlementNote, time.Time{}))
	}
	return out
}
