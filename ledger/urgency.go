package ledger

import (
	"math"
	"time"
)

// =============================================================================
// DUE-DATE CLASSIFICATION
// =============================================================================

// IsOverdue reports whether the due date has passed for an unpaid debt.
// A paid debt is never overdue, whatever its due date says.
func (d Debt) IsOverdue(now time.Time) bool {
	if d.DueDate == nil || d.IsPaid {
		return false
	}
	return now.After(*d.DueDate)
}

// RemainingDays returns the calendar-day difference from now to the due
// date, negative once the deadline has passed. The second return is false
// when the debt has no due date.
func (d Debt) RemainingDays(now time.Time) (int, bool) {
	if d.DueDate == nil {
		return 0, false
	}
	// Compare calendar dates in now's location; rounding absorbs DST days.
	diff := startOfDay(d.DueDate.In(now.Location())).Sub(startOfDay(now))
	return int(math.Round(diff.Hours() / 24)), true
}

// UrgencyAt classifies the debt by days until its due date:
//
//	< 0    overdue
//	0..3   critical
//	4..7   high
//	8..14  medium
//	> 14   normal
//
// Boundaries are inclusive on the lower band: exactly 3 days out is still
// critical, exactly 7 high, exactly 14 medium. Paid debts and debts
// without a due date are normal.
func (d Debt) UrgencyAt(now time.Time) Urgency {
	if d.IsPaid {
		return UrgencyNormal
	}
	days, ok := d.RemainingDays(now)
	if !ok {
		return UrgencyNormal
	}
	switch {
	case days < 0:
		return UrgencyOverdue
	case days <= 3:
		return UrgencyCritical
	case days <= 7:
		return UrgencyHigh
	case days <= 14:
		return UrgencyMedium
	default:
		return UrgencyNormal
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
