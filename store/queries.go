package store

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/norwaiw/NetDebt/ledger"
)

// =============================================================================
// QUERY PROJECTIONS - Pure reads over the current collection
// =============================================================================

// Get returns a copy of the debt with the given id.
func (s *Store) Get(id string) (ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return ledger.Debt{}, ErrDebtNotFound
	}
	return s.debts[idx].Clone(), nil
}

// TotalOwedToMe sums remaining amounts over unpaid debts owed to the owner.
func (s *Store) TotalOwedToMe() decimal.Decimal {
	return s.sumRemaining(true)
}

// TotalIOwe sums remaining amounts over unpaid debts the owner owes.
func (s *Store) TotalIOwe() decimal.Decimal {
	return s.sumRemaining(false)
}

func (s *Store) sumRemaining(owedToMe bool) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, d := range s.debts {
		if d.IsOwedToMe == owedToMe && !d.IsPaid {
			total = total.Add(d.RemainingAmount())
		}
	}
	return total
}

// OverdueDebts returns debts whose due date has passed and are unpaid.
func (s *Store) OverdueDebts(now time.Time) []ledger.Debt {
	return s.filter(func(d ledger.Debt) bool { return d.IsOverdue(now) })
}

// UnpaidDebts returns debts not marked paid.
func (s *Store) UnpaidDebts() []ledger.Debt {
	return s.filter(func(d ledger.Debt) bool { return !d.IsPaid })
}

// PaidDebts returns debts marked paid.
func (s *Store) PaidDebts() []ledger.Debt {
	return s.filter(func(d ledger.Debt) bool { return d.IsPaid })
}

func (s *Store) filter(keep func(ledger.Debt) bool) []ledger.Debt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ledger.Debt
	for _, d := range s.debts {
		if keep(d) {
			out = append(out, d.Clone())
		}
	}
	return out
}

// Summary aggregates the headline numbers the main screen shows.
type Summary struct {
	TotalOwedToMe decimal.Decimal
	TotalIOwe     decimal.Decimal
	UnpaidCount   int
	PaidCount     int
	OverdueCount  int
}

// Summarize computes the aggregate view at a single point in time.
func (s *Store) Summarize(now time.Time) Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		TotalOwedToMe: decimal.Zero,
		TotalIOwe:     decimal.Zero,
	}
	for _, d := range s.debts {
		if d.IsPaid {
			sum.PaidCount++
		} else {
			sum.UnpaidCount++
			if d.IsOwedToMe {
				sum.TotalOwedToMe = sum.TotalOwedToMe.Add(d.RemainingAmount())
			} else {
				sum.TotalIOwe = sum.TotalIOwe.Add(d.RemainingAmount())
			}
		}
		if d.IsOverdue(now) {
			sum.OverdueCount++
		}
	}
	return sum
}

// =============================================================================
// LIST - filter / search / sort
// =============================================================================

// Direction filters debts by who owes whom.
type Direction string

const (
	DirectionAll      Direction = ""
	DirectionOwedToMe Direction = "owed_to_me"
	DirectionIOwe     Direction = "i_owe"
)

// StatusFilter narrows a listing by settlement state.
type StatusFilter string

const (
	FilterAll     StatusFilter = ""
	FilterUnpaid  StatusFilter = "unpaid"
	FilterPaid    StatusFilter = "paid"
	FilterOverdue StatusFilter = "overdue"
)

// SortKey orders a listing.
type SortKey string

const (
	SortByCreated   SortKey = ""
	SortByDueDate   SortKey = "due_date"
	SortByAmount    SortKey = "amount"
	SortByRemaining SortKey = "remaining"
	SortByName      SortKey = "name"
)

// Query describes a listing: filters, a case-insensitive search over
// person name and notes, and a sort order.
type Query struct {
	Direction Direction
	Status    StatusFilter
	Search    string
	Sort      SortKey
	Ascending bool
}

// List returns the debts matching the query, sorted. The returned slice
// holds copies; mutating it does not touch the store.
func (s *Store) List(q Query, now time.Time) []ledger.Debt {
	matches := s.filter(func(d ledger.Debt) bool { return q.matches(d, now) })
	q.sortDebts(matches)
	return matches
}

func (q Query) matches(d ledger.Debt, now time.Time) bool {
	switch q.Direction {
	case DirectionOwedToMe:
		if !d.IsOwedToMe {
			return false
		}
	case DirectionIOwe:
		if d.IsOwedToMe {
			return false
		}
	}

	switch q.Status {
	case FilterUnpaid:
		if d.IsPaid {
			return false
		}
	case FilterPaid:
		if !d.IsPaid {
			return false
		}
	case FilterOverdue:
		if !d.IsOverdue(now) {
			return false
		}
	}

	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(d.PersonName), needle) &&
			!strings.Contains(strings.ToLower(d.Notes), needle) {
			return false
		}
	}
	return true
}

// sortDebts orders ascending by the sort key, reversed when Ascending is
// false. The zero Query therefore lists newest first.
func (q Query) sortDebts(debts []ledger.Debt) {
	less := func(a, b ledger.Debt) bool {
		switch q.Sort {
		case SortByDueDate:
			// Debts without a due date sort after dated ones.
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return a.DateCreated.Before(b.DateCreated)
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		case SortByAmount:
			return a.Amount.LessThan(b.Amount)
		case SortByRemaining:
			return a.RemainingAmount().LessThan(b.RemainingAmount())
		case SortByName:
			return strings.ToLower(a.PersonName) < strings.ToLower(b.PersonName)
		default:
			return a.DateCreated.Before(b.DateCreated)
		}
	}

	sort.SliceStable(debts, func(i, j int) bool {
		if q.Ascending {
			return less(debts[i], debts[j])
		}
		return less(debts[j], debts[i])
	})
}
