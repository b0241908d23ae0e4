/*
Package store owns the canonical debt collection.

PURPOSE:
  The Store is the single holder of all Debt aggregates. Every mutation
  goes through a ledger transform, is persisted, and triggers the reminder
  side effect - in that order. Nothing else in the process holds a mutable
  reference to a debt.

MUTATION PIPELINE:
  command -> ledger transform -> persist snapshot -> notify/export edges

BEST-EFFORT EDGES:
  Persistence, reminders and export are deliberately best-effort: failures
  are logged and never surfaced or rolled back. The in-memory collection
  is the source of truth for the session; durability is a side effect,
  not a precondition.

NOT-FOUND CONTRACT:
  Operations keyed by id return ErrDebtNotFound (ErrPaymentNotFound for
  payments) rather than silently no-oping, so the edge layer can answer
  404 deterministically.

SEE ALSO:
  - ledger: the pure transforms applied here
  - store/sqlite: durable Persistence implementation
  - notify: Notifier implementation
*/
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/norwaiw/NetDebt/ledger"
)

// DefaultLeadDays is how many days before the due date a reminder fires.
const DefaultLeadDays = 3

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Persistence saves and restores the whole debt collection. Save is
// best-effort; Load should degrade to an empty collection rather than
// failing the caller.
type Persistence interface {
	Save(ctx context.Context, debts []ledger.Debt) error
	Load(ctx context.Context) ([]ledger.Debt, error)
}

// Notifier schedules one reminder per debt, keyed by debt id.
type Notifier interface {
	// Schedule arranges a reminder leadDays before the debt's due date.
	// No-op if the debt has no due date, is paid, or the fire time has
	// already passed.
	Schedule(debt ledger.Debt, leadDays int)
	// Cancel removes any pending reminder for the id. Idempotent.
	Cancel(debtID string)
}

// Exporter pushes a debt row to an external sink (spreadsheet, analytics).
// Implementations are fire-and-forget and must never block on failure.
type Exporter interface {
	Append(debt ledger.Debt)
}

// NopExporter is the Exporter used when no sink is configured.
type NopExporter struct{}

func (NopExporter) Append(ledger.Debt) {}

// =============================================================================
// STORE
// =============================================================================

// Options configures a Store. Persistence and Notifier are required;
// Exporter, Logger and LeadDays fall back to sensible defaults.
type Options struct {
	Persistence Persistence
	Notifier    Notifier
	Exporter    Exporter
	Logger      *slog.Logger
	LeadDays    int
}

// Store owns the debt collection and mediates all mutation through the
// ledger transforms.
type Store struct {
	mu       sync.RWMutex
	debts    []ledger.Debt
	persist  Persistence
	notifier Notifier
	exporter Exporter
	log      *slog.Logger
	leadDays int
}

// New builds a Store, loads the persisted collection and reschedules
// reminders for every unpaid debt with a due date. A load failure is
// logged and the store starts empty.
func New(ctx context.Context, opts Options) *Store {
	s := &Store{
		persist:  opts.Persistence,
		notifier: opts.Notifier,
		exporter: opts.Exporter,
		log:      opts.Logger,
		leadDays: opts.LeadDays,
	}
	if s.exporter == nil {
		s.exporter = NopExporter{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.leadDays <= 0 {
		s.leadDays = DefaultLeadDays
	}

	debts, err := s.persist.Load(ctx)
	if err != nil {
		s.log.Error("load debts failed, starting empty", "err", err)
		debts = nil
	}
	s.debts = debts

	for _, d := range s.debts {
		s.notifier.Schedule(d, s.leadDays)
	}
	return s
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Add appends a fully-formed debt. Validation (positive principal,
// non-empty name) is the edge's responsibility; the store trusts its input.
func (s *Store) Add(ctx context.Context, debt ledger.Debt) {
	s.mu.Lock()
	s.debts = append(s.debts, debt)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifier.Schedule(debt, s.leadDays)
	s.exporter.Append(debt)
}

// Update replaces the stored debt with the same id and reschedules its
// reminder from the new due date.
func (s *Store) Update(ctx context.Context, debt ledger.Debt) error {
	s.mu.Lock()
	idx := s.indexLocked(debt.ID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrDebtNotFound
	}
	s.debts[idx] = debt
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifier.Cancel(debt.ID)
	s.notifier.Schedule(debt, s.leadDays)
	return nil
}

// Delete removes the debt and cancels any pending reminder.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrDebtNotFound
	}
	s.debts = append(s.debts[:idx], s.debts[idx+1:]...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.notifier.Cancel(id)
	return nil
}

// AddPayment applies a payment through the ledger transform. A payment
// that settles the debt cancels its reminder.
func (s *Store) AddPayment(ctx context.Context, id string, amount decimal.Decimal, note string) (ledger.Debt, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ledger.Debt{}, ErrDebtNotFound
	}
	updated := s.debts[idx].ApplyPayment(amount, note, time.Now())
	s.debts[idx] = updated
	s.persistLocked(ctx)
	s.mu.Unlock()

	if updated.IsPaid {
		s.notifier.Cancel(id)
	}
	return updated, nil
}

// RemovePayment removes a payment. A debt that reverts to unpaid gets its
// reminder rescheduled if it still has a due date.
func (s *Store) RemovePayment(ctx context.Context, id, paymentID string) (ledger.Debt, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ledger.Debt{}, ErrDebtNotFound
	}
	wasPaid := s.debts[idx].IsPaid
	updated, err := s.debts[idx].RemovePayment(paymentID)
	if err != nil {
		s.mu.Unlock()
		return ledger.Debt{}, err
	}
	s.debts[idx] = updated
	s.persistLocked(ctx)
	s.mu.Unlock()

	if wasPaid && !updated.IsPaid {
		s.notifier.Schedule(updated, s.leadDays)
	}
	return updated, nil
}

// TogglePaid flips the paid flag and adjusts the reminder accordingly.
func (s *Store) TogglePaid(ctx context.Context, id string) (ledger.Debt, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ledger.Debt{}, ErrDebtNotFound
	}
	updated := s.debts[idx].TogglePaid()
	s.debts[idx] = updated
	s.persistLocked(ctx)
	s.mu.Unlock()

	if updated.IsPaid {
		s.notifier.Cancel(id)
	} else {
		s.notifier.Schedule(updated, s.leadDays)
	}
	return updated, nil
}

// =============================================================================
// INTERNALS
// =============================================================================

// persistLocked snapshots the collection to durable storage. Failures are
// logged, never rolled back: memory stays authoritative for the session.
func (s *Store) persistLocked(ctx context.Context) {
	snapshot := make([]ledger.Debt, len(s.debts))
	for i, d := range s.debts {
		snapshot[i] = d.Clone()
	}
	if err := s.persist.Save(ctx, snapshot); err != nil {
		s.log.Error("persist debts failed", "err", err, "count", len(snapshot))
	}
}

func (s *Store) indexLocked(id string) int {
	for i, d := range s.debts {
		if d.ID == id {
			return i
		}
	}
	return -1
}
