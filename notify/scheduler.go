/*
Package notify implements the reminder scheduler.

PURPOSE:
  One pending reminder per debt, keyed by debt id, firing a configurable
  number of days before the due date. The scheduler owns in-process timers;
  actual delivery goes through a Sink so the mechanics (push, email, log)
  stay out of the scheduling contract.

SCHEDULING RULES:
  - No due date: no-op
  - Debt already paid: no-op
  - Computed fire time in the past: no-op
  - Scheduling again for the same id replaces the pending reminder
  - Cancel is idempotent

FAILURE SEMANTICS:
  Scheduling problems are logged, never returned. Reminders are an edge
  effect; ledger correctness does not depend on them.

SEE ALSO:
  - store: the Notifier interface and when each side effect fires
*/
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/norwaiw/NetDebt/ledger"
)

// Reminder is what a Sink receives when a timer fires.
type Reminder struct {
	DebtID     string
	PersonName string
	Amount     string
	Currency   string
	DueDate    time.Time
}

// Sink delivers a fired reminder. Implementations must not block.
type Sink interface {
	Deliver(r Reminder)
}

// LogSink writes fired reminders to the structured log. The default when
// no delivery channel is configured.
type LogSink struct {
	Log *slog.Logger
}

func (s LogSink) Deliver(r Reminder) {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("debt due soon",
		"debt_id", r.DebtID,
		"person", r.PersonName,
		"amount", r.Amount,
		"currency", r.Currency,
		"due", r.DueDate.Format("2006-01-02"))
}

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler keeps one pending timer per debt id.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	sink   Sink
	log    *slog.Logger
}

// NewScheduler creates a scheduler delivering to sink. A nil sink falls
// back to LogSink.
func NewScheduler(sink Sink, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = LogSink{Log: log}
	}
	return &Scheduler{
		timers: make(map[string]*time.Timer),
		sink:   sink,
		log:    log,
	}
}

// Schedule arranges a one-time reminder leadDays before the debt's due
// date, replacing any pending reminder for the same id.
func (s *Scheduler) Schedule(debt ledger.Debt, leadDays int) {
	if debt.DueDate == nil || debt.IsPaid {
		return
	}

	fireAt := debt.DueDate.AddDate(0, 0, -leadDays)
	delay := time.Until(fireAt)
	if delay <= 0 {
		s.log.Debug("reminder fire time already passed, skipping",
			"debt_id", debt.ID, "fire_at", fireAt)
		return
	}

	r := Reminder{
		DebtID:     debt.ID,
		PersonName: debt.PersonName,
		Amount:     debt.RemainingAmount().String(),
		Currency:   debt.Currency,
		DueDate:    *debt.DueDate,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[debt.ID]; ok {
		old.Stop()
	}
	id := debt.ID
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		s.sink.Deliver(r)
	})

	s.log.Debug("reminder scheduled",
		"debt_id", debt.ID, "fire_at", fireAt, "lead_days", leadDays)
}

// Cancel removes any pending reminder for the id. Safe to call when
// nothing is pending.
func (s *Scheduler) Cancel(debtID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[debtID]; ok {
		t.Stop()
		delete(s.timers, debtID)
	}
}

// Pending reports whether a reminder is queued for the id.
func (s *Scheduler) Pending(debtID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[debtID]
	return ok
}

// Stop cancels every pending reminder. Called on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
