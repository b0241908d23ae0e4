package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norwaiw/NetDebt/ledger"
	"github.com/norwaiw/NetDebt/store"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

// recordingNotifier records Schedule/Cancel calls in order.
type recordingNotifier struct {
	scheduled []string
	canceled  []string
}

func (n *recordingNotifier) Schedule(d ledger.Debt, _ int) {
	n.scheduled = append(n.scheduled, d.ID)
}

func (n *recordingNotifier) Cancel(id string) {
	n.canceled = append(n.canceled, id)
}

// failingPersistence always fails Save to exercise the best-effort contract.
type failingPersistence struct{}

func (failingPersistence) Save(context.Context, []ledger.Debt) error {
	return errors.New("disk on fire")
}

func (failingPersistence) Load(context.Context) ([]ledger.Debt, error) {
	return nil, errors.New("disk on fire")
}

func newTestStore(t *testing.T) (*store.Store, *store.MemoryPersistence, *recordingNotifier) {
	t.Helper()
	persist := store.NewMemoryPersistence()
	notifier := &recordingNotifier{}
	s := store.New(context.Background(), store.Options{
		Persistence: persist,
		Notifier:    notifier,
	})
	return s, persist, notifier
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func debtOwedToMe(name string, amount float64) ledger.Debt {
	return ledger.NewDebt(name, dec(amount), "USD", true)
}

// =============================================================================
// MUTATIONS & PERSISTENCE
// =============================================================================

func TestAdd_PersistsAndSchedules(t *testing.T) {
	s, persist, notifier := newTestStore(t)
	ctx := context.Background()

	d := debtOwedToMe("Alice", 100)
	due := time.Now().AddDate(0, 0, 10)
	d.DueDate = &due
	s.Add(ctx, d)

	saved, err := persist.Load(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, d.ID, saved[0].ID)
	assert.Equal(t, []string{d.ID}, notifier.scheduled)
}

func TestUpdate_ReplacesAndReschedules(t *testing.T) {
	s, _, notifier := newTestStore(t)
	ctx := context.Background()

	d := debtOwedToMe("Alice", 100)
	s.Add(ctx, d)

	d.PersonName = "Alice B"
	require.NoError(t, s.Update(ctx, d))

	got, err := s.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.PersonName)

	// Update cancels the old reminder before scheduling from the new state.
	assert.Equal(t, []string{d.ID}, notifier.canceled)
	assert.Equal(t, []string{d.ID, d.ID}, notifier.scheduled)
}

func TestUpdate_UnknownID(t *testing.T) {
	s, _, _ := newTestStore(t)
	err := s.Update(context.Background(), debtOwedToMe("Ghost", 10))
	assert.ErrorIs(t, err, store.ErrDebtNotFound)
}

func TestDelete_CancelsReminder(t *testing.T) {
	s, persist, notifier := newTestStore(t)
	ctx := context.Background()

	d := debtOwedToMe("Alice", 100)
	s.Add(ctx, d)
	require.NoError(t, s.Delete(ctx, d.ID))

	_, err := s.Get(d.ID)
	assert.ErrorIs(t, err, store.ErrDebtNotFound)
	assert.Contains(t, notifier.canceled, d.ID)

	saved, _ := persist.Load(ctx)
	assert.Empty(t, saved)
}

func TestAddPayment_SettlingCancelsReminder(t *testing.T) {
	// GIVEN: a stored debt of 100
	// WHEN: a payment of 100 settles it
	// THEN: the debt is paid and its reminder canceled

	s, _, notifier := newTestStore(t)
	ctx := context.Background()

	d := debtOwedToMe("Alice", 100)
	s.Add(ctx, d)

	updated, err := s.AddPayment(ctx, d.ID, dec(100), "all of it")
	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
	assert.Contains(t, notifier.canceled, d.ID)
}

func TestRemovePayment_ReschedulesWhenReopened(t *testing.T) {
	s, _, notifier := newTestStore(t)
	ctx := context.Background()

	d := debtOwedToMe("Alice", 100)
	due := time.Now().AddDate(0, 0, 5)
	d.DueDate = &due
	s.Add(ctx, d)

	updated, err := s.AddPayment(ctx, d.ID, dec(100), "")
	require.NoError(t, err)
	require.True(t, updated.IsPaid)

	scheduledBefore := len(notifier.scheduled)
	_, err = s.RemovePayment(ctx, d.ID, updated.Payments[0].ID)
	require.NoError(t, err)

	got, err := s.Get(d.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPaid)
	assert.Greater(t, len(notifier.scheduled), scheduledBefore, "reopened debt should be rescheduled")
}

func TestRemovePayment_UnknownPayment(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	d := debtOwedToMe("Alice", 100)
	s.Add(ctx, d)

	_, err := s.RemovePayment(ctx, d.ID, "nope")
	assert.ErrorIs(t, err, store.ErrPaymentNotFound)
}

func TestTogglePaid_ReminderFollowsFlag(t *testing.T) {
	s, _, notifier := newTestStore(t)
	ctx := context.Background()

	d := debtOwedToMe("Alice", 100)
	s.Add(ctx, d)

	updated, err := s.TogglePaid(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
	assert.Contains(t, notifier.canceled, d.ID)

	scheduledBefore := len(notifier.scheduled)
	updated, err = s.TogglePaid(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsPaid)
	assert.Greater(t, len(notifier.scheduled), scheduledBefore)
}

func TestPersistenceFailure_KeepsMemoryState(t *testing.T) {
	// GIVEN: persistence that always fails
	// WHEN: adding a debt
	// THEN: the in-memory collection still reflects the add
	//       (durability is best-effort by contract, not a bug)

	s := store.New(context.Background(), store.Options{
		Persistence: failingPersistence{},
		Notifier:    &recordingNotifier{},
	})

	d := debtOwedToMe("Alice", 100)
	s.Add(context.Background(), d)

	got, err := s.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
}

func TestNew_LoadsAndReschedules(t *testing.T) {
	// GIVEN: a persisted collection with one unpaid dated debt
	// WHEN: constructing a new store over it
	// THEN: the collection is restored and reminders rescheduled

	ctx := context.Background()
	persist := store.NewMemoryPersistence()

	d := debtOwedToMe("Alice", 100)
	due := time.Now().AddDate(0, 0, 14)
	d.DueDate = &due
	require.NoError(t, persist.Save(ctx, []ledger.Debt{d}))

	notifier := &recordingNotifier{}
	s := store.New(ctx, store.Options{Persistence: persist, Notifier: notifier})

	got, err := s.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.PersonName)
	assert.Equal(t, []string{d.ID}, notifier.scheduled)
}

// =============================================================================
// PROJECTIONS
// =============================================================================

func TestTotals_DirectionAndPaidFiltering(t *testing.T) {
	// GIVEN: two owed-to-me debts (one paid), one I-owe debt
	// THEN: each total sums only matching-direction unpaid remainders

	s, _, _ := newTestStore(t)
	ctx := context.Background()

	mine := debtOwedToMe("Alice", 300)
	s.Add(ctx, mine)

	paid := debtOwedToMe("Bob", 200)
	s.Add(ctx, paid)
	_, err := s.TogglePaid(ctx, paid.ID)
	require.NoError(t, err)

	owed := ledger.NewDebt("Carol", dec(150), "USD", false)
	s.Add(ctx, owed)

	assert.True(t, s.TotalOwedToMe().Equal(dec(300)), "got %s", s.TotalOwedToMe())
	assert.True(t, s.TotalIOwe().Equal(dec(150)), "got %s", s.TotalIOwe())
}

func TestProjections_PaidUnpaidOverdue(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	late := debtOwedToMe("Late", 100)
	past := now.AddDate(0, 0, -2)
	late.DueDate = &past
	s.Add(ctx, late)

	settled := debtOwedToMe("Settled", 50)
	s.Add(ctx, settled)
	_, err := s.TogglePaid(ctx, settled.ID)
	require.NoError(t, err)

	assert.Len(t, s.UnpaidDebts(), 1)
	assert.Len(t, s.PaidDebts(), 1)

	overdue := s.OverdueDebts(now)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)

	sum := s.Summarize(now)
	assert.Equal(t, 1, sum.UnpaidCount)
	assert.Equal(t, 1, sum.PaidCount)
	assert.Equal(t, 1, sum.OverdueCount)
	assert.True(t, sum.TotalOwedToMe.Equal(dec(100)))
}

// =============================================================================
// LIST - filter / search / sort
// =============================================================================

func TestList_FilterSearchSort(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	a := ledger.NewDebt("Alice", dec(300), "USD", true)
	a.Notes = "lunch money"
	s.Add(ctx, a)

	b := ledger.NewDebt("Bob", dec(100), "USD", false)
	s.Add(ctx, b)

	c := ledger.NewDebt("Carla", dec(200), "USD", true)
	s.Add(ctx, c)

	// Direction filter
	mine := s.List(store.Query{Direction: store.DirectionOwedToMe}, now)
	assert.Len(t, mine, 2)

	// Search hits notes as well as names, case-insensitively
	found := s.List(store.Query{Search: "LUNCH"}, now)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	// Sort by amount ascending
	byAmount := s.List(store.Query{Sort: store.SortByAmount, Ascending: true}, now)
	require.Len(t, byAmount, 3)
	assert.Equal(t, b.ID, byAmount[0].ID)
	assert.Equal(t, a.ID, byAmount[2].ID)
}

func TestList_StatusFilters(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	open := debtOwedToMe("Open", 100)
	s.Add(ctx, open)

	late := debtOwedToMe("Late", 100)
	past := now.AddDate(0, 0, -1)
	late.DueDate = &past
	s.Add(ctx, late)

	done := debtOwedToMe("Done", 100)
	s.Add(ctx, done)
	_, err := s.TogglePaid(ctx, done.ID)
	require.NoError(t, err)

	assert.Len(t, s.List(store.Query{Status: store.FilterUnpaid}, now), 2)
	assert.Len(t, s.List(store.Query{Status: store.FilterPaid}, now), 1)

	overdue := s.List(store.Query{Status: store.FilterOverdue}, now)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
}
