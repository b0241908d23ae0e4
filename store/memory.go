package store

import (
	"context"
	"sync"

	"github.com/norwaiw/NetDebt/ledger"
)

// =============================================================================
// MEMORY PERSISTENCE - In-memory implementation (for testing/dev)
// =============================================================================

// MemoryPersistence keeps the saved collection in memory. Used in tests and
// for running the server without a database file.
type MemoryPersistence struct {
	mu    sync.Mutex
	saved []ledger.Debt
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (m *MemoryPersistence) Save(_ context.Context, debts []ledger.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = make([]ledger.Debt, len(debts))
	for i, d := range debts {
		m.saved[i] = d.Clone()
	}
	return nil
}

func (m *MemoryPersistence) Load(_ context.Context) ([]ledger.Debt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ledger.Debt, len(m.saved))
	for i, d := range m.saved {
		out[i] = d.Clone()
	}
	return out, nil
}
