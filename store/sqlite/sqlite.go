/*
Package sqlite provides the SQLite-backed Persistence implementation.

PURPOSE:
  Durable storage for the debt collection. The contract is snapshot
  semantics: Save writes the entire collection (debts plus their payments)
  in one transaction, Load reads it back. There is no row-level diffing -
  the collection is small, personal-scale data, and whole-snapshot writes
  keep the store layer trivial and crash-consistent.

LOAD DEGRADATION:
  Load returns an empty collection when the database holds nothing. Real
  I/O errors are returned and absorbed by the store layer, which logs and
  starts empty - the caller never sees a failure.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the writer
  - Better crash recovery

CONCURRENCY:
  Uses sync.RWMutex around Save/Load. The store serializes mutations
  anyway; the mutex guards direct use from tooling.

USAGE:
  persist, err := sqlite.New("./data/netdebt.db")
  if err != nil {
      log.Fatal(err)
  }
  defer persist.Close()

SEE ALSO:
  - store: the Persistence interface and best-effort contract
  - store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/norwaiw/NetDebt/ledger"
)

// Persistence implements store.Persistence on a SQLite database.
type Persistence struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Persistence, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	p := &Persistence{db: db}
	if err := p.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return p, nil
}

// Close closes the database connection.
func (p *Persistence) Close() error {
	return p.db.Close()
}

func (p *Persistence) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS debts (
		id TEXT PRIMARY KEY,
		person_name TEXT NOT NULL,
		is_owed_to_me INTEGER NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		due_date TEXT,
		notes TEXT NOT NULL DEFAULT '',
		interest_rate TEXT NOT NULL DEFAULT '0',
		is_paid INTEGER NOT NULL DEFAULT 0,
		date_created TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		debt_id TEXT NOT NULL REFERENCES debts(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		paid_at TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_debt ON payments(debt_id);
	`
	_, err := p.db.Exec(schema)
	return err
}

// =============================================================================
// SAVE / LOAD - Whole-collection snapshot
// =============================================================================

// Save replaces the stored snapshot with the given collection atomically.
func (p *Persistence) Save(ctx context.Context, debts []ledger.Debt) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	// Snapshot semantics: wipe and rewrite. Payments cascade from debts.
	if _, err := tx.ExecContext(ctx, `DELETE FROM payments`); err != nil {
		return fmt.Errorf("clear payments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM debts`); err != nil {
		return fmt.Errorf("clear debts: %w", err)
	}

	insertDebt, err := tx.PrepareContext(ctx, `
		INSERT INTO debts (id, person_name, is_owed_to_me, amount, currency,
			due_date, notes, interest_rate, is_paid, date_created, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare debts insert: %w", err)
	}
	defer insertDebt.Close()

	insertPayment, err := tx.PrepareContext(ctx, `
		INSERT INTO payments (id, debt_id, amount, paid_at, note, position)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare payments insert: %w", err)
	}
	defer insertPayment.Close()

	for i, d := range debts {
		var due any
		if d.DueDate != nil {
			due = d.DueDate.Format(time.RFC3339Nano)
		}
		_, err := insertDebt.ExecContext(ctx,
			d.ID, d.PersonName, boolToInt(d.IsOwedToMe), d.Amount.String(),
			d.Currency, due, d.Notes, d.InterestRate.String(),
			boolToInt(d.IsPaid), d.DateCreated.Format(time.RFC3339Nano), i)
		if err != nil {
			return fmt.Errorf("insert debt %s: %w", d.ID, err)
		}

		for j, pay := range d.Payments {
			_, err := insertPayment.ExecContext(ctx,
				pay.ID, d.ID, pay.Amount.String(),
				pay.Date.Format(time.RFC3339Nano), pay.Note, j)
			if err != nil {
				return fmt.Errorf("insert payment %s: %w", pay.ID, err)
			}
		}
	}

	return tx.Commit()
}

// Load reads the snapshot back in insertion order. An empty database
// yields an empty collection.
func (p *Persistence) Load(ctx context.Context) ([]ledger.Debt, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, person_name, is_owed_to_me, amount, currency,
			due_date, notes, interest_rate, is_paid, date_created
		FROM debts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query debts: %w", err)
	}
	defer rows.Close()

	var debts []ledger.Debt
	index := make(map[string]int)
	for rows.Next() {
		var (
			d            ledger.Debt
			owedToMe     int
			paid         int
			amount       string
			interestRate string
			due          sql.NullString
			created      string
		)
		if err := rows.Scan(&d.ID, &d.PersonName, &owedToMe, &amount, &d.Currency,
			&due, &d.Notes, &interestRate, &paid, &created); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}

		if d.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount for %s: %w", d.ID, err)
		}
		if d.InterestRate, err = decimal.NewFromString(interestRate); err != nil {
			return nil, fmt.Errorf("parse interest rate for %s: %w", d.ID, err)
		}
		if d.DateCreated, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created for %s: %w", d.ID, err)
		}
		if due.Valid {
			t, err := time.Parse(time.RFC3339Nano, due.String)
			if err != nil {
				return nil, fmt.Errorf("parse due date for %s: %w", d.ID, err)
			}
			d.DueDate = &t
		}
		d.IsOwedToMe = owedToMe != 0
		d.IsPaid = paid != 0

		index[d.ID] = len(debts)
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debts: %w", err)
	}

	if err := p.loadPayments(ctx, debts, index); err != nil {
		return nil, err
	}
	return debts, nil
}

func (p *Persistence) loadPayments(ctx context.Context, debts []ledger.Debt, index map[string]int) error {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, debt_id, amount, paid_at, note
		FROM payments ORDER BY debt_id, position`)
	if err != nil {
		return fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pay    ledger.Payment
			debtID string
			amount string
			paidAt string
		)
		if err := rows.Scan(&pay.ID, &debtID, &amount, &paidAt, &pay.Note); err != nil {
			return fmt.Errorf("scan payment: %w", err)
		}
		if pay.Amount, err = decimal.NewFromString(amount); err != nil {
			return fmt.Errorf("parse payment amount %s: %w", pay.ID, err)
		}
		if pay.Date, err = time.Parse(time.RFC3339Nano, paidAt); err != nil {
			return fmt.Errorf("parse payment date %s: %w", pay.ID, err)
		}

		i, ok := index[debtID]
		if !ok {
			// Orphaned payment row, skip it rather than fail the load.
			continue
		}
		debts[i].Payments = append(debts[i].Payments, pay)
	}
	return rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
