// Package storage persists the categorized transaction stream into a
// relational store. Every write is one of the five idempotent-or-append-only
// operations named by the import pipeline: accounts, categories and dates
// are idempotent on their natural keys (name; category and income; date),
// while transactions and uncategorized transactions are append-only.
//
// This package does not attempt to deduplicate across separate runs against
// the same database file — re-running an import against a database that
// already holds those transactions will duplicate rows. A clean database per
// run is the supported usage; see DESIGN.md for why this conservative stance
// was chosen over a reconciliation scheme.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-tools/ledgerimport/internal/model"
)

// TransactionRow is one row of the transactions table: a categorized
// transaction ready to persist.
type TransactionRow struct {
	Date            time.Time
	TransactionID   *string
	SourceCategory  *string
	Memo            *string
	Account         string
	Category        string
	TransactionType model.TransactionType
	Name            string
	Amount          decimal.Decimal
	Income          bool
}

// Store is the narrow persistence interface the import pipeline writes
// through. Implementations must make AddAccount idempotent on name,
// AddCategory on the (category, income) pair and AddDate on the date; the
// transaction operations are append-only.
type Store interface {
	// AddAccount records an account name, idempotent on name.
	AddAccount(ctx context.Context, name string) error

	// AddCategory records a (category, income) pair. The implementation
	// derives the base category from category itself.
	AddCategory(ctx context.Context, category string, income bool) error

	// AddDate records one calendar date within the run's imported date
	// range, used to fill gaps in downstream date-series aggregation.
	AddDate(ctx context.Context, date time.Time) error

	// AddTransaction appends one categorized transaction row.
	AddTransaction(ctx context.Context, row TransactionRow) error

	// AddUncategorizedTransaction appends one transaction the categorizer
	// could not assign a category to.
	AddUncategorizedTransaction(ctx context.Context, txn model.UncategorizedTransaction) error

	// Close releases the underlying database handle.
	Close() error
}
