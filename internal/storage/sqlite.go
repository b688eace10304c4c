package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/ledger-tools/ledgerimport/internal/model"
)

// schemaVersion is the PRAGMA user_version this package bootstraps its
// database to. There is only one migration: the five tables this package
// owns never change shape, so there is nothing to iterate on.
const schemaVersion = 1

// SQLiteStorage implements Store over a single SQLite file.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

var _ Store = (*SQLiteStorage)(nil)

// Open creates (if needed) and migrates a SQLite database at dbPath, then
// returns a ready-to-use Store. Pass ":memory:" for an in-memory database,
// used by the CLI's --dry-run mode.
func Open(ctx context.Context, dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath must not be empty")
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStorage{db: db, dbPath: dbPath}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// DBPath returns the path Open was called with.
func (s *SQLiteStorage) DBPath() string {
	return s.dbPath
}

func (s *SQLiteStorage) migrate(ctx context.Context) error {
	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if currentVersion >= schemaVersion {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration transaction: %w", err)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			name TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			base_category TEXT NOT NULL,
			category TEXT NOT NULL,
			income BOOLEAN NOT NULL,
			PRIMARY KEY (category, income)
		)`,
		`CREATE TABLE IF NOT EXISTS dates (
			date_str TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			account TEXT NOT NULL,
			base_category TEXT NOT NULL,
			category TEXT NOT NULL,
			source_category TEXT,
			income BOOLEAN NOT NULL,
			transaction_type TEXT NOT NULL,
			date TEXT NOT NULL,
			amount TEXT NOT NULL,
			transaction_id TEXT,
			name TEXT NOT NULL,
			memo TEXT,
			FOREIGN KEY (account) REFERENCES accounts(name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
		`CREATE TABLE IF NOT EXISTS uncategorized_transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			missing_rule BOOLEAN NOT NULL,
			account TEXT NOT NULL,
			type TEXT NOT NULL,
			text TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to execute migration statement: %w", err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to update schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}

// AddAccount upserts an account by name.
func (s *SQLiteStorage) AddAccount(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("account name must not be empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("failed to add account %q: %w", name, err)
	}
	return nil
}

// AddCategory records a (category, income) pair, idempotent on that pair.
func (s *SQLiteStorage) AddCategory(ctx context.Context, category string, income bool) error {
	if category == "" {
		return fmt.Errorf("category must not be empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (base_category, category, income) VALUES (?, ?, ?)
		 ON CONFLICT (category, income) DO NOTHING`,
		model.BaseCategory(category), category, income)
	if err != nil {
		return fmt.Errorf("failed to add category %q: %w", category, err)
	}
	return nil
}

// AddDate records one date, idempotent on the formatted date string.
func (s *SQLiteStorage) AddDate(ctx context.Context, date time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dates (date_str) VALUES (?) ON CONFLICT (date_str) DO NOTHING`,
		date.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("failed to add date %s: %w", date.Format("2006-01-02"), err)
	}
	return nil
}

// AddTransaction appends one categorized transaction row.
func (s *SQLiteStorage) AddTransaction(ctx context.Context, row TransactionRow) error {
	if row.Account == "" {
		return fmt.Errorf("transaction row must have an account")
	}
	if row.Name == "" {
		return fmt.Errorf("transaction row must have a name")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions
			(account, base_category, category, source_category, income,
			 transaction_type, date, amount, transaction_id, name, memo)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.Account,
		model.BaseCategory(row.Category),
		row.Category,
		row.SourceCategory,
		row.Income,
		string(row.TransactionType),
		row.Date.Format("2006-01-02"),
		row.Amount.String(),
		row.TransactionID,
		row.Name,
		row.Memo,
	)
	if err != nil {
		return fmt.Errorf("failed to add transaction %q for account %q: %w", row.Name, row.Account, err)
	}
	return nil
}

// Counts reports the row counts the CLI summary prints after a run:
// distinct accounts seen, categorized transactions, and uncategorized ones.
type Counts struct {
	Accounts      int
	Categorized   int
	Uncategorized int
}

// Counts queries the current row counts for the CLI's end-of-run summary.
func (s *SQLiteStorage) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts").Scan(&c.Accounts); err != nil {
		return Counts{}, fmt.Errorf("failed to count accounts: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&c.Categorized); err != nil {
		return Counts{}, fmt.Errorf("failed to count transactions: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM uncategorized_transactions").Scan(&c.Uncategorized); err != nil {
		return Counts{}, fmt.Errorf("failed to count uncategorized transactions: %w", err)
	}
	return c, nil
}

// AddUncategorizedTransaction appends one uncategorized-transaction row.
func (s *SQLiteStorage) AddUncategorizedTransaction(ctx context.Context, txn model.UncategorizedTransaction) error {
	if txn.Account == "" {
		return fmt.Errorf("uncategorized transaction must have an account")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uncategorized_transactions (missing_rule, account, type, text)
		 VALUES (?, ?, ?, ?)`,
		txn.MissingRule, txn.Account, txn.Type, txn.Text,
	)
	if err != nil {
		return fmt.Errorf("failed to add uncategorized transaction for account %q: %w", txn.Account, err)
	}
	return nil
}
