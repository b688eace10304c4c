package importer

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledger-tools/ledgerimport/internal/categorize"
	"github.com/ledger-tools/ledgerimport/internal/model"
	"github.com/ledger-tools/ledgerimport/internal/progress"
	"github.com/ledger-tools/ledgerimport/internal/storage"
)

func strptr(s string) *string { return &s }

func TestRunImportsClassifiesAndPersists(t *testing.T) {
	dir := t.TempDir()
	checkingDir := filepath.Join(dir, "checking")
	if err := os.MkdirAll(checkingDir, 0o755); err != nil {
		t.Fatalf("failed to create account dir: %v", err)
	}

	csvContent := "Posted Date,Description,Category,Debit,Credit\n" +
		"2024-03-01,POS PURCHASE SAFEWAY,,42.00,\n" +
		"2024-03-05,PAYROLL DEPOSIT,,,1200.00\n"
	if err := os.WriteFile(filepath.Join(checkingDir, "march.csv"), []byte(csvContent), 0o644); err != nil {
		t.Fatalf("failed to write fixture CSV: %v", err)
	}

	cat, err := categorize.Build(
		[]model.TransactionTypeConfig{
			{
				Prefix:     strptr("POS PURCHASE "),
				Mode:       model.ModePrefix,
				UserType:   "debit_card",
				Income:     model.IncomeNo,
				NameSource: model.NameSourceNameSuffix,
				Accounts:   []string{"checking"},
			},
		},
		[]model.TransactionRuleConfig{
			{UserType: "debit_card", Category: "groceries", Patterns: []string{"SAFEWAY"}},
		},
	)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	store, err := storage.Open(context.Background(), filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("storage.Open failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	var prog progress.State
	accounts := []model.AccountConfig{{Name: "checking", SourcePath: checkingDir}}

	if err := Run(context.Background(), store, cat, &prog, accounts, false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	db := openUnderlyingDB(t, store)

	var txnCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&txnCount); err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	if txnCount != 1 {
		t.Fatalf("expected 1 categorized transaction, got %d", txnCount)
	}

	var uncategorizedCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM uncategorized_transactions").Scan(&uncategorizedCount); err != nil {
		t.Fatalf("failed to count uncategorized transactions: %v", err)
	}
	if uncategorizedCount != 1 {
		t.Fatalf("expected 1 uncategorized transaction, got %d", uncategorizedCount)
	}

	var accountCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM accounts WHERE name = 'checking'").Scan(&accountCount); err != nil {
		t.Fatalf("failed to count accounts: %v", err)
	}
	if accountCount != 1 {
		t.Fatalf("expected account 'checking' to be recorded, got %d", accountCount)
	}

	if got := prog.Snapshot().Step; got != progress.Done {
		t.Fatalf("expected progress step Done, got %v", got)
	}
}

// openUnderlyingDB reopens the same SQLite file to verify persisted rows,
// mirroring how a separate reporting process would read the store.
func openUnderlyingDB(t *testing.T, s *storage.SQLiteStorage) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", s.DBPath()+"?_journal_mode=WAL")
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
