package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-tools/ledgerimport/internal/model"
)

func openTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenBootstrapsSchema(t *testing.T) {
	s := openTestStorage(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != schemaVersion {
		t.Fatalf("expected schema version %d, got %d", schemaVersion, version)
	}
}

func TestAddAccountIsIdempotent(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.AddAccount(ctx, "checking"); err != nil {
			t.Fatalf("AddAccount failed: %v", err)
		}
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts WHERE name = ?", "checking").Scan(&count); err != nil {
		t.Fatalf("failed to count accounts: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one account row, got %d", count)
	}
}

func TestAddCategoryDerivesBaseCategory(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	if err := s.AddCategory(ctx, "groceries.produce", false); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}

	var base string
	if err := s.db.QueryRowContext(ctx,
		"SELECT base_category FROM categories WHERE category = ?", "groceries.produce").Scan(&base); err != nil {
		t.Fatalf("failed to read category: %v", err)
	}
	if base != "groceries" {
		t.Fatalf("expected base_category 'groceries', got %q", base)
	}

	// Re-adding the same pair is idempotent, not an error.
	if err := s.AddCategory(ctx, "groceries.produce", false); err != nil {
		t.Fatalf("AddCategory second call failed: %v", err)
	}
}

func TestAddTransactionPersistsRow(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	if err := s.AddAccount(ctx, "checking"); err != nil {
		t.Fatalf("AddAccount failed: %v", err)
	}

	id := "FITID-1"
	memo := "weekly shop"
	row := TransactionRow{
		Account:         "checking",
		Category:        "groceries.produce",
		Income:          false,
		TransactionType: model.TransactionDebit,
		Date:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(-42),
		TransactionID:   &id,
		Name:            "SAFEWAY",
		Memo:            &memo,
	}
	if err := s.AddTransaction(ctx, row); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	var gotAccount, gotBase, gotCategory, gotName string
	if err := s.db.QueryRowContext(ctx,
		"SELECT account, base_category, category, name FROM transactions WHERE transaction_id = ?", id).
		Scan(&gotAccount, &gotBase, &gotCategory, &gotName); err != nil {
		t.Fatalf("failed to read transaction: %v", err)
	}
	if gotAccount != "checking" || gotBase != "groceries" || gotCategory != "groceries.produce" || gotName != "SAFEWAY" {
		t.Fatalf("unexpected transaction row: account=%s base=%s category=%s name=%s", gotAccount, gotBase, gotCategory, gotName)
	}
}

func TestAddTransactionRejectsEmptyAccount(t *testing.T) {
	s := openTestStorage(t)

	err := s.AddTransaction(context.Background(), TransactionRow{Name: "X"})
	if err == nil {
		t.Fatalf("expected error for empty account")
	}
}

func TestAddUncategorizedTransactionPersistsRow(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	txn := model.UncategorizedTransaction{
		Account:     "checking",
		Type:        "DEBIT",
		Text:        "UNKNOWN VENDOR",
		MissingRule: false,
	}
	if err := s.AddUncategorizedTransaction(ctx, txn); err != nil {
		t.Fatalf("AddUncategorizedTransaction failed: %v", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM uncategorized_transactions WHERE account = ? AND text = ?",
		"checking", "UNKNOWN VENDOR").Scan(&count); err != nil {
		t.Fatalf("failed to count uncategorized transactions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one uncategorized transaction row, got %d", count)
	}
}

func TestAddDateIsIdempotent(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if err := s.AddDate(ctx, d); err != nil {
		t.Fatalf("AddDate failed: %v", err)
	}
	if err := s.AddDate(ctx, d); err != nil {
		t.Fatalf("AddDate second call failed: %v", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dates WHERE date_str = ?", "2024-03-01").Scan(&count); err != nil {
		t.Fatalf("failed to count dates: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one date row, got %d", count)
	}
}
