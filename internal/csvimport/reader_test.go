package csvimport

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ledger-tools/ledgerimport/internal/model"
)

const sampleCSV = `Transaction Date,Posted Date,Card No.,Description,Category,Debit,Credit
2024-03-01,2024-03-02,1234,COFFEE SHOP,,4.50,
2024-03-05,2024-03-06,1234,PAYROLL DEPOSIT,Income,,1200.00
`

func TestSourceReadsDebitAndCredit(t *testing.T) {
	s, err := Open(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	first, err := s.Next()
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}
	if first.Type != model.TransactionDebit {
		t.Fatalf("expected debit, got %v", first.Type)
	}
	if !first.Amount.IsNegative() {
		t.Fatalf("expected negative amount for debit, got %s", first.Amount)
	}

	second, err := s.Next()
	if err != nil {
		t.Fatalf("second Next failed: %v", err)
	}
	if second.Type != model.TransactionCredit {
		t.Fatalf("expected credit, got %v", second.Type)
	}
	if !second.Amount.IsPositive() {
		t.Fatalf("expected positive amount for credit, got %s", second.Amount)
	}
	if second.Category == nil || *second.Category != "Income" {
		t.Fatalf("expected category 'Income', got %+v", second.Category)
	}

	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestOpenRejectsMissingColumn(t *testing.T) {
	const badCSV = "Transaction Date,Posted Date,Description,Debit,Credit\n2024-03-01,2024-03-02,COFFEE,4.50,\n"
	if _, err := Open(strings.NewReader(badCSV)); err == nil {
		t.Fatalf("expected error for missing Category column")
	}
}

func TestNextRejectsBothDebitAndCredit(t *testing.T) {
	const badRow = "Transaction Date,Posted Date,Card No.,Description,Category,Debit,Credit\n2024-03-01,2024-03-02,1234,WEIRD,,4.50,1.00\n"
	s, err := Open(strings.NewReader(badRow))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := s.Next(); err == nil {
		t.Fatalf("expected error when both Debit and Credit are set")
	}
}
