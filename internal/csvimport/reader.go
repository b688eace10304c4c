// Package csvimport is a thin column-mapped wrapper over encoding/csv for
// the bank-statement export format: a header row naming Transaction Date,
// Posted Date, Card No., Description, Category, Debit, Credit, of which all
// but Transaction Date and Card No. are required. It implements the same lazy Transaction sequence
// internal/ofx's TransactionSource does, so internal/importer can dispatch
// on file extension without caring which format it got.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledger-tools/ledgerimport/internal/model"
)

const dateLayout = "2006-01-02"

var requiredColumns = []string{"Posted Date", "Description", "Category", "Debit", "Credit"}

// Source reads Transaction values from a bank CSV export, one per row.
type Source struct {
	reader  *csv.Reader
	columns map[string]int
}

// Open reads and validates the header row from r, then returns a Source
// ready to yield transactions via Next.
func Open(r io.Reader) (*Source, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("CSV file missing required column %q", required)
		}
	}

	return &Source{reader: cr, columns: columns}, nil
}

// Next returns the next transaction, or io.EOF once the file is exhausted.
func (s *Source) Next() (model.Transaction, error) {
	record, err := s.reader.Read()
	if err != nil {
		return model.Transaction{}, err
	}

	posted, err := s.field(record, "Posted Date")
	if err != nil {
		return model.Transaction{}, err
	}
	datePosted, err := time.Parse(dateLayout, strings.TrimSpace(posted))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to parse Posted Date %q: %w", posted, err)
	}

	description, err := s.field(record, "Description")
	if err != nil {
		return model.Transaction{}, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return model.Transaction{}, fmt.Errorf("row posted %s has an empty Description", posted)
	}

	debitRaw, err := s.field(record, "Debit")
	if err != nil {
		return model.Transaction{}, err
	}
	creditRaw, err := s.field(record, "Credit")
	if err != nil {
		return model.Transaction{}, err
	}
	debitRaw = strings.TrimSpace(debitRaw)
	creditRaw = strings.TrimSpace(creditRaw)

	var transactionType model.TransactionType
	var amount decimal.Decimal
	switch {
	case debitRaw != "" && creditRaw == "":
		debit, err := decimal.NewFromString(debitRaw)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("failed to parse Debit %q: %w", debitRaw, err)
		}
		transactionType = model.TransactionDebit
		amount = debit.Neg()
	case creditRaw != "" && debitRaw == "":
		credit, err := decimal.NewFromString(creditRaw)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("failed to parse Credit %q: %w", creditRaw, err)
		}
		transactionType = model.TransactionCredit
		amount = credit
	default:
		return model.Transaction{}, fmt.Errorf("row posted %s must have exactly one of Debit or Credit set, got debit=%q credit=%q", posted, debitRaw, creditRaw)
	}

	var category *string
	if raw, err := s.field(record, "Category"); err == nil {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			category = &trimmed
		}
	}

	return model.Transaction{
		DatePosted: datePosted,
		Name:       description,
		Category:   category,
		Type:       transactionType,
		Amount:     amount,
	}, nil
}

func (s *Source) field(record []string, name string) (string, error) {
	idx, ok := s.columns[name]
	if !ok {
		return "", fmt.Errorf("column %q not present in header", name)
	}
	if idx >= len(record) {
		return "", fmt.Errorf("row has no value for column %q", name)
	}
	return record[idx], nil
}
