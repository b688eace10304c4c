// Package model defines the core data structures shared across the import
// pipeline: the parser output, the categorizer's configuration, and the
// error taxonomy that both can raise.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the OFX-reported transaction type code, also used as
// the SourceType-mode matching key in the categorizer.
type TransactionType string

// Recognized OFX transaction type codes.
const (
	TransactionDebit TransactionType = "DEBIT"
	TransactionCredit TransactionType = "CREDIT"
	TransactionPos    TransactionType = "POS"
	TransactionATM    TransactionType = "ATM"
	TransactionFee    TransactionType = "FEE"
	TransactionOther  TransactionType = "OTHER"
)

// ParseTransactionType maps an OFX TRNTYPE value to a TransactionType.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(s) {
	case TransactionDebit, TransactionCredit, TransactionPos, TransactionATM, TransactionFee, TransactionOther:
		return TransactionType(s), true
	default:
		return "", false
	}
}

// Transaction is the parser output shared by the OFX and CSV import paths.
//
// Name, Memo, TransactionID and Category are owned Go strings by the time a
// Transaction crosses out of internal/ofx or internal/csvimport — the OFX
// parser's StatementTransaction holds string slices borrowed from the
// decode buffer, but TransactionSource.Next converts them to owned strings
// before returning a Transaction.
type Transaction struct {
	DatePosted      time.Time
	TransactionID   *string
	Category        *string
	Memo            *string
	Name            string
	Type            TransactionType
	Amount          decimal.Decimal
}

// IsMultilineContinuation reports whether this transaction is an OFX
// multiline continuation artifact that should be dropped rather than
// imported: some institutions split a single logical transaction across
// multiple STMTTRN blocks, marking the continuation lines with a
// dotted FITID suffix and a zero amount.
func (t Transaction) IsMultilineContinuation() bool {
	if t.TransactionID == nil {
		return false
	}
	return t.Amount.IsZero() && containsDot(*t.TransactionID)
}

func containsDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}
