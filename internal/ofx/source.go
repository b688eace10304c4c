package ofx

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/ledger-tools/ledgerimport/internal/model"
)

// TransactionSource adapts a Parser to the shared model.Transaction shape
// consumed by internal/importer, converting borrowed parser strings to
// owned ones and dropping multiline continuation artifacts.
type TransactionSource struct {
	parser *Parser
}

// NewTransactionSource wraps an already-opened Parser.
func NewTransactionSource(p *Parser) *TransactionSource {
	return &TransactionSource{parser: p}
}

// OpenSource reads the header from r and returns a ready TransactionSource.
func OpenSource(r io.Reader) (*TransactionSource, error) {
	p, err := Open(r)
	if err != nil {
		return nil, err
	}
	return NewTransactionSource(p), nil
}

// OpenSourceLenient is OpenSource with OpenLenient's pre-patching applied
// first, for the --lenient CLI flag.
func OpenSourceLenient(r io.Reader) (*TransactionSource, error) {
	p, err := OpenLenient(r)
	if err != nil {
		return nil, err
	}
	return NewTransactionSource(p), nil
}

// Next returns the next non-continuation transaction, or io.EOF once the
// file is exhausted.
func (s *TransactionSource) Next() (model.Transaction, error) {
	for {
		st, err := s.parser.Next()
		if err != nil {
			return model.Transaction{}, err
		}

		transactionType, ok := model.ParseTransactionType(st.TransactionType)
		if !ok {
			return model.Transaction{}, fmt.Errorf("unrecognized transaction type: %q", st.TransactionType)
		}

		transactionID := st.TransactionID
		name := st.Name
		var memo *string
		if st.Memo != nil {
			m := *st.Memo
			memo = &m
		}

		txn := model.Transaction{
			DatePosted:    st.DatePosted,
			TransactionID: &transactionID,
			Name:          name,
			Memo:          memo,
			Type:          transactionType,
			Amount:        st.Amount,
		}

		if txn.IsMultilineContinuation() {
			continue
		}
		return txn, nil
	}
}

// Accounts returns the account IDs discovered in the underlying file so
// far; the set is complete only once Next has returned io.EOF. The inspect
// subcommand uses GetAccounts instead, which drains a Parser directly.
func (s *TransactionSource) Accounts() []string {
	return s.parser.Accounts()
}

// GetAccounts extracts the unique account IDs referenced by an OFX/QFX
// file, without returning its transactions. It drains a Parser to
// completion and reads back the account IDs it accumulated.
func GetAccounts(r io.Reader) ([]string, error) {
	p, err := Open(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open OFX file: %w", err)
	}

	for {
		_, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan OFX file: %w", err)
		}
	}

	accounts := p.Accounts()
	sort.Strings(accounts)
	return accounts, nil
}

var (
	severityCaseRegex = regexp.MustCompile(`(?i)(<SEVERITY>)(INFO|WARN|ERROR)`)
	missingCloseRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Preprocess applies lenient-mode fixups to tolerate common real-world OFX
// malformations: mixed-case SEVERITY values, and SGML open tags missing
// their closing angle bracket at end-of-line. Called by OpenLenient, which
// OpenTransactionSource uses in place of OpenSource when the --lenient CLI
// flag is set, since rewriting bytes before the header is even read is
// never needed for a well-formed file.
func Preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityCaseRegex.ReplaceAllStringFunc(content, func(m string) string {
		return "<SEVERITY>" + strings.ToUpper(severityCaseRegex.FindStringSubmatch(m)[2])
	})
	content = missingCloseRegex.ReplaceAllString(content, "$1>")
	return content
}
