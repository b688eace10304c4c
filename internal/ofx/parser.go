// Package ofx implements a streaming parser for the OFX/QFX financial
// exchange file format, covering both the legacy SGML dialect (OFX 1.0.2)
// and the XML 2.x dialect (OFX 2.0.2), in Windows-1252 or UTF-8.
package ofx

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Severity is the OFX STATUS.SEVERITY value. Only INFO is accepted per
// the STMTTRN field grammar.
type Severity int

// Recognized severities.
const (
	SeverityInfo Severity = iota
)

// StatementTransaction is the OFX parser's internal transaction shape: the
// STMTTRN fields plus the raw posting timestamp with timezone. It never
// leaves this package — TransactionSource.Next converts it to the shared
// model.Transaction.
type StatementTransaction struct {
	DatePosted      time.Time
	TransactionID   string
	Name            string
	Memo            *string
	TransactionType string // mirrors model.TransactionType's string values
	Amount          decimal.Decimal
}

type parserState int

const (
	stateNotStarted parserState = iota
	stateReadOpen
	stateReadInstitutionMessage
	stateReadStatementTransactionResponse
	stateReadStatementResponse
	stateReadTransactionList
	stateReadTransaction
	stateReadClose
)

// Parser drives a Tokenizer through the OFX document state machine,
// yielding StatementTransaction values lazily via Next. A Parser is used
// by exactly one goroutine.
type Parser struct {
	tokens *Tokenizer

	localTimezone *time.Location

	institutionMessageName           string
	statementTransactionResponseName string
	statementResponseName            string

	state parserState

	readSignOnMessageResponse bool
	readStartDate             bool
	readEndDate               bool

	accountIDs map[string]struct{}
}

// Accounts returns the unique BANKACCTFROM/CCACCTFROM account IDs seen so
// far. Callers that want the complete set should drain Next to io.EOF
// first (see GetAccounts).
func (p *Parser) Accounts() []string {
	ids := make([]string, 0, len(p.accountIDs))
	for id := range p.accountIDs {
		ids = append(ids, id)
	}
	return ids
}

// OpenLenient pre-patches r's bytes through Preprocess before handing them
// to Open: it tolerates mixed-case SEVERITY values and SGML open tags
// missing their closing angle bracket at end-of-line, malformations seen in
// real-world exports that the strict grammar Open enforces would reject.
func OpenLenient(r io.Reader) (*Parser, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Open(strings.NewReader(Preprocess(string(raw))))
}

// Open reads and validates an OFX/QFX file's header from r, then returns a
// Parser ready to yield StatementTransaction values via Next.
func Open(r io.Reader) (*Parser, error) {
	br := bufio.NewReader(r)
	header, isXML, err := ReadHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if isXML {
		if header.OFXHeader != 200 {
			return nil, fmt.Errorf("unsupported header: %d", header.OFXHeader)
		}
		if header.Version != 202 {
			return nil, fmt.Errorf("unsupported version: %d", header.Version)
		}
	} else {
		if header.OFXHeader != 100 {
			return nil, fmt.Errorf("unsupported header: %d", header.OFXHeader)
		}
		if header.Version != 102 {
			return nil, fmt.Errorf("unsupported version: %d", header.Version)
		}
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	buf := NewBuffer(rest, header.Encoding)
	return &Parser{tokens: NewTokenizer(buf, isXML), state: stateNotStarted}, nil
}

// Next returns the next StatementTransaction in document order, or io.EOF
// once the closing </OFX> has been consumed and validated.
func (p *Parser) Next() (*StatementTransaction, error) {
	var (
		transactionType *string
		datePosted      *time.Time
		amount          *decimal.Decimal
		transactionID   *string
		name            *string
		memo            *string
	)

	for {
		switch p.state {
		case stateNotStarted:
			key, err := p.getKey()
			if err != nil {
				return nil, err
			}
			if key != "OFX" {
				return nil, p.unexpectedKey(key, "NotStarted")
			}
			p.state = stateReadOpen

		case stateReadOpen:
			key, ok, err := p.getField("OFX")
			if err != nil {
				return nil, err
			}
			if !ok {
				if err := p.expectDone(); err != nil {
					return nil, err
				}
				p.state = stateReadClose
				continue
			}
			switch key {
			case "SIGNONMSGSRSV1":
				if p.readSignOnMessageResponse {
					return nil, fmt.Errorf("duplicate struct 'SIGNONMSGSRSV1'")
				}
				if err := p.checkSignOnMessageResponseV1(); err != nil {
					return nil, err
				}
				p.readSignOnMessageResponse = true
			case "BANKMSGSRSV1":
				p.institutionMessageName = "BANKMSGSRSV1"
				p.state = stateReadInstitutionMessage
			case "CREDITCARDMSGSRSV1":
				p.institutionMessageName = "CREDITCARDMSGSRSV1"
				p.state = stateReadInstitutionMessage
			default:
				return nil, p.unexpectedKey(key, "ReadOpen")
			}

		case stateReadInstitutionMessage:
			key, ok, err := p.getField(p.institutionMessageName)
			if err != nil {
				return nil, err
			}
			if !ok {
				p.state = stateReadOpen
				continue
			}
			switch key {
			case "STMTTRNRS":
				p.statementTransactionResponseName = "STMTTRNRS"
				p.state = stateReadStatementTransactionResponse
			case "CCSTMTTRNRS":
				p.statementTransactionResponseName = "CCSTMTTRNRS"
				p.state = stateReadStatementTransactionResponse
			default:
				return nil, p.unexpectedKey(key, "ReadInstitutionMessage")
			}

		case stateReadStatementTransactionResponse:
			key, ok, err := p.getField(p.statementTransactionResponseName)
			if err != nil {
				return nil, err
			}
			if !ok {
				p.state = stateReadInstitutionMessage
				continue
			}
			switch key {
			case "TRNUID":
				if _, err := p.getU32(); err != nil {
					return nil, fmt.Errorf("error parsing key 'TRNUID': %w", err)
				}
			case "STATUS":
				if err := p.checkStatus(); err != nil {
					return nil, err
				}
			case "STMTRS":
				p.statementResponseName = "STMTRS"
				p.state = stateReadStatementResponse
			case "CCSTMTRS":
				p.statementResponseName = "CCSTMTRS"
				p.state = stateReadStatementResponse
			default:
				return nil, p.unexpectedKey(key, "ReadStatementTransactionResponse")
			}

		case stateReadStatementResponse:
			key, ok, err := p.getField(p.statementResponseName)
			if err != nil {
				return nil, err
			}
			if !ok {
				p.state = stateReadStatementTransactionResponse
				continue
			}
			switch key {
			case "CURDEF":
				if err := p.checkCurrency(); err != nil {
					return nil, err
				}
			case "BANKACCTFROM":
				if err := p.checkAccountFrom("BANKACCTFROM"); err != nil {
					return nil, err
				}
			case "CCACCTFROM":
				if err := p.checkAccountFrom("CCACCTFROM"); err != nil {
					return nil, err
				}
			case "BANKTRANLIST":
				p.readStartDate, p.readEndDate = false, false
				p.state = stateReadTransactionList
			case "LEDGERBAL":
				if err := p.checkBalance("LEDGERBAL"); err != nil {
					return nil, err
				}
			case "AVAILBAL":
				if err := p.checkBalance("AVAILBAL"); err != nil {
					return nil, err
				}
			default:
				return nil, p.unexpectedKey(key, "ReadStatementResponse")
			}

		case stateReadTransactionList:
			key, ok, err := p.getField("BANKTRANLIST")
			if err != nil {
				return nil, err
			}
			if !ok {
				if !p.readStartDate {
					return nil, fmt.Errorf("missing field 'DTSTART'")
				}
				if !p.readEndDate {
					return nil, fmt.Errorf("missing field 'DTEND'")
				}
				p.state = stateReadStatementResponse
				continue
			}
			switch key {
			case "DTSTART":
				if _, err := p.getTimestamp(); err != nil {
					return nil, fmt.Errorf("error parsing key 'DTSTART': %w", err)
				}
				p.readStartDate = true
			case "DTEND":
				if _, err := p.getTimestamp(); err != nil {
					return nil, fmt.Errorf("error parsing key 'DTEND': %w", err)
				}
				p.readEndDate = true
			case "STMTTRN":
				p.state = stateReadTransaction
				transactionType, datePosted, amount, transactionID, name, memo = nil, nil, nil, nil, nil, nil
			default:
				return nil, p.unexpectedKey(key, "ReadTransactionList")
			}

		case stateReadTransaction:
			key, ok, err := p.getField("STMTTRN")
			if err != nil {
				return nil, err
			}
			if !ok {
				if transactionType == nil {
					return nil, fmt.Errorf("missing field 'TRNTYPE'")
				}
				if datePosted == nil {
					return nil, fmt.Errorf("missing field 'DTPOSTED'")
				}
				if amount == nil {
					return nil, fmt.Errorf("missing field 'TRNAMT'")
				}
				if transactionID == nil {
					return nil, fmt.Errorf("missing field 'FITID'")
				}
				if name == nil {
					return nil, fmt.Errorf("missing field 'NAME'")
				}

				txn := &StatementTransaction{
					TransactionType: *transactionType,
					DatePosted:      *datePosted,
					Amount:          *amount,
					TransactionID:   *transactionID,
					Name:            *name,
					Memo:            memo,
				}
				p.state = stateReadTransactionList
				return txn, nil
			}

			switch key {
			case "TRNTYPE":
				if transactionType != nil {
					return nil, fmt.Errorf("duplicate key 'TRNTYPE'")
				}
				v, err := p.getTransactionType()
				if err != nil {
					return nil, fmt.Errorf("error parsing key 'TRNTYPE': %w", err)
				}
				transactionType = &v
			case "DTPOSTED":
				if datePosted != nil {
					return nil, fmt.Errorf("duplicate key 'DTPOSTED'")
				}
				v, err := p.getTimestamp()
				if err != nil {
					return nil, fmt.Errorf("error parsing key 'DTPOSTED': %w", err)
				}
				datePosted = &v
			case "DTUSER":
				if _, err := p.getTimestampNaive(); err != nil {
					return nil, fmt.Errorf("error parsing key 'DTUSER': %w", err)
				}
			case "TRNAMT":
				if amount != nil {
					return nil, fmt.Errorf("duplicate key 'TRNAMT'")
				}
				v, err := p.getDecimal()
				if err != nil {
					return nil, fmt.Errorf("error parsing key 'TRNAMT': %w", err)
				}
				amount = &v
			case "FITID":
				if transactionID != nil {
					return nil, fmt.Errorf("duplicate key 'FITID'")
				}
				v, err := p.getValue()
				if err != nil {
					return nil, fmt.Errorf("error parsing key 'FITID': %w", err)
				}
				transactionID = &v
			case "NAME":
				if name != nil {
					return nil, fmt.Errorf("duplicate key 'NAME'")
				}
				v, err := p.getValue()
				if err != nil {
					return nil, fmt.Errorf("error parsing key 'NAME': %w", err)
				}
				name = &v
			case "CCACCTTO":
				if err := p.getAccountTo(); err != nil {
					return nil, fmt.Errorf("error parsing key 'CCACCTTO': %w", err)
				}
			case "MEMO":
				if memo != nil {
					return nil, fmt.Errorf("duplicate key 'MEMO'")
				}
				v, err := p.getValue()
				if err != nil {
					return nil, fmt.Errorf("error parsing key 'MEMO': %w", err)
				}
				memo = &v
			default:
				return nil, p.unexpectedKey(key, "ReadTransaction")
			}

		case stateReadClose:
			return nil, io.EOF
		}
	}
}

func (p *Parser) unexpectedKey(key, state string) error {
	return fmt.Errorf("unexpected key %q for state %s", key, state)
}

func (p *Parser) checkSignOnMessageResponseV1() error {
	var sawSONRS bool
	for {
		key, ok, err := p.getField("SIGNONMSGSRSV1")
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch key {
		case "SONRS":
			if sawSONRS {
				return fmt.Errorf("duplicate struct 'SONRS'")
			}
			if err := p.checkSignOnResponse(); err != nil {
				return err
			}
			sawSONRS = true
		default:
			return p.unexpectedKey(key, "SIGNONMSGSRSV1")
		}
	}
	if !sawSONRS {
		return fmt.Errorf("missing field 'SONRS'")
	}
	return nil
}

func (p *Parser) checkSignOnResponse() error {
	var status, serverDate, language, financialInstitution, bankID bool
	for {
		key, ok, err := p.getField("SONRS")
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch key {
		case "STATUS":
			if err := p.checkStatus(); err != nil {
				return err
			}
			status = true
		case "DTSERVER":
			if _, err := p.getTimestamp(); err != nil {
				return fmt.Errorf("error parsing key 'DTSERVER': %w", err)
			}
			serverDate = true
		case "LANGUAGE":
			if _, err := p.getValue(); err != nil {
				return fmt.Errorf("error parsing key 'LANGUAGE': %w", err)
			}
			language = true
		case "DTPROFUP":
			if _, err := p.getTimestamp(); err != nil {
				return fmt.Errorf("error parsing key 'DTPROFUP': %w", err)
			}
		case "FI":
			if err := p.checkFinancialInstitution(); err != nil {
				return err
			}
			financialInstitution = true
		case "INTU.BID":
			if _, err := p.getU32(); err != nil {
				return fmt.Errorf("error parsing key 'INTU.BID': %w", err)
			}
			bankID = true
		default:
			return p.unexpectedKey(key, "SONRS")
		}
	}

	switch {
	case !status:
		return fmt.Errorf("missing field 'STATUS'")
	case !serverDate:
		return fmt.Errorf("missing field 'DTSERVER'")
	case !language:
		return fmt.Errorf("missing field 'LANGUAGE'")
	case !financialInstitution:
		return fmt.Errorf("missing field 'FI'")
	case !bankID:
		return fmt.Errorf("missing field 'INTU.BID'")
	}
	return nil
}

func (p *Parser) checkStatus() error {
	var code, severity bool
	for {
		key, ok, err := p.getField("STATUS")
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch key {
		case "CODE":
			if _, err := p.getU32(); err != nil {
				return fmt.Errorf("error parsing key 'CODE': %w", err)
			}
			code = true
		case "SEVERITY":
			if _, err := p.getSeverity(); err != nil {
				return fmt.Errorf("error parsing key 'SEVERITY': %w", err)
			}
			severity = true
		case "MESSAGE":
			if _, err := p.getValue(); err != nil {
				return fmt.Errorf("error parsing key 'MESSAGE': %w", err)
			}
		default:
			return p.unexpectedKey(key, "STATUS")
		}
	}
	switch {
	case !code:
		return fmt.Errorf("missing field 'CODE'")
	case !severity:
		return fmt.Errorf("missing field 'SEVERITY'")
	}
	return nil
}

func (p *Parser) checkFinancialInstitution() error {
	var org, fid bool
	for {
		key, ok, err := p.getField("FI")
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch key {
		case "ORG":
			if _, err := p.getValue(); err != nil {
				return fmt.Errorf("error parsing key 'ORG': %w", err)
			}
			org = true
		case "FID":
			if _, err := p.getU32(); err != nil {
				return fmt.Errorf("error parsing key 'FID': %w", err)
			}
			fid = true
		default:
			return p.unexpectedKey(key, "FI")
		}
	}
	switch {
	case !org:
		return fmt.Errorf("missing field 'ORG'")
	case !fid:
		return fmt.Errorf("missing field 'FID'")
	}
	return nil
}

func (p *Parser) checkAccountFrom(structName string) error {
	var acctID bool
	for {
		key, ok, err := p.getField(structName)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch key {
		case "BANKID":
			if _, err := p.getU32(); err != nil {
				return fmt.Errorf("error parsing key 'BANKID': %w", err)
			}
		case "ACCTID":
			v, err := p.getValue()
			if err != nil {
				return fmt.Errorf("error parsing key 'ACCTID': %w", err)
			}
			acctID = true
			if p.accountIDs == nil {
				p.accountIDs = make(map[string]struct{})
			}
			p.accountIDs[v] = struct{}{}
		case "ACCTTYPE":
			if _, err := p.getAccountType(); err != nil {
				return fmt.Errorf("error parsing key 'ACCTTYPE': %w", err)
			}
		default:
			return p.unexpectedKey(key, structName)
		}
	}
	if !acctID {
		return fmt.Errorf("missing field 'ACCTID'")
	}
	return nil
}

func (p *Parser) checkBalance(structName string) error {
	var amount, timestamp bool
	for {
		key, ok, err := p.getField(structName)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch key {
		case "BALAMT":
			if _, err := p.getDecimal(); err != nil {
				return fmt.Errorf("error parsing key 'BALAMT': %w", err)
			}
			amount = true
		case "DTASOF":
			if _, err := p.getTimestamp(); err != nil {
				return fmt.Errorf("error parsing key 'DTASOF': %w", err)
			}
			timestamp = true
		default:
			return p.unexpectedKey(key, structName)
		}
	}
	switch {
	case !amount:
		return fmt.Errorf("missing field 'BALAMT'")
	case !timestamp:
		return fmt.Errorf("missing field 'DTASOF'")
	}
	return nil
}

func (p *Parser) getAccountTo() error {
	var acctID bool
	for {
		key, ok, err := p.getField("CCACCTTO")
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch key {
		case "ACCTID":
			if _, err := p.getU32(); err != nil {
				return fmt.Errorf("error parsing key 'ACCTID': %w", err)
			}
			acctID = true
		default:
			return p.unexpectedKey(key, "CCACCTTO")
		}
	}
	if !acctID {
		return fmt.Errorf("missing field 'ACCTID'")
	}
	return nil
}

func (p *Parser) getToken() (Token, error) {
	tok, err := p.tokens.Next()
	if err == io.EOF {
		return Token{}, fmt.Errorf("unexpected end of file")
	}
	return tok, err
}

func (p *Parser) getKey() (string, error) {
	tok, err := p.getToken()
	if err != nil {
		return "", err
	}
	if tok.Kind != OpenTag {
		return "", fmt.Errorf("expected key, got: %+v", tok)
	}
	return tok.Name, nil
}

// getField returns the next key name, or ok=false if the next token is the
// closing tag for structName.
func (p *Parser) getField(structName string) (string, bool, error) {
	tok, err := p.getToken()
	if err != nil {
		return "", false, err
	}
	switch tok.Kind {
	case OpenTag:
		return tok.Name, true, nil
	case CloseTag:
		if tok.Name == structName {
			return "", false, nil
		}
		return "", false, fmt.Errorf("expected closing tag %q, got: %+v", structName, tok)
	default:
		return "", false, fmt.Errorf("expected key, got: %+v", tok)
	}
}

func (p *Parser) getValue() (string, error) {
	tok, err := p.getToken()
	if err != nil {
		return "", err
	}
	if tok.Kind != Value {
		return "", fmt.Errorf("expected value, got: %+v", tok)
	}
	if p.tokens.isXML {
		// XML never elides a value's closing tag, so consume it here.
		key := string(p.tokens.lastOpen)
		closeTok, err := p.getToken()
		if err != nil {
			return "", err
		}
		if closeTok.Kind != CloseTag || closeTok.Name != key {
			return "", fmt.Errorf("expected closing tag %q after value, got: %+v", key, closeTok)
		}
	}
	return tok.Text, nil
}

func (p *Parser) getU32() (uint32, error) {
	v, err := p.getValue()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("failed to parse u32 value %q: %w", v, err)
	}
	return uint32(n), nil
}

func (p *Parser) getDecimal() (decimal.Decimal, error) {
	v, err := p.getValue()
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse decimal value %q: %w", v, err)
	}
	return d, nil
}

const ofxTimestampLayout = "20060102150405"

// getTimestamp parses DTPOSTED/DTSERVER/DTSTART/DTEND/DTASOF, which accept
// either "YYYYMMDDHHMMSS[.fff][±H:TZ]" or a naive form with no timezone.
func (p *Parser) getTimestamp() (time.Time, error) {
	v, err := p.getValue()
	if err != nil {
		return time.Time{}, err
	}

	if strings.HasSuffix(v, "]") {
		datetimeStr, tzBlock, ok := strings.Cut(v, "[")
		if !ok {
			return time.Time{}, fmt.Errorf("timestamp missing start of timezone block: %q", v)
		}
		tzBlock = strings.TrimSuffix(tzBlock, "]")

		naive, err := parseNaiveTimestamp(datetimeStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
		}

		hoursStr, _, _ := strings.Cut(tzBlock, ":")
		hours, err := strconv.ParseInt(hoursStr, 10, 8)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timezone offset %q: %w", hoursStr, err)
		}
		if hours < -23 || hours > 23 {
			return time.Time{}, fmt.Errorf("out of bounds timezone offset: %d", hours)
		}

		loc := time.FixedZone("", int(hours)*60*60)
		return time.Date(naive.Year(), naive.Month(), naive.Day(), naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(), loc), nil
	}

	naive, err := parseNaiveTimestamp(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse naive date value: %w", err)
	}
	loc := p.getLocalTimezone()
	return time.Date(naive.Year(), naive.Month(), naive.Day(), naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(), loc), nil
}

func (p *Parser) getTimestampNaive() (time.Time, error) {
	v, err := p.getValue()
	if err != nil {
		return time.Time{}, err
	}
	t, err := parseNaiveTimestamp(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse naive date value: %w", err)
	}
	return t, nil
}

// parseNaiveTimestamp parses "YYYYMMDDHHMMSS" with an optional ".fff"
// fractional-seconds suffix, with no timezone.
func parseNaiveTimestamp(s string) (time.Time, error) {
	datePart, fracPart, hasFrac := strings.Cut(s, ".")
	if len(datePart) < len(ofxTimestampLayout) {
		return time.Time{}, fmt.Errorf("timestamp %q too short", s)
	}
	t, err := time.ParseInLocation(ofxTimestampLayout, datePart[:len(ofxTimestampLayout)], time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	if hasFrac {
		frac := fracPart
		if len(frac) > 9 {
			frac = frac[:9]
		}
		for len(frac) < 9 {
			frac += "0"
		}
		nanos, err := strconv.Atoi(frac)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid fractional seconds %q: %w", fracPart, err)
		}
		t = t.Add(time.Duration(nanos))
	}
	return t, nil
}

func (p *Parser) getSeverity() (Severity, error) {
	v, err := p.getValue()
	if err != nil {
		return 0, err
	}
	if v != "INFO" {
		return 0, fmt.Errorf("unexpected severity: %q", v)
	}
	return SeverityInfo, nil
}

func (p *Parser) checkCurrency() error {
	v, err := p.getValue()
	if err != nil {
		return err
	}
	if v != "CAD" {
		return fmt.Errorf("unexpected currency: %q", v)
	}
	return nil
}

func (p *Parser) getAccountType() (string, error) {
	v, err := p.getValue()
	if err != nil {
		return "", err
	}
	if v != "SAVINGS" {
		return "", fmt.Errorf("unexpected account type: %q", v)
	}
	return v, nil
}

func (p *Parser) getTransactionType() (string, error) {
	v, err := p.getValue()
	if err != nil {
		return "", err
	}
	switch v {
	case "DEBIT", "CREDIT", "POS", "ATM", "FEE", "OTHER":
		return v, nil
	default:
		return "", fmt.Errorf("unexpected transaction type: %q", v)
	}
}

func (p *Parser) expectDone() error {
	tok, err := p.tokens.Next()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("unexpected token at end of file: %+v", tok)
}

// getLocalTimezone memoizes the host's local UTC offset for the lifetime of
// this Parser, for the lifetime of the file.
func (p *Parser) getLocalTimezone() *time.Location {
	if p.localTimezone == nil {
		_, offset := time.Now().Zone()
		p.localTimezone = time.FixedZone("", offset)
	}
	return p.localTimezone
}
