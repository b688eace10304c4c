package ofx

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const sampleBankOFX = "OFXHEADER:100\r\n" +
	"DATA:OFXSGML\r\n" +
	"VERSION:102\r\n" +
	"SECURITY:NONE\r\n" +
	"ENCODING:USASCII\r\n" +
	"CHARSET:1252\r\n" +
	"COMPRESSION:NONE\r\n" +
	"OLDFILEUID:NONE\r\n" +
	"NEWFILEUID:NONE\r\n" +
	"\r\n" +
	"<OFX><SIGNONMSGSRSV1><SONRS><STATUS><CODE>0<SEVERITY>INFO</STATUS>" +
	"<DTSERVER>20240315120000[0:GMT]<LANGUAGE>ENG<DTPROFUP>20240101000000" +
	"<FI><ORG>TESTBANK<FID>1001</FI><INTU.BID>1001</SONRS></SIGNONMSGSRSV1>" +
	"<BANKMSGSRSV1><STMTTRNRS><TRNUID>1<STATUS><CODE>0<SEVERITY>INFO</STATUS>" +
	"<STMTRS><CURDEF>CAD<BANKACCTFROM><BANKID>1<ACCTID>12345<ACCTTYPE>SAVINGS</BANKACCTFROM>" +
	"<BANKTRANLIST><DTSTART>20240301000000<DTEND>20240315000000" +
	"<STMTTRN><TRNTYPE>DEBIT<DTPOSTED>20240305120000[-5:EST]<TRNAMT>-42.50<FITID>20240305001" +
	"<NAME>COFFEE SHOP<MEMO>Morning coffee</STMTTRN>" +
	"<STMTTRN><TRNTYPE>CREDIT<DTPOSTED>20240310080000[-5:EST]<TRNAMT>1200.00<FITID>20240310001" +
	"<NAME>PAYROLL DEPOSIT</STMTTRN>" +
	"</BANKTRANLIST>" +
	"<LEDGERBAL><BALAMT>5000.00<DTASOF>20240315000000[-5:EST]</LEDGERBAL>" +
	"</STMTRS></STMTTRNRS></BANKMSGSRSV1></OFX>"

func TestParserReadsSGMLTransactions(t *testing.T) {
	p, err := Open(strings.NewReader(sampleBankOFX))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	first, err := p.Next()
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}
	if first.Name != "COFFEE SHOP" || first.TransactionType != "DEBIT" {
		t.Fatalf("unexpected first transaction: %+v", first)
	}
	if first.Memo == nil || *first.Memo != "Morning coffee" {
		t.Fatalf("expected memo 'Morning coffee', got %+v", first.Memo)
	}
	if !first.Amount.Equal(decimal.RequireFromString("-42.50")) {
		t.Fatalf("unexpected amount: %s", first.Amount)
	}

	second, err := p.Next()
	if err != nil {
		t.Fatalf("second Next failed: %v", err)
	}
	if second.Name != "PAYROLL DEPOSIT" || second.TransactionType != "CREDIT" {
		t.Fatalf("unexpected second transaction: %+v", second)
	}
	if second.Memo != nil {
		t.Fatalf("expected no memo, got %+v", second.Memo)
	}

	if _, err := p.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after last transaction, got %v", err)
	}
}

func TestParserRejectsDuplicateField(t *testing.T) {
	bad := strings.Replace(sampleBankOFX, "<TRNTYPE>DEBIT", "<TRNTYPE>DEBIT<TRNTYPE>DEBIT", 1)
	p, err := Open(strings.NewReader(bad))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := p.Next(); err == nil {
		t.Fatalf("expected duplicate TRNTYPE error")
	}
}

func TestParserXMLDialect(t *testing.T) {
	const xmlOFX = `<?xml version="1.0" encoding="utf-8"?>
<?OFX OFXHEADER="200" VERSION="202" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="NONE"?>
<OFX><SIGNONMSGSRSV1><SONRS><STATUS><CODE>0</CODE><SEVERITY>INFO</SEVERITY></STATUS>
<DTSERVER>20240315120000[0:GMT]</DTSERVER><LANGUAGE>ENG</LANGUAGE><DTPROFUP>20240101000000</DTPROFUP>
<FI><ORG>TESTBANK</ORG><FID>1001</FID></FI><INTU.BID>1001</INTU.BID></SONRS></SIGNONMSGSRSV1>
<BANKMSGSRSV1><STMTTRNRS><TRNUID>1</TRNUID><STATUS><CODE>0</CODE><SEVERITY>INFO</SEVERITY></STATUS>
<STMTRS><CURDEF>CAD</CURDEF><BANKACCTFROM><BANKID>1</BANKID><ACCTID>12345</ACCTID><ACCTTYPE>SAVINGS</ACCTTYPE></BANKACCTFROM>
<BANKTRANLIST><DTSTART>20240301000000</DTSTART><DTEND>20240315000000</DTEND>
<STMTTRN><TRNTYPE>DEBIT</TRNTYPE><DTPOSTED>20240305120000[-5:EST]</DTPOSTED><TRNAMT>-12.34</TRNAMT>
<FITID>xml-001</FITID><NAME>café purchase</NAME></STMTTRN>
</BANKTRANLIST>
<LEDGERBAL><BALAMT>100.00</BALAMT><DTASOF>20240315000000[-5:EST]</DTASOF></LEDGERBAL>
</STMTRS></STMTTRNRS></BANKMSGSRSV1></OFX>`

	p, err := Open(strings.NewReader(xmlOFX))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	txn, err := p.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if txn.TransactionID != "xml-001" {
		t.Fatalf("unexpected transaction id: %q", txn.TransactionID)
	}

	if _, err := p.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}
