package ofx

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// TestOpenLenientToleratesMixedCaseSeverity confirms the real malformation
// Preprocess exists for: a strict Open rejects a mixed-case SEVERITY value,
// but OpenLenient normalizes it first and parses the file through to EOF.
func TestOpenLenientToleratesMixedCaseSeverity(t *testing.T) {
	malformed := strings.Replace(sampleBankOFX, "<SEVERITY>INFO", "<SEVERITY>info", 1)

	strictP, err := Open(strings.NewReader(malformed))
	if err != nil {
		t.Fatalf("strict Open (header stage) unexpectedly failed: %v", err)
	}
	strictFailed := false
	for {
		if _, err := strictP.Next(); err != nil {
			if !errors.Is(err, io.EOF) {
				strictFailed = true
			}
			break
		}
	}
	if !strictFailed {
		t.Fatalf("expected strict parsing to reject the mixed-case SEVERITY value")
	}

	lenientP, err := OpenLenient(strings.NewReader(malformed))
	if err != nil {
		t.Fatalf("OpenLenient failed: %v", err)
	}

	count := 0
	for {
		_, err := lenientP.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("lenient Next failed: %v", err)
		}
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 transactions from the lenient parse, got %d", count)
	}
}

func TestPreprocessFixesMissingClosingBracket(t *testing.T) {
	input := "<SEVERITY\nINFO"
	got := Preprocess(input)
	want := "<SEVERITY>\nINFO"
	if got != want {
		t.Fatalf("Preprocess(%q) = %q, want %q", input, got, want)
	}
}
