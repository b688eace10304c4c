package ofx

import (
	"fmt"
	"io"
)

// TokenKind identifies which of the three OFX token shapes a Token is.
type TokenKind int

// Recognized token kinds.
const (
	OpenTag TokenKind = iota
	CloseTag
	Value
)

// Token is one lexical unit of an OFX document: an open tag, a close tag,
// or a decoded value .
type Token struct {
	Name  string // tag name, for OpenTag/CloseTag
	Text  string // decoded text, for Value
	Kind  TokenKind
}

// Tokenizer is a pull-based scanner over a decoded Buffer, implementing the
// tokenizer state machine, including the SGML "elide implicit close
// after value" rule.
type Tokenizer struct {
	buf      *Buffer
	data     []byte
	isXML    bool
	pos      int
	lastOpen []byte // most recent OpenTag name; cleared on CloseTag
	lastWasValue bool
}

// NewTokenizer creates a Tokenizer over buf. isXML disables the SGML
// implicit-close elision rule (XML dialect never elides).
func NewTokenizer(buf *Buffer, isXML bool) *Tokenizer {
	return &Tokenizer{buf: buf, data: buf.Bytes(), isXML: isXML}
}

type keyKind int

const (
	keyNone keyKind = iota
	keyOpen
	keyClose
)

// findToken scans data[start:] for the next token boundary, mirroring
// lexer.rs's find_token: it returns how many bytes were consumed, the byte
// range holding the (as yet unstripped) key or value text, and which kind
// of key was found, if any.
func findToken(full []byte, base int) (consumed int, valueStart, valueEnd int, kind keyKind, err error) {
	data := full[base:]
	kind = keyNone

	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '<':
			switch kind {
			case keyOpen, keyClose:
				return 0, 0, 0, 0, fmt.Errorf("start of key inside key%s", excerpt(full, base+i))
			case keyNone:
				if i > 0 {
					return i, 0, i, keyNone, nil
				}
				kind = keyOpen
			}
		case '>':
			switch kind {
			case keyOpen:
				return i + 1, 1, i, keyOpen, nil
			case keyClose:
				return i + 1, 2, i, keyClose, nil
			case keyNone:
				return 0, 0, 0, 0, fmt.Errorf("end of key without start of key%s", excerpt(full, base+i))
			}
		case '/':
			if kind == keyOpen {
				if i != 1 {
					return 0, 0, 0, 0, fmt.Errorf("slash in key name%s", excerpt(full, base+i))
				}
				kind = keyClose
			} else if kind == keyClose {
				return 0, 0, 0, 0, fmt.Errorf("slash in key name%s", excerpt(full, base+i))
			}
		}
	}

	if len(data) == 0 {
		return 0, 0, 0, 0, io.EOF
	}
	if kind != keyNone {
		return 0, 0, 0, 0, fmt.Errorf("end of file in key%s", excerpt(full, base+len(data)))
	}
	return len(data), 0, len(data), keyNone, nil
}

// excerpt renders a ±10 char diagnostic window around pos with a caret
// underline, .
func excerpt(data []byte, pos int) string {
	const radius = 10
	start := pos - radius
	if start < 0 {
		start = 0
	}
	end := pos + radius
	if end > len(data) {
		end = len(data)
	}

	window := string(data[start:end])
	caretPos := pos - start
	caret := make([]byte, caretPos)
	for i := range caret {
		caret[i] = ' '
	}
	return fmt.Sprintf(" at byte %d:\n  %s\n  %s^", pos, window, string(caret))
}

func trimASCIISpace(data []byte, start, end int) (int, int) {
	for start < end && isASCIISpace(data[start]) {
		start++
	}
	for end > start && isASCIISpace(data[end-1]) {
		end--
	}
	return start, end
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// stripCRLF removes carriage returns and newlines that appear inside a
// value's text, .
func stripCRLF(s string) string {
	hasCRLF := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' || s[i] == '\n' {
			hasCRLF = true
			break
		}
	}
	if !hasCRLF {
		return s
	}

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' || s[i] == '\n' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

// Next returns the next token, or io.EOF once the buffer is exhausted.
func (t *Tokenizer) Next() (Token, error) {
	for {
		if t.pos == len(t.data) {
			return Token{}, io.EOF
		}

		consumed, relStart, relEnd, kind, err := findToken(t.data, t.pos)
		if err != nil {
			return Token{}, err
		}

		start := t.pos + relStart
		end := t.pos + relEnd
		start, end = trimASCIISpace(t.data, start, end)
		t.pos += consumed

		switch kind {
		case keyOpen:
			if start == end {
				return Token{}, fmt.Errorf("empty key%s", excerpt(t.data, t.pos))
			}
			name := string(t.data[start:end])
			t.lastWasValue = false
			t.lastOpen = t.data[start:end]
			return Token{Kind: OpenTag, Name: name}, nil

		case keyClose:
			if start == end {
				return Token{}, fmt.Errorf("empty key%s", excerpt(t.data, t.pos))
			}
			name := string(t.data[start:end])

			hide := !t.isXML && t.lastWasValue && t.lastOpen != nil && string(t.lastOpen) == name
			t.lastOpen = nil
			t.lastWasValue = false

			if hide {
				continue
			}
			return Token{Kind: CloseTag, Name: name}, nil

		default: // value
			if start == end {
				continue
			}
			text, err := t.buf.Decode(start, end)
			if err != nil {
				return Token{}, err
			}
			text = stripCRLF(text)
			if text == "" {
				continue
			}
			t.lastWasValue = true
			return Token{Kind: Value, Text: text}, nil
		}
	}
}
