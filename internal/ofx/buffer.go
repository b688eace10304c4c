package ofx

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Buffer owns the raw bytes of an OFX file after the envelope header, and
// decodes byte ranges into strings using the header's declared encoding
// . For UTF-8 this is a plain conversion of the backing
// bytes; for Windows-1252 each decode is a copy through
// golang.org/x/text/encoding/charmap, since Windows-1252 code points above
// U+007F are not valid UTF-8 and must be transcoded.
type Buffer struct {
	data     []byte
	encoding Encoding
}

// NewBuffer wraps data for decoding under the given encoding.
func NewBuffer(data []byte, encoding Encoding) *Buffer {
	return &Buffer{data: data, encoding: encoding}
}

// Bytes returns the raw backing bytes, for the tokenizer to scan over
// without any decoding.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Decode converts the given byte range into a string using the buffer's
// encoding.
func (b *Buffer) Decode(start, end int) (string, error) {
	raw := b.data[start:end]
	switch b.encoding {
	case EncodingUTF8:
		return string(raw), nil
	case EncodingWindows1252:
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("failed to decode value as Windows-1252: %w", err)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("unknown encoding %v", b.encoding)
	}
}
