// Package importer walks an account's source directory, dispatches each
// file to the matching format reader, classifies the resulting
// transactions, and writes the categorized stream to a storage.Store.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledger-tools/ledgerimport/internal/csvimport"
	"github.com/ledger-tools/ledgerimport/internal/model"
	"github.com/ledger-tools/ledgerimport/internal/ofx"
)

// TransactionSource is the narrow interface both format readers implement:
// a lazy sequence of transactions terminated by io.EOF.
type TransactionSource interface {
	Next() (model.Transaction, error)
}

// FileSource pairs a TransactionSource with the open file backing it, so the
// caller can release the file handle once the sequence is exhausted.
type FileSource struct {
	TransactionSource
	file *os.File
}

// Close closes the underlying file.
func (s *FileSource) Close() error {
	return s.file.Close()
}

// OpenTransactionSource opens path and returns the FileSource for its
// extension (case-insensitive). Unrecognized extensions are an error.
// lenient, when true, routes .qfx files through ofx.OpenSourceLenient
// instead of ofx.OpenSource to tolerate common real-world malformations.
func OpenTransactionSource(path string, lenient bool) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "qfx":
		openFn := ofx.OpenSource
		if lenient {
			openFn = ofx.OpenSourceLenient
		}
		src, err := openFn(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to open OFX file %s: %w", path, err)
		}
		return &FileSource{TransactionSource: src, file: f}, nil
	case "csv":
		src, err := csvimport.Open(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to open CSV file %s: %w", path, err)
		}
		return &FileSource{TransactionSource: src, file: f}, nil
	default:
		_ = f.Close()
		return nil, fmt.Errorf("unrecognized file type: %s", ext)
	}
}
