package model

import (
	"errors"
	"fmt"
)

// Sentinel errors usable with errors.Is, one per category-rule-build and
// categorization failure kind.
var (
	// ErrDuplicateRule is the sentinel behind DuplicateRuleError.
	ErrDuplicateRule = errors.New("duplicate rule pattern")
	// ErrMissingPrefix is the sentinel behind MissingPrefixError.
	ErrMissingPrefix = errors.New("prefix mode requires a prefix")
	// ErrDuplicatePrefix is the sentinel behind DuplicatePrefixError.
	ErrDuplicatePrefix = errors.New("duplicate prefix for account")
	// ErrMissingSourceType is the sentinel behind MissingSourceTypeError.
	ErrMissingSourceType = errors.New("source_type mode requires a source type")
	// ErrDuplicateSourceType is the sentinel behind DuplicateSourceTypeError.
	ErrDuplicateSourceType = errors.New("duplicate source type for account")

	// ErrMatchedTypeAndPrefix is the sentinel behind MatchedTypeAndPrefixError.
	ErrMatchedTypeAndPrefix = errors.New("transaction matched both a prefix and a source type")
	// ErrMissingMemo is returned when NameSourceMemo is configured but the
	// transaction carries no memo.
	ErrMissingMemo = errors.New("name_source is memo but transaction has no memo")
	// ErrNameSuffixInSourceType is returned when NameSourceNameSuffix is
	// configured but the match came from a source-type decoder, which has
	// no matched prefix to strip.
	ErrNameSuffixInSourceType = errors.New("name_source is name_suffix but transaction matched by source type")
	// ErrPrefixNotContained is returned when the matched prefix is, by
	// construction, not actually a prefix of the transaction name.
	ErrPrefixNotContained = errors.New("matched prefix is not a prefix of the transaction name")
)

// DuplicateRuleError reports two TransactionRuleConfig entries claiming the
// same (user_type, pattern) pair.
type DuplicateRuleError struct {
	Pattern  string
	Existing string
	New      string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("duplicate rule for pattern %q: existing category %q, new category %q", e.Pattern, e.Existing, e.New)
}

// Unwrap allows errors.Is(err, ErrDuplicateRule).
func (e *DuplicateRuleError) Unwrap() error { return ErrDuplicateRule }

// MissingPrefixError reports a Prefix-mode TransactionTypeConfig with no
// prefix set.
type MissingPrefixError struct{ UserType string }

func (e *MissingPrefixError) Error() string {
	return fmt.Sprintf("transaction type %q is in prefix mode but has no prefix", e.UserType)
}

// Unwrap allows errors.Is(err, ErrMissingPrefix).
func (e *MissingPrefixError) Unwrap() error { return ErrMissingPrefix }

// DuplicatePrefixError reports two decoders claiming the same prefix within
// one account.
type DuplicatePrefixError struct {
	Account string
	Prefix  string
}

func (e *DuplicatePrefixError) Error() string {
	return fmt.Sprintf("account %q already has a decoder registered for prefix %q", e.Account, e.Prefix)
}

// Unwrap allows errors.Is(err, ErrDuplicatePrefix).
func (e *DuplicatePrefixError) Unwrap() error { return ErrDuplicatePrefix }

// MissingSourceTypeError reports a SourceType-mode TransactionTypeConfig
// with no source type set.
type MissingSourceTypeError struct{ UserType string }

func (e *MissingSourceTypeError) Error() string {
	return fmt.Sprintf("transaction type %q is in source_type mode but has no source_type", e.UserType)
}

// Unwrap allows errors.Is(err, ErrMissingSourceType).
func (e *MissingSourceTypeError) Unwrap() error { return ErrMissingSourceType }

// DuplicateSourceTypeError reports two decoders claiming the same source
// type within one account.
type DuplicateSourceTypeError struct {
	Account string
	Type    TransactionType
}

func (e *DuplicateSourceTypeError) Error() string {
	return fmt.Sprintf("account %q already has a decoder registered for source type %q", e.Account, e.Type)
}

// Unwrap allows errors.Is(err, ErrDuplicateSourceType).
func (e *DuplicateSourceTypeError) Unwrap() error { return ErrDuplicateSourceType }

// MatchedTypeAndPrefixError reports an ambiguous classification where both
// a prefix decoder and a source-type decoder matched.
type MatchedTypeAndPrefixError struct {
	Account string
	Prefix  string
	Name    string
	Type    TransactionType
}

func (e *MatchedTypeAndPrefixError) Error() string {
	return fmt.Sprintf("account %q: transaction %q matched both prefix %q and source type %q", e.Account, e.Name, e.Prefix, e.Type)
}

// Unwrap allows errors.Is(err, ErrMatchedTypeAndPrefix).
func (e *MatchedTypeAndPrefixError) Unwrap() error { return ErrMatchedTypeAndPrefix }
