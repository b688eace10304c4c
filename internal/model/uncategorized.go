package model

// UncategorizedTransaction is persisted when the categorizer cannot assign
// a category, so the reason can be used to refine config.toml.
//
// MissingRule distinguishes the two possible reasons a transaction goes
// uncategorized: false means no prefix/source-type decoder matched the
// account and name/type at all; true means a decoder matched but its
// display name had no rule bound to it.
type UncategorizedTransaction struct {
	// Account is the account the transaction belongs to.
	Account string
	// Type is the decoder's UserType when MissingRule is true, or the raw
	// OFX/CSV source TransactionType when MissingRule is false.
	Type string
	// Text is the transaction name (MissingType) or the resolved display
	// name (MissingRule).
	Text string
	// MissingRule is false for "no decoder matched" and true for "decoder
	// matched but had no rule for this display name".
	MissingRule bool
}
