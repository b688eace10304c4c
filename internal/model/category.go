package model

// IncomeMode is the income/expense classification mode for a
// TransactionTypeConfig entry.
type IncomeMode string

// Recognized income modes. Auto resolves per-transaction from the amount's
// sign at classify time (see DESIGN.md, Open Question resolution).
const (
	IncomeYes  IncomeMode = "yes"
	IncomeNo   IncomeMode = "no"
	IncomeAuto IncomeMode = "auto"
)

// NameSource selects which field feeds the final rule-pattern lookup.
type NameSource string

// Recognized name sources.
const (
	NameSourceMemo       NameSource = "memo"
	NameSourceName       NameSource = "name"
	NameSourceNameSuffix NameSource = "name_suffix"
)

// TransactionTypeMode selects whether a TransactionTypeConfig is keyed by a
// name prefix or by the OFX source type code.
type TransactionTypeMode string

// Recognized transaction-type modes.
const (
	ModePrefix     TransactionTypeMode = "prefix"
	ModeSourceType TransactionTypeMode = "source_type"
)

// AccountConfig names one account source directory to walk during import.
type AccountConfig struct {
	Name       string `mapstructure:"name"`
	SourcePath string `mapstructure:"source_path"`
}

// TransactionTypeConfig binds a user-facing transaction type to either a
// name prefix (trie-matched) or an OFX source type (exact-matched), for a
// set of accounts.
type TransactionTypeConfig struct {
	Prefix     *string             `mapstructure:"prefix"`
	SourceType *TransactionType    `mapstructure:"source_type"`
	Mode       TransactionTypeMode `mapstructure:"mode"`
	UserType   string              `mapstructure:"user_type"`
	Income     IncomeMode          `mapstructure:"income"`
	NameSource NameSource          `mapstructure:"name_source"`
	Accounts   []string            `mapstructure:"accounts"`
}

// TransactionRuleConfig maps a set of exact display-name patterns, for one
// user transaction type, to a category.
type TransactionRuleConfig struct {
	UserType string   `mapstructure:"user_type"`
	Category string   `mapstructure:"category"`
	Patterns []string `mapstructure:"patterns"`
	Ignore   bool     `mapstructure:"ignore"`
}

// CategoryConfig is the full contents of config.toml.
type CategoryConfig struct {
	Account         []AccountConfig         `mapstructure:"account"`
	TransactionType []TransactionTypeConfig `mapstructure:"transaction_type"`
	Rule            []TransactionRuleConfig `mapstructure:"rule"`
}

// BaseCategory returns the substring of category before the first '.'.
func BaseCategory(category string) string {
	for i := 0; i < len(category); i++ {
		if category[i] == '.' {
			return category[:i]
		}
	}
	return category
}
