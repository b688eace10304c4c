// Package categorize builds and runs the rule-based transaction
// categorizer: a per-account mapping from either a name prefix or an OFX
// source type to a decoder, which resolves a transaction's display name to
// a category via an exact-match rule table.
package categorize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledger-tools/ledgerimport/internal/model"
	"github.com/ledger-tools/ledgerimport/internal/prefixtrie"
)

// patternCategory is the resolved category (and ignore flag) for one
// display-name pattern under one user transaction type.
type patternCategory struct {
	category string
	ignore   bool
}

// decoder holds everything needed to classify a transaction once its
// transaction-type config has been matched: which field to read the
// display name from, whether this type is income, and the display-name to
// category lookup.
type decoder struct {
	userType   string
	nameSource model.NameSource
	income     model.IncomeMode
	categories map[string]patternCategory
}

// Categorization is the result of successfully classifying a transaction.
type Categorization struct {
	Income   bool
	Ignore   bool
	Category string
}

// CategorizationStatus is the outcome of Classify: either a Categorization
// or an UncategorizedTransaction to persist for later triage.
type CategorizationStatus struct {
	Categorization *Categorization
	Uncategorized  *model.UncategorizedTransaction
}

// Categorizer holds the fully built decoder tables for every configured
// account. It is immutable after Build and safe for concurrent use by the
// import pipeline's worker goroutines.
type Categorizer struct {
	prefixMap     map[string]*prefixtrie.Trie[decoder]
	sourceTypeMap map[string]map[model.TransactionType]decoder
	categories    map[categoryKey]struct{}
}

type categoryKey struct {
	name   string
	income bool
}

// Category pairs a category name with whether it is income, as resolved at
// Build time for fixed-polarity (yes/no) transaction types.
type Category struct {
	Name   string
	Income bool
}

// Categories returns the set of (category, income) pairs that Build
// resolved from non-ignored rules under fixed-polarity (IncomeYes/IncomeNo)
// transaction types, for seeding the category table before any
// transactions are imported. Categories reachable only through an
// IncomeAuto transaction type are not included here — their polarity
// depends on each transaction's amount sign and is resolved by Classify,
// with the storage layer upserting the category on first encounter.
func (c *Categorizer) Categories() []Category {
	out := make([]Category, 0, len(c.categories))
	for k := range c.categories {
		out = append(out, Category{Name: k.name, Income: k.income})
	}
	return out
}

// Build compiles transactionTypes and rules into a Categorizer. It returns
// an error (see internal/model's sentinel errors) for any of: a rule
// pattern claimed twice for the same user type, a Prefix-mode type with no
// prefix, a SourceType-mode type with no source type, or two decoders
// registered for the same (account, prefix) or (account, source type) pair.
func Build(transactionTypes []model.TransactionTypeConfig, rules []model.TransactionRuleConfig) (*Categorizer, error) {
	typeCategories := make(map[string]map[string]patternCategory)
	for _, rule := range rules {
		entry, ok := typeCategories[rule.UserType]
		if !ok {
			entry = make(map[string]patternCategory)
			typeCategories[rule.UserType] = entry
		}
		for _, pattern := range rule.Patterns {
			if existing, ok := entry[pattern]; ok {
				return nil, &model.DuplicateRuleError{Pattern: pattern, Existing: existing.category, New: rule.Category}
			}
			entry[pattern] = patternCategory{category: rule.Category, ignore: rule.Ignore}
		}
	}

	usedCategories := make(map[categoryKey]struct{})
	prefixMap := make(map[string]*prefixtrie.Trie[decoder])
	sourceTypeMap := make(map[string]map[model.TransactionType]decoder)

	for _, typeConfig := range transactionTypes {
		categories := typeCategories[typeConfig.UserType]

		if typeConfig.Income != model.IncomeAuto {
			income := typeConfig.Income == model.IncomeYes
			for _, cat := range categories {
				if !cat.ignore {
					usedCategories[categoryKey{name: cat.category, income: income}] = struct{}{}
				}
			}
		}

		d := decoder{
			userType:   typeConfig.UserType,
			nameSource: typeConfig.NameSource,
			income:     typeConfig.Income,
			categories: categories,
		}

		switch typeConfig.Mode {
		case model.ModePrefix:
			if typeConfig.Prefix == nil {
				return nil, &model.MissingPrefixError{UserType: typeConfig.UserType}
			}
			prefix := *typeConfig.Prefix

			for _, account := range typeConfig.Accounts {
				trie, ok := prefixMap[account]
				if !ok {
					trie = prefixtrie.New[decoder]()
					prefixMap[account] = trie
				}
				if _, existed := trie.Insert(prefix, d); existed {
					return nil, &model.DuplicatePrefixError{Account: account, Prefix: prefix}
				}
			}

		case model.ModeSourceType:
			if typeConfig.SourceType == nil {
				return nil, &model.MissingSourceTypeError{UserType: typeConfig.UserType}
			}
			sourceType := *typeConfig.SourceType

			for _, account := range typeConfig.Accounts {
				types, ok := sourceTypeMap[account]
				if !ok {
					types = make(map[model.TransactionType]decoder)
					sourceTypeMap[account] = types
				}
				if _, existed := types[sourceType]; existed {
					return nil, &model.DuplicateSourceTypeError{Account: account, Type: sourceType}
				}
				types[sourceType] = d
			}

		default:
			return nil, fmt.Errorf("unrecognized transaction type mode: %q", typeConfig.Mode)
		}
	}

	return &Categorizer{prefixMap: prefixMap, sourceTypeMap: sourceTypeMap, categories: usedCategories}, nil
}

// Classify resolves one transaction to a Categorization or an
// UncategorizedTransaction. account must be the account name the
// transaction was imported under; name and sourceType come straight from
// the parser; memo is nil if the source had none. amount resolves an
// IncomeAuto transaction type's polarity: positive is income, zero or
// negative is expense.
func (c *Categorizer) Classify(account, name string, sourceType model.TransactionType, memo *string, amount decimal.Decimal) (CategorizationStatus, error) {
	var matchedPrefix string
	var prefixDecoder *decoder
	if trie, ok := c.prefixMap[account]; ok {
		if key, d, ok := trie.LongestPrefixOf(name); ok {
			matchedPrefix = key
			prefixDecoder = &d
		}
	}

	var typeDecoder *decoder
	if types, ok := c.sourceTypeMap[account]; ok {
		if d, ok := types[sourceType]; ok {
			typeDecoder = &d
		}
	}

	var d decoder
	switch {
	case prefixDecoder != nil && typeDecoder == nil:
		d = *prefixDecoder
	case prefixDecoder == nil && typeDecoder != nil:
		d = *typeDecoder
	case prefixDecoder != nil && typeDecoder != nil:
		return CategorizationStatus{}, &model.MatchedTypeAndPrefixError{Account: account, Prefix: matchedPrefix, Name: name, Type: sourceType}
	default:
		return CategorizationStatus{Uncategorized: &model.UncategorizedTransaction{
			Account:     account,
			Type:        string(sourceType),
			Text:        name,
			MissingRule: false,
		}}, nil
	}

	var displayName string
	switch d.nameSource {
	case model.NameSourceMemo:
		if memo == nil {
			return CategorizationStatus{}, model.ErrMissingMemo
		}
		displayName = *memo
	case model.NameSourceName:
		displayName = name
	case model.NameSourceNameSuffix:
		if prefixDecoder == nil {
			return CategorizationStatus{}, model.ErrNameSuffixInSourceType
		}
		suffix, ok := strings.CutPrefix(name, matchedPrefix)
		if !ok {
			return CategorizationStatus{}, model.ErrPrefixNotContained
		}
		displayName = suffix
	default:
		return CategorizationStatus{}, fmt.Errorf("unrecognized name source: %q", d.nameSource)
	}
	displayName = strings.TrimSpace(displayName)

	cat, ok := d.categories[displayName]
	if !ok {
		return CategorizationStatus{Uncategorized: &model.UncategorizedTransaction{
			Account:     account,
			Type:        d.userType,
			Text:        displayName,
			MissingRule: true,
		}}, nil
	}

	var income bool
	switch d.income {
	case model.IncomeYes:
		income = true
	case model.IncomeNo:
		income = false
	case model.IncomeAuto:
		income = amount.Sign() > 0
	default:
		return CategorizationStatus{}, fmt.Errorf("unrecognized income mode: %q", d.income)
	}

	return CategorizationStatus{Categorization: &Categorization{
		Income:   income,
		Ignore:   cat.ignore,
		Category: cat.category,
	}}, nil
}
