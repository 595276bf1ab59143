// Package classification assigns categories, needs/wants labels and transfer
// direction to extracted statement transactions.
package classification

import (
	"strings"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultCategory is returned when no keyword matches.
	DefaultCategory = "Other"
	// TransferCategory is forced on neutralized transfers.
	TransferCategory = "Transfer"
)

// DefaultDiningThreshold is the amount above which any dining expense counts as wants.
var DefaultDiningThreshold = decimal.NewFromInt(50)

// Classifier is safe for concurrent use; its tables are read-only after construction.
type Classifier struct {
	tables          *Tables
	diningThreshold decimal.Decimal
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithDiningThreshold overrides DefaultDiningThreshold.
func WithDiningThreshold(threshold decimal.Decimal) Option {
	return func(c *Classifier) {
		c.diningThreshold = threshold
	}
}

// New creates a Classifier over tables.
func New(tables *Tables, opts ...Option) *Classifier {
	c := &Classifier{tables: tables, diningThreshold: DefaultDiningThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefault creates a Classifier over the embedded tables.
func NewDefault(opts ...Option) (*Classifier, error) {
	tables, err := LoadTables("")
	if err != nil {
		return nil, err
	}
	return New(tables, opts...), nil
}

// Category returns the category whose keyword is the longest match in description.
// Equal-length matches resolve to the category listed first.
func (c *Classifier) Category(description string) string {
	return longestMatch(fold(description), c.tables.Categories, DefaultCategory)
}

// IncomeCategory is the fallback category for income rows the extractor left uncategorized.
func (c *Classifier) IncomeCategory(description string) string {
	return longestMatch(fold(description), c.tables.IncomeCategories, DefaultCategory)
}

func longestMatch(text string, rules []CategoryRule, fallback string) string {
	if text == "" {
		return fallback
	}
	best, bestLen := fallback, 0
	for _, rule := range rules {
		for _, k := range rule.Keywords {
			if len(k) > bestLen && strings.Contains(text, k) {
				best, bestLen = rule.Name, len(k)
			}
		}
	}
	return best
}

// LooksLikeTransfer reports whether text uses transfer or savings vocabulary.
func (c *Classifier) LooksLikeTransfer(text string) bool {
	return c.looksLikeTransfer(fold(text))
}

func (c *Classifier) looksLikeTransfer(folded string) bool {
	if folded == "" {
		return false
	}
	if containsAny(folded, c.tables.TransferKeywords) {
		return true
	}
	for _, pair := range c.tables.TransferPairs {
		if strings.Contains(folded, pair.Anchor) && containsAny(folded, pair.Companions) {
			return true
		}
	}
	return false
}

// ExpenseType labels an expense as needs or wants. It returns nil when the text
// reads as a transfer or savings movement, which must stay out of spend analytics.
// amount is the absolute value; nil means unknown.
func (c *Classifier) ExpenseType(category, description string, amount *decimal.Decimal) *domain.ExpenseType {
	text := fold(strings.TrimSpace(category + " " + description))
	if text == "" {
		return expenseType(domain.Needs)
	}
	if c.looksLikeTransfer(text) {
		return nil
	}

	if fold(category) == "shopping" || containsAny(text, c.tables.ShoppingKeywords) {
		return expenseType(domain.Wants)
	}

	dining := containsAny(text, c.tables.DiningKeywords)
	if dining {
		if amount == nil || amount.Abs().GreaterThan(c.diningThreshold) {
			return expenseType(domain.Wants)
		}
		if containsAny(text, c.tables.DiningOutKeywords) {
			return expenseType(domain.Wants)
		}
	}

	if containsAny(text, c.tables.WantsKeywords) {
		return expenseType(domain.Wants)
	}
	if !dining && containsAny(text, c.tables.NeedsKeywords) {
		return expenseType(domain.Needs)
	}
	return expenseType(domain.Needs)
}

// TransferType decides whether a transaction moves money between the user's own accounts.
// An extractor label is trusted. Otherwise intra-person vocabulary or a mention of
// one of accounts' names or numbers yields intra_person; anything else stays nil
// so uncertain transfers are still counted as income or expense.
func (c *Classifier) TransferType(description string, hint *domain.TransferType, accounts []domain.Account) *domain.TransferType {
	if hint != nil && (*hint == domain.IntraPerson || *hint == domain.InterPerson) {
		h := *hint
		return &h
	}

	text := fold(description)
	if text == "" {
		return nil
	}
	if containsAny(text, c.tables.IntraPersonKeywords) {
		return transferType(domain.IntraPerson)
	}
	for _, acc := range accounts {
		if name := fold(acc.AccountName); name != "" && strings.Contains(text, name) {
			return transferType(domain.IntraPerson)
		}
		if no := fold(acc.AccountNo); no != "" && strings.Contains(text, no) {
			return transferType(domain.IntraPerson)
		}
	}
	return nil
}

func expenseType(t domain.ExpenseType) *domain.ExpenseType {
	return &t
}

func transferType(t domain.TransferType) *domain.TransferType {
	return &t
}
