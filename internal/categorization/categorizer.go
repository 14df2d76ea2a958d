// Package categorization classifies free-text product descriptions into the
// two-level type/category taxonomy using ordered substring rules.
package categorization

import (
	"strings"

	"feiralens/pkg/contracts/domain"
)

// Result is the outcome of classifying one description. It is ephemeral and
// never persisted on its own.
type Result struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Matched  bool   `json:"matched"`
}

// Categorizer resolves descriptions against ordered rule tables. The zero
// value is not usable; construct with New or NewWithRules.
type Categorizer struct {
	types      []Rule
	categories []Rule
}

// New returns a categorizer backed by the canonical rule tables.
func New() *Categorizer {
	return &Categorizer{types: typeRules, categories: categoryRules}
}

// NewWithRules returns a categorizer with caller-supplied tables. Rule order
// is preserved exactly as given.
func NewWithRules(types, categories []Rule) *Categorizer {
	return &Categorizer{types: types, categories: categories}
}

// Categorize maps a description to its type and category. The description is
// lower-cased and each table is scanned in order; the first pattern contained
// in the description wins. Type and category lookups are independent. The
// function is pure and total: an unmatched type yields domain.TypeNotFound
// with Matched false, an unmatched category yields the empty string.
func (c *Categorizer) Categorize(description string) Result {
	desc := strings.ToLower(description)

	result := Result{}
	for _, rule := range c.types {
		if strings.Contains(desc, rule.Pattern) {
			result.Type = rule.Label
			result.Matched = true
			break
		}
	}
	for _, rule := range c.categories {
		if strings.Contains(desc, rule.Pattern) {
			result.Category = rule.Label
			break
		}
	}

	if !result.Matched {
		result.Type = domain.TypeNotFound
	}
	return result
}
