// Package classification assigns coarse categories to free-text product names.
package classification

import (
	"fmt"
	"strings"

	"github.com/Veraticus/trendscout/internal/model"
)

// Rule maps a set of keywords onto a category.
type Rule struct {
	Category model.Category
	Keywords []string
}

// Categorizer applies ordered, first-match-wins keyword containment rules.
type Categorizer struct {
	rules []Rule
}

// NewCategorizer creates a categorizer from rules evaluated in the given order.
func NewCategorizer(rules []Rule) (*Categorizer, error) {
	normalized := make([]Rule, 0, len(rules))
	for i, r := range rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rule %d has no category", i)
		}
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				keywords = append(keywords, k)
			}
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("rule for %s has no keywords", r.Category)
		}
		normalized = append(normalized, Rule{Category: r.Category, Keywords: keywords})
	}
	return &Categorizer{rules: normalized}, nil
}

var defaultCategorizer = mustCategorizer(DefaultRules())

func mustCategorizer(rules []Rule) *Categorizer {
	c, err := NewCategorizer(rules)
	if err != nil {
		panic(err)
	}
	return c
}

// Categorize returns the category of name using the default rules.
func Categorize(name string) model.Category {
	return defaultCategorizer.Categorize(name)
}

// Categorize returns the first category whose keyword appears in name,
// case-insensitively, or CategoryOther when none does.
func (c *Categorizer) Categorize(name string) model.Category {
	lower := strings.ToLower(name)
	for _, r := range c.rules {
		for _, k := range r.Keywords {
			if strings.Contains(lower, k) {
				return r.Category
			}
		}
	}
	return model.CategoryOther
}

// Apply returns a copy of p with its category assigned from its name.
func (c *Categorizer) Apply(p model.ProductRecord) model.ProductRecord {
	p.Category = c.Categorize(p.Name)
	return p
}
