// Package extract turns raw source items into draft product records.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/trendscout/internal/model"
)

// Field length limits.
const (
	MaxNameLength = 200
	MaxTextLength = 500
)

// Extractor filters source items by keyword and builds draft records.
type Extractor struct {
	keywords []string
	country  string
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithDefaultCountry sets the country used when an item carries none.
func WithDefaultCountry(country string) Option {
	return func(e *Extractor) { e.country = country }
}

// New creates an extractor. Keywords are matched case-insensitively as
// substrings of the title and snippet; an empty keyword list keeps every item.
func New(keywords []string, opts ...Option) *Extractor {
	e := &Extractor{country: model.DefaultCountry}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			e.keywords = append(e.keywords, k)
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Matches reports whether the item mentions one of the trigger keywords.
func (e *Extractor) Matches(item model.SourceItem) bool {
	if len(e.keywords) == 0 {
		return true
	}
	text := strings.ToLower(item.Title + " " + item.Snippet)
	for _, k := range e.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Extract builds a draft record from one item. It returns false when the item
// matches no keyword, has no usable name or has no source URL to identify it.
func (e *Extractor) Extract(item model.SourceItem) (model.ProductRecord, bool) {
	if !e.Matches(item) {
		return model.ProductRecord{}, false
	}

	name := Truncate(collapseSpace(item.Title), MaxNameLength)
	if name == "" {
		return model.ProductRecord{}, false
	}
	identity := model.NormalizeIdentity(item.URL)
	if identity == "" {
		return model.ProductRecord{}, false
	}

	country := strings.TrimSpace(item.Country)
	if country == "" {
		country = e.country
	}

	p := model.ProductRecord{
		Identity:    identity,
		Name:        name,
		Country:     country,
		Description: Truncate(collapseSpace(item.Snippet), MaxTextLength),
		ImageURL:    strings.TrimSpace(item.ImageURL),
		Source:      item.Source,
		Status:      model.StatusPending,
	}

	if price, ok := e.price(item); ok {
		p.RetailPrice = model.Float(price)
	}

	return p, true
}

// ExtractAll extracts every matching item, preserving input order.
func (e *Extractor) ExtractAll(items []model.SourceItem) []model.ProductRecord {
	out := make([]model.ProductRecord, 0, len(items))
	for _, item := range items {
		if p, ok := e.Extract(item); ok {
			out = append(out, p)
		}
	}
	return out
}

func (e *Extractor) price(item model.SourceItem) (float64, bool) {
	if item.PriceText != "" {
		if v, ok := ParsePriceCell(item.PriceText); ok {
			return v, true
		}
	}
	return ExtractPrice(item.Snippet + " " + item.Title)
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
