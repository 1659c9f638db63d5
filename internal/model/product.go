// Package model defines the core domain models used throughout the application.
package model

import "time"

// DefaultCountry labels records that are not tied to a single market.
const DefaultCountry = "Global"

// Scores holds the opportunity ratings of a product, each in [0,100].
type Scores struct {
	Overall     int `json:"overall" yaml:"overall"`
	Demand      int `json:"demand" yaml:"demand"`
	Competition int `json:"competition" yaml:"competition"`
	Margin      int `json:"margin" yaml:"margin"`
	LegalRisk   int `json:"legal_risk" yaml:"legal_risk"`
}

// Margin is the derived pricing breakdown of a product. It is always
// recomputed from RetailPrice and SupplierPrice and never edited directly.
type Margin struct {
	Profit           float64 `json:"profit" yaml:"profit"`
	MarginPercent    float64 `json:"margin_percent" yaml:"margin_percent"`
	TotalCost        float64 `json:"total_cost" yaml:"total_cost"`
	RecommendedPrice float64 `json:"recommended_price" yaml:"recommended_price"`
}

// ProductRecord is one observed product candidate.
type ProductRecord struct {
	CreatedAt     time.Time    `json:"created_at" yaml:"created_at"`
	RetailPrice   *float64     `json:"retail_price,omitempty" yaml:"retail_price,omitempty"`
	SupplierPrice *float64     `json:"supplier_price,omitempty" yaml:"supplier_price,omitempty"`
	Margin        *Margin      `json:"margin,omitempty" yaml:"margin,omitempty"`
	Identity      string       `json:"identity" yaml:"identity"`
	Name          string       `json:"name" yaml:"name"`
	Category      Category     `json:"category" yaml:"category"`
	Country       string       `json:"country" yaml:"country"`
	Reasoning     string       `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Description   string       `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURL      string       `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	SupplierURL   string       `json:"supplier_url,omitempty" yaml:"supplier_url,omitempty"`
	Source        string       `json:"source,omitempty" yaml:"source,omitempty"`
	RunID         string       `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Notes         string       `json:"notes,omitempty" yaml:"notes,omitempty"`
	Status        ReviewStatus `json:"status" yaml:"status"`
	Scores        Scores       `json:"scores" yaml:"scores"`
}

// HasIdentity reports whether the record carries a usable identity.
func (p ProductRecord) HasIdentity() bool {
	return NormalizeIdentity(p.Identity) != ""
}

// Price returns the retail price, or zero when it is unknown.
func (p ProductRecord) Price() float64 {
	if p.RetailPrice == nil {
		return 0
	}
	return *p.RetailPrice
}

// Float returns a pointer to v for the optional price fields.
func Float(v float64) *float64 {
	return &v
}

// SourceItem is a raw candidate returned by a fetch collaborator before extraction.
type SourceItem struct {
	URL       string
	Title     string
	Snippet   string
	Country   string
	Source    string
	PriceText string
	ImageURL  string
}

// SupplierQuote is the cheapest supplier listing found for a product.
type SupplierQuote struct {
	URL   string
	Title string
	Price float64
}
