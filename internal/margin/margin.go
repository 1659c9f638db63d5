// Package margin computes resale profit and margin from retail and supplier prices.
package margin

import (
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/shopspring/decimal"
)

// Default pricing assumptions.
const (
	DefaultShippingCost = 5.0
	DefaultFeeRate      = 0.03
	// UndercutRate is the share of the retail price we recommend selling at.
	UndercutRate = 0.9
)

// Options holds the cost assumptions for a margin computation.
type Options struct {
	ShippingCost float64
	FeeRate      float64
}

// Option customizes Options.
type Option func(*Options)

// WithShippingCost overrides the flat shipping cost.
func WithShippingCost(cost float64) Option {
	return func(o *Options) { o.ShippingCost = cost }
}

// WithFeeRate overrides the payment fee rate applied to the retail price.
func WithFeeRate(rate float64) Option {
	return func(o *Options) { o.FeeRate = rate }
}

// DefaultOptions returns the standard cost assumptions.
func DefaultOptions() Options {
	return Options{
		ShippingCost: DefaultShippingCost,
		FeeRate:      DefaultFeeRate,
	}
}

// Compute returns the margin breakdown for one product. A zero or negative
// retail price yields a margin percent of 0 rather than dividing by zero.
func Compute(retail, supplier float64, opts ...Option) model.Margin {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := decimal.NewFromFloat(retail)
	totalCost := decimal.NewFromFloat(supplier).
		Add(decimal.NewFromFloat(o.ShippingCost)).
		Add(r.Mul(decimal.NewFromFloat(o.FeeRate)))
	profit := r.Sub(totalCost)

	marginPercent := decimal.Zero
	if r.IsPositive() {
		marginPercent = profit.Div(r).Mul(decimal.NewFromInt(100))
	}

	return model.Margin{
		TotalCost:        round2(totalCost),
		Profit:           round2(profit),
		MarginPercent:    round2(marginPercent),
		RecommendedPrice: round2(r.Mul(decimal.NewFromFloat(UndercutRate))),
	}
}

// Apply returns a copy of p with Margin recomputed from its prices. When
// either price is absent the margin is left undefined (nil).
func Apply(p model.ProductRecord, opts ...Option) model.ProductRecord {
	if p.RetailPrice == nil || p.SupplierPrice == nil {
		p.Margin = nil
		return p
	}
	m := Compute(*p.RetailPrice, *p.SupplierPrice, opts...)
	p.Margin = &m
	return p
}

// MeetsMinimum reports whether p has margin data at or above minPercent.
func MeetsMinimum(p model.ProductRecord, minPercent float64) bool {
	return p.Margin != nil && p.Margin.MarginPercent >= minPercent
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
