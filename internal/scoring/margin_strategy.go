package scoring

import "github.com/Veraticus/trendscout/internal/model"

// DefaultLegalRisk is the legal-risk rating the margin strategy assigns to
// products from the curated consumer categories it is run against.
const DefaultLegalRisk = 20

// MarginStrategy is the margin-driven bucket score used when cost data is known.
type MarginStrategy struct{}

// Name implements Strategy.
func (MarginStrategy) Name() string { return NameMargin }

// Score implements Strategy. Overall is the sum of the margin, profit and
// price-band buckets, capped at 100.
func (MarginStrategy) Score(p model.ProductRecord) Result {
	var marginPct, profit float64
	if p.Margin != nil {
		marginPct = p.Margin.MarginPercent
		profit = p.Margin.Profit
	}

	overall := MarginBucket(marginPct) + ProfitBucket(profit) + PriceBandBucket(p.Price())

	marginScore := 0
	if p.Margin != nil {
		marginScore = ClampFloat(marginPct)
	}

	return Result{
		Scores: model.Scores{
			Overall:   Clamp(overall),
			Margin:    marginScore,
			LegalRisk: DefaultLegalRisk,
		},
	}
}

// MarginBucket scores the margin percent.
func MarginBucket(marginPercent float64) int {
	switch {
	case marginPercent >= 50:
		return 40
	case marginPercent >= 40:
		return 30
	case marginPercent >= 30:
		return 20
	case marginPercent >= 20:
		return 10
	default:
		return 0
	}
}

// ProfitBucket scores the absolute profit per unit.
func ProfitBucket(profit float64) int {
	switch {
	case profit >= 30:
		return 30
	case profit >= 20:
		return 20
	case profit >= 10:
		return 10
	default:
		return 0
	}
}

// PriceBandBucket favors impulse-buy price points.
func PriceBandBucket(price float64) int {
	switch {
	case price >= 20 && price <= 80:
		return 30
	case price >= 10 && price <= 100:
		return 20
	case price > 0:
		return 10
	default:
		return 0
	}
}
