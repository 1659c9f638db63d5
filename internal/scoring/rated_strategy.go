package scoring

import "github.com/Veraticus/trendscout/internal/model"

// FailedReasoning marks records whose rater output could not be used.
const FailedReasoning = "Scoring failed"

// Fallback ratings used for fields the rater did not supply.
const (
	FallbackDemand      = 0
	FallbackCompetition = 0
	FallbackMargin      = 0
	FallbackLegalRisk   = 50
)

// FallbackResult is the result given to a record with no usable rating.
func FallbackResult() Result {
	return Result{
		Reasoning: FailedReasoning,
		Scores: model.Scores{
			Demand:      FallbackDemand,
			Competition: FallbackCompetition,
			Margin:      FallbackMargin,
			LegalRisk:   FallbackLegalRisk,
		},
	}
}

// RatedStrategy takes its scores from parsed rater output keyed by RatingKey.
type RatedStrategy struct {
	ratings map[string]Rating
}

// NewRatedStrategy creates a rated strategy over the given ratings.
func NewRatedStrategy(ratings map[string]Rating) RatedStrategy {
	if ratings == nil {
		ratings = map[string]Rating{}
	}
	return RatedStrategy{ratings: ratings}
}

// Name implements Strategy.
func (RatedStrategy) Name() string { return NameRated }

// Score implements Strategy. It never fails; records without a rating get
// the fallback result.
func (s RatedStrategy) Score(p model.ProductRecord) Result {
	r, ok := s.ratings[RatingKey(p)]
	if !ok {
		return FallbackResult()
	}
	return r.Resolve()
}

// AutoStrategy uses the margin strategy when cost data is known and the
// rated strategy otherwise.
type AutoStrategy struct {
	rated RatedStrategy
}

// NewAutoStrategy creates an auto strategy over the given ratings.
func NewAutoStrategy(ratings map[string]Rating) AutoStrategy {
	return AutoStrategy{rated: NewRatedStrategy(ratings)}
}

// Name implements Strategy.
func (AutoStrategy) Name() string { return NameAuto }

// Score implements Strategy.
func (s AutoStrategy) Score(p model.ProductRecord) Result {
	if p.Margin != nil {
		return MarginStrategy{}.Score(p)
	}
	return s.rated.Score(p)
}
