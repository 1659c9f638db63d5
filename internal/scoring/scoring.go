// Package scoring turns product records into bounded 0-100 opportunity scores.
//
// Two independent policies are provided as named strategies: a margin-driven
// bucket score for records with known costs, and a rated score that takes
// demand, competition, margin and legal-risk ratings from an external rater.
package scoring

import (
	"fmt"
	"math"

	"github.com/Veraticus/trendscout/internal/model"
)

// Strategy names.
const (
	NameMargin = "margin"
	NameRated  = "rated"
	NameAuto   = "auto"
)

// Strategy scores a single record. Implementations are pure.
type Strategy interface {
	Name() string
	Score(p model.ProductRecord) Result
}

// Result is the outcome of scoring one record.
type Result struct {
	Reasoning string
	Scores    model.Scores
}

// Apply returns a copy of p with the strategy's scores applied. Reasoning is
// only replaced when the strategy produced one.
func Apply(s Strategy, p model.ProductRecord) model.ProductRecord {
	res := s.Score(p)
	p.Scores = ClampScores(res.Scores)
	if res.Reasoning != "" {
		p.Reasoning = res.Reasoning
	}
	return p
}

// ApplyAll scores every record and returns the updated copies in input order.
func ApplyAll(s Strategy, products []model.ProductRecord) []model.ProductRecord {
	out := make([]model.ProductRecord, len(products))
	for i, p := range products {
		out[i] = Apply(s, p)
	}
	return out
}

// ByName resolves a strategy name. The ratings are used by the rated and auto
// strategies and may be nil.
func ByName(name string, ratings map[string]Rating) (Strategy, error) {
	switch name {
	case NameMargin:
		return MarginStrategy{}, nil
	case NameRated:
		return NewRatedStrategy(ratings), nil
	case NameAuto, "":
		return NewAutoStrategy(ratings), nil
	default:
		return nil, fmt.Errorf("unknown scoring strategy: %s", name)
	}
}

// Clamp bounds v to [0,100].
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampFloat rounds v and bounds it to [0,100].
func ClampFloat(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(int(math.Round(math.Max(-1, math.Min(v, 101)))))
}

// ClampScores bounds every component of s to [0,100].
func ClampScores(s model.Scores) model.Scores {
	return model.Scores{
		Overall:     Clamp(s.Overall),
		Demand:      Clamp(s.Demand),
		Competition: Clamp(s.Competition),
		Margin:      Clamp(s.Margin),
		LegalRisk:   Clamp(s.LegalRisk),
	}
}
