package scoring

import (
	"strconv"
	"strings"

	"github.com/Veraticus/trendscout/internal/model"
)

// Rating is the parsed rater output for one record. A nil field means the
// rater did not supply a usable value for it.
type Rating struct {
	Overall     *int
	Demand      *int
	Competition *int
	Margin      *int
	LegalRisk   *int
	Reasoning   *string
	Index       int
}

// Empty reports whether no field was parsed.
func (r Rating) Empty() bool {
	return r.Overall == nil && r.Demand == nil && r.Competition == nil &&
		r.Margin == nil && r.LegalRisk == nil && r.Reasoning == nil
}

// Resolve fills unset fields with the documented fallbacks. A rating with no
// parsed field at all resolves to FallbackResult.
func (r Rating) Resolve() Result {
	if r.Empty() {
		return FallbackResult()
	}

	res := Result{
		Scores: model.Scores{
			Overall:     valueOr(r.Overall, 0),
			Demand:      valueOr(r.Demand, FallbackDemand),
			Competition: valueOr(r.Competition, FallbackCompetition),
			Margin:      valueOr(r.Margin, FallbackMargin),
			LegalRisk:   valueOr(r.LegalRisk, FallbackLegalRisk),
		},
	}
	if r.Reasoning != nil {
		res.Reasoning = *r.Reasoning
	}
	return res
}

// ParseRatings parses line-prefixed rater output. Blocks are introduced by a
// "PRODUCT <n>:" line; output without any block header is treated as the
// rating of product 1. Unrecognized lines are ignored and absent lines leave
// the field unset. ParseRatings never fails.
func ParseRatings(content string) []Rating {
	var ratings []Rating
	current := -1

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "*#-"))
		if line == "" {
			continue
		}

		if idx, ok := parseBlockHeader(line); ok {
			ratings = append(ratings, Rating{Index: idx})
			current = len(ratings) - 1
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = normalizeKey(key)
		value = strings.TrimSpace(strings.Trim(value, "* "))

		if current < 0 {
			ratings = append(ratings, Rating{Index: 1})
			current = 0
		}
		r := &ratings[current]

		switch key {
		case "OVERALL", "OVERALL_SCORE", "SCORE":
			r.Overall = parseScore(value)
		case "DEMAND", "DEMAND_SCORE":
			r.Demand = parseScore(value)
		case "COMPETITION", "COMPETITION_SCORE":
			r.Competition = parseScore(value)
		case "MARGIN", "MARGIN_SCORE", "MARGIN_POTENTIAL":
			r.Margin = parseScore(value)
		case "LEGAL_RISK", "LEGAL", "LEGAL_RISK_SCORE":
			r.LegalRisk = parseScore(value)
		case "REASONING", "REASON":
			if value != "" {
				r.Reasoning = &value
			}
		}
	}

	return ratings
}

// RatingKey is the key a record's rating is stored under: its identity, or
// its lowercased name when it has none.
func RatingKey(p model.ProductRecord) string {
	if id := model.NormalizeIdentity(p.Identity); id != "" {
		return id
	}
	name := strings.ToLower(strings.TrimSpace(p.Name))
	if name == "" {
		return ""
	}
	return "name:" + name
}

// RatingsForBatch parses the rater output for a numbered batch and keys the
// ratings by the key at each position (see RatingKey). Positions the rater
// skipped, or that fall outside the batch, get no entry, and neither do
// empty keys.
func RatingsForBatch(content string, identities []string) map[string]Rating {
	byIndex := make(map[int]Rating)
	for _, r := range ParseRatings(content) {
		if _, seen := byIndex[r.Index]; !seen {
			byIndex[r.Index] = r
		}
	}

	out := make(map[string]Rating, len(identities))
	for i, id := range identities {
		id = model.NormalizeIdentity(id)
		if id == "" {
			continue
		}
		if r, ok := byIndex[i+1]; ok && !r.Empty() {
			out[id] = r
		}
	}
	return out
}

func parseBlockHeader(line string) (int, bool) {
	upper := strings.ToUpper(line)
	if !strings.HasPrefix(upper, "PRODUCT ") {
		return 0, false
	}
	rest := strings.TrimSpace(upper[len("PRODUCT "):])
	rest = strings.TrimPrefix(rest, "#")
	numStr, _, _ := strings.Cut(rest, ":")
	n, err := strconv.Atoi(strings.TrimSpace(numStr))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func normalizeKey(key string) string {
	key = strings.ToUpper(strings.Trim(key, "* "))
	key = strings.ReplaceAll(key, " ", "_")
	return strings.ReplaceAll(key, "-", "_")
}

// parseScore accepts "85", "85/100", "85%" and "85.5"; the result is clamped.
func parseScore(value string) *int {
	value = strings.TrimSpace(value)
	if before, _, found := strings.Cut(value, "/"); found {
		value = before
	}
	value = strings.TrimSuffix(strings.TrimSpace(value), "%")
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil
	}
	v := ClampFloat(f)
	return &v
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
