package engine

import "github.com/Veraticus/trendscout/internal/model"

// Dedupe drops records whose identity was already seen, keeping the first
// occurrence and the input order. Records without a usable identity are
// never merged and are always kept.
func Dedupe(products []model.ProductRecord) []model.ProductRecord {
	seen := make(map[string]struct{}, len(products))
	out := make([]model.ProductRecord, 0, len(products))

	for _, p := range products {
		id := model.NormalizeIdentity(p.Identity)
		if id == "" {
			out = append(out, p)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, p)
	}

	return out
}
