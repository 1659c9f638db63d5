// Package report renders ranked, human-readable digests of scored products.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/trendscout/internal/extract"
	"github.com/Veraticus/trendscout/internal/model"
)

// Line length limits for rendered entries.
const (
	maxNameRunes      = 80
	maxReasoningRunes = 160
)

// DefaultTopN bounds each list when Options.TopN is not set.
const DefaultTopN = 10

// Options controls digest rendering.
type Options struct {
	Now            time.Time
	Title          string
	TopN           int
	GroupByCountry bool
}

// Rank returns a copy of products sorted by overall score, highest first.
// Ties keep their input order.
func Rank(products []model.ProductRecord) []model.ProductRecord {
	ranked := make([]model.ProductRecord, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Scores.Overall > ranked[j].Scores.Overall
	})
	return ranked
}

// Top returns the n highest-scoring products.
func Top(products []model.ProductRecord, n int) []model.ProductRecord {
	ranked := Rank(products)
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Format renders the digest. It never modifies products.
func Format(products []model.ProductRecord, opts Options) string {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Title == "" {
		opts.Title = "Product Opportunity Report"
	}

	var b strings.Builder
	b.WriteString(opts.Title)
	if !opts.Now.IsZero() {
		fmt.Fprintf(&b, " (%s)", opts.Now.Format("2006-01-02"))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n")
	writeSummary(&b, products)

	if len(products) == 0 {
		b.WriteString("\nNo products found.\n")
		return b.String()
	}

	ranked := Rank(products)

	if !opts.GroupByCountry {
		fmt.Fprintf(&b, "\nTop %d opportunities\n", min(opts.TopN, len(ranked)))
		writeEntries(&b, ranked, opts.TopN)
		return b.String()
	}

	for _, group := range groupByCountry(ranked) {
		fmt.Fprintf(&b, "\n%s (%d products)\n", group.country, len(group.products))
		b.WriteString(strings.Repeat("-", 40))
		b.WriteString("\n")
		writeEntries(&b, group.products, opts.TopN)
	}
	return b.String()
}

func writeSummary(b *strings.Builder, products []model.ProductRecord) {
	fmt.Fprintf(b, "Products: %d\n", len(products))

	var n int
	var marginSum, profitSum float64
	for _, p := range products {
		if p.Margin == nil {
			continue
		}
		n++
		marginSum += p.Margin.MarginPercent
		profitSum += p.Margin.Profit
	}
	if n > 0 {
		fmt.Fprintf(b, "Average margin: %.1f%%\n", marginSum/float64(n))
		fmt.Fprintf(b, "Average profit: $%.2f\n", profitSum/float64(n))
	}
}

func writeEntries(b *strings.Builder, products []model.ProductRecord, limit int) {
	for i, p := range products {
		if i >= limit {
			break
		}
		fmt.Fprintf(b, "%d. %s [%s] score %d/100\n",
			i+1, extract.Truncate(p.Name, maxNameRunes), p.Category, p.Scores.Overall)

		var details []string
		if p.RetailPrice != nil {
			details = append(details, fmt.Sprintf("price $%.2f", *p.RetailPrice))
		}
		if p.Margin != nil {
			details = append(details,
				fmt.Sprintf("profit $%.2f", p.Margin.Profit),
				fmt.Sprintf("margin %.1f%%", p.Margin.MarginPercent))
		}
		details = append(details,
			fmt.Sprintf("demand %d", p.Scores.Demand),
			fmt.Sprintf("competition %d", p.Scores.Competition),
			fmt.Sprintf("legal risk %d", p.Scores.LegalRisk))
		fmt.Fprintf(b, "   %s\n", strings.Join(details, " | "))

		if p.Reasoning != "" {
			fmt.Fprintf(b, "   %s\n", extract.Truncate(p.Reasoning, maxReasoningRunes))
		}
		if p.Identity != "" {
			fmt.Fprintf(b, "   %s\n", p.Identity)
		}
	}
}

type countryGroup struct {
	country  string
	products []model.ProductRecord
}

// groupByCountry groups ranked products; groups appear in the order of their
// best-ranked product.
func groupByCountry(ranked []model.ProductRecord) []countryGroup {
	index := make(map[string]int)
	var groups []countryGroup
	for _, p := range ranked {
		country := p.Country
		if country == "" {
			country = model.DefaultCountry
		}
		i, ok := index[country]
		if !ok {
			i = len(groups)
			index[country] = i
			groups = append(groups, countryGroup{country: country})
		}
		groups[i].products = append(groups[i].products, p)
	}
	return groups
}
