package source

import (
	"sort"
	"strings"
)

// Market describes one target country.
type Market struct {
	Code          string
	Name          string
	AmazonDomain  string
	BestsellerURL string
}

var markets = map[string]Market{
	"us": {Code: "us", Name: "USA", AmazonDomain: "amazon.com", BestsellerURL: "https://www.amazon.com/gp/bestsellers"},
	"au": {Code: "au", Name: "Australia", AmazonDomain: "amazon.com.au", BestsellerURL: "https://www.amazon.com.au/gp/bestsellers"},
	"ae": {Code: "ae", Name: "UAE", AmazonDomain: "amazon.ae", BestsellerURL: "https://www.amazon.ae/gp/bestsellers"},
	"sa": {Code: "sa", Name: "Saudi Arabia", AmazonDomain: "amazon.sa", BestsellerURL: "https://www.amazon.sa/gp/bestsellers"},
	"in": {Code: "in", Name: "India", AmazonDomain: "amazon.in", BestsellerURL: "https://www.amazon.in/gp/bestsellers"},
}

// DefaultCountries are the markets researched when none are configured.
var DefaultCountries = []string{"us", "au", "ae", "sa"}

// LookupMarket returns the market for a two-letter country code.
func LookupMarket(code string) (Market, bool) {
	m, ok := markets[strings.ToLower(strings.TrimSpace(code))]
	return m, ok
}

// MarketCodes returns every supported country code in sorted order.
func MarketCodes() []string {
	codes := make([]string, 0, len(markets))
	for code := range markets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
