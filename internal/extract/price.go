package extract

import (
	"regexp"
	"strconv"
	"strings"
)

const amount = `(\d[\d,]*(?:\.\d+)?)`

// pricePatterns are tried in order; the first match wins.
var pricePatterns = []*regexp.Regexp{
	// symbol-prefixed: $19.99, US $19.99, £12, ₹499
	regexp.MustCompile(`(?i)(?:US\s*)?[$£€₹]\s*` + amount),
	// currency-suffixed: 19.99 USD, 75 AED
	regexp.MustCompile(`(?i)` + amount + `\s*(?:USD|AED|SAR|INR|AUD)\b`),
	// currency-code-prefixed: AED 75, SAR 120, Rs. 499
	regexp.MustCompile(`(?i)\b(?:USD|AED|SAR|INR|AUD|Rs\.?)\s*` + amount),
}

// ExtractPrice returns the first price found in text, trying the symbol,
// suffix and code patterns in that order.
func ExtractPrice(text string) (float64, bool) {
	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := parseAmount(m[1]); ok {
			return v, true
		}
	}
	return 0, false
}

// ParsePriceCell parses a stored or displayed price such as "$24.99",
// "24.99" or "N/A". It returns false for anything that is not a price.
func ParsePriceCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return 0, false
	}
	if v, ok := ExtractPrice(s); ok {
		return v, true
	}
	return parseAmount(s)
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
