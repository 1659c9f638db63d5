package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/trendscout/internal/extract"
	"github.com/Veraticus/trendscout/internal/model"
)

const (
	// MaxArticleChars bounds the article text sent for product extraction.
	MaxArticleChars = 3000
	// MaxExtractedProducts bounds the product names taken from one article.
	MaxExtractedProducts = 10
)

const extractionSystemPrompt = "You extract concrete product names from shopping articles. " +
	"Respond with ONLY a JSON array of strings. Do not include commentary."

const ratingSystemPrompt = "You are an e-commerce analyst who rates dropshipping opportunities. " +
	"Follow the requested line format exactly and do not add other text."

// buildExtractionPrompt asks for the product names mentioned in an article.
func buildExtractionPrompt(articleText string) string {
	var sb strings.Builder
	sb.WriteString("Extract product names from this article about trending products.\n\n")
	fmt.Fprintf(&sb, "Article text (first %d chars):\n", MaxArticleChars)
	sb.WriteString(extract.Truncate(articleText, MaxArticleChars))
	sb.WriteString("\n\nReturn ONLY a JSON array of product names, like:\n")
	sb.WriteString(`["Product Name 1", "Product Name 2", "Product Name 3"]`)
	fmt.Fprintf(&sb, "\n\nFocus on actual product names, not categories. Max %d products.", MaxExtractedProducts)
	return sb.String()
}

// buildRatingPrompt numbers the products from 1 and asks for one block per product.
func buildRatingPrompt(products []model.ProductRecord) string {
	var sb strings.Builder
	sb.WriteString("Rate each product below as a dropshipping opportunity. ")
	sb.WriteString("All scores are integers from 0 to 100. Higher COMPETITION means a more crowded market; ")
	sb.WriteString("higher LEGAL_RISK means more trademark, safety or import risk.\n\n")

	for i, p := range products {
		fmt.Fprintf(&sb, "PRODUCT %d: %s\n", i+1, p.Name)
		fmt.Fprintf(&sb, "Market: %s\n", orDefault(p.Country, model.DefaultCountry))
		if p.RetailPrice != nil {
			fmt.Fprintf(&sb, "Price: %.2f\n", *p.RetailPrice)
		} else {
			sb.WriteString("Price: unknown\n")
		}
		if p.Source != "" {
			fmt.Fprintf(&sb, "Source: %s\n", p.Source)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Respond with one block per product, in the same order, exactly like this:\n\n")
	sb.WriteString("PRODUCT 1:\n")
	sb.WriteString("OVERALL: <score>\n")
	sb.WriteString("DEMAND: <score>\n")
	sb.WriteString("COMPETITION: <score>\n")
	sb.WriteString("MARGIN: <score>\n")
	sb.WriteString("LEGAL_RISK: <score>\n")
	sb.WriteString("REASONING: <one sentence>\n")
	return sb.String()
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
