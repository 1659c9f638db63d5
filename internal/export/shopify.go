// Package export writes approved product records in storefront import formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/trendscout/internal/model"
)

// ShopifyColumns is the header of the Shopify product import file.
var ShopifyColumns = []string{
	"Handle",
	"Title",
	"Body (HTML)",
	"Vendor",
	"Type",
	"Tags",
	"Published",
	"Option1 Name",
	"Option1 Value",
	"Variant Price",
	"Variant Inventory Tracker",
	"Variant Inventory Policy",
	"Variant Fulfillment Service",
	"Variant Requires Shipping",
	"Image Src",
	"Status",
}

// Constant Shopify column values.
const (
	shopifyVendor      = "Dropship"
	shopifyPublished   = "TRUE"
	shopifyOptionName  = "Title"
	shopifyOptionValue = "Default Title"
	shopifyTracker     = "shopify"
	shopifyPolicy      = "deny"
	shopifyFulfillment = "manual"
	shopifyShipping    = "TRUE"
	shopifyStatus      = "draft"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// DefaultFilename returns the export file name for the given day.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("shopify_products_%s.csv", now.Format("20060102"))
}

// Handle turns a product name into a Shopify URL handle.
func Handle(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// Approved returns the approved records in their original order.
func Approved(products []model.ProductRecord) []model.ProductRecord {
	out := make([]model.ProductRecord, 0, len(products))
	for _, p := range products {
		if p.Status == model.StatusApproved {
			out = append(out, p)
		}
	}
	return out
}

// ShopifyRow maps one record onto the Shopify columns.
func ShopifyRow(p model.ProductRecord) []string {
	price := "0"
	if p.RetailPrice != nil {
		price = decimal.NewFromFloat(*p.RetailPrice).StringFixed(2)
	}
	category := string(p.Category)
	if category == "" {
		category = string(model.CategoryOther)
	}

	return []string{
		Handle(p.Name),
		p.Name,
		p.Description,
		shopifyVendor,
		category,
		fmt.Sprintf("%s, %s, Score-%d", category, p.Country, p.Scores.Overall),
		shopifyPublished,
		shopifyOptionName,
		shopifyOptionValue,
		price,
		shopifyTracker,
		shopifyPolicy,
		shopifyFulfillment,
		shopifyShipping,
		p.ImageURL,
		shopifyStatus,
	}
}

// WriteShopifyCSV writes the approved records among products to w and
// returns how many rows were written.
func WriteShopifyCSV(w io.Writer, products []model.ProductRecord) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(ShopifyColumns); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	approved := Approved(products)
	for _, p := range approved {
		if err := cw.Write(ShopifyRow(p)); err != nil {
			return 0, fmt.Errorf("failed to write %q: %w", p.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush csv: %w", err)
	}
	return len(approved), nil
}
