package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/extract"
	"github.com/Veraticus/trendscout/internal/model"
)

const supplierDomain = "aliexpress.com"

// SupplierFinder looks up wholesale listings through site-restricted search.
type SupplierFinder struct {
	searcher Searcher
	domain   string
}

// NewSupplierFinder creates a finder that searches the default supplier marketplace.
func NewSupplierFinder(searcher Searcher) *SupplierFinder {
	return &SupplierFinder{searcher: searcher, domain: supplierDomain}
}

// FindSupplier returns the first supplier listing that shows a price.
func (f *SupplierFinder) FindSupplier(ctx context.Context, productName string) (model.SupplierQuote, error) {
	query := fmt.Sprintf("site:%s %s", f.domain, productName)
	results, err := f.searcher.Search(ctx, query, "", 3)
	if err != nil {
		return model.SupplierQuote{}, fmt.Errorf("supplier search: %w", err)
	}

	for _, r := range results {
		if !strings.Contains(r.Link, f.domain) {
			continue
		}
		price, ok := extract.ExtractPrice(r.Snippet + " " + r.Title)
		if !ok {
			continue
		}
		return model.SupplierQuote{URL: r.Link, Title: r.Title, Price: price}, nil
	}
	return model.SupplierQuote{}, fmt.Errorf("supplier for %q: %w", productName, common.ErrNotFound)
}
