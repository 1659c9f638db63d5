package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Veraticus/trendscout/internal/extract"
	"github.com/Veraticus/trendscout/internal/model"
)

// Listing page selectors.
const (
	selectorCard  = "div.p13n-sc-uncoverable-faceout"
	selectorTitle = "div._cDEzb_p13n-sc-css-line-clamp-3_g3dy1"
	selectorPrice = "span.p13n-sc-price"
	selectorLink  = "a.a-link-normal"
)

// DefaultBestsellerCategories are the listing categories scraped per market.
var DefaultBestsellerCategories = []string{
	"electronics",
	"home-kitchen",
	"fashion",
	"sports-fitness",
	"beauty",
	"toys",
}

const (
	maxPerCategory     = 10
	maxBestsellerItems = 30
)

// BestsellerSource scrapes marketplace bestseller listings.
type BestsellerSource struct {
	fetcher    *Fetcher
	market     Market
	categories []string
	maxItems   int
}

// NewBestsellerSource creates a scraper for one market.
func NewBestsellerSource(fetcher *Fetcher, market Market, categories []string) *BestsellerSource {
	if len(categories) == 0 {
		categories = DefaultBestsellerCategories
	}
	return &BestsellerSource{
		fetcher:    fetcher,
		market:     market,
		categories: categories,
		maxItems:   maxBestsellerItems,
	}
}

// Name implements Source.
func (b *BestsellerSource) Name() string {
	return "bestsellers-" + b.market.Code
}

// Fetch implements Source. A failing category page aborts the source with
// the items gathered so far.
func (b *BestsellerSource) Fetch(ctx context.Context) ([]model.SourceItem, error) {
	var items []model.SourceItem
	for _, category := range b.categories {
		pageURL := strings.TrimSuffix(b.market.BestsellerURL, "/") + "/" + category
		doc, err := b.fetcher.Document(ctx, pageURL)
		if err != nil {
			return items, fmt.Errorf("category %s: %w", category, err)
		}
		items = append(items, b.parseListing(doc, pageURL)...)
		if len(items) >= b.maxItems {
			return items[:b.maxItems], nil
		}
	}
	return items, nil
}

func (b *BestsellerSource) parseListing(doc *goquery.Document, pageURL string) []model.SourceItem {
	source := fmt.Sprintf("Amazon %s Best Sellers", b.market.Name)

	var items []model.SourceItem
	doc.Find(selectorCard).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(items) >= maxPerCategory {
			return false
		}

		title := strings.TrimSpace(card.Find(selectorTitle).First().Text())
		if title == "" {
			return true
		}

		item := model.SourceItem{
			Title:     extract.Truncate(title, extract.MaxNameLength),
			Country:   b.market.Name,
			Source:    source,
			PriceText: strings.TrimSpace(card.Find(selectorPrice).First().Text()),
		}
		if href, ok := card.Find(selectorLink).First().Attr("href"); ok {
			item.URL = stripQuery(resolveURL(pageURL, href))
		}
		if src, ok := card.Find("img").First().Attr("src"); ok {
			item.ImageURL = resolveURL(pageURL, src)
		}
		items = append(items, item)
		return true
	})
	return items
}

// resolveURL makes href absolute against base.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// stripQuery drops the per-visit tracking parameters of a listing link so the
// same product keeps the same identity across runs.
func stripQuery(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
