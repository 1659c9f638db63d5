package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/trendscout/internal/extract"
	"github.com/Veraticus/trendscout/internal/model"
)

// DefaultTrendQueries are the searches used to discover trend articles.
var DefaultTrendQueries = []string{
	"trending products 2025",
	"viral products right now",
	"best selling products 2025",
	"hot products to sell",
	"trending pet products",
	"trending home decor",
	"trending kitchen gadgets",
}

// NameExtractor pulls product names out of article text.
type NameExtractor interface {
	ExtractProductNames(ctx context.Context, text string) ([]string, error)
}

// PageReader returns the visible text of a page.
type PageReader interface {
	PageText(ctx context.Context, pageURL string) (string, error)
}

// ArticleConfig bounds the article discovery fan-out.
type ArticleConfig struct {
	Queries            []string
	Countries          []string
	QueriesPerCountry  int
	ResultsPerQuery    int
	MaxArticles        int
	ArticlesToProcess  int
	ProductsPerArticle int
	Delay              time.Duration
}

// DefaultArticleConfig returns the default discovery bounds.
func DefaultArticleConfig() ArticleConfig {
	return ArticleConfig{
		Queries:            DefaultTrendQueries,
		Countries:          DefaultCountries,
		QueriesPerCountry:  2,
		ResultsPerQuery:    2,
		MaxArticles:        20,
		ArticlesToProcess:  10,
		ProductsPerArticle: 5,
		Delay:              500 * time.Millisecond,
	}
}

type article struct {
	url     string
	title   string
	country Market
}

// ArticleSource finds trend articles, asks the extractor for the products
// they mention, and resolves each product to a priced marketplace listing.
type ArticleSource struct {
	searcher  Searcher
	pages     PageReader
	extractor NameExtractor
	logger    *slog.Logger
	config    ArticleConfig
}

// NewArticleSource creates an article discovery source.
func NewArticleSource(searcher Searcher, pages PageReader, extractor NameExtractor, config ArticleConfig, logger *slog.Logger) *ArticleSource {
	defaults := DefaultArticleConfig()
	if len(config.Queries) == 0 {
		config.Queries = defaults.Queries
	}
	if len(config.Countries) == 0 {
		config.Countries = defaults.Countries
	}
	if config.QueriesPerCountry <= 0 {
		config.QueriesPerCountry = defaults.QueriesPerCountry
	}
	if config.ResultsPerQuery <= 0 {
		config.ResultsPerQuery = defaults.ResultsPerQuery
	}
	if config.MaxArticles <= 0 {
		config.MaxArticles = defaults.MaxArticles
	}
	if config.ArticlesToProcess <= 0 {
		config.ArticlesToProcess = defaults.ArticlesToProcess
	}
	if config.ProductsPerArticle <= 0 {
		config.ProductsPerArticle = defaults.ProductsPerArticle
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleSource{
		searcher:  searcher,
		pages:     pages,
		extractor: extractor,
		config:    config,
		logger:    logger,
	}
}

// Name implements Source.
func (a *ArticleSource) Name() string { return "articles" }

// Fetch implements Source. Failures on a single article or product are
// logged and skipped; only cancellation aborts the source.
func (a *ArticleSource) Fetch(ctx context.Context) ([]model.SourceItem, error) {
	articles, err := a.findArticles(ctx)
	if err != nil {
		return nil, err
	}
	if len(articles) > a.config.ArticlesToProcess {
		articles = articles[:a.config.ArticlesToProcess]
	}

	var items []model.SourceItem
	for _, art := range articles {
		found, err := a.processArticle(ctx, art)
		if err != nil {
			if ctx.Err() != nil {
				return items, ctx.Err()
			}
			a.logger.Warn("skipping article", "url", art.url, "error", err)
			continue
		}
		items = append(items, found...)
	}
	return items, nil
}

func (a *ArticleSource) findArticles(ctx context.Context) ([]article, error) {
	queries := a.config.Queries
	if len(queries) > a.config.QueriesPerCountry {
		queries = queries[:a.config.QueriesPerCountry]
	}

	var articles []article
	for _, code := range a.config.Countries {
		market, ok := LookupMarket(code)
		if !ok {
			a.logger.Warn("unknown country code", "country", code)
			continue
		}
		for _, q := range queries {
			results, err := a.searcher.Search(ctx, q, market.Code, 5)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				a.logger.Warn("trend search failed", "query", q, "country", market.Name, "error", err)
				continue
			}
			if len(results) > a.config.ResultsPerQuery {
				results = results[:a.config.ResultsPerQuery]
			}
			for _, r := range results {
				articles = append(articles, article{url: r.Link, title: r.Title, country: market})
			}
			if err := sleep(ctx, a.config.Delay); err != nil {
				return nil, err
			}
		}
	}

	if len(articles) > a.config.MaxArticles {
		articles = articles[:a.config.MaxArticles]
	}
	return articles, nil
}

func (a *ArticleSource) processArticle(ctx context.Context, art article) ([]model.SourceItem, error) {
	text, err := a.pages.PageText(ctx, art.url)
	if err != nil {
		return nil, err
	}
	names, err := a.extractor.ExtractProductNames(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract product names: %w", err)
	}
	if len(names) > a.config.ProductsPerArticle {
		names = names[:a.config.ProductsPerArticle]
	}

	var items []model.SourceItem
	for _, name := range names {
		item, err := a.findListing(ctx, name, art.country)
		if err != nil {
			if ctx.Err() != nil {
				return items, ctx.Err()
			}
			if !errors.Is(err, errNoListing) {
				a.logger.Warn("listing search failed", "product", name, "error", err)
			}
		} else {
			item.Snippet = strings.TrimSpace(item.Snippet + " Featured in: " + art.title)
			items = append(items, item)
		}
		if err := sleep(ctx, a.config.Delay); err != nil {
			return items, err
		}
	}
	return items, nil
}

var errNoListing = errors.New("no priced listing")

// findListing searches the market's storefront for a product page that shows
// a price.
func (a *ArticleSource) findListing(ctx context.Context, name string, market Market) (model.SourceItem, error) {
	query := fmt.Sprintf("site:%s %s", market.AmazonDomain, name)
	results, err := a.searcher.Search(ctx, query, market.Code, 3)
	if err != nil {
		return model.SourceItem{}, err
	}

	for _, r := range results {
		if !strings.Contains(r.Link, market.AmazonDomain) || !strings.Contains(r.Link, "/dp/") {
			continue
		}
		price, ok := extract.ExtractPrice(r.Snippet + " " + r.Title)
		if !ok {
			continue
		}
		title := strings.TrimSpace(strings.SplitN(r.Title, "|", 2)[0])
		return model.SourceItem{
			URL:       r.Link,
			Title:     extract.Truncate(title, 100),
			Snippet:   r.Snippet,
			Country:   market.Name,
			Source:    "Amazon " + market.Name,
			PriceText: fmt.Sprintf("%.2f", price),
		}, nil
	}
	return model.SourceItem{}, errNoListing
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
