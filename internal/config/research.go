package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/engine"
	"github.com/Veraticus/trendscout/internal/scoring"
	"github.com/Veraticus/trendscout/internal/source"
)

// Research holds the settings of one research run.
type Research struct {
	Keywords             []string
	Countries            []string
	Queries              []string
	SearchQueries        []string
	BestsellerCategories []string
	Strategy             string
	Delay                time.Duration
	MinMargin            float64
	ShippingCost         float64
	FeeRate              float64
	MaxArticles          int
	ArticlesToProcess    int
	ProductsPerArticle   int
	RatingBatchSize      int
	TopN                 int
	Bestsellers          bool
}

// DefaultResearch returns the research defaults.
func DefaultResearch() Research {
	eng := engine.DefaultConfig()
	art := source.DefaultArticleConfig()
	return Research{
		Countries:          source.DefaultCountries,
		Queries:            source.DefaultTrendQueries,
		Strategy:           eng.Strategy,
		Delay:              art.Delay,
		MinMargin:          eng.MinMargin,
		ShippingCost:       eng.ShippingCost,
		FeeRate:            eng.FeeRate,
		MaxArticles:        art.MaxArticles,
		ArticlesToProcess:  art.ArticlesToProcess,
		ProductsPerArticle: art.ProductsPerArticle,
		RatingBatchSize:    eng.RatingBatchSize,
		TopN:               10,
	}
}

// LoadResearch reads the research.* keys over the defaults.
func LoadResearch(v *viper.Viper) (Research, error) {
	r := DefaultResearch()

	if s := v.GetStringSlice("research.keywords"); len(s) > 0 {
		r.Keywords = s
	}
	if s := v.GetStringSlice("research.countries"); len(s) > 0 {
		r.Countries = s
	}
	if s := v.GetStringSlice("research.queries"); len(s) > 0 {
		r.Queries = s
	}
	r.SearchQueries = v.GetStringSlice("research.search_queries")
	r.BestsellerCategories = v.GetStringSlice("research.bestseller_categories")
	r.Bestsellers = v.GetBool("research.bestsellers")

	if s := v.GetString("research.strategy"); s != "" {
		r.Strategy = s
	}
	if v.IsSet("research.delay") {
		r.Delay = v.GetDuration("research.delay")
	}
	if v.IsSet("research.min_margin") {
		r.MinMargin = v.GetFloat64("research.min_margin")
	}
	if v.IsSet("research.shipping_cost") {
		r.ShippingCost = v.GetFloat64("research.shipping_cost")
	}
	if v.IsSet("research.fee_rate") {
		r.FeeRate = v.GetFloat64("research.fee_rate")
	}
	if n := v.GetInt("research.max_articles"); n > 0 {
		r.MaxArticles = n
	}
	if n := v.GetInt("research.articles_to_process"); n > 0 {
		r.ArticlesToProcess = n
	}
	if n := v.GetInt("research.max_products_per_article"); n > 0 {
		r.ProductsPerArticle = n
	}
	if n := v.GetInt("research.rating_batch_size"); n > 0 {
		r.RatingBatchSize = n
	}
	if n := v.GetInt("research.top_n"); n > 0 {
		r.TopN = n
	}

	if err := r.Validate(); err != nil {
		return Research{}, err
	}
	return r, nil
}

// Validate checks the research settings.
func (r Research) Validate() error {
	if _, err := scoring.ByName(r.Strategy, nil); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	for _, code := range r.Countries {
		if _, ok := source.LookupMarket(code); !ok {
			return fmt.Errorf("%w: unknown country code %q (supported: %v)", common.ErrInvalidConfig, code, source.MarketCodes())
		}
	}
	if r.Delay < 0 {
		return fmt.Errorf("%w: research delay cannot be negative", common.ErrInvalidConfig)
	}
	if r.FeeRate < 0 || r.FeeRate >= 1 {
		return fmt.Errorf("%w: fee rate must be in [0,1)", common.ErrInvalidConfig)
	}
	if r.ShippingCost < 0 {
		return fmt.Errorf("%w: shipping cost cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}

// EngineConfig returns the pipeline configuration.
func (r Research) EngineConfig() engine.Config {
	return engine.Config{
		Strategy:        r.Strategy,
		MinMargin:       r.MinMargin,
		ShippingCost:    r.ShippingCost,
		FeeRate:         r.FeeRate,
		RatingBatchSize: r.RatingBatchSize,
		SupplierDelay:   r.Delay,
	}
}

// ArticleConfig returns the article discovery bounds.
func (r Research) ArticleConfig() source.ArticleConfig {
	cfg := source.DefaultArticleConfig()
	cfg.Queries = r.Queries
	cfg.Countries = r.Countries
	cfg.MaxArticles = r.MaxArticles
	cfg.ArticlesToProcess = r.ArticlesToProcess
	cfg.ProductsPerArticle = r.ProductsPerArticle
	cfg.Delay = r.Delay
	return cfg
}
