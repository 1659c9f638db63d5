// Package engine sequences the product research pipeline: extraction,
// deduplication, supplier lookup, margin computation, scoring,
// categorization and persistence.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/trendscout/internal/classification"
	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/extract"
	"github.com/Veraticus/trendscout/internal/margin"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/scoring"
	"github.com/Veraticus/trendscout/internal/service"
	"github.com/google/uuid"
)

// Pipeline stages reported to the progress callback.
const (
	StageSuppliers = "suppliers"
	StageRating    = "rating"
	StageSaving    = "saving"
)

// Config holds configuration options for the research pipeline.
type Config struct {
	Strategy        string
	MinMargin       float64
	ShippingCost    float64
	FeeRate         float64
	RatingBatchSize int
	SupplierDelay   time.Duration
	DryRun          bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Strategy:        scoring.NameAuto,
		MinMargin:       25,
		ShippingCost:    margin.DefaultShippingCost,
		FeeRate:         margin.DefaultFeeRate,
		RatingBatchSize: 5,
		SupplierDelay:   500 * time.Millisecond,
	}
}

// Pipeline runs one research batch from collection to persistence.
type Pipeline struct {
	now         func() time.Time
	collector   Collector
	suppliers   SupplierFinder
	rater       Rater
	extractor   *extract.Extractor
	categorizer *classification.Categorizer
	logger      *slog.Logger
	progress    ProgressFunc
	stores      []service.ProductStore
	config      Config
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithSupplierFinder enables supplier lookups and therefore margin data.
func WithSupplierFinder(f SupplierFinder) Option {
	return func(p *Pipeline) { p.suppliers = f }
}

// WithRater enables rated scoring for records without cost data.
func WithRater(r Rater) Option {
	return func(p *Pipeline) { p.rater = r }
}

// WithStore adds a persistence target. Records are saved to every store.
func WithStore(s service.ProductStore) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.stores = append(p.stores, s)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithProgress sets a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a pipeline with the given collector and extractor.
func New(collector Collector, extractor *extract.Extractor, config Config, opts ...Option) (*Pipeline, error) {
	if collector == nil {
		return nil, fmt.Errorf("%w: collector is required", common.ErrInvalidConfig)
	}
	if extractor == nil {
		extractor = extract.New(nil)
	}
	if _, err := scoring.ByName(config.Strategy, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	if config.RatingBatchSize <= 0 {
		config.RatingBatchSize = DefaultConfig().RatingBatchSize
	}

	categorizer, err := classification.NewCategorizer(classification.DefaultRules())
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		collector:   collector,
		extractor:   extractor,
		categorizer: categorizer,
		config:      config,
		logger:      slog.Default(),
		now:         time.Now,
		progress:    func(string, int, int) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Result is the outcome of a pipeline run.
type Result struct {
	Products []model.ProductRecord
	Summary  service.RunSummary
}

// Run executes one batch. When persistence fails the scored products are
// still returned together with an error wrapping common.ErrPersistenceFailed.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := p.now()
	runID := uuid.NewString()
	summary := service.RunSummary{
		RunID:     runID,
		StartedAt: started,
		Strategy:  p.config.Strategy,
	}

	p.logger.Info("starting research run", "run_id", runID, "strategy", p.config.Strategy)

	items, err := p.collector.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect sources: %w", err)
	}
	summary.Collected = len(items)
	if r, ok := p.collector.(FailureReporter); ok {
		summary.SourceErrors = len(r.Failed())
	}

	drafts := p.extractor.ExtractAll(items)
	summary.Extracted = len(drafts)

	products := Dedupe(drafts)
	summary.Duplicates = len(drafts) - len(products)

	p.logger.Info("extracted products",
		"collected", summary.Collected,
		"extracted", summary.Extracted,
		"duplicates", summary.Duplicates)

	products, err = p.lookupSuppliers(ctx, products)
	if err != nil {
		return nil, err
	}

	marginOpts := []margin.Option{
		margin.WithShippingCost(p.config.ShippingCost),
		margin.WithFeeRate(p.config.FeeRate),
	}
	for i := range products {
		products[i] = margin.Apply(products[i], marginOpts...)
	}

	kept := products[:0:0]
	for _, prod := range products {
		if p.passesMarginFilter(prod) {
			kept = append(kept, prod)
			continue
		}
		summary.BelowMargin++
	}
	products = kept

	ratings, err := p.rate(ctx, products)
	if err != nil {
		return nil, err
	}

	strategy, err := scoring.ByName(p.config.Strategy, ratings)
	if err != nil {
		return nil, err
	}

	now := p.now()
	for i, prod := range products {
		prod = scoring.Apply(strategy, prod)
		prod = p.categorizer.Apply(prod)
		prod = describe(prod)
		prod.CreatedAt = now
		prod.RunID = runID
		prod.Status = model.StatusPending
		products[i] = prod
	}

	summary.AverageMargin, summary.AverageProfit = averages(products)

	result := &Result{Products: products, Summary: summary}

	if p.config.DryRun || len(p.stores) == 0 {
		result.Summary.Duration = p.now().Sub(started)
		return result, nil
	}

	saveErr := p.save(ctx, products, &result.Summary)
	result.Summary.Duration = p.now().Sub(started)

	p.logger.Info("research run completed",
		"run_id", runID,
		"products", len(products),
		"saved", result.Summary.Saved,
		"duration", result.Summary.Duration)

	return result, saveErr
}

func (p *Pipeline) passesMarginFilter(prod model.ProductRecord) bool {
	if prod.Margin == nil {
		return p.config.Strategy != scoring.NameMargin
	}
	return margin.MeetsMinimum(prod, p.config.MinMargin)
}

func (p *Pipeline) lookupSuppliers(ctx context.Context, products []model.ProductRecord) ([]model.ProductRecord, error) {
	if p.suppliers == nil {
		return products, nil
	}

	out := make([]model.ProductRecord, len(products))
	for i, prod := range products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = prod
		p.progress(StageSuppliers, i+1, len(products))

		if prod.RetailPrice == nil || prod.SupplierPrice != nil {
			continue
		}

		quote, err := p.suppliers.FindSupplier(ctx, prod.Name)
		switch {
		case errors.Is(err, common.ErrNotFound):
			p.logger.Debug("no supplier listing", "product", prod.Name)
		case errors.Is(err, context.Canceled):
			return nil, err
		case err != nil:
			p.logger.Warn("supplier lookup failed", "product", prod.Name, "error", err)
		default:
			out[i].SupplierPrice = model.Float(quote.Price)
			out[i].SupplierURL = quote.URL
		}

		if err := sleep(ctx, p.config.SupplierDelay); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// rate collects rater output for the records the chosen strategy cannot
// score from cost data. A failed batch contributes no ratings so its records
// fall back per record.
func (p *Pipeline) rate(ctx context.Context, products []model.ProductRecord) (map[string]scoring.Rating, error) {
	ratings := make(map[string]scoring.Rating)
	if p.rater == nil || p.config.Strategy == scoring.NameMargin {
		return ratings, nil
	}

	var pending []model.ProductRecord
	for _, prod := range products {
		if p.config.Strategy == scoring.NameRated || prod.Margin == nil {
			pending = append(pending, prod)
		}
	}

	size := p.config.RatingBatchSize
	for start := 0; start < len(pending); start += size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+size, len(pending))
		batch := pending[start:end]
		p.progress(StageRating, end, len(pending))

		output, err := p.rater.Rate(ctx, batch)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			p.logger.Warn("rating batch failed, using fallback scores",
				"batch_start", start,
				"batch_size", len(batch),
				"error", err)
			continue
		}

		keys := make([]string, len(batch))
		for i, prod := range batch {
			keys[i] = scoring.RatingKey(prod)
		}
		parsed := scoring.RatingsForBatch(output, keys)
		if len(parsed) == 0 {
			p.logger.Warn("rating output unparsable, using fallback scores", "batch_start", start)
		}
		for id, r := range parsed {
			ratings[id] = r
		}
	}
	return ratings, nil
}

func (p *Pipeline) save(ctx context.Context, products []model.ProductRecord, summary *service.RunSummary) error {
	var errs []error
	for i, store := range p.stores {
		p.progress(StageSaving, i+1, len(p.stores))
		saved, err := store.SaveProducts(ctx, products)
		if err != nil {
			p.logger.Error("failed to save products", "store", fmt.Sprintf("%T", store), "error", err)
			errs = append(errs, err)
			continue
		}
		if i == 0 {
			summary.Saved = saved
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", common.ErrPersistenceFailed, errors.Join(errs...))
	}
	return nil
}

// describe fills the pricing description and recommended price for records
// with cost data.
func describe(p model.ProductRecord) model.ProductRecord {
	if p.Margin == nil || p.RetailPrice == nil || p.SupplierPrice == nil {
		return p
	}
	p.Description = fmt.Sprintf("Retail: $%.2f | Supplier: $%.2f | Profit: $%.2f (%.1f%% margin)",
		*p.RetailPrice, *p.SupplierPrice, p.Margin.Profit, p.Margin.MarginPercent)

	rec := fmt.Sprintf("Recommended sell price: $%.2f", p.Margin.RecommendedPrice)
	if !strings.Contains(p.Reasoning, rec) {
		if p.Reasoning == "" {
			p.Reasoning = rec
		} else {
			p.Reasoning = strings.TrimRight(p.Reasoning, ". ") + ". " + rec
		}
	}
	return p
}

func averages(products []model.ProductRecord) (float64, float64) {
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
	if n == 0 {
		return 0, 0
	}
	return marginSum / float64(n), profitSum / float64(n)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
