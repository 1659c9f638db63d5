package engine

import (
	"context"

	"github.com/Veraticus/trendscout/internal/model"
)

// Collector gathers raw candidates from every configured source. Failures of
// individual sources are absorbed by the collector; an error means the whole
// collection was aborted, for example by cancellation.
type Collector interface {
	Collect(ctx context.Context) ([]model.SourceItem, error)
}

// FailureReporter is implemented by collectors that can name the sources
// that failed during the last collection.
type FailureReporter interface {
	Failed() []string
}

// SupplierFinder looks up a supplier listing for a product. It returns
// common.ErrNotFound when no priced listing exists.
type SupplierFinder interface {
	FindSupplier(ctx context.Context, productName string) (model.SupplierQuote, error)
}

// Rater asks an external rater to score a numbered batch of products and
// returns its raw text output.
type Rater interface {
	Rate(ctx context.Context, products []model.ProductRecord) (string, error)
}

// ProgressFunc is notified as the pipeline advances through a stage.
type ProgressFunc func(stage string, done, total int)
