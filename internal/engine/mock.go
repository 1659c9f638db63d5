package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/model"
)

// MockCollector returns a fixed set of items.
type MockCollector struct {
	Err   error
	Items []model.SourceItem
}

// Collect implements Collector.
func (m *MockCollector) Collect(ctx context.Context) ([]model.SourceItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.Items, m.Err
}

// MockSupplierFinder returns quotes keyed by lowercase product name.
type MockSupplierFinder struct {
	Quotes map[string]model.SupplierQuote
	Errors map[string]error
	calls  []string
	mu     sync.Mutex
}

// FindSupplier implements SupplierFinder.
func (m *MockSupplierFinder) FindSupplier(_ context.Context, productName string) (model.SupplierQuote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(productName)
	m.calls = append(m.calls, productName)

	if err, ok := m.Errors[key]; ok {
		return model.SupplierQuote{}, err
	}
	if q, ok := m.Quotes[key]; ok {
		return q, nil
	}
	return model.SupplierQuote{}, common.ErrNotFound
}

// Calls returns the product names that were looked up.
func (m *MockSupplierFinder) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockRater returns canned rater output per call.
type MockRater struct {
	RateFunc func(products []model.ProductRecord) (string, error)
	batches  [][]model.ProductRecord
	mu       sync.Mutex
}

// Rate implements Rater.
func (m *MockRater) Rate(_ context.Context, products []model.ProductRecord) (string, error) {
	m.mu.Lock()
	m.batches = append(m.batches, products)
	m.mu.Unlock()

	if m.RateFunc == nil {
		return "", nil
	}
	return m.RateFunc(products)
}

// Batches returns the batches the rater was called with.
func (m *MockRater) Batches() [][]model.ProductRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]model.ProductRecord(nil), m.batches...)
}
