package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testProduct(i int, country string) model.ProductRecord {
	retail := float64(20 + i)
	return model.ProductRecord{
		Identity:    fmt.Sprintf("https://www.amazon.com/dp/B%04d", i),
		Name:        fmt.Sprintf("Product %d", i),
		Category:    model.CategoryKitchen,
		Country:     country,
		RetailPrice: &retail,
		Status:      model.StatusPending,
		Scores:      model.Scores{Overall: 10 * i, Demand: 50, LegalRisk: 20},
	}
}

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))
}

func TestNewSQLiteStorage_Memory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
	assert.Equal(t, ":memory:", store.Path())
}

func TestSaveProducts(t *testing.T) {
	tests := []struct {
		name      string
		first     []model.ProductRecord
		second    []model.ProductRecord
		wantSaved int
		wantTotal int
		wantErr   error
	}{
		{
			name:      "new products",
			second:    []model.ProductRecord{testProduct(1, "USA"), testProduct(2, "USA")},
			wantSaved: 2,
			wantTotal: 2,
		},
		{
			name:      "existing identity is skipped",
			first:     []model.ProductRecord{testProduct(1, "USA")},
			second:    []model.ProductRecord{testProduct(1, "UAE"), testProduct(2, "USA")},
			wantSaved: 1,
			wantTotal: 2,
		},
		{
			name:      "missing identity skipped",
			second:    []model.ProductRecord{{Name: "No link"}},
			wantSaved: 0,
			wantTotal: 0,
		},
		{
			name:      "missing identity does not sink the batch",
			second:    []model.ProductRecord{testProduct(1, "USA"), {Name: "No link"}, testProduct(2, "USA")},
			wantSaved: 2,
			wantTotal: 2,
		},
		{
			name:    "missing name rejected",
			second:  []model.ProductRecord{{Identity: "https://www.amazon.com/dp/B9999"}},
			wantErr: ErrInvalidProduct,
		},
		{
			name:      "empty batch",
			wantSaved: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStorage(t)
			ctx := context.Background()

			if len(tt.first) > 0 {
				_, err := store.SaveProducts(ctx, tt.first)
				require.NoError(t, err)
			}

			saved, err := store.SaveProducts(ctx, tt.second)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSaved, saved)

			all, err := store.ListProducts(ctx, service.ProductFilter{})
			require.NoError(t, err)
			assert.Len(t, all, tt.wantTotal)
		})
	}
}

func TestSaveProducts_FirstWriteWins(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveProducts(ctx, []model.ProductRecord{testProduct(1, "USA")})
	require.NoError(t, err)
	_, err = store.SaveProducts(ctx, []model.ProductRecord{testProduct(1, "UAE")})
	require.NoError(t, err)

	p, err := store.GetProduct(ctx, testProduct(1, "").Identity)
	require.NoError(t, err)
	assert.Equal(t, "USA", p.Country)
}

func TestListProducts_Filters(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	products := []model.ProductRecord{
		testProduct(1, "USA"),
		testProduct(2, "UAE"),
		testProduct(3, "USA"),
		testProduct(4, "Australia"),
	}
	products[3].Category = model.CategoryPet
	_, err := store.SaveProducts(ctx, products)
	require.NoError(t, err)

	approved := model.StatusApproved
	require.NoError(t, store.SetStatus(ctx, products[2].Identity, approved, nil))

	tests := []struct {
		name   string
		filter service.ProductFilter
		want   []string
	}{
		{name: "no filter keeps insertion order", want: []string{"Product 1", "Product 2", "Product 3", "Product 4"}},
		{name: "country", filter: service.ProductFilter{Country: "USA"}, want: []string{"Product 1", "Product 3"}},
		{name: "status", filter: service.ProductFilter{Status: &approved}, want: []string{"Product 3"}},
		{name: "category", filter: service.ProductFilter{Category: string(model.CategoryPet)}, want: []string{"Product 4"}},
		{name: "min score", filter: service.ProductFilter{MinScore: 30}, want: []string{"Product 3", "Product 4"}},
		{name: "limit and offset", filter: service.ProductFilter{Limit: 2, Offset: 1}, want: []string{"Product 2", "Product 3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListProducts(ctx, tt.filter)
			require.NoError(t, err)

			names := make([]string, len(got))
			for i, p := range got {
				names[i] = p.Name
				assert.True(t, tt.filter.Matches(p))
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestListProducts_RecomputesMargin(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	withCost := testProduct(1, "USA")
	withCost.RetailPrice = model.Float(100)
	withCost.SupplierPrice = model.Float(40)
	withoutCost := testProduct(2, "USA")

	_, err := store.SaveProducts(ctx, []model.ProductRecord{withCost, withoutCost})
	require.NoError(t, err)

	got, err := store.ListProducts(ctx, service.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].Margin)
	assert.InDelta(t, 52.0, got[0].Margin.Profit, 0.001)
	assert.InDelta(t, 52.0, got[0].Margin.MarginPercent, 0.001)
	assert.InDelta(t, 90.0, got[0].Margin.RecommendedPrice, 0.001)
	assert.Nil(t, got[1].Margin)
	assert.Nil(t, got[1].SupplierPrice)
}

func TestSetStatus(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	p := testProduct(1, "USA")
	_, err := store.SaveProducts(ctx, []model.ProductRecord{p})
	require.NoError(t, err)

	notes := "Strong seller"
	require.NoError(t, store.SetStatus(ctx, p.Identity, model.StatusApproved, &notes))

	got, err := store.GetProduct(ctx, p.Identity)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	assert.Equal(t, "Strong seller", got.Notes)

	// Nil notes keeps the previous notes.
	require.NoError(t, store.SetStatus(ctx, p.Identity, model.StatusPending, nil))
	got, err = store.GetProduct(ctx, p.Identity)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, "Strong seller", got.Notes)

	history, err := store.ReviewHistory(ctx, p.Identity)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.StatusPending, history[0].FromStatus)
	assert.Equal(t, model.StatusApproved, history[0].ToStatus)
	assert.Equal(t, model.StatusApproved, history[1].FromStatus)
	assert.Equal(t, model.StatusPending, history[1].ToStatus)
	assert.Equal(t, "Strong seller", history[1].Notes)
}

func TestSetStatus_Errors(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	err := store.SetStatus(ctx, "https://example.com/missing", model.StatusApproved, nil)
	require.ErrorIs(t, err, common.ErrNotFound)

	err = store.SetStatus(ctx, "https://example.com/missing", model.ReviewStatus("archived"), nil)
	require.ErrorIs(t, err, model.ErrInvalidStatus)

	err = store.SetStatus(ctx, "  ", model.StatusApproved, nil)
	require.ErrorIs(t, err, ErrEmptyString)
}

func TestSetNotes(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	p := testProduct(1, "USA")
	_, err := store.SaveProducts(ctx, []model.ProductRecord{p})
	require.NoError(t, err)

	require.NoError(t, store.SetNotes(ctx, p.Identity, "check supplier reviews"))
	got, err := store.GetProduct(ctx, p.Identity)
	require.NoError(t, err)
	assert.Equal(t, "check supplier reviews", got.Notes)
	assert.Equal(t, model.StatusPending, got.Status)

	err = store.SetNotes(ctx, "https://example.com/missing", "x")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetProduct_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetProduct(context.Background(), "https://example.com/missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestRuns(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range 3 {
		require.NoError(t, store.SaveRun(ctx, service.RunSummary{
			RunID:         fmt.Sprintf("run-%d", i),
			Strategy:      "auto",
			StartedAt:     base.Add(time.Duration(i) * time.Hour),
			Collected:     10 + i,
			Saved:         i,
			Duration:      1500 * time.Millisecond,
			AverageMargin: 42.5,
		}))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, "run-1", runs[1].RunID)
	assert.Equal(t, 12, runs[0].Collected)
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration)
	assert.InDelta(t, 42.5, runs[0].AverageMargin, 0.001)

	require.ErrorIs(t, store.SaveRun(ctx, service.RunSummary{}), ErrEmptyString)
}
