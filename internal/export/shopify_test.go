package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/trendscout/internal/model"
)

func TestHandle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces", in: "Pet Water Fountain", want: "pet-water-fountain"},
		{name: "punctuation", in: "LED Lamp (2-Pack), White!", want: "led-lamp-2-pack-white"},
		{name: "leading and trailing", in: "  Yoga Mat  ", want: "yoga-mat"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Handle(tt.in))
		})
	}
}

func TestShopifyRow(t *testing.T) {
	p := model.ProductRecord{
		Name:        "Ceramic Coffee Mug",
		Description: "Retail: $19.50",
		Category:    model.CategoryKitchen,
		Country:     "USA",
		RetailPrice: model.Float(19.5),
		ImageURL:    "https://images.example/mug.jpg",
		Scores:      model.Scores{Overall: 72},
		Status:      model.StatusApproved,
	}

	assert.Equal(t, []string{
		"ceramic-coffee-mug",
		"Ceramic Coffee Mug",
		"Retail: $19.50",
		"Dropship",
		"Kitchen",
		"Kitchen, USA, Score-72",
		"TRUE",
		"Title",
		"Default Title",
		"19.50",
		"shopify",
		"deny",
		"manual",
		"TRUE",
		"https://images.example/mug.jpg",
		"draft",
	}, ShopifyRow(p))

	p.RetailPrice = nil
	assert.Equal(t, "0", ShopifyRow(p)[9])
}

func TestWriteShopifyCSV(t *testing.T) {
	products := []model.ProductRecord{
		{Name: "Approved One", Status: model.StatusApproved, Country: "UAE", Category: model.CategoryPet},
		{Name: "Still Pending", Status: model.StatusPending},
		{Name: "Rejected", Status: model.StatusRejected},
		{Name: "Approved, Two", Status: model.StatusApproved, Country: "USA"},
	}

	var buf bytes.Buffer
	n, err := WriteShopifyCSV(&buf, products)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, ShopifyColumns, records[0])
	assert.Equal(t, "approved-one", records[1][0])
	assert.Equal(t, "Approved, Two", records[2][1])
	assert.Equal(t, "Other, USA, Score-0", records[2][5])
}

func TestWriteShopifyCSV_NoneApproved(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteShopifyCSV(&buf, []model.ProductRecord{{Name: "x", Status: model.StatusPending}})
	require.NoError(t, err)
	assert.Zero(t, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestDefaultFilename(t *testing.T) {
	assert.Equal(t, "shopify_products_20250307.csv", DefaultFilename(time.Date(2025, 3, 7, 23, 0, 0, 0, time.UTC)))
}
