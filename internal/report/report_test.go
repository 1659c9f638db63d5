package report

import (
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/trendscout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name, country string, score int) model.ProductRecord {
	return model.ProductRecord{
		Identity: id,
		Name:     name,
		Country:  country,
		Category: model.CategoryOther,
		Scores:   model.Scores{Overall: score},
	}
}

func TestRank_StableAndNonMutating(t *testing.T) {
	in := []model.ProductRecord{
		product("a", "A", "USA", 50),
		product("b", "B", "USA", 80),
		product("c", "C", "USA", 50),
		product("d", "D", "USA", 80),
	}
	ranked := Rank(in)

	got := make([]string, len(ranked))
	for i, p := range ranked {
		got[i] = p.Identity
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, got)
	assert.Equal(t, "a", in[0].Identity, "input order must not change")
}

func TestTop(t *testing.T) {
	in := []model.ProductRecord{product("a", "A", "", 10), product("b", "B", "", 30), product("c", "C", "", 20)}
	top := Top(in, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Identity)
	assert.Equal(t, "c", top[1].Identity)
	assert.Len(t, Top(in, 0), 3)
}

func TestFormat(t *testing.T) {
	leash := product("https://shop/leash", "Dog Leash", "USA", 90)
	leash.Category = model.CategoryPet
	leash.RetailPrice = model.Float(100)
	leash.Margin = &model.Margin{Profit: 52, MarginPercent: 52}
	leash.Reasoning = "Recommended sell price: $90.00"

	products := []model.ProductRecord{
		product("https://shop/mug", "Mug", "UAE", 40),
		leash,
		product("https://shop/lamp", "Lamp", "USA", 60),
	}

	out := Format(products, Options{TopN: 2, Now: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)})

	assert.Contains(t, out, "Product Opportunity Report (2025-01-02)")
	assert.Contains(t, out, "Products: 3")
	assert.Contains(t, out, "Average margin: 52.0%")
	assert.Contains(t, out, "Top 2 opportunities")
	assert.Contains(t, out, "1. Dog Leash [Pet Supplies] score 90/100")
	assert.Contains(t, out, "price $100.00 | profit $52.00 | margin 52.0%")
	assert.Contains(t, out, "2. Lamp [Other] score 60/100")
	assert.NotContains(t, out, "Mug")
	assert.Equal(t, "https://shop/mug", products[0].Identity)
}

func TestFormat_GroupByCountry(t *testing.T) {
	products := []model.ProductRecord{
		product("1", "UAE low", "UAE", 10),
		product("2", "USA top", "USA", 95),
		product("3", "UAE top", "UAE", 70),
		product("4", "Global item", "", 50),
		product("5", "USA mid", "USA", 60),
	}

	out := Format(products, Options{GroupByCountry: true, TopN: 1})

	usa := strings.Index(out, "USA (2 products)")
	uae := strings.Index(out, "UAE (2 products)")
	global := strings.Index(out, "Global (1 products)")
	require.Positive(t, usa)
	assert.Less(t, usa, uae)
	assert.Less(t, uae, global)

	assert.Contains(t, out, "1. USA top")
	assert.NotContains(t, out, "USA mid")
	assert.Contains(t, out, "1. UAE top")
	assert.NotContains(t, out, "UAE low")
}

func TestFormat_BoundsLongFields(t *testing.T) {
	p := product("x", strings.Repeat("n", 300), "USA", 10)
	p.Reasoning = strings.Repeat("r", 1000)

	out := Format([]model.ProductRecord{p}, Options{})
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 200)
	}
}

func TestFormat_Empty(t *testing.T) {
	out := Format(nil, Options{Title: "Weekly"})
	assert.Contains(t, out, "Weekly")
	assert.Contains(t, out, "No products found.")
}
