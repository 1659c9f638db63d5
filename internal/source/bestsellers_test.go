package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/trendscout/internal/common"
)

const listingHTML = `<html><body>
<div class="p13n-sc-uncoverable-faceout">
  <a class="a-link-normal" href="/Pet-Water-Fountain/dp/B0001?ref=zg_bs&th=1">
    <img src="https://images.example/fountain.jpg">
    <div class="_cDEzb_p13n-sc-css-line-clamp-3_g3dy1">  Pet Water Fountain  </div>
  </a>
  <span class="p13n-sc-price">$24.99</span>
</div>
<div class="p13n-sc-uncoverable-faceout">
  <div class="_cDEzb_p13n-sc-css-line-clamp-3_g3dy1">Yoga Mat</div>
</div>
<div class="p13n-sc-uncoverable-faceout">
  <span class="p13n-sc-price">$5.00</span>
</div>
</body></html>`

func TestFetcher_PageText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`<html><head><script>var x = 1;</script></head>
<body><nav>Menu</nav><h1>Top   Gadgets</h1><p>Buy a <b>smart mug</b>.</p><style>p{}</style></body></html>`))
	}))
	defer server.Close()

	text, err := NewFetcher(nil).PageText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Top Gadgets Buy a smart mug .", text)
}

func TestFetcher_Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewFetcher(server.Client()).Document(context.Background(), server.URL)
	require.ErrorIs(t, err, common.ErrSourceFailed)
}

func TestBestsellerSource_Fetch(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(listingHTML))
	}))
	defer server.Close()

	market := Market{Code: "us", Name: "USA", BestsellerURL: server.URL + "/gp/bestsellers"}
	src := NewBestsellerSource(NewFetcher(server.Client()), market, []string{"pet-supplies", "sports-fitness"})

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"/gp/bestsellers/pet-supplies", "/gp/bestsellers/sports-fitness"}, paths)
	require.Len(t, items, 4)

	first := items[0]
	assert.Equal(t, "Pet Water Fountain", first.Title)
	assert.Equal(t, "$24.99", first.PriceText)
	assert.Equal(t, server.URL+"/Pet-Water-Fountain/dp/B0001", first.URL)
	assert.Equal(t, "https://images.example/fountain.jpg", first.ImageURL)
	assert.Equal(t, "USA", first.Country)
	assert.Equal(t, "Amazon USA Best Sellers", first.Source)

	second := items[1]
	assert.Equal(t, "Yoga Mat", second.Title)
	assert.Empty(t, second.PriceText)
	assert.Empty(t, second.URL)
}

func TestBestsellerSource_PageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/toys") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(listingHTML))
	}))
	defer server.Close()

	market := Market{Code: "us", Name: "USA", BestsellerURL: server.URL}
	src := NewBestsellerSource(NewFetcher(server.Client()), market, []string{"beauty", "toys", "fashion"})

	items, err := src.Fetch(context.Background())
	require.ErrorIs(t, err, common.ErrSourceFailed)
	assert.Len(t, items, 2)
}

func TestLookupMarket(t *testing.T) {
	m, ok := LookupMarket(" AE ")
	require.True(t, ok)
	assert.Equal(t, "UAE", m.Name)
	assert.Equal(t, "amazon.ae", m.AmazonDomain)

	_, ok = LookupMarket("zz")
	assert.False(t, ok)

	assert.Equal(t, []string{"ae", "au", "in", "sa", "us"}, MarketCodes())
}
