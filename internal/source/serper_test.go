package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/trendscout/internal/common"
)

func TestNewSerperClient_MissingKey(t *testing.T) {
	_, err := NewSerperClient(SerperConfig{}, common.DiscardLogger())
	require.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestSerperClient_Search(t *testing.T) {
	var got serperRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organic":[
			{"link":"https://example.com/a","title":"Top 10 gadgets","snippet":"The best gadgets"},
			{"link":"https://example.com/b","title":"Viral finds","snippet":"Everyone wants these"}
		]}`))
	}))
	defer server.Close()

	client, err := NewSerperClient(SerperConfig{APIKey: "secret", Endpoint: server.URL}, common.DiscardLogger())
	require.NoError(t, err)

	results, err := client.Search(context.Background(), "trending products 2025", "us", 5)
	require.NoError(t, err)

	assert.Equal(t, serperRequest{Query: "trending products 2025", Country: "us", Num: 5}, got)
	require.Len(t, results, 2)
	assert.Equal(t, "https://example.com/a", results[0].Link)
	assert.Equal(t, "Viral finds", results[1].Title)
}

func TestSerperClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"bad key"}`, wantErr: common.ErrSourceFailed},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantErr: common.ErrSourceFailed},
		{name: "malformed body", status: http.StatusOK, body: `{"organic":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewSerperClient(SerperConfig{APIKey: "k", Endpoint: server.URL}, common.DiscardLogger())
			require.NoError(t, err)

			_, err = client.Search(context.Background(), "q", "", 1)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSearchSource_Fetch(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]SearchResult{
		"smart mug": {{Link: "https://shop.example/mug", Title: "Smart Mug $29.99", Snippet: "Keeps coffee hot"}},
	}}

	src := NewSearchSource(searcher, []string{"smart mug"}, []string{"us", "ae"}, 3)
	items, err := src.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "USA", items[0].Country)
	assert.Equal(t, "UAE", items[1].Country)
	assert.Equal(t, "https://shop.example/mug", items[0].URL)
	assert.Equal(t, []string{"smart mug|us", "smart mug|ae"}, searcher.calls)
}
