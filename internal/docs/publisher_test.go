package docs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/trendscout/internal/common"
)

func newTestPublisher(t *testing.T, handler http.HandlerFunc, prefix string) *Publisher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewPublisherWithClient(context.Background(), Config{
		Endpoint:      server.URL + "/",
		TitlePrefix:   prefix,
		RetryAttempts: 1,
	}, server.Client(), common.DiscardLogger())
	require.NoError(t, err)
	return p
}

func TestPublisher_Publish(t *testing.T) {
	var createdTitle, insertedText string
	var insertIndex float64

	p := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":batchUpdate"):
			assert.Contains(t, r.URL.Path, "doc-42")
			var req struct {
				Requests []struct {
					InsertText struct {
						Location struct {
							Index float64 `json:"index"`
						} `json:"location"`
						Text string `json:"text"`
					} `json:"insertText"`
				} `json:"requests"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if assert.Len(t, req.Requests, 1) {
				insertedText = req.Requests[0].InsertText.Text
				insertIndex = req.Requests[0].InsertText.Location.Index
			}
			_, _ = w.Write([]byte(`{"documentId":"doc-42"}`))
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/documents"):
			var doc struct {
				Title string `json:"title"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
			createdTitle = doc.Title
			_, _ = w.Write([]byte(`{"documentId":"doc-42","title":"` + doc.Title + `"}`))
		default:
			http.NotFound(w, r)
		}
	}, "")

	url, err := p.Publish(context.Background(), "Weekly digest", "TOP PRODUCTS\n1. Mug")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/document/d/doc-42/edit", url)
	assert.Equal(t, "Weekly digest", createdTitle)
	assert.Equal(t, "TOP PRODUCTS\n1. Mug", insertedText)
	assert.InDelta(t, 1.0, insertIndex, 0)
}

func TestPublisher_CreateFails(t *testing.T) {
	p := newTestPublisher(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	}, "")

	_, err := p.Publish(context.Background(), "t", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create document")
}

func TestPublisher_Title(t *testing.T) {
	now := time.Date(2025, 6, 1, 7, 5, 0, 0, time.UTC)

	p := &Publisher{}
	assert.Equal(t, "2025-06-01_07-05_DS", p.Title(now))

	p = &Publisher{prefix: "Trend Scout"}
	assert.Equal(t, "Trend Scout 2025-06-01_07-05", p.Title(now))
}
