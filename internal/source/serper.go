package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/model"
)

// DefaultSerperEndpoint is the Serper web search API.
const DefaultSerperEndpoint = "https://google.serper.dev/search"

// SearchResult is one organic search hit.
type SearchResult struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Searcher runs a web search restricted to a country.
type Searcher interface {
	Search(ctx context.Context, query, country string, num int) ([]SearchResult, error)
}

// SerperConfig holds the settings of the Serper search client.
type SerperConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// SerperClient queries the Serper search API.
type SerperClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	endpoint   string
}

type serperRequest struct {
	Query   string `json:"q"`
	Country string `json:"gl,omitempty"`
	Num     int    `json:"num"`
}

type serperResponse struct {
	Organic []SearchResult `json:"organic"`
}

// NewSerperClient creates a search client. A missing API key yields
// common.ErrMissingConfig so callers can skip search-backed sources.
func NewSerperClient(cfg SerperConfig, logger *slog.Logger) (*SerperClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: serper API key", common.ErrMissingConfig)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultSerperEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SerperClient{
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

// Search returns the organic results for query. An empty country searches globally.
func (c *SerperClient) Search(ctx context.Context, query, country string, num int) ([]SearchResult, error) {
	if num <= 0 {
		num = 10
	}
	body, err := json.Marshal(serperRequest{Query: query, Country: country, Num: num})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: serper returned %d: %s", common.ErrSourceFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	c.logger.Debug("search completed", "query", query, "country", country, "results", len(parsed.Organic))
	return parsed.Organic, nil
}

// SearchSource turns plain search queries into source items. Each query is
// run once per configured country.
type SearchSource struct {
	searcher  Searcher
	queries   []string
	countries []string
	num       int
}

// NewSearchSource creates a source over the given queries and country codes.
func NewSearchSource(searcher Searcher, queries, countries []string, num int) *SearchSource {
	if len(countries) == 0 {
		countries = []string{""}
	}
	return &SearchSource{searcher: searcher, queries: queries, countries: countries, num: num}
}

// Name implements Source.
func (s *SearchSource) Name() string { return "search" }

// Fetch implements Source.
func (s *SearchSource) Fetch(ctx context.Context) ([]model.SourceItem, error) {
	var items []model.SourceItem
	for _, code := range s.countries {
		country := model.DefaultCountry
		if m, ok := LookupMarket(code); ok {
			country = m.Name
		}
		for _, q := range s.queries {
			results, err := s.searcher.Search(ctx, q, code, s.num)
			if err != nil {
				return items, fmt.Errorf("query %q: %w", q, err)
			}
			for _, r := range results {
				items = append(items, model.SourceItem{
					URL:     r.Link,
					Title:   r.Title,
					Snippet: r.Snippet,
					Country: country,
					Source:  "Search",
				})
			}
		}
	}
	return items, nil
}
