package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Veraticus/trendscout/internal/common"
)

// UserAgent is sent with every page request. Listing sites serve an empty
// shell to unknown clients.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const (
	defaultFetchTimeout = 10 * time.Second
	defaultMaxBodyBytes = 2 << 20
)

// Fetcher downloads and parses HTML pages.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
}

// NewFetcher creates a fetcher. A nil client gets a 10 second timeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &Fetcher{client: client, maxBodyBytes: defaultMaxBodyBytes}
}

// Document fetches pageURL and parses it.
func (f *Fetcher) Document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", common.ErrSourceFailed, pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// PageText returns the visible text of a page with whitespace collapsed.
func (f *Fetcher) PageText(ctx context.Context, pageURL string) (string, error) {
	doc, err := f.Document(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return VisibleText(doc), nil
}

// VisibleText drops script, style and navigation chrome and returns the
// remaining text nodes joined by single spaces.
func VisibleText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, header, footer").Remove()

	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, node *goquery.Selection) {
			if goquery.NodeName(node) == "#text" {
				parts = append(parts, node.Text())
				return
			}
			walk(node)
		})
	}
	walk(doc.Find("body"))

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
