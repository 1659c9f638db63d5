// Package docs publishes research digests as Google Docs.
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/googleauth"
	"github.com/Veraticus/trendscout/internal/service"
)

const documentURLFormat = "https://docs.google.com/document/d/%s/edit"

// Config holds the Google Docs publisher settings.
type Config struct {
	Credentials   googleauth.Credentials
	TitlePrefix   string
	Endpoint      string
	RetryAttempts int
	RetryDelay    time.Duration
}

// Publisher creates one document per digest.
type Publisher struct {
	service   *docs.Service
	logger    *slog.Logger
	retryOpts service.RetryOptions
	prefix    string
}

// NewPublisher creates a publisher authenticated with the configured credentials.
func NewPublisher(ctx context.Context, cfg Config, logger *slog.Logger) (*Publisher, error) {
	httpClient, err := googleauth.HTTPClient(ctx, cfg.Credentials, docs.DocumentsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	return NewPublisherWithClient(ctx, cfg, httpClient, logger)
}

// NewPublisherWithClient creates a publisher that sends requests through httpClient.
func NewPublisherWithClient(ctx context.Context, cfg Config, httpClient *http.Client, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	srv, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create docs service: %w", err)
	}

	return &Publisher{
		service: srv,
		logger:  logger,
		prefix:  cfg.TitlePrefix,
		retryOpts: service.RetryOptions{
			MaxAttempts:  max(cfg.RetryAttempts, 1),
			InitialDelay: cfg.RetryDelay,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// Title builds the document title for a digest generated at now.
func (p *Publisher) Title(now time.Time) string {
	stamp := now.Format("2006-01-02_15-04")
	if p.prefix == "" {
		return stamp + "_DS"
	}
	return p.prefix + " " + stamp
}

// Publish creates a document titled title containing body and returns its URL.
func (p *Publisher) Publish(ctx context.Context, title, body string) (string, error) {
	var doc *docs.Document
	err := common.WithRetry(ctx, func() error {
		var createErr error
		doc, createErr = p.service.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
		return createErr
	}, p.retryOpts)
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}

	if body != "" {
		req := &docs.BatchUpdateDocumentRequest{
			Requests: []*docs.Request{
				{
					InsertText: &docs.InsertTextRequest{
						Location: &docs.Location{Index: 1},
						Text:     body,
					},
				},
			},
		}
		err = common.WithRetry(ctx, func() error {
			_, updateErr := p.service.Documents.BatchUpdate(doc.DocumentId, req).Context(ctx).Do()
			return updateErr
		}, p.retryOpts)
		if err != nil {
			return "", fmt.Errorf("failed to write document %s: %w", doc.DocumentId, err)
		}
	}

	url := fmt.Sprintf(documentURLFormat, doc.DocumentId)
	p.logger.Info("published document", "title", title, "url", url)
	return url, nil
}
