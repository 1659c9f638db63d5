package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
)

// Assistant wraps a Client with caching, rate limiting and retries and
// exposes the two questions the research pipeline asks a language model.
type Assistant struct {
	client      Client
	cache       *responseCache
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
}

// NewAssistant creates the provider client described by cfg and wraps it.
func NewAssistant(cfg Config, logger *slog.Logger) (*Assistant, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewAssistantWithClient(client, cfg, logger), nil
}

// NewAssistantWithClient wraps an existing client.
func NewAssistantWithClient(client Client, cfg Config, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Assistant{
		client:      client,
		cache:       newResponseCache(cfg.CacheTTL),
		logger:      logger,
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}
}

// Rate asks the model to score a numbered batch of products and returns
// the raw reply for the scoring parser.
func (a *Assistant) Rate(ctx context.Context, products []model.ProductRecord) (string, error) {
	if len(products) == 0 {
		return "", nil
	}
	reply, err := a.complete(ctx, ratingSystemPrompt, buildRatingPrompt(products))
	if err != nil {
		return "", fmt.Errorf("failed to rate %d products: %w", len(products), err)
	}
	a.logger.Debug("rated product batch", "products", len(products), "reply_chars", len(reply))
	return reply, nil
}

// ExtractProductNames asks the model which products an article mentions.
// Unparsable replies yield an empty list rather than an error.
func (a *Assistant) ExtractProductNames(ctx context.Context, articleText string) ([]string, error) {
	if articleText == "" {
		return nil, nil
	}
	reply, err := a.complete(ctx, extractionSystemPrompt, buildExtractionPrompt(articleText))
	if err != nil {
		return nil, fmt.Errorf("failed to extract product names: %w", err)
	}

	names := ParseProductList(reply)
	if len(names) == 0 {
		a.logger.Warn("no product names in model reply", "reply_chars", len(reply))
	}
	return names, nil
}

func (a *Assistant) complete(ctx context.Context, system, prompt string) (string, error) {
	key := cacheKey(system, prompt)
	if reply, ok := a.cache.get(key); ok {
		a.logger.Debug("LLM cache hit")
		return reply, nil
	}

	var reply string
	err := common.WithRetry(ctx, func() error {
		if err := a.rateLimiter.wait(ctx); err != nil {
			return common.Permanent(err)
		}
		var callErr error
		reply, callErr = a.client.Complete(ctx, system, prompt)
		if errors.Is(callErr, context.Canceled) || errors.Is(callErr, context.DeadlineExceeded) {
			return common.Permanent(callErr)
		}
		return callErr
	}, a.retryOpts)
	if err != nil {
		return "", err
	}

	a.cache.set(key, reply)
	return reply, nil
}
