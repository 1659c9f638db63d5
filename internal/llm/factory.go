package llm

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/trendscout/internal/common"
)

// NewClient creates a raw LLM client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic", "":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}
}

// statusError converts a non-200 API response into an error that WithRetry
// understands. Rate limits and server errors are retried; anything else is final.
func statusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 500 {
		msg = msg[:500]
	}

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%s API error (status %d): %w", provider, status, common.ErrRateLimit)
	case status >= http.StatusInternalServerError:
		return common.Retryable(fmt.Errorf("%s API error (status %d): %s", provider, status, msg))
	default:
		return common.Permanent(fmt.Errorf("%s API error (status %d): %s", provider, status, msg))
	}
}
