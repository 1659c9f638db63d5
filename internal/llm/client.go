package llm

import (
	"context"
	"strings"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	// Complete sends one system+user exchange and returns the text reply.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Config holds configuration for the LLM collaborator.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// cleanMarkdownWrapper strips a surrounding ``` fence, with or without a
// language tag, from model output.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if idx := strings.Index(content, "\n"); idx >= 0 {
		tag := strings.TrimSpace(content[:idx])
		if !strings.ContainsAny(tag, "[]{}\"") {
			content = content[idx+1:]
		}
	}
	if idx := strings.LastIndex(content, "```"); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}
