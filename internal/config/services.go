package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/docs"
	"github.com/Veraticus/trendscout/internal/llm"
	"github.com/Veraticus/trendscout/internal/source"
)

// LoadLLMConfig reads the language model settings. The API key is taken
// from llm.<provider>_api_key and then from the provider's standard
// environment variable.
func LoadLLMConfig(v *viper.Viper) (llm.Config, error) {
	provider := strings.ToLower(v.GetString("llm.provider"))
	if provider == "" {
		provider = "anthropic"
	}

	cfg := llm.Config{
		Provider:    provider,
		Model:       v.GetString("llm.model"),
		BaseURL:     v.GetString("llm.base_url"),
		Temperature: v.GetFloat64("llm.temperature"),
		MaxTokens:   v.GetInt("llm.max_tokens"),
		MaxRetries:  v.GetInt("llm.max_retries"),
		RetryDelay:  v.GetDuration("llm.retry_delay"),
		CacheTTL:    v.GetDuration("llm.cache_ttl"),
		RateLimit:   v.GetInt("llm.rate_limit"),
	}

	var envKey string
	switch provider {
	case "anthropic":
		cfg.APIKey = v.GetString("llm.anthropic_api_key")
		envKey = "ANTHROPIC_API_KEY"
	case "openai":
		cfg.APIKey = v.GetString("llm.openai_api_key")
		envKey = "OPENAI_API_KEY"
	default:
		return llm.Config{}, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, provider)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(envKey)
	}
	if cfg.APIKey == "" {
		return llm.Config{}, fmt.Errorf("%w: %s API key (set %s)", common.ErrMissingConfig, provider, envKey)
	}
	return cfg, nil
}

// LoadSerperConfig reads the web search settings.
func LoadSerperConfig(v *viper.Viper) (source.SerperConfig, error) {
	cfg := source.SerperConfig{
		APIKey:   v.GetString("serper.api_key"),
		Endpoint: v.GetString("serper.endpoint"),
		Timeout:  v.GetDuration("serper.timeout"),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("SERPER_API_KEY")
	}
	if cfg.APIKey == "" {
		return source.SerperConfig{}, fmt.Errorf("%w: serper API key (set SERPER_API_KEY)", common.ErrMissingConfig)
	}
	return cfg, nil
}

// LoadDocsConfig reads the Google Docs publisher settings. Docs reuses the
// Google credentials configured for Sheets.
func LoadDocsConfig(v *viper.Viper) (docs.Config, error) {
	cfg := docs.Config{
		Credentials:   LoadGoogleCredentials(v),
		TitlePrefix:   v.GetString("docs.title_prefix"),
		Endpoint:      v.GetString("docs.endpoint"),
		RetryAttempts: 3,
		RetryDelay:    v.GetDuration("docs.retry_delay"),
	}
	if err := cfg.Credentials.Validate(); err != nil {
		return docs.Config{}, fmt.Errorf("%w: docs: %w", common.ErrMissingConfig, err)
	}
	return cfg, nil
}
