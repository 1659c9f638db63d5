package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/trendscout/internal/common"
)

// clearEnv blanks the credential variables a developer machine may carry.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"PRODUCT_SHEET_ID",
		"ANTHROPIC_API_KEY",
		"OPENAI_API_KEY",
		"SERPER_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SCOUT_TEST_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/scout/db.sqlite", want: filepath.Join(home, "scout/db.sqlite")},
		{in: "$SCOUT_TEST_DIR/scout.db", want: "/data/scout.db"},
		{in: "/abs/path", want: "/abs/path"},
		{in: "  ~/scout//db.sqlite \n", want: filepath.Join(home, "scout/db.sqlite")},
		{in: "   ", want: ""},
		{in: "~other/db.sqlite", want: "~other/db.sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadSheetsConfig(t *testing.T) {
	tests := []struct {
		setup   func(t *testing.T, v *viper.Viper)
		check   func(t *testing.T, id, sheet string)
		wantErr error
		name    string
	}{
		{
			name:    "no spreadsheet configured",
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "viper values win over environment",
			setup: func(t *testing.T, v *viper.Viper) {
				t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "from-env")
				v.Set("sheets.spreadsheet_id", "from-viper")
				v.Set("sheets.sheet_name", "Trends")
				v.Set("sheets.service_account_path", "/keys/sa.json")
			},
			check: func(t *testing.T, id, sheet string) {
				assert.Equal(t, "from-viper", id)
				assert.Equal(t, "Trends", sheet)
			},
		},
		{
			name: "product sheet id fallback",
			setup: func(t *testing.T, _ *viper.Viper) {
				t.Setenv("PRODUCT_SHEET_ID", "legacy-id")
				t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "id")
				t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
				t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "token")
			},
			check: func(t *testing.T, id, sheet string) {
				assert.Equal(t, "legacy-id", id)
				assert.Equal(t, "Products", sheet)
			},
		},
		{
			name: "spreadsheet without credentials is invalid",
			setup: func(_ *testing.T, v *viper.Viper) {
				v.Set("sheets.spreadsheet_id", "id")
			},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			v := viper.New()
			if tt.setup != nil {
				tt.setup(t, v)
			}

			cfg, err := LoadSheetsConfig(v)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg.SpreadsheetID, cfg.SheetName)
		})
	}
}

func TestLoadLLMConfig(t *testing.T) {
	t.Run("anthropic from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
		v := viper.New()
		v.Set("llm.rate_limit", 30)

		cfg, err := LoadLLMConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, "sk-ant", cfg.APIKey)
		assert.Equal(t, 30, cfg.RateLimit)
	})

	t.Run("openai from viper", func(t *testing.T) {
		clearEnv(t)
		v := viper.New()
		v.Set("llm.provider", "OpenAI")
		v.Set("llm.openai_api_key", "sk-oa")
		v.Set("llm.model", "gpt-4o")

		cfg, err := LoadLLMConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "sk-oa", cfg.APIKey)
		assert.Equal(t, "gpt-4o", cfg.Model)
	})

	t.Run("missing key", func(t *testing.T) {
		clearEnv(t)
		_, err := LoadLLMConfig(viper.New())
		require.ErrorIs(t, err, common.ErrMissingConfig)
	})

	t.Run("unknown provider", func(t *testing.T) {
		clearEnv(t)
		v := viper.New()
		v.Set("llm.provider", "ollama")
		_, err := LoadLLMConfig(v)
		require.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLoadSerperConfig(t *testing.T) {
	clearEnv(t)
	_, err := LoadSerperConfig(viper.New())
	require.ErrorIs(t, err, common.ErrMissingConfig)

	t.Setenv("SERPER_API_KEY", "serp")
	v := viper.New()
	v.Set("serper.endpoint", "http://localhost:9999/search")
	cfg, err := LoadSerperConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "serp", cfg.APIKey)
	assert.Equal(t, "http://localhost:9999/search", cfg.Endpoint)
}

func TestLoadDocsConfig(t *testing.T) {
	clearEnv(t)
	_, err := LoadDocsConfig(viper.New())
	require.ErrorIs(t, err, common.ErrMissingConfig)

	v := viper.New()
	v.Set("sheets.service_account_path", "/keys/sa.json")
	v.Set("docs.title_prefix", "Weekly")
	cfg, err := LoadDocsConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/keys/sa.json", cfg.Credentials.ServiceAccountPath)
	assert.Equal(t, "Weekly", cfg.TitlePrefix)
}

func TestLoadResearch(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r, err := LoadResearch(viper.New())
		require.NoError(t, err)
		assert.Equal(t, []string{"us", "au", "ae", "sa"}, r.Countries)
		assert.Equal(t, "auto", r.Strategy)
		assert.Equal(t, 500*time.Millisecond, r.Delay)
		assert.InDelta(t, 5.0, r.ShippingCost, 0.001)
		assert.Equal(t, 10, r.TopN)
		assert.Empty(t, r.Keywords)
	})

	t.Run("overrides", func(t *testing.T) {
		v := viper.New()
		v.Set("research.countries", []string{"in"})
		v.Set("research.strategy", "margin")
		v.Set("research.delay", "0s")
		v.Set("research.min_margin", 40)
		v.Set("research.keywords", []string{"gadget", "viral"})

		r, err := LoadResearch(v)
		require.NoError(t, err)
		assert.Equal(t, []string{"in"}, r.Countries)
		assert.Equal(t, "margin", r.EngineConfig().Strategy)
		assert.InDelta(t, 40.0, r.EngineConfig().MinMargin, 0.001)
		assert.Zero(t, r.ArticleConfig().Delay)
		assert.Equal(t, []string{"gadget", "viral"}, r.Keywords)
	})

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "unknown strategy", key: "research.strategy", value: "vibes"},
		{name: "unknown country", key: "research.countries", value: []string{"zz"}},
		{name: "fee rate out of range", key: "research.fee_rate", value: 1.5},
		{name: "negative shipping", key: "research.shipping_cost", value: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := LoadResearch(v)
			require.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}
