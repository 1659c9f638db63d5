package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/googleauth"
	"github.com/Veraticus/trendscout/internal/sheets"
)

// LoadGoogleCredentials loads the Google API credentials shared by the
// Sheets store and the Docs publisher. It follows this precedence:
// 1. Viper configuration (from config file or SCOUT_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
func LoadGoogleCredentials(v *viper.Viper) googleauth.Credentials {
	creds := googleauth.Credentials{
		ServiceAccountPath: ExpandPath(v.GetString("sheets.service_account_path")),
		ClientID:           v.GetString("sheets.client_id"),
		ClientSecret:       v.GetString("sheets.client_secret"),
		RefreshToken:       v.GetString("sheets.refresh_token"),
	}

	if creds.ServiceAccountPath == "" {
		creds.ServiceAccountPath = ExpandPath(os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"))
	}
	if creds.ClientID == "" {
		creds.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if creds.ClientSecret == "" {
		creds.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if creds.RefreshToken == "" {
		creds.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	return creds
}

// LoadSheetsConfig loads Google Sheets configuration from Viper and environment variables.
// The spreadsheet ID falls back to GOOGLE_SHEETS_SPREADSHEET_ID and then
// PRODUCT_SHEET_ID. Without a spreadsheet ID the store is not configured and
// the returned error wraps common.ErrMissingConfig.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	creds := LoadGoogleCredentials(v)
	config.ServiceAccountPath = creds.ServiceAccountPath
	config.ClientID = creds.ClientID
	config.ClientSecret = creds.ClientSecret
	config.RefreshToken = creds.RefreshToken

	config.SpreadsheetID = v.GetString("sheets.spreadsheet_id")
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = os.Getenv("PRODUCT_SHEET_ID")
	}
	if config.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: sheets.spreadsheet_id", common.ErrMissingConfig)
	}

	if s := v.GetString("sheets.sheet_name"); s != "" {
		config.SheetName = s
	}
	if n := v.GetInt("sheets.max_rows"); n != 0 {
		config.MaxRows = n
	}
	if v.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = v.GetInt("sheets.retry_attempts")
	}
	if d := v.GetDuration("sheets.retry_delay"); d != 0 {
		config.RetryDelay = d
	}
	config.Endpoint = v.GetString("sheets.endpoint")

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	return &config, nil
}
