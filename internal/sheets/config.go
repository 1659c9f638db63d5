// Package sheets stores product records in a shared Google Sheets tab.
package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/trendscout/internal/googleauth"
)

// Config holds the configuration for the Google Sheets store.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SheetName          string
	Endpoint           string
	MaxRows            int
	RetryAttempts      int
	RetryDelay         time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SheetName:     "Products",
		MaxRows:       1000,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// Credentials returns the authentication part of the configuration.
func (c *Config) Credentials() googleauth.Credentials {
	return googleauth.Credentials{
		ClientID:           c.ClientID,
		ClientSecret:       c.ClientSecret,
		RefreshToken:       c.RefreshToken,
		ServiceAccountPath: c.ServiceAccountPath,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Credentials().Validate(); err != nil {
		return err
	}

	if c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet ID is required")
	}

	if c.SheetName == "" {
		return fmt.Errorf("sheet name is required")
	}

	if c.MaxRows <= 0 {
		return fmt.Errorf("max rows must be positive")
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative")
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}

	return nil
}
