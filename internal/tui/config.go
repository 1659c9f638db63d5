package tui

import (
	"context"

	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
	"github.com/Veraticus/trendscout/internal/tui/themes"
)

// Store is the part of the product store the dashboard needs.
type Store interface {
	ListProducts(ctx context.Context, filter service.ProductFilter) ([]model.ProductRecord, error)
	SetStatus(ctx context.Context, identity string, status model.ReviewStatus, notes *string) error
	SetNotes(ctx context.Context, identity, notes string) error
}

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Store    Store
	Filter   service.ProductFilter
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  100,
		Height: 30,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithFilter narrows the products loaded into the dashboard.
func WithFilter(filter service.ProductFilter) Option {
	return func(c *Config) {
		c.Filter = filter
	}
}

// WithHelp starts with the full help expanded.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
