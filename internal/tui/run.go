package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/trendscout/internal/common"
)

// Run starts the review dashboard and blocks until the user quits or ctx is
// cancelled. It returns the last store error the user saw, if any.
func Run(ctx context.Context, store Store, opts ...Option) error {
	if store == nil {
		return fmt.Errorf("review dashboard: %w", common.ErrMissingConfig)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Store = store

	p := tea.NewProgram(NewModel(ctx, cfg), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
