package source

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/trendscout/internal/model"
)

// Source produces raw candidates from one place.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.SourceItem, error)
}

// Collector runs every source in order. A failing source is logged and
// contributes whatever it returned before failing; the batch continues.
type Collector struct {
	logger  *slog.Logger
	sources []Source
	delay   time.Duration

	mu     sync.Mutex
	failed []string
}

// NewCollector creates a collector over sources, pausing delay between them.
func NewCollector(logger *slog.Logger, delay time.Duration, sources ...Source) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{logger: logger, sources: sources, delay: delay}
}

// Collect implements engine.Collector. It only returns an error when ctx is done.
func (c *Collector) Collect(ctx context.Context) ([]model.SourceItem, error) {
	c.mu.Lock()
	c.failed = nil
	c.mu.Unlock()

	var items []model.SourceItem
	for i, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		got, err := src.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("source failed",
				"source", src.Name(),
				"items", len(got),
				"error", err)
			c.mu.Lock()
			c.failed = append(c.failed, src.Name())
			c.mu.Unlock()
		} else {
			c.logger.Info("source collected",
				"source", src.Name(),
				"items", len(got),
				"duration", time.Since(start))
		}
		items = append(items, got...)

		if i < len(c.sources)-1 {
			if err := sleep(ctx, c.delay); err != nil {
				return nil, err
			}
		}
	}
	return items, nil
}

// Failed returns the names of the sources that failed during the last Collect.
func (c *Collector) Failed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.failed...)
}
