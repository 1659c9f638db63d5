package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/trendscout/internal/service"
)

// SaveRun records the summary of a research run.
func (s *SQLiteStorage) SaveRun(ctx context.Context, summary service.RunSummary) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(summary.RunID, "run_id"); err != nil {
		return err
	}

	query, args, err := psql.Insert("research_runs").
		Columns(
			"run_id", "strategy", "started_at", "duration_ms",
			"collected", "extracted", "duplicates", "below_margin", "saved", "source_errors",
			"average_margin", "average_profit",
		).
		Values(
			summary.RunID, summary.Strategy, summary.StartedAt.UTC(), summary.Duration.Milliseconds(),
			summary.Collected, summary.Extracted, summary.Duplicates, summary.BelowMargin, summary.Saved, summary.SourceErrors,
			summary.AverageMargin, summary.AverageProfit,
		).
		Suffix("ON CONFLICT(run_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent research runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]service.RunSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	builder := psql.Select(
		"run_id", "strategy", "started_at", "duration_ms",
		"collected", "extracted", "duplicates", "below_margin", "saved", "source_errors",
		"average_margin", "average_profit",
	).From("research_runs").OrderBy("started_at DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []service.RunSummary
	for rows.Next() {
		var r service.RunSummary
		var durationMS int64
		if err := rows.Scan(
			&r.RunID, &r.Strategy, &r.StartedAt, &durationMS,
			&r.Collected, &r.Extracted, &r.Duplicates, &r.BelowMargin, &r.Saved, &r.SourceErrors,
			&r.AverageMargin, &r.AverageProfit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
