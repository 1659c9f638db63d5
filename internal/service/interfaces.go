// Package service defines the interfaces shared between the pipeline and its collaborators.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/trendscout/internal/model"
)

// ProductFilter defines filtering options for product queries.
type ProductFilter struct {
	Status   *model.ReviewStatus
	Country  string
	Category string
	RunID    string
	MinScore int
	Limit    int
	Offset   int
}

// Matches reports whether a record passes the filter. Stores that cannot
// push the filter down to their backend use it directly.
func (f ProductFilter) Matches(p model.ProductRecord) bool {
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.Country != "" && p.Country != f.Country {
		return false
	}
	if f.Category != "" && string(p.Category) != f.Category {
		return false
	}
	if f.RunID != "" && p.RunID != f.RunID {
		return false
	}
	return p.Scores.Overall >= f.MinScore
}

// ProductStore is the tabular persistence contract for product records.
type ProductStore interface {
	// SaveProducts appends records. Records whose identity already exists are skipped.
	SaveProducts(ctx context.Context, products []model.ProductRecord) (int, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]model.ProductRecord, error)
	// SetStatus updates the review status and, when notes is non-nil, the notes
	// of one record. It returns common.ErrNotFound for an unknown identity.
	SetStatus(ctx context.Context, identity string, status model.ReviewStatus, notes *string) error
	// SetNotes updates only the notes of one record.
	SetNotes(ctx context.Context, identity, notes string) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// RunSummary contains aggregate information about one research run.
type RunSummary struct {
	StartedAt     time.Time
	RunID         string
	Strategy      string
	Collected     int
	Extracted     int
	Duplicates    int
	BelowMargin   int
	Saved         int
	SourceErrors  int
	Duration      time.Duration
	AverageMargin float64
	AverageProfit float64
}

// ReviewStats counts products per review status.
type ReviewStats struct {
	Total        int
	Pending      int
	Approved     int
	Rejected     int
	AverageScore float64
}

// ComputeReviewStats summarizes a set of records for the review dashboard.
func ComputeReviewStats(products []model.ProductRecord) ReviewStats {
	var stats ReviewStats
	var scoreSum int
	for _, p := range products {
		stats.Total++
		scoreSum += p.Scores.Overall
		switch p.Status {
		case model.StatusApproved:
			stats.Approved++
		case model.StatusRejected:
			stats.Rejected++
		default:
			stats.Pending++
		}
	}
	if stats.Total > 0 {
		stats.AverageScore = float64(scoreSum) / float64(stats.Total)
	}
	return stats
}
