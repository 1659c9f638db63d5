package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReviewStatus is the manual review state of a product record.
type ReviewStatus string

// Review status constants.
const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

// ReviewStatuses lists the valid review states in display order.
var ReviewStatuses = []ReviewStatus{StatusPending, StatusApproved, StatusRejected}

// ErrInvalidStatus is returned when a review status is not recognized.
var ErrInvalidStatus = errors.New("invalid review status")

// ParseReviewStatus validates a status string. Matching is case-insensitive.
func ParseReviewStatus(s string) (ReviewStatus, error) {
	switch ReviewStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// IsValid reports whether s is one of the known review states.
func (s ReviewStatus) IsValid() bool {
	_, err := ParseReviewStatus(string(s))
	return err == nil
}

// ReviewEvent is one recorded review action on a product.
type ReviewEvent struct {
	ChangedAt  time.Time
	Identity   string
	FromStatus ReviewStatus
	ToStatus   ReviewStatus
	Notes      string
}
