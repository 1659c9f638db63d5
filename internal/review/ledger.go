// Package review implements the manual pending/approved/rejected workflow
// applied to scored products before export.
package review

import (
	"fmt"
	"sync"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/model"
)

// entry is the ledger state of one record.
type entry struct {
	status model.ReviewStatus
	notes  string
}

// Ledger maps record identities to their review status and notes. Any status
// may move to any other, only through SetStatus or SetNotes. Concurrent
// writers are last-write-wins.
type Ledger struct {
	entries map[string]*entry
	records []model.ProductRecord
	mu      sync.RWMutex
}

// NewLedger creates a ledger over records, seeded with their current status
// and notes. Records without a valid status start as pending. When identities
// repeat, the first record wins.
func NewLedger(records []model.ProductRecord) *Ledger {
	l := &Ledger{
		entries: make(map[string]*entry, len(records)),
		records: make([]model.ProductRecord, 0, len(records)),
	}
	for _, r := range records {
		id := model.NormalizeIdentity(r.Identity)
		if id == "" {
			continue
		}
		if _, dup := l.entries[id]; dup {
			continue
		}
		status := r.Status
		if !status.IsValid() {
			status = model.StatusPending
		}
		l.entries[id] = &entry{status: status, notes: r.Notes}
		l.records = append(l.records, r)
	}
	return l
}

// SetStatus moves a record to status. When notes is non-nil the notes are
// replaced too; otherwise they are kept. It returns common.ErrNotFound for
// an unknown identity and model.ErrInvalidStatus for an unknown status.
func (l *Ledger) SetStatus(identity string, status model.ReviewStatus, notes *string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[model.NormalizeIdentity(identity)]
	if !ok {
		return fmt.Errorf("product %q: %w", identity, common.ErrNotFound)
	}
	e.status = status
	if notes != nil {
		e.notes = *notes
	}
	return nil
}

// SetNotes replaces the notes of a record without touching its status.
func (l *Ledger) SetNotes(identity, notes string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[model.NormalizeIdentity(identity)]
	if !ok {
		return fmt.Errorf("product %q: %w", identity, common.ErrNotFound)
	}
	e.notes = notes
	return nil
}

// Get returns the record with its ledger state applied.
func (l *Ledger) Get(identity string) (model.ProductRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id := model.NormalizeIdentity(identity)
	e, ok := l.entries[id]
	if !ok {
		return model.ProductRecord{}, fmt.Errorf("product %q: %w", identity, common.ErrNotFound)
	}
	for _, r := range l.records {
		if model.NormalizeIdentity(r.Identity) == id {
			r.Status = e.status
			r.Notes = e.notes
			return r, nil
		}
	}
	return model.ProductRecord{}, fmt.Errorf("product %q: %w", identity, common.ErrNotFound)
}

// Records returns every record with its ledger state applied, in the order
// the ledger was created with.
func (l *Ledger) Records() []model.ProductRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.ProductRecord, len(l.records))
	for i, r := range l.records {
		e := l.entries[model.NormalizeIdentity(r.Identity)]
		r.Status = e.status
		r.Notes = e.notes
		out[i] = r
	}
	return out
}

// Counts returns the number of records in each status.
func (l *Ledger) Counts() map[model.ReviewStatus]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts := make(map[model.ReviewStatus]int, len(model.ReviewStatuses))
	for _, s := range model.ReviewStatuses {
		counts[s] = 0
	}
	for _, e := range l.entries {
		counts[e.status]++
	}
	return counts
}

// Approved returns the approved records in ledger order.
func (l *Ledger) Approved() []model.ProductRecord {
	var out []model.ProductRecord
	for _, r := range l.Records() {
		if r.Status == model.StatusApproved {
			out = append(out, r)
		}
	}
	return out
}
