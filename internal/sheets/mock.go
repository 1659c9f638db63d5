package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
)

// MockStore is an in-memory service.ProductStore that records the calls it
// receives. Rows are held in the same shape the sheet holds them.
type MockStore struct {
	SaveErr     error
	rows        [][]any
	statusCalls []StatusCall
	mu          sync.Mutex
}

// StatusCall records one SetStatus or SetNotes call.
type StatusCall struct {
	Notes    *string
	Identity string
	Status   model.ReviewStatus
}

// NewMockStore creates a mock store pre-filled with products.
func NewMockStore(products ...model.ProductRecord) *MockStore {
	m := &MockStore{}
	for _, p := range products {
		m.rows = append(m.rows, ProductToRow(p))
	}
	return m
}

// SaveProducts implements service.ProductStore.
func (m *MockStore) SaveProducts(_ context.Context, products []model.ProductRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return 0, m.SaveErr
	}

	saved := 0
	for _, p := range products {
		if p.HasIdentity() && m.indexOf(p.Identity) >= 0 {
			continue
		}
		m.rows = append(m.rows, ProductToRow(p))
		saved++
	}
	return saved, nil
}

// ListProducts implements service.ProductStore.
func (m *MockStore) ListProducts(_ context.Context, filter service.ProductFilter) ([]model.ProductRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.ProductRecord
	for _, row := range m.rows {
		if p := RowToProduct(row); filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// SetStatus implements service.ProductStore.
func (m *MockStore) SetStatus(_ context.Context, identity string, status model.ReviewStatus, notes *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}
	idx := m.indexOf(identity)
	if idx < 0 {
		return fmt.Errorf("product %q: %w", identity, common.ErrNotFound)
	}

	m.statusCalls = append(m.statusCalls, StatusCall{Identity: identity, Status: status, Notes: notes})
	m.rows[idx][colStatus] = string(status)
	if notes != nil {
		m.rows[idx][colNotes] = *notes
	}
	return nil
}

// SetNotes implements service.ProductStore.
func (m *MockStore) SetNotes(_ context.Context, identity, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(identity)
	if idx < 0 {
		return fmt.Errorf("product %q: %w", identity, common.ErrNotFound)
	}

	status := RowToProduct(m.rows[idx]).Status
	m.statusCalls = append(m.statusCalls, StatusCall{Identity: identity, Status: status, Notes: &notes})
	m.rows[idx][colNotes] = notes
	return nil
}

// StatusCalls returns a copy of the recorded review updates.
func (m *MockStore) StatusCalls() []StatusCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]StatusCall, len(m.statusCalls))
	copy(calls, m.statusCalls)
	return calls
}

func (m *MockStore) indexOf(identity string) int {
	id := model.NormalizeIdentity(identity)
	if id == "" {
		return -1
	}
	for i, row := range m.rows {
		if fmt.Sprint(row[colLink]) == id {
			return i
		}
	}
	return -1
}
