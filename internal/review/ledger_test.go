package review

import (
	"sync"
	"testing"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seed() []model.ProductRecord {
	return []model.ProductRecord{
		{Identity: "https://shop/a", Name: "A", Status: model.StatusPending},
		{Identity: "https://shop/b", Name: "B", Status: model.StatusRejected, Notes: "too bulky"},
		{Identity: "https://shop/c", Name: "C"},
	}
}

func TestLedger_ApproveThenPendingKeepsNotes(t *testing.T) {
	l := NewLedger(seed())

	require.NoError(t, l.SetStatus("https://shop/a", model.StatusApproved, strPtr("great margin")))
	require.NoError(t, l.SetStatus("https://shop/a", model.StatusPending, nil))

	got, err := l.Get("https://shop/a")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, "great margin", got.Notes)
}

func TestLedger_Transitions(t *testing.T) {
	statuses := model.ReviewStatuses
	for _, from := range statuses {
		for _, to := range statuses {
			l := NewLedger(seed())
			require.NoError(t, l.SetStatus("https://shop/c", from, nil))
			require.NoError(t, l.SetStatus("https://shop/c", to, nil), "%s -> %s", from, to)
			got, err := l.Get("https://shop/c")
			require.NoError(t, err)
			assert.Equal(t, to, got.Status)
		}
	}
}

func TestLedger_NotesCanBeClearedExplicitly(t *testing.T) {
	l := NewLedger(seed())
	require.NoError(t, l.SetStatus("https://shop/b", model.StatusApproved, strPtr("")))

	got, err := l.Get("https://shop/b")
	require.NoError(t, err)
	assert.Empty(t, got.Notes)
	assert.Equal(t, model.StatusApproved, got.Status)
}

func TestLedger_SetNotesKeepsStatus(t *testing.T) {
	l := NewLedger(seed())
	require.NoError(t, l.SetNotes("https://shop/b", "maybe for Q4"))

	got, err := l.Get("https://shop/b")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)
	assert.Equal(t, "maybe for Q4", got.Notes)
}

func TestLedger_Errors(t *testing.T) {
	l := NewLedger(seed())

	err := l.SetStatus("https://shop/missing", model.StatusApproved, nil)
	require.ErrorIs(t, err, common.ErrNotFound)

	err = l.SetStatus("https://shop/a", model.ReviewStatus("archived"), nil)
	require.ErrorIs(t, err, model.ErrInvalidStatus)

	require.ErrorIs(t, l.SetNotes("nope", "x"), common.ErrNotFound)

	_, err = l.Get("nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLedger_DefaultsAndCounts(t *testing.T) {
	l := NewLedger(seed())

	got, err := l.Get("https://shop/c")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)

	require.NoError(t, l.SetStatus("https://shop/a", model.StatusApproved, nil))
	assert.Equal(t, map[model.ReviewStatus]int{
		model.StatusPending:  1,
		model.StatusApproved: 1,
		model.StatusRejected: 1,
	}, l.Counts())

	approved := l.Approved()
	require.Len(t, approved, 1)
	assert.Equal(t, "A", approved[0].Name)
}

func TestLedger_ScoringNeverChangesStatus(t *testing.T) {
	records := seed()
	l := NewLedger(records)
	records[0].Status = model.StatusApproved

	got, err := l.Get("https://shop/a")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestLedger_LastWriteWins(t *testing.T) {
	l := NewLedger(seed())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := model.StatusApproved
			if i%2 == 0 {
				status = model.StatusRejected
			}
			_ = l.SetStatus("https://shop/a", status, nil)
		}(i)
	}
	wg.Wait()

	require.NoError(t, l.SetStatus("https://shop/a", model.StatusRejected, strPtr("final")))
	got, err := l.Get("https://shop/a")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)
	assert.Equal(t, "final", got.Notes)
}
