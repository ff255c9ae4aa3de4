package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "digests.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)

	d, err := s.Record(context.Background(), Digest{
		WindowStart: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		TotalRuns:   12,
		SuccessRate: 0.75,
		Narration:   "Mostly quiet.",
		Recipient:   "dev@example.com",
		Sent:        true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID, "id generated when absent")
	assert.False(t, d.CreatedAt.IsZero())

	got, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, d.ID, got[0].ID)
	assert.Equal(t, 12, got[0].TotalRuns)
	assert.InDelta(t, 0.75, got[0].SuccessRate, 1e-9)
	assert.Equal(t, "Mostly quiet.", got[0].Narration)
	assert.True(t, got[0].Sent)
	assert.True(t, got[0].WindowEnd.Equal(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)))
}

func TestListNewestFirstAndLimit(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.Record(context.Background(), Digest{
			ID:          NewID(),
			WindowStart: base.AddDate(0, 0, i-1),
			WindowEnd:   base.AddDate(0, 0, i),
			TotalRuns:   i,
			CreatedAt:   base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	got, err := s.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].TotalRuns, "newest first")
	assert.Equal(t, 1, got[1].TotalRuns)
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)
	got, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDuplicateIDRejected(t *testing.T) {
	s := openTestStore(t)

	d := Digest{
		ID:          "fixed",
		WindowStart: time.Now().Add(-24 * time.Hour),
		WindowEnd:   time.Now(),
	}
	_, err := s.Record(context.Background(), d)
	require.NoError(t, err)

	_, err = s.Record(context.Background(), d)
	assert.Error(t, err)
}

func TestNewIDMonotonicishAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Len(t, id, 26)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
