package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindowPresets(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	t.Run("today", func(t *testing.T) {
		w, err := ResolveWindow(PresetToday, "", "", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, now, w.End)
	})

	t.Run("yesterday", func(t *testing.T) {
		w, err := ResolveWindow(PresetYesterday, "", "", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), w.End)
		assert.Equal(t, 24*time.Hour, w.Span())
	})

	t.Run("today at exact midnight is empty", func(t *testing.T) {
		midnight := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		_, err := ResolveWindow(PresetToday, "", "", midnight)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := ResolveWindow("fortnight", "", "", now)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("non-UTC now is converted", func(t *testing.T) {
		est := time.FixedZone("EST", -5*60*60)
		w, err := ResolveWindow(PresetYesterday, "", "", now.In(est))
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), w.Start)
	})
}

func TestResolveWindowExplicit(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		since   string
		until   string
		wantErr bool
	}{
		{
			name:  "valid pair",
			since: "2024-06-01T00:00:00Z",
			until: "2024-06-02T00:00:00Z",
		},
		{
			name:    "inverted",
			since:   "2024-06-02T00:00:00Z",
			until:   "2024-06-01T00:00:00Z",
			wantErr: true,
		},
		{
			name:    "equal bounds",
			since:   "2024-06-01T00:00:00Z",
			until:   "2024-06-01T00:00:00Z",
			wantErr: true,
		},
		{
			name:    "unparsable since",
			since:   "June 1st",
			until:   "2024-06-02T00:00:00Z",
			wantErr: true,
		},
		{
			name:    "unparsable until",
			since:   "2024-06-01T00:00:00Z",
			until:   "whenever",
			wantErr: true,
		},
		{
			name:    "since without until",
			since:   "2024-06-01T00:00:00Z",
			wantErr: true,
		},
		{
			name:    "until without since",
			until:   "2024-06-02T00:00:00Z",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ResolveWindow("", tt.since, tt.until, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWindow)
				return
			}
			require.NoError(t, err)
			assert.True(t, w.End.After(w.Start))
		})
	}

	t.Run("offsets convert to UTC", func(t *testing.T) {
		w, err := ResolveWindow(
			"", "2024-06-01T05:00:00+05:00", "2024-06-01T12:00:00+02:00", now,
		)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), w.End)
	})
}

func TestResolveWindowDefault(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	w, err := ResolveWindow("", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-24*time.Hour), w.Start)
	assert.Equal(t, now, w.End)
}

func TestWindowContains(t *testing.T) {
	w := Window{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(w.Start), "start is inclusive")
	assert.False(t, w.Contains(w.End), "end is exclusive")
	assert.True(t, w.Contains(w.Start.Add(12*time.Hour)))
	assert.False(t, w.Contains(w.Start.Add(-time.Second)))
}
