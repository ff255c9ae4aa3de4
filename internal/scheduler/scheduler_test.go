package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"0 7 * * *", false},
		{"*/5 * * * *", false},
		{"@daily", false},
		{"@hourly", false},
		{"not a cron", true},
		{"0 7 * *", true}, // too few fields
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ParseSchedule(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNextFireTime(t *testing.T) {
	sched, err := ParseSchedule("0 7 * * *")
	require.NoError(t, err)

	s := New(sched, func(context.Context) error { return nil })
	after := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	next := s.Next(after)
	assert.Equal(t, time.Date(2024, 6, 2, 7, 0, 0, 0, time.UTC), next.UTC())
}

func TestRunStopsOnCancel(t *testing.T) {
	sched, err := ParseSchedule("0 0 1 1 *") // far in the future
	require.NoError(t, err)

	s := New(sched, func(context.Context) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunFiresJob(t *testing.T) {
	sched, err := ParseSchedule("* * * * *")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var fired atomic.Int32
	s := New(sched, func(context.Context) error {
		fired.Add(1)
		cancel()
		return nil
	})
	// Pin "now" just before a minute boundary so the first fire is
	// nearly immediate instead of up to a minute away.
	s.now = func() time.Time {
		return time.Now().Truncate(time.Minute).Add(time.Minute - 10*time.Millisecond)
	}

	err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), fired.Load())
}
