package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStartedAt(id string, t time.Time) PlanRun {
	return PlanRun{ID: id, Status: StatusRunning, StartedAt: t}
}

func TestTemporalBucketsHourly(t *testing.T) {
	// A 3-hour window anchored off the hour: buckets follow the
	// window start, not the clock hour.
	w := Window{
		Start: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC),
	}
	runs := []PlanRun{
		runStartedAt("r1", w.Start),
		runStartedAt("r2", w.Start.Add(45*time.Minute)),
		runStartedAt("r3", w.Start.Add(2*time.Hour)),
	}

	buckets := temporalBuckets(runs, w)
	require.Len(t, buckets, 3)
	assert.Equal(t, w.Start, buckets[0].BucketStart)
	assert.Equal(t, w.Start.Add(time.Hour), buckets[1].BucketStart)
	assert.Equal(t, []int{2, 0, 1}, counts(buckets))
}

func TestTemporalBucketsPartialTrailingHour(t *testing.T) {
	// 90-minute window: two buckets, the second covering only the
	// final half hour.
	w := Window{
		Start: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
	}
	buckets := temporalBuckets([]PlanRun{
		runStartedAt("r1", w.Start.Add(70*time.Minute)),
	}, w)

	require.Len(t, buckets, 2)
	assert.Equal(t, []int{0, 1}, counts(buckets))
}

func TestTemporalBucketsDaily(t *testing.T) {
	// A window longer than 24h switches to UTC calendar-day
	// boundaries even though it starts mid-day.
	w := Window{
		Start: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 4, 6, 0, 0, 0, time.UTC),
	}
	runs := []PlanRun{
		runStartedAt("r1", time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)),
		runStartedAt("r2", time.Date(2024, 6, 3, 1, 0, 0, 0, time.UTC)),
		runStartedAt("r3", time.Date(2024, 6, 3, 23, 0, 0, 0, time.UTC)),
		runStartedAt("r4", time.Date(2024, 6, 4, 2, 0, 0, 0, time.UTC)),
	}

	buckets := temporalBuckets(runs, w)
	require.Len(t, buckets, 4)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), buckets[0].BucketStart)
	assert.Equal(t, []int{1, 0, 2, 1}, counts(buckets), "day gaps emit zero counts")
}

func TestTemporalBucketsExactly24Hours(t *testing.T) {
	w := Window{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
	}
	buckets := temporalBuckets(nil, w)
	assert.Len(t, buckets, 24, "24h window buckets hourly")
	for _, b := range buckets {
		assert.Zero(t, b.Count)
	}
}

func counts(buckets []TemporalBucket) []int {
	out := make([]int, len(buckets))
	for i, b := range buckets {
		out[i] = b.Count
	}
	return out
}
