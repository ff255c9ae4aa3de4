package analysis

import "time"

// temporalBuckets counts run starts per bucket across the whole
// window, emitting zero-count buckets so consumers can render a
// continuous distribution. Windows spanning more than 24 hours use
// UTC calendar-day buckets; shorter windows use hour buckets
// anchored at the window start.
func temporalBuckets(runs []PlanRun, w Window) []TemporalBucket {
	byDay := w.Span() > 24*time.Hour

	var starts []time.Time
	if byDay {
		for d := w.Start.Truncate(24 * time.Hour); d.Before(w.End); d = d.AddDate(0, 0, 1) {
			starts = append(starts, d)
		}
	} else {
		for t := w.Start; t.Before(w.End); t = t.Add(time.Hour) {
			starts = append(starts, t)
		}
	}

	buckets := make([]TemporalBucket, len(starts))
	for i, s := range starts {
		buckets[i].BucketStart = s
	}
	for _, r := range runs {
		if i := bucketIndex(starts, r.StartedAt); i >= 0 {
			buckets[i].Count++
		}
	}
	return buckets
}

// bucketIndex returns the index of the last bucket starting at or
// before t, or -1 when t precedes every bucket.
func bucketIndex(starts []time.Time, t time.Time) int {
	for i := len(starts) - 1; i >= 0; i-- {
		if !t.Before(starts[i]) {
			return i
		}
	}
	return -1
}
