package analysis

import (
	"math"
	"sort"
)

// statusCounts tallies runs by status.
func statusCounts(runs []PlanRun) map[RunStatus]int {
	counts := make(map[RunStatus]int)
	for _, r := range runs {
		counts[r.Status]++
	}
	return counts
}

// successRate is succeeded/(succeeded+failed), with 0 when no run
// reached either status. "No terminal runs" reads as zero success,
// not as undefined.
func successRate(counts map[RunStatus]int) float64 {
	succeeded := counts[StatusSucceeded]
	denom := succeeded + counts[StatusFailed]
	if denom == 0 {
		return 0
	}
	return float64(succeeded) / float64(denom)
}

// durationStats computes min/max/mean/p50/p95 in seconds over the
// runs with a defined duration. An empty subset yields all-zero
// stats, never an error.
func durationStats(runs []PlanRun) DurationStats {
	var secs []float64
	for _, r := range runs {
		if d, ok := r.Duration(); ok {
			secs = append(secs, d.Seconds())
		}
	}
	if len(secs) == 0 {
		return DurationStats{}
	}
	sort.Float64s(secs)

	var sum float64
	for _, s := range secs {
		sum += s
	}
	return DurationStats{
		Count: len(secs),
		Min:   secs[0],
		Max:   secs[len(secs)-1],
		Mean:  sum / float64(len(secs)),
		P50:   percentile(secs, 0.50),
		P95:   percentile(secs, 0.95),
	}
}

// percentile returns the nearest-rank percentile of an ascending
// sorted sample: index ceil(p*n)-1.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}
