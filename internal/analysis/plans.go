package analysis

import "sort"

// planStats ranks plans by run count within the window, with mean
// duration over the runs that have one. Ties break by ascending
// plan id.
func planStats(runs []PlanRun, topN int) []PlanStat {
	type tally struct {
		runs int
		sum  float64
		n    int
	}
	byPlan := make(map[string]*tally)
	for _, r := range runs {
		t := byPlan[r.PlanID]
		if t == nil {
			t = &tally{}
			byPlan[r.PlanID] = t
		}
		t.runs++
		if d, ok := r.Duration(); ok {
			t.sum += d.Seconds()
			t.n++
		}
	}

	stats := make([]PlanStat, 0, len(byPlan))
	for id, t := range byPlan {
		s := PlanStat{PlanID: id, Runs: t.runs}
		if t.n > 0 {
			s.MeanDuration = t.sum / float64(t.n)
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Runs != stats[j].Runs {
			return stats[i].Runs > stats[j].Runs
		}
		return stats[i].PlanID < stats[j].PlanID
	})
	if len(stats) > topN {
		stats = stats[:topN]
	}
	return stats
}

// extremeRuns returns the slowest (or fastest) runs with a defined
// duration. Equal durations order by ascending run id.
func extremeRuns(runs []PlanRun, slowest bool, topN int) []RunExtreme {
	extremes := []RunExtreme{}
	for _, r := range runs {
		if d, ok := r.Duration(); ok {
			extremes = append(extremes, RunExtreme{
				RunID:    r.ID,
				PlanID:   r.PlanID,
				Duration: d.Seconds(),
			})
		}
	}
	sort.Slice(extremes, func(i, j int) bool {
		if extremes[i].Duration != extremes[j].Duration {
			if slowest {
				return extremes[i].Duration > extremes[j].Duration
			}
			return extremes[i].Duration < extremes[j].Duration
		}
		return extremes[i].RunID < extremes[j].RunID
	})
	if len(extremes) > topN {
		extremes = extremes[:topN]
	}
	return extremes
}
