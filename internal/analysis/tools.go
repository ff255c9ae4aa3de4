package analysis

import "sort"

// toolUsage flattens every tool call across runs and ranks tools by
// invocation count. Ties break by ascending tool name so the ranking
// is reproducible regardless of input order.
func toolUsage(runs []PlanRun, topN int) *ToolStats {
	type tally struct {
		invocations int
		successes   int
	}
	byTool := make(map[string]*tally)
	total := 0

	for _, r := range runs {
		for _, c := range r.ToolCalls {
			total++
			t := byTool[c.ToolName]
			if t == nil {
				t = &tally{}
				byTool[c.ToolName] = t
			}
			t.invocations++
			if c.Status == CallSucceeded {
				t.successes++
			}
		}
	}

	ranks := make([]ToolRank, 0, len(byTool))
	for name, t := range byTool {
		ranks = append(ranks, ToolRank{
			ToolName:    name,
			Invocations: t.invocations,
			Successes:   t.successes,
			SuccessRate: float64(t.successes) / float64(t.invocations),
		})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Invocations != ranks[j].Invocations {
			return ranks[i].Invocations > ranks[j].Invocations
		}
		return ranks[i].ToolName < ranks[j].ToolName
	})
	if len(ranks) > topN {
		ranks = ranks[:topN]
	}

	return &ToolStats{
		TotalInvocations: total,
		UniqueTools:      len(byTool),
		Top:              ranks,
	}
}
