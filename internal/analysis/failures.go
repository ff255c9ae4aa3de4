package analysis

import (
	"sort"
	"strings"
)

// runLevelSignature groups failed runs that carry no tool-level
// error detail.
const runLevelSignature = "run-level failure"

// errorSignature normalizes free-text error output to its first
// line, trimmed, case preserved. Signature grouping is best-effort
// clustering: upstream guarantees no structured error taxonomy.
func errorSignature(errText string) string {
	line := errText
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// failureClusters groups failures by signature and ranks them by
// frequency. Ties keep first-seen order in the normalized sequence:
// failure triage favors frequency over alphabetic order.
func failureClusters(runs []PlanRun) []FailureCluster {
	clusters := []FailureCluster{}
	index := make(map[string]int)

	record := func(sig string) {
		if i, ok := index[sig]; ok {
			clusters[i].Count++
			return
		}
		index[sig] = len(clusters)
		clusters = append(clusters, FailureCluster{Signature: sig, Count: 1})
	}

	for _, r := range runs {
		sawDetail := false
		for _, c := range r.ToolCalls {
			if c.Status != CallFailed {
				continue
			}
			sawDetail = true
			record(errorSignature(c.Error))
		}
		if r.Status == StatusFailed && !sawDetail {
			record(runLevelSignature)
		}
	}

	// Stable so equal counts keep first-seen order.
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count > clusters[j].Count
	})
	return clusters
}
