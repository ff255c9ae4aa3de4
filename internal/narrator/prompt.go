package narrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/vaibhav1mahajan/portia-digest-bot/internal/analysis"
)

// Style selects the register of the narration.
type Style string

const (
	// StyleText is a structured developer-facing summary.
	StyleText Style = "text"
	// StyleEmail is a short email-ready digest.
	StyleEmail Style = "email"
)

const maxFailureClusters = 5

// BuildPrompt assembles the LLM prompt for a report. Every section
// is derived from report fields only; the model sees no raw records.
func BuildPrompt(report analysis.Report, style Style) string {
	var b strings.Builder
	writeSystemInstruction(&b, style)

	fmt.Fprintf(&b, "\nAnalyze this plan-run activity from %s to %s (UTC):\n",
		report.Window.Start.Format(time.RFC3339),
		report.Window.End.Format(time.RFC3339),
	)

	b.WriteString("\n## Overview\n")
	fmt.Fprintf(&b, "- Total runs: %d\n", report.TotalRuns)
	for _, status := range []analysis.RunStatus{
		analysis.StatusSucceeded, analysis.StatusFailed,
		analysis.StatusCancelled, analysis.StatusRunning,
		analysis.StatusPending,
	} {
		if n := report.StatusCounts[status]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", status, n)
		}
	}
	fmt.Fprintf(&b, "- Success rate: %.1f%%\n", report.SuccessRate*100)
	if report.SkippedRecords > 0 {
		fmt.Fprintf(&b, "- Skipped malformed records: %d\n", report.SkippedRecords)
	}

	if d := report.DurationStats; d.Count > 0 {
		b.WriteString("\n## Performance\n")
		fmt.Fprintf(&b, "- Mean duration: %.1fs\n", d.Mean)
		fmt.Fprintf(&b, "- Median duration: %.1fs\n", d.P50)
		fmt.Fprintf(&b, "- P95 duration: %.1fs\n", d.P95)
		fmt.Fprintf(&b, "- Range: %.1fs - %.1fs\n", d.Min, d.Max)
	}

	if len(report.PlanStats) > 0 {
		b.WriteString("\n## Top Plans by Activity\n")
		for _, p := range report.PlanStats {
			if p.MeanDuration > 0 {
				fmt.Fprintf(&b, "- %s: %d runs, avg %.1fs\n",
					planLabel(p.PlanID), p.Runs, p.MeanDuration)
			} else {
				fmt.Fprintf(&b, "- %s: %d runs\n", planLabel(p.PlanID), p.Runs)
			}
		}
	}

	if report.ToolStats != nil && report.ToolStats.TotalInvocations > 0 {
		t := report.ToolStats
		b.WriteString("\n## Tool Usage\n")
		fmt.Fprintf(&b, "- Total tool invocations: %d\n", t.TotalInvocations)
		fmt.Fprintf(&b, "- Unique tools: %d\n", t.UniqueTools)
		for _, r := range t.Top {
			fmt.Fprintf(&b, "- %s: %d calls, %.0f%% success\n",
				r.ToolName, r.Invocations, r.SuccessRate*100)
		}
	}

	if len(report.FailureClusters) > 0 {
		b.WriteString("\n## Failures\n")
		clusters := report.FailureClusters
		if len(clusters) > maxFailureClusters {
			clusters = clusters[:maxFailureClusters]
		}
		for _, c := range clusters {
			fmt.Fprintf(&b, "- %q: %d occurrence(s)\n", c.Signature, c.Count)
		}
	}

	b.WriteString("\nProvide a concise, developer-focused summary highlighting " +
		"key insights and any notable patterns.\n")
	return b.String()
}

func writeSystemInstruction(b *strings.Builder, style Style) {
	switch style {
	case StyleEmail:
		b.WriteString(
			"You are a helpful assistant that writes concise daily digest " +
				"emails for software developers. Summarize the plan-run " +
				"analytics below in 2-3 short paragraphs: key metrics, " +
				"notable performance changes, concerning failure patterns, " +
				"and one or two actionable insights.\n",
		)
	default:
		b.WriteString(
			"You are a helpful assistant that writes daily digest summaries " +
				"for software developers. Produce a clear, structured summary " +
				"of the plan-run analytics below: overview of activity, " +
				"performance (durations, p95), most active plans, tool usage, " +
				"and notable failure patterns. Use short sections and bullet " +
				"points. Keep it informative but concise.\n",
		)
	}
}

// planLabel shortens raw plan ids for prompt readability.
func planLabel(planID string) string {
	if planID == "" {
		return "(unknown plan)"
	}
	if len(planID) > 12 {
		return planID[:12] + "..."
	}
	return planID
}
