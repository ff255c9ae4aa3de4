// Package digest renders analysis reports for human consumption:
// pretty JSON, a plain-text terminal digest with an activity chart,
// and an email body.
package digest

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/vaibhav1mahajan/portia-digest-bot/internal/analysis"
)

const (
	chartHeight = 6
	chartWidth  = 60
)

// RenderJSON encodes the report as indented JSON.
func RenderJSON(report analysis.Report) ([]byte, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return out, nil
}

// RenderText renders the report as a plain-text digest.
func RenderText(report analysis.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan Run Digest: %s to %s UTC\n",
		report.Window.Start.Format("2006-01-02 15:04"),
		report.Window.End.Format("2006-01-02 15:04"),
	)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	fmt.Fprintf(&b, "Total runs:     %d\n", report.TotalRuns)
	writeStatusLine(&b, report.StatusCounts)
	fmt.Fprintf(&b, "Success rate:   %.1f%%\n", report.SuccessRate*100)
	if report.SkippedRecords > 0 {
		fmt.Fprintf(&b, "Skipped:        %d malformed record(s)\n", report.SkippedRecords)
	}

	if d := report.DurationStats; d.Count > 0 {
		b.WriteString("\nDurations\n")
		fmt.Fprintf(&b, "  mean %.1fs  p50 %.1fs  p95 %.1fs  min %.1fs  max %.1fs\n",
			d.Mean, d.P50, d.P95, d.Min, d.Max)
	}

	if len(report.PlanStats) > 0 {
		b.WriteString("\nTop plans\n")
		for _, p := range report.PlanStats {
			if p.MeanDuration > 0 {
				fmt.Fprintf(&b, "  %-20s %d runs, avg %.1fs\n", p.PlanID, p.Runs, p.MeanDuration)
			} else {
				fmt.Fprintf(&b, "  %-20s %d runs\n", p.PlanID, p.Runs)
			}
		}
	}

	if t := report.ToolStats; t != nil && t.TotalInvocations > 0 {
		b.WriteString("\nTool usage\n")
		fmt.Fprintf(&b, "  %d invocation(s) across %d tool(s)\n",
			t.TotalInvocations, t.UniqueTools)
		for _, r := range t.Top {
			fmt.Fprintf(&b, "  %-20s %d calls, %.0f%% success\n",
				r.ToolName, r.Invocations, r.SuccessRate*100)
		}
	}

	if len(report.FailureClusters) > 0 {
		b.WriteString("\nFailures\n")
		for _, c := range report.FailureClusters {
			fmt.Fprintf(&b, "  %dx %s\n", c.Count, c.Signature)
		}
	}

	if chart := activityChart(report.TemporalBuckets); chart != "" {
		b.WriteString("\nActivity\n")
		b.WriteString(chart + "\n")
	}

	return b.String()
}

// writeStatusLine prints non-zero status counts in a fixed order.
func writeStatusLine(b *strings.Builder, counts map[analysis.RunStatus]int) {
	parts := []string{}
	for _, status := range []analysis.RunStatus{
		analysis.StatusSucceeded, analysis.StatusFailed,
		analysis.StatusCancelled, analysis.StatusRunning,
		analysis.StatusPending,
	} {
		if n := counts[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, "By status:      %s\n", strings.Join(parts, ", "))
	}
}

// activityChart plots run counts per bucket as an ASCII line chart.
// Returns "" when there is nothing worth plotting.
func activityChart(buckets []analysis.TemporalBucket) string {
	if len(buckets) < 2 {
		return ""
	}
	data := make([]float64, len(buckets))
	total := 0
	for i, b := range buckets {
		data[i] = float64(b.Count)
		total += b.Count
	}
	if total == 0 {
		return ""
	}

	caption := fmt.Sprintf("runs per hour from %s",
		buckets[0].BucketStart.Format("15:04"))
	if buckets[1].BucketStart.Sub(buckets[0].BucketStart) >= 24*time.Hour {
		caption = fmt.Sprintf("runs per day from %s",
			buckets[0].BucketStart.Format("2006-01-02"))
	}

	width := chartWidth
	if len(buckets) < width {
		width = 0 // let asciigraph size to the data
	}
	return asciigraph.Plot(data,
		asciigraph.Height(chartHeight),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
