package analysis

// AnalyzeRecords normalizes raw records against the window, then
// assembles the full report. Window resolution errors abort before
// any record is touched; record-level defects only increment
// skipped_records.
func AnalyzeRecords(records []RawRecord, w Window, opts Options) Report {
	runs, skipped := Normalize(records, w)
	return Assemble(runs, skipped, w, opts)
}

// Assemble composes the analyzer outputs into one report. Pure
// composition: same normalized input and options produce an
// identical report, independent of the raw records' original order.
func Assemble(runs []PlanRun, skipped int, w Window, opts Options) Report {
	counts := statusCounts(runs)
	topN := opts.topN()

	report := Report{
		Window:          w,
		TotalRuns:       len(runs),
		StatusCounts:    counts,
		SuccessRate:     successRate(counts),
		DurationStats:   durationStats(runs),
		FailureClusters: failureClusters(runs),
		TemporalBuckets: temporalBuckets(runs, w),
		PlanStats:       planStats(runs, topN),
		SlowestRuns:     extremeRuns(runs, true, topN),
		FastestRuns:     extremeRuns(runs, false, topN),
		SkippedRecords:  skipped,
	}
	if opts.IncludeTools {
		report.ToolStats = toolUsage(runs, topN)
	}
	return report
}
