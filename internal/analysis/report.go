// Package analysis turns raw plan-run records from the Portia
// platform into a deterministic statistical report: counts, rates,
// duration percentiles, tool-usage rankings, failure clustering, and
// temporal bucketing. The package performs no I/O and keeps no state
// between invocations.
package analysis

import "time"

// RunStatus is the lifecycle state of a plan run.
type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusRunning   RunStatus = "running"
	StatusSucceeded RunStatus = "succeeded"
	StatusFailed    RunStatus = "failed"
	StatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether the status ends a run's lifecycle.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// CallStatus is the outcome of a single tool invocation.
type CallStatus string

const (
	CallSucceeded CallStatus = "succeeded"
	CallFailed    CallStatus = "failed"
)

// ToolCall is one invocation of a named tool within a plan run.
// Error is non-empty exactly when Status is CallFailed.
type ToolCall struct {
	ToolName  string
	Status    CallStatus
	StartedAt time.Time
	EndedAt   time.Time
	Error     string
}

// PlanRun is one execution of an automation workflow. EndedAt is
// the zero time unless the run reached a terminal status with a
// valid completion timestamp.
type PlanRun struct {
	ID        string
	PlanID    string
	Status    RunStatus
	StartedAt time.Time
	EndedAt   time.Time
	ToolCalls []ToolCall
}

// Duration returns the run's wall-clock duration. ok is false for
// non-terminal runs and terminal runs without a completion time.
func (r PlanRun) Duration() (d time.Duration, ok bool) {
	if !r.Status.Terminal() || r.EndedAt.IsZero() {
		return 0, false
	}
	return r.EndedAt.Sub(r.StartedAt), true
}

// Options controls what the analysis computes.
type Options struct {
	// IncludeTools enables the tool-usage section of the report.
	IncludeTools bool
	// TopN caps ranked lists (top tools, plan activity, extreme
	// runs). Values <= 0 fall back to DefaultTopN.
	TopN int
}

// DefaultTopN is the ranked-list cap when Options.TopN is unset.
const DefaultTopN = 5

func (o Options) topN() int {
	if o.TopN > 0 {
		return o.TopN
	}
	return DefaultTopN
}

// DurationStats summarizes run durations in seconds. All fields are
// zero when no run in the window had a defined duration.
type DurationStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
}

// ToolRank is one entry in the ranked tool-usage list.
type ToolRank struct {
	ToolName    string  `json:"tool_name"`
	Invocations int     `json:"invocations"`
	Successes   int     `json:"successes"`
	SuccessRate float64 `json:"success_rate"`
}

// ToolStats summarizes tool usage across all runs in the window.
type ToolStats struct {
	TotalInvocations int        `json:"total_invocations"`
	UniqueTools      int        `json:"unique_tools"`
	Top              []ToolRank `json:"top"`
}

// FailureCluster groups failures that share a normalized error
// signature.
type FailureCluster struct {
	Signature string `json:"signature"`
	Count     int    `json:"count"`
}

// TemporalBucket is the run count for one hour or calendar day.
type TemporalBucket struct {
	BucketStart time.Time `json:"bucket_start"`
	Count       int       `json:"count"`
}

// PlanStat is per-plan activity within the window.
type PlanStat struct {
	PlanID       string  `json:"plan_id"`
	Runs         int     `json:"runs"`
	MeanDuration float64 `json:"mean_duration_seconds"`
}

// RunExtreme identifies one of the fastest or slowest runs.
type RunExtreme struct {
	RunID    string  `json:"run_id"`
	PlanID   string  `json:"plan_id"`
	Duration float64 `json:"duration_seconds"`
}

// Report is the immutable output of one analysis. Identical
// normalized input and options always produce a byte-identical
// JSON encoding.
type Report struct {
	Window          Window            `json:"window"`
	TotalRuns       int               `json:"total_runs"`
	StatusCounts    map[RunStatus]int `json:"status_counts"`
	SuccessRate     float64           `json:"success_rate"`
	DurationStats   DurationStats     `json:"duration_stats"`
	ToolStats       *ToolStats        `json:"tool_stats,omitempty"`
	FailureClusters []FailureCluster  `json:"failure_clusters"`
	TemporalBuckets []TemporalBucket  `json:"temporal_buckets"`
	PlanStats       []PlanStat        `json:"plan_stats"`
	SlowestRuns     []RunExtreme      `json:"slowest_runs"`
	FastestRuns     []RunExtreme      `json:"fastest_runs"`
	SkippedRecords  int               `json:"skipped_records"`
}
