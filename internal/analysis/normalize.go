package analysis

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// RawRecord is one loosely-typed run record as returned by the
// platform API. Field presence is not guaranteed.
type RawRecord []byte

// statusAliases maps the platform's run states onto canonical
// statuses. Keys are upper-cased before lookup.
var statusAliases = map[string]RunStatus{
	"PENDING":     StatusPending,
	"NOT_STARTED": StatusPending,
	"READY":       StatusPending,
	"RUNNING":     StatusRunning,
	"IN_PROGRESS": StatusRunning,
	"SUCCEEDED":   StatusSucceeded,
	"COMPLETE":    StatusSucceeded,
	"COMPLETED":   StatusSucceeded,
	"FAILED":      StatusFailed,
	"ERROR":       StatusFailed,
	"CANCELLED":   StatusCancelled,
	"CANCELED":    StatusCancelled,
}

// parseRunStatus normalizes a raw state string. ok is false for
// unknown states.
func parseRunStatus(s string) (RunStatus, bool) {
	st, ok := statusAliases[strings.ToUpper(strings.TrimSpace(s))]
	return st, ok
}

// parseTimestamp parses the timestamp formats the platform emits.
// Returns the zero time when none match.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// firstString returns the first non-empty string value among the
// given gjson paths.
func firstString(rec RawRecord, paths ...string) string {
	for _, p := range paths {
		if v := gjson.GetBytes(rec, p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// Normalize validates and converts raw records into PlanRuns,
// preserving input order. Records missing a usable id, status, or
// started_at are skipped and counted, never fatal: upstream record
// provenance cannot be fully guaranteed. Records whose started_at
// falls outside w are filtered out without counting as skips. A
// malformed tool call is dropped without dropping its parent run.
func Normalize(records []RawRecord, w Window) (runs []PlanRun, skipped int) {
	runs = make([]PlanRun, 0, len(records))
	for _, rec := range records {
		if !gjson.ValidBytes(rec) {
			skipped++
			continue
		}
		run, ok := normalizeRun(rec)
		if !ok {
			skipped++
			continue
		}
		if !w.Contains(run.StartedAt) {
			continue
		}
		runs = append(runs, run)
	}
	return runs, skipped
}

func normalizeRun(rec RawRecord) (PlanRun, bool) {
	id := firstString(rec, "id", "run_id")
	if id == "" {
		return PlanRun{}, false
	}
	status, ok := parseRunStatus(firstString(rec, "status", "state"))
	if !ok {
		return PlanRun{}, false
	}
	startedAt := parseTimestamp(firstString(rec, "started_at", "created_at"))
	if startedAt.IsZero() {
		return PlanRun{}, false
	}

	run := PlanRun{
		ID:        id,
		PlanID:    firstString(rec, "plan_id"),
		Status:    status,
		StartedAt: startedAt,
	}

	// ended_at is optional and only meaningful for terminal runs.
	// An inverted or unparsable value degrades to "no duration"
	// rather than invalidating the record.
	if status.Terminal() {
		endedAt := parseTimestamp(firstString(rec, "ended_at", "completed_at"))
		if !endedAt.IsZero() && !endedAt.Before(startedAt) {
			run.EndedAt = endedAt
		}
	}

	calls := gjson.GetBytes(rec, "tool_calls")
	if !calls.Exists() {
		calls = gjson.GetBytes(rec, "metadata.tools_used")
	}
	calls.ForEach(func(_, raw gjson.Result) bool {
		if call, ok := normalizeToolCall(raw); ok {
			run.ToolCalls = append(run.ToolCalls, call)
		}
		return true
	})
	return run, true
}

func normalizeToolCall(raw gjson.Result) (ToolCall, bool) {
	name := raw.Get("tool_name").Str
	if name == "" {
		name = raw.Get("name").Str
	}
	if name == "" {
		return ToolCall{}, false
	}

	var status CallStatus
	switch s := raw.Get("status"); {
	case s.Type == gjson.String:
		switch strings.ToLower(s.Str) {
		case string(CallSucceeded), "success", "complete", "completed":
			status = CallSucceeded
		case string(CallFailed), "error":
			status = CallFailed
		default:
			return ToolCall{}, false
		}
	case raw.Get("success").Exists():
		// tools_used entries carry a boolean instead of a status.
		if raw.Get("success").Bool() {
			status = CallSucceeded
		} else {
			status = CallFailed
		}
	default:
		return ToolCall{}, false
	}

	call := ToolCall{
		ToolName:  name,
		Status:    status,
		StartedAt: parseTimestamp(raw.Get("started_at").Str),
		EndedAt:   parseTimestamp(raw.Get("ended_at").Str),
	}
	if !call.EndedAt.IsZero() && call.EndedAt.Before(call.StartedAt) {
		return ToolCall{}, false
	}
	if status == CallFailed {
		call.Error = raw.Get("error").Str
		if call.Error == "" {
			call.Error = "unknown error"
		}
	}
	return call, true
}
