package narrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaibhav1mahajan/portia-digest-bot/internal/analysis"
)

func sampleReport() analysis.Report {
	return analysis.Report{
		Window: analysis.Window{
			Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		TotalRuns: 12,
		StatusCounts: map[analysis.RunStatus]int{
			analysis.StatusSucceeded: 10,
			analysis.StatusFailed:    2,
		},
		SuccessRate: 10.0 / 12.0,
		DurationStats: analysis.DurationStats{
			Count: 12, Min: 5, Max: 120, Mean: 30, P50: 22, P95: 110,
		},
		ToolStats: &analysis.ToolStats{
			TotalInvocations: 40,
			UniqueTools:      4,
			Top: []analysis.ToolRank{
				{ToolName: "browser", Invocations: 25, Successes: 24, SuccessRate: 0.96},
			},
		},
		FailureClusters: []analysis.FailureCluster{
			{Signature: "Timeout", Count: 2},
		},
		PlanStats: []analysis.PlanStat{
			{PlanID: "plan-aaaaaaaaaaaaaaaa", Runs: 8, MeanDuration: 25},
		},
		SkippedRecords: 1,
	}
}

func TestBuildPromptSections(t *testing.T) {
	prompt := BuildPrompt(sampleReport(), StyleText)

	assert.Contains(t, prompt, "from 2024-06-01T00:00:00Z to 2024-06-02T00:00:00Z")
	assert.Contains(t, prompt, "Total runs: 12")
	assert.Contains(t, prompt, "succeeded: 10")
	assert.Contains(t, prompt, "Success rate: 83.3%")
	assert.Contains(t, prompt, "P95 duration: 110.0s")
	assert.Contains(t, prompt, "Skipped malformed records: 1")
	assert.Contains(t, prompt, "browser: 25 calls, 96% success")
	assert.Contains(t, prompt, `"Timeout": 2 occurrence(s)`)
	assert.Contains(t, prompt, "plan-aaaaaaa...", "long plan ids are shortened")
}

func TestBuildPromptOmitsEmptySections(t *testing.T) {
	report := analysis.Report{
		Window: analysis.Window{
			Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	prompt := BuildPrompt(report, StyleText)

	assert.Contains(t, prompt, "Total runs: 0")
	assert.NotContains(t, prompt, "## Performance")
	assert.NotContains(t, prompt, "## Tool Usage")
	assert.NotContains(t, prompt, "## Failures")
	assert.NotContains(t, prompt, "Skipped malformed")
}

func TestBuildPromptStyles(t *testing.T) {
	email := BuildPrompt(sampleReport(), StyleEmail)
	text := BuildPrompt(sampleReport(), StyleText)

	assert.Contains(t, email, "daily digest emails")
	assert.Contains(t, text, "daily digest summaries")
	assert.NotEqual(t, email, text)
}

type stubRunner struct {
	out  string
	err  error
	task string
}

func (s *stubRunner) RunTask(_ context.Context, task string) (string, error) {
	s.task = task
	return s.out, s.err
}

func TestNarrate(t *testing.T) {
	t.Run("trims output", func(t *testing.T) {
		runner := &stubRunner{out: "  A quiet day.\n"}
		got, err := New(runner).Narrate(context.Background(), sampleReport(), StyleEmail)
		require.NoError(t, err)
		assert.Equal(t, "A quiet day.", got)
		assert.Contains(t, runner.task, "Total runs: 12")
	})

	t.Run("propagates runner errors", func(t *testing.T) {
		runner := &stubRunner{err: errors.New("api down")}
		_, err := New(runner).Narrate(context.Background(), sampleReport(), StyleEmail)
		assert.ErrorContains(t, err, "api down")
	})

	t.Run("rejects empty output", func(t *testing.T) {
		runner := &stubRunner{out: "  \n "}
		_, err := New(runner).Narrate(context.Background(), sampleReport(), StyleEmail)
		assert.Error(t, err)
	})
}
