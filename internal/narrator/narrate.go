// Package narrator turns an analysis report into prose by prompting
// the platform's LLM through a task run.
package narrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/vaibhav1mahajan/portia-digest-bot/internal/analysis"
)

// TaskRunner submits a natural-language task and returns its final
// text output. Satisfied by *portia.Client.
type TaskRunner interface {
	RunTask(ctx context.Context, task string) (string, error)
}

// Narrator generates digest prose from analysis reports.
type Narrator struct {
	runner TaskRunner
}

// New returns a Narrator backed by the given task runner.
func New(runner TaskRunner) *Narrator {
	return &Narrator{runner: runner}
}

// Narrate prompts the LLM with the report and returns the cleaned
// narration text.
func (n *Narrator) Narrate(
	ctx context.Context, report analysis.Report, style Style,
) (string, error) {
	out, err := n.runner.RunTask(ctx, BuildPrompt(report, style))
	if err != nil {
		return "", fmt.Errorf("narrating report: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("narrating report: model returned empty output")
	}
	return out, nil
}
