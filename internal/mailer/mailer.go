// Package mailer delivers digests through the platform's OAuth-gated
// Gmail tool. Delivery is a natural-language task run: the platform
// composes and sends the message with its own credentials, this
// package only verifies the outcome.
package mailer

import (
	"context"
	"fmt"
	"strings"
)

// TaskRunner submits a natural-language task and returns its final
// text output. Satisfied by *portia.Client.
type TaskRunner interface {
	RunTask(ctx context.Context, task string) (string, error)
}

// Mailer sends email via platform task runs.
type Mailer struct {
	runner TaskRunner
}

// New returns a Mailer backed by the given task runner.
func New(runner TaskRunner) *Mailer {
	return &Mailer{runner: runner}
}

// successIndicators are phrases the platform uses to report a
// completed send. Task output is free text, so detection is
// best-effort.
var successIndicators = []string{
	"email sent",
	"sent successfully",
	"email delivered",
	"message sent",
	"delivered",
}

// Send emails the body to the recipient. Returns an error when the
// task fails or its output does not indicate a completed send.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("sending email: recipient is required")
	}

	task := fmt.Sprintf(
		"Send an email to %s with the subject %q and the following body:\n\n%s",
		to, subject, body,
	)
	out, err := m.runner.RunTask(ctx, task)
	if err != nil {
		return fmt.Errorf("sending email to %s: %w", to, err)
	}

	lower := strings.ToLower(out)
	for _, indicator := range successIndicators {
		if strings.Contains(lower, indicator) {
			return nil
		}
	}
	return fmt.Errorf("sending email to %s: unconfirmed delivery: %s",
		to, truncate(out, 200))
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
