package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/vaibhav1mahajan/portia-digest-bot/internal/analysis"
)

// Subject builds the digest email subject. Windows covering exactly
// one UTC day are titled by that date.
func Subject(w analysis.Window) string {
	start, end := w.Start.UTC(), w.End.UTC()
	if end.Sub(start) == 24*time.Hour && start.Equal(start.Truncate(24*time.Hour)) {
		return "Portia Daily Digest - " + start.Format("2006-01-02")
	}
	return fmt.Sprintf("Portia Digest - %s to %s UTC",
		start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))
}

// EmailBody composes the plain-text email: the narration first,
// then the key numbers for readers who skip prose.
func EmailBody(report analysis.Report, narration string, generatedAt time.Time) string {
	var b strings.Builder

	if narration != "" {
		b.WriteString("Summary:\n")
		b.WriteString(narration)
		b.WriteString("\n\n")
	}

	b.WriteString(RenderText(report))
	fmt.Fprintf(&b, "\nGenerated: %s\n",
		generatedAt.UTC().Format("2006-01-02 15:04 UTC"))
	return b.String()
}
