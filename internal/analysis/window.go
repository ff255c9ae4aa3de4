package analysis

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow marks fatal time-window errors: inverted bounds,
// unparsable timestamps, or a lone since/until without a preset.
var ErrInvalidWindow = errors.New("invalid window")

// Window is a half-open UTC interval [Start, End). End is always
// strictly after Start.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the interval.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Span returns the window length.
func (w Window) Span() time.Duration {
	return w.End.Sub(w.Start)
}

// Window presets accepted by ResolveWindow.
const (
	PresetToday     = "today"
	PresetYesterday = "yesterday"
)

// ResolveWindow turns a preset token or an explicit since/until pair
// into a concrete Window. now anchors the presets: "today" is
// [midnight(now), now) and "yesterday" the full preceding UTC day.
// With no preset and no bounds the window defaults to the trailing
// 24 hours ending at now. Explicit bounds must be RFC 3339 and both
// present.
func ResolveWindow(preset, since, until string, now time.Time) (Window, error) {
	now = now.UTC()
	midnight := now.Truncate(24 * time.Hour)

	switch preset {
	case PresetToday:
		if now.Equal(midnight) {
			// Exactly midnight: an empty [midnight, now) would
			// violate End > Start.
			return Window{}, fmt.Errorf(
				"%w: today's window is empty at midnight", ErrInvalidWindow,
			)
		}
		return Window{Start: midnight, End: now}, nil
	case PresetYesterday:
		return Window{
			Start: midnight.AddDate(0, 0, -1),
			End:   midnight,
		}, nil
	case "":
		// fall through to explicit bounds
	default:
		return Window{}, fmt.Errorf(
			"%w: unknown preset %q", ErrInvalidWindow, preset,
		)
	}

	if since == "" && until == "" {
		return Window{Start: now.Add(-24 * time.Hour), End: now}, nil
	}
	if since == "" || until == "" {
		return Window{}, fmt.Errorf(
			"%w: since and until must both be set", ErrInvalidWindow,
		)
	}

	start, err := time.Parse(time.RFC3339, since)
	if err != nil {
		return Window{}, fmt.Errorf(
			"%w: parsing since %q: %v", ErrInvalidWindow, since, err,
		)
	}
	end, err := time.Parse(time.RFC3339, until)
	if err != nil {
		return Window{}, fmt.Errorf(
			"%w: parsing until %q: %v", ErrInvalidWindow, until, err,
		)
	}
	start, end = start.UTC(), end.UTC()

	if !end.After(start) {
		return Window{}, fmt.Errorf(
			"%w: until %s is not after since %s",
			ErrInvalidWindow,
			end.Format(time.RFC3339), start.Format(time.RFC3339),
		)
	}
	return Window{Start: start, End: end}, nil
}
