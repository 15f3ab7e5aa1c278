// Package format provides human-readable formatting helpers shared by the
// CLI presenters and the status reporter.
package format

import (
	"fmt"
	"time"
)

// Duration formats a time.Duration for display. It shows microseconds for
// durations less than a millisecond, milliseconds for durations less than a
// second, and seconds rounded to one decimal otherwise. Probe and fetch
// durations sit anywhere between "near-zero" (spawn failure) and tens of
// seconds (timeout), so the unit adapts to the magnitude.
func Duration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}

// Count renders a "done/total" pair, used in summary lines such as
// "tunnels established: 2/5".
func Count(done, total int) string {
	return fmt.Sprintf("%d/%d", done, total)
}
