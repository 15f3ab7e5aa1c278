// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their
// behavior:
//
//   - Present* functions write a formatted summary to an [io.Writer].
//     They handle presentation logic and colorization.
//   - Format* functions return a formatted string without performing I/O.

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/sdlaunch/tunnelhub/internal/fetch"
	"github.com/sdlaunch/tunnelhub/internal/format"
	"github.com/sdlaunch/tunnelhub/internal/tunnel"
	"github.com/sdlaunch/tunnelhub/internal/ui"
)

// PresentTunnelSummary writes the outcome of a tunnel round: every live URL
// with its provider annotation, the public IP when known, and one line per
// failed provider with the first diagnostic line.
func PresentTunnelSummary(w io.Writer, summary *tunnel.Summary, catalog []tunnel.ProviderConfig) {
	styles := ui.Current()

	notes := make(map[string]string, len(catalog))
	for _, cfg := range catalog {
		notes[cfg.Name] = cfg.Note
	}

	fmt.Fprintln(w)
	if summary.SuccessCount == 0 {
		fmt.Fprintln(w, styles.Error.Render("No tunnel established."))
	} else {
		fmt.Fprintln(w, styles.Bold.Render("Live tunnels:"))
		for _, res := range summary.Succeeded() {
			line := fmt.Sprintf("  %-12s %s", res.Provider, styles.Accent.Render(res.PublicURL))
			if note := notes[res.Provider]; note != "" {
				line += " " + styles.Dim.Render("("+note+")")
			}
			fmt.Fprintln(w, line)
		}
	}

	if summary.PublicIP != "" {
		fmt.Fprintf(w, "  %-12s %s\n", "public IP", summary.PublicIP)
	}

	if summary.FailureCount > 0 {
		fmt.Fprintln(w, styles.Dim.Render("Unavailable:"))
		for _, res := range summary.Failed() {
			fmt.Fprintf(w, "  %-12s %s\n", res.Provider, styles.Dim.Render(firstLine(res.ErrorDetail)))
		}
	}

	fmt.Fprintf(w, "%s tunnels up in %s\n",
		format.Count(summary.SuccessCount, summary.Attempted),
		format.Duration(summary.Elapsed))
}

// PresentInstallSummary writes the outcome of an install batch: the counts
// and one line per failed task with its reason.
func PresentInstallSummary(w io.Writer, outcomes []fetch.Outcome, elapsed time.Duration) {
	styles := ui.Current()
	succeeded, failed := fetch.CountOutcomes(outcomes)

	fmt.Fprintln(w)
	if failed == 0 {
		fmt.Fprintf(w, "%s\n", styles.Success.Render(fmt.Sprintf("All %d tasks installed.", succeeded)))
	} else {
		fmt.Fprintln(w, styles.Warning.Render(fmt.Sprintf("%d of %d tasks failed:", failed, len(outcomes))))
		for _, out := range outcomes {
			if out.Succeeded {
				continue
			}
			fmt.Fprintf(w, "  %-24s %s\n", out.Task.Label(), styles.Dim.Render(firstLine(out.Error)))
		}
	}
	fmt.Fprintf(w, "%s installed in %s\n", format.Count(succeeded, len(outcomes)), format.Duration(elapsed))
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
