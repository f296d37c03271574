package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/example/geoanchor/internal/adapters/sim"
	"github.com/example/geoanchor/internal/core/placement"
	"github.com/example/geoanchor/internal/ports/primary"
	"github.com/example/geoanchor/internal/script"
)

// SessionAdapter prints what a simulated session showed the user.
type SessionAdapter struct {
	out   io.Writer
	start time.Time
}

// NewSessionAdapter creates a new SessionAdapter. Timestamps are printed
// relative to start.
func NewSessionAdapter(out io.Writer, start time.Time) *SessionAdapter {
	return &SessionAdapter{out: out, start: start}
}

// Message prints one status line change.
func (a *SessionAdapter) Message(e sim.Entry) {
	at := fmt.Sprintf("[+%6.2fs]", e.At.Sub(a.start).Seconds())
	if e.Text == "" {
		fmt.Fprintf(a.out, "%s %s\n", at, color.New(color.Faint).Sprint("(message cleared)"))
		return
	}
	text := strings.ReplaceAll(e.Text, "\n", " / ")
	fmt.Fprintf(a.out, "%s %s\n", at, color.New(color.FgCyan).Sprint(text))
}

// State prints a session snapshot.
func (a *SessionAdapter) State(st primary.SessionState) {
	fmt.Fprintf(a.out, "Mode:        %s (tier %d)\n", st.Mode, st.Tier)
	fmt.Fprintf(a.out, "Persistence: %v\n", st.PersistenceEnabled)
	if st.HasCandidate {
		fmt.Fprintf(a.out, "Placing:     %s (object %d)\n", st.CandidateKind, st.Candidate)
	}
	if st.HasSelection {
		fmt.Fprintf(a.out, "Selected:    object %d\n", st.Selected)
	}
	fmt.Fprintf(a.out, "Detection:   %s (last: %s)\n", st.Detection, st.LastDetection)
}

// Modes prints the modes available at tier.
func (a *SessionAdapter) Modes(tier int) {
	names := make([]string, 0, 4)
	for _, m := range placement.AvailableModes(tier) {
		names = append(names, string(m))
	}
	fmt.Fprintf(a.out, "Modes:       %s\n", strings.Join(names, ", "))
}

// Report prints a replay report and returns an error if any expectation failed.
func (a *SessionAdapter) Report(r *script.Report) error {
	for _, st := range r.Steps {
		mark := color.New(color.FgGreen).Sprint("✓")
		if len(st.Failures) > 0 {
			mark = color.New(color.FgRed).Sprint("✗")
		} else if st.Err != nil {
			mark = color.New(color.FgYellow).Sprint("!")
		}
		fmt.Fprintf(a.out, "%s %3d %-8s", mark, st.Index, st.Action)
		if st.Err != nil {
			fmt.Fprintf(a.out, " %s", st.Err)
		}
		fmt.Fprintln(a.out)
		for _, f := range st.Failures {
			fmt.Fprintf(a.out, "        %s\n", color.New(color.FgRed).Sprint(f))
		}
	}

	failures := r.Failures()
	if len(failures) > 0 {
		return fmt.Errorf("%d expectation(s) failed", len(failures))
	}
	fmt.Fprintf(a.out, "\n✓ %d step(s) replayed\n", len(r.Steps))
	return nil
}
