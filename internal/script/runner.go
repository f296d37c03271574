package script

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/geoanchor/internal/adapters/sim"
	"github.com/example/geoanchor/internal/core/placement"
	"github.com/example/geoanchor/internal/ports/primary"
	"github.com/example/geoanchor/internal/ports/secondary"
)

// StepResult records what happened on one step.
type StepResult struct {
	Index    int
	Action   string
	Err      error
	Message  string
	Failures []string
}

// Report is the outcome of a replay.
type Report struct {
	Steps []StepResult
}

// Failures returns all expectation failures, prefixed with their step.
func (r *Report) Failures() []string {
	var out []string
	for _, st := range r.Steps {
		for _, f := range st.Failures {
			out = append(out, fmt.Sprintf("step %d (%s): %s", st.Index, st.Action, f))
		}
	}
	return out
}

// OK reports whether every expectation held.
func (r *Report) OK() bool {
	return len(r.Failures()) == 0
}

// Runner drives a session on a simulated host.
type Runner struct {
	session primary.PlacementSession
	catalog primary.CatalogService
	host    *sim.Host
	logger  *slog.Logger
}

// NewRunner creates a runner.
func NewRunner(session primary.PlacementSession, catalog primary.CatalogService, host *sim.Host, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{session: session, catalog: catalog, host: host, logger: logger}
}

// Run executes every step in order. Session errors are recorded on the step
// and do not stop the replay.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	report := &Report{}
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := StepResult{Index: i + 1, Action: st.Action}
		res.Err = r.exec(ctx, st, s.Frame())
		if res.Err != nil {
			r.logger.Info("step failed", "step", res.Index, "action", st.Action, "err", res.Err)
		}
		res.Message = r.host.Console.Text()
		if st.Expect != nil {
			res.Failures = r.check(*st.Expect, res.Err)
		}
		report.Steps = append(report.Steps, res)
	}
	return report, nil
}

// Frames advances the host and session by n frames.
func (r *Runner) Frames(n int, frame time.Duration) {
	for i := 0; i < n; i++ {
		r.host.Step(frame)
		r.session.Tick()
	}
}

func (r *Runner) exec(ctx context.Context, st Step, frame time.Duration) error {
	point := secondary.ScreenPoint{X: st.X, Y: st.Y}
	switch st.Action {
	case ActionMode:
		mode, err := placement.ParseMode(st.Mode)
		if err != nil {
			return err
		}
		return r.session.SetMode(mode)
	case ActionDown:
		r.session.PointerDown(ctx, point)
	case ActionDrag:
		r.session.PointerDrag(ctx, point)
	case ActionSelect:
		h, ok := r.host.Scene.FindByItemID(st.ID)
		if !ok {
			return fmt.Errorf("no object with item id %s in scene", st.ID)
		}
		p, _ := r.host.Scene.ScreenPointOf(h)
		r.session.PointerDown(ctx, p)
		if state := r.session.State(); !state.HasSelection || state.Selected != h {
			other, _ := r.host.Scene.ItemID(state.Selected)
			r.session.Deselect()
			return fmt.Errorf("tap at (%g, %g) selects %q instead of item %s", p.X, p.Y, other, st.ID)
		}
	case ActionConfirm:
		_, err := r.session.ConfirmPlacement(ctx)
		return err
	case ActionDiscard:
		return r.session.DiscardPlacement(ctx)
	case ActionRemove:
		_, err := r.session.ConfirmRemoval(ctx)
		return err
	case ActionDeselect:
		r.session.Deselect()
	case ActionWait:
		d, err := st.duration()
		if err != nil {
			return err
		}
		r.Frames(framesFor(d, frame), frame)
	case ActionLatency:
		d, err := st.duration()
		if err != nil {
			return err
		}
		r.host.Anchors.SetLatency(d)
	case ActionSilence:
		r.host.Anchors.SetSilent(true)
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

func (r *Runner) check(e Expect, stepErr error) []string {
	var failures []string
	state := r.session.State()
	if e.Error != nil && *e.Error != (stepErr != nil) {
		failures = append(failures, fmt.Sprintf("expected error=%v, got %v", *e.Error, stepErr))
	}
	if e.Message != nil {
		if got := r.host.Console.Text(); got != *e.Message {
			failures = append(failures, fmt.Sprintf("expected message %q, got %q", *e.Message, got))
		}
	}
	if e.Controls != "" {
		if got := r.host.Console.Controls(); string(got) != e.Controls {
			failures = append(failures, fmt.Sprintf("expected controls %q, got %q", e.Controls, got))
		}
	}
	if e.Candidate != nil && *e.Candidate != state.HasCandidate {
		failures = append(failures, fmt.Sprintf("expected candidate=%v", *e.Candidate))
	}
	if e.Selection != nil && *e.Selection != state.HasSelection {
		failures = append(failures, fmt.Sprintf("expected selection=%v", *e.Selection))
	}
	if e.Items != nil && *e.Items != r.catalog.Len() {
		failures = append(failures, fmt.Sprintf("expected %d items, got %d", *e.Items, r.catalog.Len()))
	}
	if e.Detection != "" && string(state.LastDetection) != e.Detection {
		failures = append(failures, fmt.Sprintf("expected detection %q, got %q", e.Detection, state.LastDetection))
	}
	return failures
}

// framesFor returns how many frames cover d, at least one.
func framesFor(d, frame time.Duration) int {
	n := int((d + frame - 1) / frame)
	if n < 1 {
		n = 1
	}
	return n
}
