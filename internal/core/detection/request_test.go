package detection

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/example/geoanchor/internal/core/effects"
	"github.com/example/geoanchor/internal/core/placement"
)

var t0 = time.Date(2026, 1, 19, 12, 0, 0, 0, time.UTC)

func TestRequest_ZeroValueIsIdle(t *testing.T) {
	var r Request
	if r.Status() != StatusIdle {
		t.Errorf("expected idle, got %s", r.Status())
	}
	if r.LastOutcome() != StatusIdle {
		t.Errorf("expected no outcome, got %s", r.LastOutcome())
	}
	if r.CheckDeadline(t0.Add(time.Hour)) {
		t.Error("expected idle request never to time out")
	}
}

func TestRequest_SingleFlight(t *testing.T) {
	var r Request
	id, err := r.Start(t0, 5*time.Second)
	if err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	deadline := r.Deadline()

	for i := 1; i <= 3; i++ {
		_, err := r.Start(t0.Add(time.Duration(i)*time.Second), 5*time.Second)
		if !errors.Is(err, ErrAlreadyPending) {
			t.Fatalf("start %d: expected ErrAlreadyPending, got %v", i, err)
		}
	}

	if r.ID() != id {
		t.Errorf("expected id to stay %d, got %d", id, r.ID())
	}
	if !r.Deadline().Equal(deadline) {
		t.Errorf("expected deadline to stay %s, got %s", deadline, r.Deadline())
	}
}

func TestRequest_CompleteBeforeDeadline(t *testing.T) {
	var r Request
	id, _ := r.Start(t0, time.Second)

	if !r.Complete(id) {
		t.Fatal("expected completion to be accepted")
	}
	if r.Status() != StatusIdle || r.LastOutcome() != StatusCompleted {
		t.Errorf("expected idle/completed, got %s/%s", r.Status(), r.LastOutcome())
	}
	if r.CheckDeadline(t0.Add(time.Minute)) {
		t.Error("expected no timeout after completion")
	}
	if r.LastOutcome() != StatusCompleted {
		t.Errorf("expected outcome to remain completed, got %s", r.LastOutcome())
	}
}

func TestRequest_FailBeforeDeadline(t *testing.T) {
	var r Request
	id, _ := r.Start(t0, time.Second)

	if !r.Fail(id) {
		t.Fatal("expected failure to be accepted")
	}
	if r.LastOutcome() != StatusFailed {
		t.Errorf("expected failed, got %s", r.LastOutcome())
	}
	if r.CheckDeadline(t0.Add(2 * time.Second)) {
		t.Error("expected no timeout after failure")
	}
}

func TestRequest_TimeoutThenLateResults(t *testing.T) {
	var r Request
	id, _ := r.Start(t0, 5*time.Second)

	if r.CheckDeadline(t0.Add(4999 * time.Millisecond)) {
		t.Fatal("expected no timeout before the deadline")
	}
	if !r.CheckDeadline(t0.Add(5 * time.Second)) {
		t.Fatal("expected timeout exactly at the deadline")
	}
	if r.Status() != StatusIdle || r.LastOutcome() != StatusTimedOut {
		t.Fatalf("expected idle/timed_out, got %s/%s", r.Status(), r.LastOutcome())
	}

	if r.Complete(id) {
		t.Error("expected late completion to be ignored")
	}
	if r.Fail(id) {
		t.Error("expected late failure to be ignored")
	}
	if r.LastOutcome() != StatusTimedOut {
		t.Errorf("expected outcome to stay timed_out, got %s", r.LastOutcome())
	}
}

func TestRequest_StaleResultDoesNotFinishNewerRequest(t *testing.T) {
	var r Request
	first, _ := r.Start(t0, time.Second)
	r.CheckDeadline(t0.Add(time.Second))

	second, err := r.Start(t0.Add(2*time.Second), time.Second)
	if err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if second == first {
		t.Fatal("expected a new id for the second request")
	}
	if r.Complete(first) {
		t.Error("expected result for the first request to be ignored")
	}
	if !r.Pending() {
		t.Error("expected second request to stay pending")
	}
	if !r.Complete(second) {
		t.Error("expected result for the second request to be accepted")
	}
}

func TestRequest_Abandon(t *testing.T) {
	var r Request
	id, _ := r.Start(t0, time.Second)
	r.Abandon()

	if r.Pending() {
		t.Error("expected abandoned request not to be pending")
	}
	if r.Complete(id) {
		t.Error("expected result for abandoned request to be ignored")
	}
	if r.LastOutcome() != StatusIdle {
		t.Errorf("expected no recorded outcome, got %s", r.LastOutcome())
	}
}

func TestRequest_StartRejectsNonPositiveTimeout(t *testing.T) {
	var r Request
	if _, err := r.Start(t0, 0); err == nil {
		t.Error("expected error for zero timeout")
	}
	if r.Pending() {
		t.Error("expected request to stay idle")
	}
}

func TestRequest_Elapsed(t *testing.T) {
	var r Request
	r.Start(t0, time.Second)
	if got := r.Elapsed(t0.Add(300 * time.Millisecond)); got != 300*time.Millisecond {
		t.Errorf("expected 300ms elapsed, got %s", got)
	}
}

func TestPolicy_Timeout(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   time.Duration
	}{
		{name: "tier1 default", policy: Policy{Tier: 1}, want: DefaultRemoteTimeout},
		{name: "tier2 default", policy: Policy{Tier: 2}, want: DefaultRemoteTimeout},
		{name: "tier3 default", policy: Policy{Tier: 3}, want: DefaultLocalTimeout},
		{name: "tier2 override", policy: Policy{Tier: 2, RemoteTimeout: 8 * time.Second}, want: 8 * time.Second},
		{name: "tier3 override", policy: Policy{Tier: 3, LocalTimeout: 500 * time.Millisecond}, want: 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Timeout(); got != tt.want {
				t.Errorf("Timeout() = %s, want %s", got, tt.want)
			}
		})
	}
	if (Policy{Tier: 2}).Timeout() <= (Policy{Tier: 3}).Timeout() {
		t.Error("expected remote tiers to wait longer than the local tier")
	}
}

func TestTimedOutEffects(t *testing.T) {
	tests := []struct {
		name         string
		policy       Policy
		hasCandidate bool
		wantText     string
		wantClear    time.Duration
		wantControls bool
	}{
		{name: "remote tier", policy: Policy{Tier: 1}, wantText: placement.MsgRemoteTimeout, wantControls: true},
		{name: "local tier", policy: Policy{Tier: 3}, wantText: placement.MsgNoSurfaceTapped, wantClear: placement.NoSurfaceClearAfter, wantControls: true},
		{name: "candidate keeps controls", policy: Policy{Tier: 3}, hasCandidate: true, wantText: placement.MsgNoSurfaceTapped, wantClear: placement.NoSurfaceClearAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimedOutEffects(tt.policy, 7, tt.hasCandidate)

			var (
				msg         *effects.MessageEffect
				log         *effects.LogEffect
				hasControls bool
			)
			for _, e := range got {
				switch v := e.(type) {
				case effects.MessageEffect:
					msg = &v
				case effects.LogEffect:
					log = &v
				case effects.ControlsEffect:
					hasControls = true
				}
			}
			if msg == nil {
				t.Fatalf("expected a message effect, got %#v", got)
			}
			if msg.Text != tt.wantText || msg.ClearAfter != tt.wantClear {
				t.Errorf("expected %q/%s, got %q/%s", tt.wantText, tt.wantClear, msg.Text, msg.ClearAfter)
			}
			if hasControls != tt.wantControls {
				t.Errorf("expected controls effect %v, got %#v", tt.wantControls, got)
			}
			if log == nil || log.Level != slog.LevelWarn {
				t.Fatalf("expected a warn log effect, got %#v", log)
			}
			if log.Attrs[0] != "request" || log.Attrs[1] != uint64(7) {
				t.Errorf("expected request id in log attrs, got %v", log.Attrs)
			}
		})
	}
}

func TestFailedEffects(t *testing.T) {
	cause := errors.New("no surface")

	got := FailedEffects(3, cause)

	if len(got) != 3 {
		t.Fatalf("expected 3 effects, got %#v", got)
	}
	log, ok := got[0].(effects.LogEffect)
	if !ok || log.Level != slog.LevelInfo {
		t.Fatalf("expected info log effect first, got %#v", got[0])
	}
	if log.Attrs[3] != cause {
		t.Errorf("expected cause in log attrs, got %v", log.Attrs)
	}
	if msg, ok := got[1].(effects.MessageEffect); !ok || msg.Text != placement.MsgDetectionFailed {
		t.Errorf("expected failure message, got %#v", got[1])
	}
	if c, ok := got[2].(effects.ControlsEffect); !ok || c.State != placement.ControlsReady {
		t.Errorf("expected ready controls, got %#v", got[2])
	}
}
