// Package detection provides the surface detection request state machine.
// A request bounds one asynchronous "detect a surface at this screen point" call
// in time and reports exactly one terminal outcome for it.
package detection

import (
	"errors"
	"fmt"
	"time"
)

// Status constants for the request lifecycle.
//
//	Idle -> Pending -> {Completed, Failed, TimedOut} -> Idle
//
// Terminal states are transient: a transition into one of them immediately
// returns the request to Idle and is remembered as the last outcome.
const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusTimedOut  Status = "timed_out"
)

// Status is a request lifecycle state.
type Status string

// ErrAlreadyPending is returned by Start while another request is outstanding.
var ErrAlreadyPending = errors.New("surface detection already pending")

// Request is the single-flight detection slot of a session.
// The zero value is an idle request.
type Request struct {
	status   Status
	seq      uint64
	started  time.Time
	deadline time.Time
	last     Status
}

// Status returns the current state (never a terminal one).
func (r *Request) Status() Status {
	if r.status == "" {
		return StatusIdle
	}
	return r.status
}

// Pending reports whether a request is outstanding.
func (r *Request) Pending() bool {
	return r.status == StatusPending
}

// ID returns the id of the outstanding request, or of the last one issued.
// Ids start at 1 and are never reused within a Request.
func (r *Request) ID() uint64 {
	return r.seq
}

// Deadline returns the deadline of the outstanding request.
func (r *Request) Deadline() time.Time {
	return r.deadline
}

// LastOutcome returns the terminal state of the most recent finished request,
// or StatusIdle if none has finished yet.
func (r *Request) LastOutcome() Status {
	if r.last == "" {
		return StatusIdle
	}
	return r.last
}

// Start moves Idle -> Pending and arms the deadline at now+timeout.
// While a request is pending it returns ErrAlreadyPending and leaves the
// outstanding request (and its deadline) untouched.
func (r *Request) Start(now time.Time, timeout time.Duration) (uint64, error) {
	if r.Pending() {
		return 0, fmt.Errorf("request %d: %w", r.seq, ErrAlreadyPending)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("detection timeout must be positive, got %s", timeout)
	}
	r.seq++
	r.status = StatusPending
	r.started = now
	r.deadline = now.Add(timeout)
	return r.seq, nil
}

// Complete records a success for request id. It returns false, leaving the
// state untouched, when id is not the outstanding request (late or stale result).
func (r *Request) Complete(id uint64) bool {
	return r.finish(id, StatusCompleted)
}

// Fail records an explicit failure for request id, with the same staleness rule
// as Complete.
func (r *Request) Fail(id uint64) bool {
	return r.finish(id, StatusFailed)
}

// Expired reports whether the outstanding request has reached its deadline.
func (r *Request) Expired(now time.Time) bool {
	return r.Pending() && !now.Before(r.deadline)
}

// CheckDeadline moves Pending -> TimedOut when now >= deadline.
// It returns true if the request timed out on this call.
func (r *Request) CheckDeadline(now time.Time) bool {
	if !r.Expired(now) {
		return false
	}
	return r.finish(r.seq, StatusTimedOut)
}

// Elapsed returns how long the outstanding request has been pending.
func (r *Request) Elapsed(now time.Time) time.Duration {
	if !r.Pending() {
		return 0
	}
	return now.Sub(r.started)
}

// Abandon drops the outstanding request without recording an outcome.
// Any result delivered for it afterwards is stale.
func (r *Request) Abandon() {
	if r.Pending() {
		r.status = StatusIdle
	}
}

func (r *Request) finish(id uint64, outcome Status) bool {
	if !r.Pending() || id != r.seq {
		return false
	}
	r.last = outcome
	r.status = StatusIdle
	return true
}
