// Package script replays recorded user interactions against a placement
// session running on the simulated host.
//
// A script is YAML:
//
//	tier: 2
//	allow_save_load: true
//	frame_ms: 16
//	steps:
//	  - {action: mode, mode: tier2}
//	  - {action: down, x: 1, y: 5}
//	  - {action: drag, x: 2, y: 6}
//	  - {action: confirm, expect: {message: "Saved Item Placement", items: 1}}
//	  - {action: wait, duration: 3s}
package script

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/geoanchor/internal/core/detection"
	"github.com/example/geoanchor/internal/core/placement"
)

// DefaultFrame is the frame interval used when frame_ms is unset.
const DefaultFrame = 16 * time.Millisecond

// Action names.
const (
	ActionMode     = "mode"
	ActionDown     = "down"
	ActionDrag     = "drag"
	ActionSelect   = "select"
	ActionConfirm  = "confirm"
	ActionDiscard  = "discard"
	ActionRemove   = "remove"
	ActionDeselect = "deselect"
	ActionWait     = "wait"
	ActionLatency  = "latency"
	ActionSilence  = "silence"
)

// Script is a parsed interaction script.
type Script struct {
	Tier          int    `yaml:"tier"`
	AllowSaveLoad *bool  `yaml:"allow_save_load"`
	FrameMS       int    `yaml:"frame_ms"`
	Steps         []Step `yaml:"steps"`
}

// Step is one user interaction or host event.
type Step struct {
	Action   string  `yaml:"action"`
	Mode     string  `yaml:"mode,omitempty"`
	X        float64 `yaml:"x,omitempty"`
	Y        float64 `yaml:"y,omitempty"`
	ID       string  `yaml:"id,omitempty"`
	Duration string  `yaml:"duration,omitempty"`
	Expect   *Expect `yaml:"expect,omitempty"`
}

// Expect lists assertions checked after a step. Unset fields are not checked.
type Expect struct {
	Message   *string `yaml:"message"`
	Controls  string  `yaml:"controls"`
	Candidate *bool   `yaml:"candidate"`
	Selection *bool   `yaml:"selection"`
	Items     *int    `yaml:"items"`
	Detection string  `yaml:"detection"` // last detection outcome
	Error     *bool   `yaml:"error"`     // whether the step itself failed
}

// Frame returns the frame interval.
func (s *Script) Frame() time.Duration {
	if s.FrameMS <= 0 {
		return DefaultFrame
	}
	return time.Duration(s.FrameMS) * time.Millisecond
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads and parses a script file.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Validate checks every step before anything runs.
func (s *Script) Validate() error {
	if s.Tier < 0 || s.Tier > 3 {
		return fmt.Errorf("script tier must be 1, 2 or 3, got %d", s.Tier)
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch st.Action {
	case ActionMode:
		if _, err := placement.ParseMode(st.Mode); err != nil {
			return err
		}
	case ActionWait, ActionLatency:
		if _, err := st.duration(); err != nil {
			return err
		}
	case ActionSelect:
		if st.ID == "" {
			return fmt.Errorf("select needs an id")
		}
	case ActionDown, ActionDrag, ActionConfirm, ActionDiscard, ActionRemove, ActionDeselect, ActionSilence:
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	if st.Expect != nil && st.Expect.Detection != "" {
		switch detection.Status(st.Expect.Detection) {
		case detection.StatusIdle, detection.StatusCompleted, detection.StatusFailed, detection.StatusTimedOut:
		default:
			return fmt.Errorf("unknown detection outcome %q", st.Expect.Detection)
		}
	}
	return nil
}

func (st Step) duration() (time.Duration, error) {
	if st.Duration == "" {
		return 0, fmt.Errorf("%s needs a duration", st.Action)
	}
	d, err := time.ParseDuration(st.Duration)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", st.Duration, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative")
	}
	return d, nil
}
