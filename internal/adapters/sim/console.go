package sim

import (
	"sync"
	"time"

	"github.com/example/geoanchor/internal/core/placement"
	"github.com/example/geoanchor/internal/ports/secondary"
)

// Entry is one status line change.
type Entry struct {
	At         time.Time
	Text       string // empty for a clear
	ClearAfter time.Duration
}

// Console implements secondary.Messenger and secondary.ControlPanel by
// recording everything that would have been shown to the user.
type Console struct {
	clock secondary.Clock

	mu        sync.Mutex
	entries   []Entry
	text      string
	clearAt   time.Time
	controls  placement.Controls
	selection bool
	onEntry   func(Entry)
}

// NewConsole creates a console reading time from clock.
func NewConsole(clock secondary.Clock) *Console {
	return &Console{clock: clock, controls: placement.ControlsReady}
}

// OnEntry registers fn to be called for every status line change.
func (c *Console) OnEntry(fn func(Entry)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEntry = fn
}

// SetText shows text, optionally clearing it after clearAfter.
func (c *Console) SetText(text string, clearAfter time.Duration) {
	now := c.clock.Now()
	c.mu.Lock()
	c.text = text
	c.clearAt = time.Time{}
	if clearAfter > 0 {
		c.clearAt = now.Add(clearAfter)
	}
	e := Entry{At: now, Text: text, ClearAfter: clearAfter}
	c.entries = append(c.entries, e)
	fn := c.onEntry
	c.mu.Unlock()

	if fn != nil {
		fn(e)
	}
}

// ClearText hides the status line.
func (c *Console) ClearText() {
	now := c.clock.Now()
	c.mu.Lock()
	c.text = ""
	c.clearAt = time.Time{}
	e := Entry{At: now}
	c.entries = append(c.entries, e)
	fn := c.onEntry
	c.mu.Unlock()

	if fn != nil {
		fn(e)
	}
}

// SetPlacementControls records the placement controls layout.
func (c *Console) SetPlacementControls(state placement.Controls) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls = state
}

// SetSelectionControls records selection control visibility.
func (c *Console) SetSelectionControls(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = visible
}

// Text returns the status line as currently visible, honouring auto-clear.
func (c *Console) Text() string {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.clearAt.IsZero() && !now.Before(c.clearAt) {
		return ""
	}
	return c.text
}

// Controls returns the current placement controls layout.
func (c *Console) Controls() placement.Controls {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controls
}

// SelectionVisible reports whether selection controls are shown.
func (c *Console) SelectionVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// Entries returns every recorded status line change.
func (c *Console) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

var (
	_ secondary.Messenger    = (*Console)(nil)
	_ secondary.ControlPanel = (*Console)(nil)
)
