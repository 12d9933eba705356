package cooking

import (
	"context"
	"fmt"
)

// TimerState is the derived lifecycle state of a Timer.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerArmed
	TimerRunning
	TimerExpired
)

// String returns a human-readable timer state.
func (s TimerState) String() string {
	switch s {
	case TimerIdle:
		return "idle"
	case TimerArmed:
		return "armed"
	case TimerRunning:
		return "running"
	case TimerExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name in JSON.
func (s TimerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name written by MarshalText.
func (s *TimerState) UnmarshalText(text []byte) error {
	for _, st := range []TimerState{TimerIdle, TimerArmed, TimerRunning, TimerExpired} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown timer state %q", text)
}

// Timer is a countdown measured in whole seconds and advanced by Tick.
// It holds no clock of its own; a Driver or a test calls Tick once per
// elapsed second. Not safe for concurrent use.
type Timer struct {
	total     int
	remaining int
	running   bool
	fired     bool

	onExpire func(ctx context.Context)
}

// NewTimer returns an idle timer. onExpire, if non-nil, runs once each time
// the countdown reaches zero.
func NewTimer(onExpire func(ctx context.Context)) *Timer {
	return &Timer{onExpire: onExpire}
}

// Start sets the total to minutes and begins counting down from any state.
// A non-positive duration leaves the timer idle.
func (t *Timer) Start(minutes int) {
	t.StartSeconds(minutes * 60)
}

// StartSeconds is Start with second precision.
func (t *Timer) StartSeconds(seconds int) {
	t.Set(seconds)
	t.running = t.remaining > 0
}

// Set arms the timer with a new total without starting it.
func (t *Timer) Set(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	t.total = seconds
	t.remaining = seconds
	t.running = false
	t.fired = false
}

// Pause stops the countdown, keeping the remaining time.
func (t *Timer) Pause() {
	t.running = false
}

// Resume continues a paused countdown. No-op when nothing is left.
func (t *Timer) Resume() {
	if t.remaining > 0 {
		t.running = true
	}
}

// Reset rewinds to the full total and stops.
func (t *Timer) Reset() {
	t.remaining = t.total
	t.running = false
	t.fired = false
}

// Tick advances the countdown by one second. It returns true on the tick
// that reaches zero; ticks while not running are ignored.
func (t *Timer) Tick(ctx context.Context) bool {
	if !t.running {
		return false
	}
	t.remaining--
	if t.remaining > 0 {
		return false
	}
	t.remaining = 0
	t.running = false
	t.fired = true
	if t.onExpire != nil {
		t.onExpire(ctx)
	}
	return true
}

// State derives the lifecycle state from the counters.
func (t *Timer) State() TimerState {
	switch {
	case t.running:
		return TimerRunning
	case t.fired && t.remaining == 0:
		return TimerExpired
	case t.total == 0:
		return TimerIdle
	default:
		return TimerArmed
	}
}

// Remaining returns the seconds left.
func (t *Timer) Remaining() int { return t.remaining }

// Total returns the configured duration in seconds.
func (t *Timer) Total() int { return t.total }

// Running reports whether ticks are being counted.
func (t *Timer) Running() bool { return t.running }

// Display renders the remaining time as mm:ss.
func (t *Timer) Display() string {
	return formatClock(t.remaining)
}

// TimerSnapshot is a read-only view of a timer.
type TimerSnapshot struct {
	State     TimerState `json:"state"`
	Total     int        `json:"total"`
	Remaining int        `json:"remaining"`
	Running   bool       `json:"running"`
	Display   string     `json:"display"`
}

// Snapshot captures the timer's current values.
func (t *Timer) Snapshot() TimerSnapshot {
	return TimerSnapshot{
		State:     t.State(),
		Total:     t.total,
		Remaining: t.remaining,
		Running:   t.running,
		Display:   t.Display(),
	}
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
