package cooking

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Notifier delivers user-facing messages. Delivery is best effort:
// callers log failures and carry on.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Compile-time interface checks.
var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*Recorder)(nil)
	_ Notifier = MultiNotifier(nil)
)

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier returns a notifier that logs at info level.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

// Notify logs the message.
func (n *LogNotifier) Notify(ctx context.Context, title, message string) error {
	n.log.InfoContext(ctx, "notification", "title", title, "message", message)
	return nil
}

// Event is one delivered notification.
type Event struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Recorder keeps the most recent notifications so a polling client can
// display them.
type Recorder struct {
	mu     sync.Mutex
	limit  int
	events []Event
	now    func() time.Time
}

// NewRecorder keeps up to limit events (default 20).
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 20
	}
	return &Recorder{limit: limit, now: time.Now}
}

// Notify appends the event, dropping the oldest past the limit.
func (r *Recorder) Notify(_ context.Context, title, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Title: title, Message: message, At: r.now().UTC()})
	if over := len(r.events) - r.limit; over > 0 {
		r.events = append([]Event(nil), r.events[over:]...)
	}
	return nil
}

// Events returns a copy of the recorded events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// MultiNotifier fans out to every notifier, returning the first error.
type MultiNotifier []Notifier

// Notify delivers to all targets even if one fails.
func (m MultiNotifier) Notify(ctx context.Context, title, message string) error {
	var first error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, title, message); err != nil && first == nil {
			first = err
		}
	}
	return first
}
