package cooking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/findosh/myrecipes/internal/models"
)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTickInterval sets how often hosted timers are ticked. Each tick still
// counts as one second of countdown; shorter intervals are for tests.
func WithTickInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.tickInterval = d
	}
}

// WithIdleTTL sets how long an untouched session survives before the
// reaper closes it. Zero disables reaping.
func WithIdleTTL(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.idleTTL = d
	}
}

// WithReapInterval sets how often Run looks for idle sessions.
func WithReapInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.reapInterval = d
	}
}

// WithEventLimit sets how many notifications each session keeps for polling.
func WithEventLimit(n int) ManagerOption {
	return func(m *Manager) {
		m.eventLimit = n
	}
}

// WithClock overrides time.Now for idle tracking.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager hosts cooking sessions for clients that drive them over HTTP.
// Every session gets its own Driver goroutine, and every operation on a
// session is serialized by that session's lock.
type Manager struct {
	notifier     Notifier
	log          *slog.Logger
	tickInterval time.Duration
	idleTTL      time.Duration
	reapInterval time.Duration
	eventLimit   int
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*hosted
}

type hosted struct {
	mu       sync.Mutex
	id       string
	session  *Session
	events   *Recorder
	lastUsed time.Time
	closed   bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a manager. notifier receives every session's
// notifications in addition to the per-session event log.
func NewManager(notifier Notifier, log *slog.Logger, opts ...ManagerOption) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		notifier:     notifier,
		log:          log,
		tickInterval: time.Second,
		idleTTL:      2 * time.Hour,
		reapInterval: time.Minute,
		eventLimit:   20,
		now:          time.Now,
		sessions:     make(map[string]*hosted),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open starts a session for recipe and returns its initial state.
func (m *Manager) Open(recipe models.Recipe) (State, error) {
	events := NewRecorder(m.eventLimit)
	session, err := NewSession(recipe,
		WithNotifier(MultiNotifier{m.notifier, events, countingNotifier{}}),
		WithLogger(m.log),
	)
	if err != nil {
		return State{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &hosted{
		id:       uuid.NewString(),
		session:  session,
		events:   events,
		lastUsed: m.now(),
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	m.mu.Lock()
	m.sessions[h.id] = h
	m.mu.Unlock()

	driver := NewDriver(m.tickInterval, h.tick)
	go func() {
		defer close(h.done)
		driver.Run(ctx)
	}()

	sessionsOpened.Inc()
	sessionsActive.Inc()
	m.log.Info("cooking session opened", "session", h.id, "recipe", recipe.ID)

	return h.snapshot(), nil
}

// Do runs fn against session id under its lock and returns the resulting
// state. fn's error is returned alongside the state.
func (m *Manager) Do(id string, fn func(*Session) error) (State, error) {
	h, err := m.get(id)
	if err != nil {
		return State{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return State{}, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	h.lastUsed = m.now()
	fnErr := fn(h.session)
	return h.snapshotLocked(), fnErr
}

// State returns the current state of session id.
func (m *Manager) State(id string) (State, error) {
	return m.Do(id, func(*Session) error { return nil })
}

// Events returns the notifications recorded for session id. Polling counts
// as activity for idle reaping.
func (m *Manager) Events(id string) ([]Event, error) {
	h, err := m.get(id)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	h.lastUsed = m.now()
	h.mu.Unlock()

	return h.events.Events(), nil
}

// Close tears down session id. Once Close returns no further tick reaches
// the session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	h, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	h.stop()
	sessionsActive.Dec()
	m.log.Info("cooking session closed", "session", id)
	return nil
}

// Len returns the number of hosted sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Reap closes sessions idle for longer than the TTL and returns how many
// were closed.
func (m *Manager) Reap() int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	var stale []string
	for id, h := range m.sessions {
		h.mu.Lock()
		if h.lastUsed.Before(cutoff) {
			stale = append(stale, id)
		}
		h.mu.Unlock()
	}
	m.mu.Unlock()

	closed := 0
	for _, id := range stale {
		if err := m.Close(id); err == nil {
			closed++
			sessionsReaped.Inc()
		}
	}
	return closed
}

// Run reaps idle sessions periodically until ctx is cancelled, then closes
// every remaining session.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Shutdown()
			return nil
		case <-ticker.C:
			if n := m.Reap(); n > 0 {
				m.log.Info("reaped idle cooking sessions", "count", n)
			}
		}
	}
}

// Shutdown closes all sessions.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		_ = m.Close(id)
	}
}

func (m *Manager) get(id string) (*hosted, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return h, nil
}

func (h *hosted) tick(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.session.Tick(ctx)
}

// stop cancels the driver and waits for it to exit.
func (h *hosted) stop() {
	h.cancel()
	<-h.done
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}

func (h *hosted) snapshot() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *hosted) snapshotLocked() State {
	st := h.session.Snapshot()
	st.ID = h.id
	return st
}
