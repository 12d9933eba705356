package cooking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDriverStopsOnCancel(t *testing.T) {
	var mu sync.Mutex
	ticks := 0
	d := NewDriver(time.Millisecond, func(context.Context) {
		mu.Lock()
		ticks++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Driver did not stop after cancel")
	}

	mu.Lock()
	seen := ticks
	mu.Unlock()
	if seen == 0 {
		t.Error("Expected at least one tick")
	}

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if ticks != seen {
		t.Errorf("Expected no ticks after stop, got %d more", ticks-seen)
	}
}

func TestManagerOpenAndDo(t *testing.T) {
	m := NewManager(nil, nil, WithTickInterval(time.Hour))
	defer m.Shutdown()

	st, err := m.Open(sampleRecipe())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if st.ID == "" {
		t.Fatal("Expected a session id")
	}
	if m.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", m.Len())
	}

	st, err = m.Do(st.ID, func(s *Session) error {
		s.Advance()
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if st.CurrentStep != 1 {
		t.Errorf("Expected step 1, got %d", st.CurrentStep)
	}

	sentinel := errors.New("bad input")
	_, err = m.Do(st.ID, func(*Session) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected fn error to pass through, got %v", err)
	}
}

func TestManagerUnknownSession(t *testing.T) {
	m := NewManager(nil, nil)

	if _, err := m.State("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound from State, got %v", err)
	}
	if err := m.Close("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound from Close, got %v", err)
	}
	if _, err := m.Events("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound from Events, got %v", err)
	}
}

func TestManagerTimerRunsInBackground(t *testing.T) {
	m := NewManager(nil, nil, WithTickInterval(time.Millisecond))
	defer m.Shutdown()

	st, _ := m.Open(sampleRecipe())
	_, _ = m.Do(st.ID, func(s *Session) error {
		s.Timer().StartSeconds(3)
		return nil
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		cur, err := m.State(st.ID)
		if err != nil {
			t.Fatalf("State failed: %v", err)
		}
		if cur.Timer.State == TimerExpired {
			events, _ := m.Events(st.ID)
			if len(events) != 1 || events[0].Title != TitleTimerFinished {
				t.Errorf("Expected one timer event, got %+v", events)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Timer never expired")
}

func TestManagerCloseStopsTicks(t *testing.T) {
	m := NewManager(nil, nil, WithTickInterval(time.Millisecond))

	st, _ := m.Open(sampleRecipe())
	if err := m.Close(st.ID); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Expected no sessions, got %d", m.Len())
	}
	if _, err := m.Do(st.ID, func(*Session) error { return nil }); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected closed session to be gone, got %v", err)
	}
}

func TestManagerReap(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := NewManager(nil, nil,
		WithTickInterval(time.Hour),
		WithIdleTTL(30*time.Minute),
		WithClock(clock),
	)
	defer m.Shutdown()

	stale, _ := m.Open(sampleRecipe())
	now = now.Add(20 * time.Minute)
	fresh, _ := m.Open(sampleRecipe())
	now = now.Add(15 * time.Minute)

	if n := m.Reap(); n != 1 {
		t.Fatalf("Expected 1 reaped session, got %d", n)
	}
	if _, err := m.State(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected stale session reaped, got %v", err)
	}
	if _, err := m.State(fresh.ID); err != nil {
		t.Errorf("Expected fresh session kept, got %v", err)
	}
}

func TestManagerEventsKeepSessionAlive(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(nil, nil,
		WithTickInterval(time.Hour),
		WithIdleTTL(30*time.Minute),
		WithClock(func() time.Time { return now }),
	)
	defer m.Shutdown()

	st, _ := m.Open(sampleRecipe())
	for range 3 {
		now = now.Add(20 * time.Minute)
		if _, err := m.Events(st.ID); err != nil {
			t.Fatalf("Events failed: %v", err)
		}
		if n := m.Reap(); n != 0 {
			t.Fatalf("Expected polled session kept, reaped %d", n)
		}
	}

	now = now.Add(31 * time.Minute)
	if n := m.Reap(); n != 1 {
		t.Fatalf("Expected session reaped once polling stops, got %d", n)
	}
	if _, err := m.Events(st.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerRunShutsDownOnCancel(t *testing.T) {
	m := NewManager(nil, nil, WithTickInterval(time.Hour), WithReapInterval(time.Millisecond))
	_, _ = m.Open(sampleRecipe())
	_, _ = m.Open(sampleRecipe())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil from Run, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	if m.Len() != 0 {
		t.Errorf("Expected all sessions closed, got %d", m.Len())
	}
}
