// Package memory provides an in-process counter store for single-instance
// deployments and tests. Production deployments with more than one gateway
// replica should use the redis driver so the window is shared.
package memory

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int64
	start time.Time
}

// Store implements ratelimit.Store with a mutex-guarded map.
type Store struct {
	mu      sync.Mutex
	windows map[string]*window

	lastSweep time.Time
	now       func() time.Time // overridable in tests
}

func New() *Store {
	return &Store{
		windows:   make(map[string]*window),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// NewWithClock builds a store with a custom clock, used by tests to slide
// windows without sleeping.
func NewWithClock(now func() time.Time) *Store {
	s := New()
	s.now = now
	s.lastSweep = now()
	return s
}

// Hit implements ratelimit.Store. The mutex makes increment-and-read atomic
// across concurrent requests.
func (s *Store) Hit(ctx context.Context, key string, windowDur time.Duration) (int64, time.Time, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= windowDur {
		w = &window{start: now}
		s.windows[key] = w
	}
	w.count++

	s.maybeSweep(now, windowDur)

	return w.count, w.start, nil
}

// maybeSweep drops lapsed windows so ephemeral keys don't accumulate.
// Runs at most once every five minutes; caller holds the lock.
func (s *Store) maybeSweep(now time.Time, windowDur time.Duration) {
	if now.Sub(s.lastSweep) < 5*time.Minute {
		return
	}
	s.lastSweep = now

	for key, w := range s.windows {
		if now.Sub(w.start) >= windowDur {
			delete(s.windows, key)
		}
	}
}

// Len reports the number of tracked windows, for tests.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
