package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Store is the shared counter store backing the login limiter. Hit must be
// atomic across concurrent callers: the window's correctness depends on
// increment-and-read happening as one operation, not read-then-write.
type Store interface {
	// Hit increments the counter for key inside its current window and
	// returns the post-increment count and the window start. A window
	// opens on the first hit and lapses after the window duration.
	Hit(ctx context.Context, key string, window time.Duration) (count int64, windowStart time.Time, err error)
}

// ErrStoreUnavailable reports that the counter store could not be reached.
// The login path fails closed on this error.
var ErrStoreUnavailable = errors.New("ratelimit: counter store unavailable")

// Decision is the outcome of one limiter check, with the metadata the login
// endpoint exposes in X-RateLimit-* headers.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns the whole seconds until the window resets, at least 1.
func (d Decision) RetryAfter(now time.Time) int {
	secs := int(d.ResetAt.Sub(now).Seconds())
	return max(secs, 1)
}

// RetryAfterMinutes returns the reset delay in minutes, rounded up, for the
// human-readable throttle message.
func (d Decision) RetryAfterMinutes(now time.Time) int {
	mins := int((d.ResetAt.Sub(now) + time.Minute - 1) / time.Minute)
	return max(mins, 1)
}

// Limiter gates login attempts with a windowed counter per derived key.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
}

// NewLimiter builds a limiter over the given counter store.
func NewLimiter(store Store, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: limit, window: window}
}

// Allow records one attempt for key and reports whether it is within bound.
// A store failure returns a denying Decision alongside ErrStoreUnavailable:
// the caller must not let attempts through while the guard is blind.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, windowStart, err := l.store.Hit(ctx, key, l.window)
	if err != nil {
		return Decision{
			Allowed:   false,
			Limit:     l.limit,
			Remaining: 0,
			ResetAt:   time.Now().Add(l.window),
		}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   windowStart.Add(l.window),
	}, nil
}

// LoginKey derives the limiter key for a login attempt: the left-most
// forwarded-for address (or "unknown" when the header is absent) joined with
// the attempted email. Combining both dimensions keeps one attacker from
// starving a whole NAT'd office while still throttling per-target attempts.
func LoginKey(r *http.Request, email string) string {
	ip := "unknown"
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		// A header like " , 10.0.0.1" has no usable left-most entry;
		// keep the fallback rather than derive a ":email" key.
		if first = strings.TrimSpace(first); first != "" {
			ip = first
		}
	}
	return ip + ":" + email
}
