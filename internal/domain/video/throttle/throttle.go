// Package throttle implements per-user download throttling.
package throttle

import (
	"sync"
	"time"
)

// Limiter tracks the last allowed download per user and denies requests
// inside the configured window. The VIP user bypasses the limiter entirely.
// All state lives in process memory; Sweep bounds growth by dropping entries
// older than the window.
type Limiter struct {
	mu       sync.Mutex
	window   time.Duration
	vipID    int64
	lastSeen map[int64]time.Time
}

// NewLimiter creates a Limiter with the given window and privileged user id.
// A vipID of 0 means no privileged user.
func NewLimiter(window time.Duration, vipID int64) *Limiter {
	return &Limiter{
		window:   window,
		vipID:    vipID,
		lastSeen: make(map[int64]time.Time),
	}
}

// Allow reports whether the user may download at now, recording now as the
// user's last download when allowed. The check-then-set runs under one lock,
// so two concurrent requests from the same user cannot both pass within a
// window. The VIP user is always allowed and never recorded.
func (l *Limiter) Allow(userID int64, now time.Time) bool {
	if userID == l.vipID && l.vipID != 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if last, ok := l.lastSeen[userID]; ok && now.Sub(last) < l.window {
		return false
	}

	l.lastSeen[userID] = now
	return true
}

// Peek reports whether the user would be allowed at now without recording
// anything. Used as a cheap gate before answering an inline query.
func (l *Limiter) Peek(userID int64, now time.Time) bool {
	if userID == l.vipID && l.vipID != 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.lastSeen[userID]
	return !ok || now.Sub(last) >= l.window
}

// Sweep drops entries whose last download is older than the window and
// returns how many were removed. Entries older than the window no longer
// affect Allow, so dropping them is observationally free.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for userID, last := range l.lastSeen {
		if now.Sub(last) >= l.window {
			delete(l.lastSeen, userID)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked users.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lastSeen)
}

// Window returns the configured throttle window.
func (l *Limiter) Window() time.Duration {
	return l.window
}
