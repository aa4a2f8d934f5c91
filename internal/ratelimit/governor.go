// Package ratelimit tracks request timestamps in sliding one-minute,
// one-hour, and one-day windows and tells callers how long to wait before
// the next provider call. The state is process-local and in-memory: on
// restart the governor resumes counting from empty, which is conservative.
// A deployment with multiple writers for the same provider account would
// under-protect the shared limit; this tool assumes a single writer.
package ratelimit

import (
	"sync"
	"time"
)

// Limits are per-window request ceilings.
type Limits struct {
	PerMinute int
	PerHour   int
	PerDay    int
}

// DefaultLimits are the provider's published API ceilings.
var DefaultLimits = Limits{PerMinute: 20, PerHour: 700, PerDay: 8000}

// Status is a read-only view for monitoring.
type Status struct {
	Paused      bool      `json:"paused"`
	PauseUntil  time.Time `json:"pause_until,omitempty"`
	PauseReason string    `json:"pause_reason,omitempty"`
	PerMinute   int       `json:"per_minute"`
	PerHour     int       `json:"per_hour"`
	PerDay      int       `json:"per_day"`
}

// Governor decides whether a provider call may proceed. Safe for concurrent
// use; nothing blocks while holding the lock, callers sleep outside it.
type Governor struct {
	mu          sync.Mutex
	limits      Limits
	log         []time.Time // ascending, pruned to the last 24h
	pauseUntil  time.Time
	pauseReason string

	now func() time.Time
}

// New returns a governor with the given ceilings. Zero-value limits fall
// back to DefaultLimits.
func New(limits Limits) *Governor {
	if limits.PerMinute <= 0 {
		limits.PerMinute = DefaultLimits.PerMinute
	}
	if limits.PerHour <= 0 {
		limits.PerHour = DefaultLimits.PerHour
	}
	if limits.PerDay <= 0 {
		limits.PerDay = DefaultLimits.PerDay
	}
	return &Governor{limits: limits, now: time.Now}
}

// RecordRequest appends the current timestamp to the request log.
func (g *Governor) RecordRequest() {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	g.prune(now)
	g.log = append(g.log, now)
}

// ShouldWait returns 0 if a request may proceed now, otherwise the duration
// the caller must sleep before re-checking. An explicit pause takes
// precedence over the sliding-window math; otherwise the binding constraint
// is whichever window demands the longest wait.
func (g *Governor) ShouldWait() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()

	if now.Before(g.pauseUntil) {
		return g.pauseUntil.Sub(now)
	}

	g.prune(now)

	var wait time.Duration
	for _, w := range []struct {
		window time.Duration
		limit  int
	}{
		{time.Minute, g.limits.PerMinute},
		{time.Hour, g.limits.PerHour},
		{24 * time.Hour, g.limits.PerDay},
	} {
		if d := g.windowWait(now, w.window, w.limit); d > wait {
			wait = d
		}
	}
	return wait
}

// windowWait returns how long until enough entries fall out of the window
// for one more request to fit. Caller holds the lock.
func (g *Governor) windowWait(now time.Time, window time.Duration, limit int) time.Duration {
	cutoff := now.Add(-window)
	first := 0
	for first < len(g.log) && !g.log[first].After(cutoff) {
		first++
	}
	count := len(g.log) - first
	if count < limit {
		return 0
	}
	// The (count-limit+1) oldest in-window entries must expire first.
	blocking := g.log[first+count-limit]
	return blocking.Add(window).Sub(now)
}

// SetPaused establishes a hard do-not-call window, independent of the
// sliding-window math. Used when the provider itself signals throttling,
// which may be stricter than the local heuristic predicts.
func (g *Governor) SetPaused(d time.Duration, reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pauseUntil = g.now().Add(d)
	g.pauseReason = reason
}

// Resume clears an active pause. Operator action: used once the external
// limit is confirmed to have cleared.
func (g *Governor) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pauseUntil = time.Time{}
	g.pauseReason = ""
}

// Status reports pause state and per-window request counts.
func (g *Governor) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	g.prune(now)

	st := Status{
		Paused:    now.Before(g.pauseUntil),
		PerMinute: g.countSince(now.Add(-time.Minute)),
		PerHour:   g.countSince(now.Add(-time.Hour)),
		PerDay:    len(g.log),
	}
	if st.Paused {
		st.PauseUntil = g.pauseUntil
		st.PauseReason = g.pauseReason
	}
	return st
}

func (g *Governor) countSince(cutoff time.Time) int {
	n := 0
	for i := len(g.log) - 1; i >= 0; i-- {
		if !g.log[i].After(cutoff) {
			break
		}
		n++
	}
	return n
}

// prune drops entries older than the largest window. Caller holds the lock.
func (g *Governor) prune(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	first := 0
	for first < len(g.log) && !g.log[first].After(cutoff) {
		first++
	}
	if first > 0 {
		g.log = append(g.log[:0], g.log[first:]...)
	}
}
