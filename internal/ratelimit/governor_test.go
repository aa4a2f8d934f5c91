package ratelimit

import (
	"testing"
	"time"
)

// fakeClock drives the governor with a synthetic time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGovernor(limits Limits) (*Governor, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	g := New(limits)
	g.now = clock.now
	return g, clock
}

func TestGovernorAllowsUnderLimit(t *testing.T) {
	g, _ := newTestGovernor(Limits{PerMinute: 5, PerHour: 100, PerDay: 1000})
	for i := 0; i < 4; i++ {
		if wait := g.ShouldWait(); wait != 0 {
			t.Fatalf("request %d: ShouldWait() = %s, want 0", i, wait)
		}
		g.RecordRequest()
	}
}

func TestGovernorBlocksAtMinuteCeiling(t *testing.T) {
	g, clock := newTestGovernor(Limits{PerMinute: 3, PerHour: 100, PerDay: 1000})
	for i := 0; i < 3; i++ {
		g.RecordRequest()
		clock.advance(time.Second)
	}
	wait := g.ShouldWait()
	if wait <= 0 {
		t.Fatalf("ShouldWait() = %s, want > 0 at ceiling", wait)
	}
	// The oldest entry is 3s old; it falls out of the window after 57s.
	if want := 57 * time.Second; wait != want {
		t.Errorf("ShouldWait() = %s, want %s", wait, want)
	}
	clock.advance(wait)
	if wait := g.ShouldWait(); wait != 0 {
		t.Errorf("after waiting, ShouldWait() = %s, want 0", wait)
	}
}

func TestGovernorHourCeilingBinds(t *testing.T) {
	g, clock := newTestGovernor(Limits{PerMinute: 100, PerHour: 10, PerDay: 1000})
	for i := 0; i < 10; i++ {
		g.RecordRequest()
		clock.advance(2 * time.Minute)
	}
	// Per-minute window is clear but the hour window is full.
	if wait := g.ShouldWait(); wait <= 0 {
		t.Errorf("ShouldWait() = %s, want > 0 when hour ceiling binds", wait)
	}
}

// Driving the governor as fast as ShouldWait permits must never exceed any
// configured ceiling in any sliding window.
func TestGovernorNeverExceedsCeilings(t *testing.T) {
	limits := Limits{PerMinute: 3, PerHour: 8, PerDay: 1000}
	g, clock := newTestGovernor(limits)

	var recorded []time.Time
	countWindow := func(now time.Time, window time.Duration) int {
		n := 0
		for _, ts := range recorded {
			if ts.After(now.Add(-window)) {
				n++
			}
		}
		return n
	}

	for i := 0; i < 40; i++ {
		for {
			wait := g.ShouldWait()
			if wait == 0 {
				break
			}
			clock.advance(wait)
		}
		g.RecordRequest()
		recorded = append(recorded, clock.t)

		if n := countWindow(clock.t, time.Minute); n > limits.PerMinute {
			t.Fatalf("request %d: %d requests in a minute window, ceiling %d", i, n, limits.PerMinute)
		}
		if n := countWindow(clock.t, time.Hour); n > limits.PerHour {
			t.Fatalf("request %d: %d requests in an hour window, ceiling %d", i, n, limits.PerHour)
		}
		clock.advance(100 * time.Millisecond)
	}
}

func TestGovernorPause(t *testing.T) {
	g, clock := newTestGovernor(Limits{PerMinute: 100, PerHour: 100, PerDay: 100})

	g.SetPaused(15*time.Minute, "provider throttling")
	wait := g.ShouldWait()
	if wait != 15*time.Minute {
		t.Errorf("ShouldWait() = %s, want 15m during pause", wait)
	}

	st := g.Status()
	if !st.Paused || st.PauseReason != "provider throttling" {
		t.Errorf("Status() = %+v, want paused with reason", st)
	}

	clock.advance(20 * time.Minute)
	if wait := g.ShouldWait(); wait != 0 {
		t.Errorf("ShouldWait() = %s after pause expiry, want 0", wait)
	}
	if st := g.Status(); st.Paused {
		t.Errorf("Status().Paused = true after expiry")
	}
}

func TestGovernorResumeClearsPause(t *testing.T) {
	g, _ := newTestGovernor(Limits{PerMinute: 100, PerHour: 100, PerDay: 100})
	g.SetPaused(time.Hour, "manual test")
	g.Resume()
	if wait := g.ShouldWait(); wait != 0 {
		t.Errorf("ShouldWait() = %s after Resume, want 0", wait)
	}
}

func TestGovernorStatusCounts(t *testing.T) {
	g, clock := newTestGovernor(Limits{PerMinute: 100, PerHour: 100, PerDay: 100})
	g.RecordRequest()
	g.RecordRequest()
	clock.advance(2 * time.Minute)
	g.RecordRequest()

	st := g.Status()
	if st.PerMinute != 1 {
		t.Errorf("PerMinute = %d, want 1", st.PerMinute)
	}
	if st.PerHour != 3 {
		t.Errorf("PerHour = %d, want 3", st.PerHour)
	}
	if st.PerDay != 3 {
		t.Errorf("PerDay = %d, want 3", st.PerDay)
	}
}

func TestGovernorPruneDropsOldEntries(t *testing.T) {
	g, clock := newTestGovernor(Limits{PerMinute: 100, PerHour: 100, PerDay: 100})
	g.RecordRequest()
	clock.advance(25 * time.Hour)
	g.RecordRequest()

	if st := g.Status(); st.PerDay != 1 {
		t.Errorf("PerDay = %d after prune, want 1", st.PerDay)
	}
}
