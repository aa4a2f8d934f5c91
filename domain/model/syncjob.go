package model

import "time"

// JobKind identifies a bulk job type. At most one job per kind may be
// Running or RateLimited at a time.
type JobKind string

const (
	JobKindFullSync   JobKind = "full-sync"
	JobKindRedirect   JobKind = "redirect"
	JobKindForwarding JobKind = "forwarding"
)

// JobStatus is the bulk job state machine position.
type JobStatus string

const (
	JobStatusIdle        JobStatus = "idle"
	JobStatusStarting    JobStatus = "starting"
	JobStatusRunning     JobStatus = "running"
	JobStatusCompleted   JobStatus = "completed"
	JobStatusStopped     JobStatus = "stopped"
	JobStatusError       JobStatus = "error"
	JobStatusRateLimited JobStatus = "rate_limited"
)

// Active reports whether a job in this status occupies its kind's
// single-flight slot.
func (s JobStatus) Active() bool {
	return s == JobStatusStarting || s == JobStatusRunning || s == JobStatusRateLimited
}

// Resumable reports whether resuming is meaningful. Only an involuntary
// rate-limit pause preserves resumability; an operator stop requires a
// fresh job.
func (s JobStatus) Resumable() bool {
	return s == JobStatusRateLimited
}

// ItemError records one per-domain failure inside a bulk run.
type ItemError struct {
	Domain  string    `json:"domain"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// MaxRecentErrors bounds the per-job error list kept for reporting.
// The running total is unbounded.
const MaxRecentErrors = 10

// SyncJobState is the resumability contract for a bulk run. Domains is the
// frozen ordered list captured once at job start; Cursor is the index of the
// next unprocessed item. On a rate-limit pause the cursor freezes at the
// index of the item that triggered the pause, so that item is retried, not
// skipped, on resume.
type SyncJobState struct {
	ID              string      `json:"id"`
	Kind            JobKind     `json:"kind"`
	Status          JobStatus   `json:"status"`
	Domains         []string    `json:"domains"`
	Cursor          int         `json:"cursor"`
	CurrentDomain   string      `json:"current_domain"`
	Added           int         `json:"counters_added"`
	Updated         int         `json:"counters_updated"`
	Errors          int         `json:"counters_errors"`
	LastError       string      `json:"last_error,omitempty"`
	RecentErrors    []ItemError `json:"recent_errors,omitempty"`
	PauseUntil      time.Time   `json:"pause_until,omitempty"` // advisory only
	RateLimitReason string      `json:"rate_limit_reason,omitempty"`
	StartedAt       time.Time   `json:"started_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Total returns the frozen domain count.
func (s *SyncJobState) Total() int { return len(s.Domains) }

// RecordItemError appends a bounded per-domain error and bumps counters.
func (s *SyncJobState) RecordItemError(domain, msg string, at time.Time) {
	s.Errors++
	s.LastError = msg
	s.RecentErrors = append(s.RecentErrors, ItemError{Domain: domain, Message: msg, At: at})
	if len(s.RecentErrors) > MaxRecentErrors {
		s.RecentErrors = s.RecentErrors[len(s.RecentErrors)-MaxRecentErrors:]
	}
}

// Clone returns a deep copy safe to hand to readers while the worker keeps
// mutating the original.
func (s *SyncJobState) Clone() *SyncJobState {
	cp := *s
	cp.Domains = append([]string(nil), s.Domains...)
	cp.RecentErrors = append([]ItemError(nil), s.RecentErrors...)
	return &cp
}
