package model

import (
	"testing"
	"time"
)

func TestJobStatusActive(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobStatusIdle, false},
		{JobStatusStarting, true},
		{JobStatusRunning, true},
		{JobStatusRateLimited, true},
		{JobStatusCompleted, false},
		{JobStatusStopped, false},
		{JobStatusError, false},
	}
	for _, tt := range tests {
		if got := tt.status.Active(); got != tt.want {
			t.Errorf("%s.Active() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestJobStatusResumable(t *testing.T) {
	for _, s := range []JobStatus{JobStatusIdle, JobStatusStarting, JobStatusRunning, JobStatusCompleted, JobStatusStopped, JobStatusError} {
		if s.Resumable() {
			t.Errorf("%s.Resumable() = true, want false", s)
		}
	}
	if !JobStatusRateLimited.Resumable() {
		t.Error("rate_limited.Resumable() = false, want true")
	}
}

func TestRecordItemErrorBounded(t *testing.T) {
	s := &SyncJobState{}
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxRecentErrors+5; i++ {
		s.RecordItemError("example.com", "boom", at)
	}
	if s.Errors != MaxRecentErrors+5 {
		t.Errorf("Errors = %d, want %d", s.Errors, MaxRecentErrors+5)
	}
	if len(s.RecentErrors) != MaxRecentErrors {
		t.Errorf("len(RecentErrors) = %d, want %d", len(s.RecentErrors), MaxRecentErrors)
	}
}

func TestSyncJobStateClone(t *testing.T) {
	s := &SyncJobState{
		Kind:    JobKindFullSync,
		Status:  JobStatusRunning,
		Domains: []string{"a.test", "b.test"},
		Cursor:  1,
	}
	s.RecordItemError("a.test", "boom", time.Now())

	cp := s.Clone()
	cp.Domains[0] = "mutated.test"
	cp.RecentErrors[0].Domain = "mutated.test"
	cp.Cursor = 99

	if s.Domains[0] != "a.test" || s.RecentErrors[0].Domain != "a.test" || s.Cursor != 1 {
		t.Errorf("Clone() shares state with original: %+v", s)
	}
}
