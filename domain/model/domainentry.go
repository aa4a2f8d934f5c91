package model

import "time"

// SyncState marks the outcome of the most recent sync touching a domain.
type SyncState string

const (
	SyncStateUnchanged SyncState = "unchanged"
	SyncStateAdded     SyncState = "added"
	SyncStateUpdated   SyncState = "updated"
	SyncStateError     SyncState = "error"
)

// DomainEntry is one portfolio domain in the local inventory. Number is a
// stable, monotonically assigned ordinal that survives re-imports; the
// client tag groups domains for reporting and stays with the entry when the
// portfolio is re-pulled from the registrar.
type DomainEntry struct {
	Number     int
	Name       string
	Client     string
	SyncStatus SyncState
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
