package model

import "time"

// RecordSetSnapshot is a durable copy of a domain's complete record set at a
// point in time. Snapshots are append-only history; writing a new one flips
// the previous current snapshot to not-current, it never mutates or deletes.
type RecordSetSnapshot struct {
	ID         string
	Domain     string
	Records    []DNSRecord
	CapturedAt time.Time
	Current    bool
}

// SnapshotMeta is the audit-display view of a snapshot: when it was taken
// and how many records it held, without the payload.
type SnapshotMeta struct {
	ID          string
	Domain      string
	CapturedAt  time.Time
	RecordCount int
	Current     bool
}
