package domain

import (
	"context"

	"github.com/domainops/domainops/domain/model"
)

// SnapshotRepository stores versioned per-domain record set snapshots.
type SnapshotRepository interface {
	// Backup atomically marks any existing current snapshot for the domain
	// as not-current and inserts the new set as current.
	Backup(ctx context.Context, domain string, records []model.DNSRecord) (*model.RecordSetSnapshot, error)
	// CurrentRecords returns the records of the current snapshot, or
	// model.ErrSnapshotNotFound.
	CurrentRecords(ctx context.Context, domain string) ([]model.DNSRecord, error)
	// History returns snapshot metadata, newest first, up to limit.
	History(ctx context.Context, domain string, limit int) ([]model.SnapshotMeta, error)
}

// DomainRepository stores the local domain inventory.
type DomainRepository interface {
	// Upsert inserts the entry or refreshes an existing one. An existing
	// entry keeps its number and client tag; a new entry is assigned the
	// next free number.
	Upsert(ctx context.Context, e *model.DomainEntry) error
	Get(ctx context.Context, name string) (*model.DomainEntry, error)
	// List returns all entries ordered by number.
	List(ctx context.Context) ([]*model.DomainEntry, error)
	SetSyncStatus(ctx context.Context, name string, status model.SyncState) error
	AssignClient(ctx context.Context, name, client string) error
}

// JobStateRepository persists bulk job state, one row per job kind. State is
// saved on every transition and after every item so a rate-limited run can
// be inspected and explicitly resumed after a restart; it is never resumed
// automatically.
type JobStateRepository interface {
	Save(ctx context.Context, s *model.SyncJobState) error
	Load(ctx context.Context, kind model.JobKind) (*model.SyncJobState, error)
}
