package rdb

import "time"

// SnapshotRecord is the RDB persistence model for domain RecordSetSnapshot.
// History is append-only: rows are inserted and flipped, never updated in
// place or deleted. At most one row per domain has current = true.
// Table name: record_set_snapshots
type SnapshotRecord struct {
	ID          string    `gorm:"primaryKey;type:text;not null"`
	Domain      string    `gorm:"type:text;not null;index:idx_snapshots_domain"`
	Records     string    `gorm:"type:text;not null"` // JSON encoded []model.DNSRecord
	RecordCount int       `gorm:"not null"`
	Current     bool      `gorm:"column:is_current;not null;index:idx_snapshots_domain"`
	CapturedAt  time.Time `gorm:"not null"`
}

func (SnapshotRecord) TableName() string { return "record_set_snapshots" }

// DomainRecord is the persistence model for the domain inventory. The
// autoincrement primary key doubles as the stable portfolio number.
// Table name: domains
type DomainRecord struct {
	Number     int       `gorm:"primaryKey;autoIncrement"`
	Name       string    `gorm:"type:text;not null;uniqueIndex"`
	Client     string    `gorm:"type:text"`
	SyncStatus string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (DomainRecord) TableName() string { return "domains" }

// JobStateRecord is the persistence model for bulk job state, one row per
// job kind.
// Table name: sync_job_states
type JobStateRecord struct {
	Kind            string    `gorm:"primaryKey;type:text;not null"`
	ID              string    `gorm:"type:text;not null"`
	Status          string    `gorm:"type:text;not null"`
	Domains         string    `gorm:"type:text"` // JSON encoded []string
	Cursor          int       `gorm:"not null"`
	CurrentDomain   string    `gorm:"type:text"`
	Added           int       `gorm:"not null"`
	Updated         int       `gorm:"not null"`
	Errors          int       `gorm:"not null"`
	LastError       string    `gorm:"type:text"`
	RecentErrors    string    `gorm:"type:text"` // JSON encoded []model.ItemError
	PauseUntil      time.Time
	RateLimitReason string    `gorm:"type:text"`
	StartedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (JobStateRecord) TableName() string { return "sync_job_states" }
