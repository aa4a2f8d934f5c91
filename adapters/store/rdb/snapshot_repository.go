package rdb

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/domainops/domainops/domain"
	"github.com/domainops/domainops/domain/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SnapshotRepository struct{ db *gorm.DB }

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository { return &SnapshotRepository{db: db} }

// Backup inserts the new snapshot as current and flips any previous current
// snapshot for the domain, in one transaction. Insert-then-flip ordering: a
// crash mid-write can leave two current rows at worst inside an aborted
// transaction, never zero snapshots.
func (r *SnapshotRepository) Backup(ctx context.Context, domainName string, records []model.DNSRecord) (*model.RecordSetSnapshot, error) {
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, &model.RepositoryError{Op: "backup", Err: err}
	}

	rec := &SnapshotRecord{
		ID:          "snap-" + uuid.NewString(),
		Domain:      domainName,
		Records:     string(payload),
		RecordCount: len(records),
		Current:     true,
		CapturedAt:  time.Now().UTC(),
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		return tx.Model(&SnapshotRecord{}).
			Where("domain = ? AND is_current = ? AND id <> ?", domainName, true, rec.ID).
			Update("is_current", false).Error
	})
	if err != nil {
		return nil, &model.RepositoryError{Op: "backup", Err: err}
	}

	return snapshotToModel(rec, records), nil
}

// CurrentRecords returns the records of the current snapshot for a domain.
func (r *SnapshotRepository) CurrentRecords(ctx context.Context, domainName string) ([]model.DNSRecord, error) {
	var rec SnapshotRecord
	err := r.db.WithContext(ctx).
		Where("domain = ? AND is_current = ?", domainName, true).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, &model.RepositoryError{Op: "current", Err: err}
	}

	var records []model.DNSRecord
	if err := json.Unmarshal([]byte(rec.Records), &records); err != nil {
		return nil, &model.RepositoryError{Op: "current", Err: err}
	}
	return records, nil
}

// History returns snapshot metadata for a domain, newest first.
func (r *SnapshotRepository) History(ctx context.Context, domainName string, limit int) ([]model.SnapshotMeta, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []SnapshotRecord
	err := r.db.WithContext(ctx).
		Select("id", "domain", "record_count", "is_current", "captured_at").
		Where("domain = ?", domainName).
		Order("captured_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, &model.RepositoryError{Op: "history", Err: err}
	}

	out := make([]model.SnapshotMeta, 0, len(recs))
	for _, rec := range recs {
		out = append(out, model.SnapshotMeta{
			ID:          rec.ID,
			Domain:      rec.Domain,
			CapturedAt:  rec.CapturedAt,
			RecordCount: rec.RecordCount,
			Current:     rec.Current,
		})
	}
	return out, nil
}

func snapshotToModel(rec *SnapshotRecord, records []model.DNSRecord) *model.RecordSetSnapshot {
	return &model.RecordSetSnapshot{
		ID:         rec.ID,
		Domain:     rec.Domain,
		Records:    records,
		CapturedAt: rec.CapturedAt,
		Current:    rec.Current,
	}
}

var _ domain.SnapshotRepository = (*SnapshotRepository)(nil)
