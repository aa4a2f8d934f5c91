package rdb

import (
	"context"
	"errors"
	"time"

	"github.com/domainops/domainops/domain"
	"github.com/domainops/domainops/domain/model"
	"gorm.io/gorm"
)

type DomainRepository struct{ db *gorm.DB }

func NewDomainRepository(db *gorm.DB) *DomainRepository { return &DomainRepository{db: db} }

func domainToModel(rec *DomainRecord) *model.DomainEntry {
	return &model.DomainEntry{
		Number:     rec.Number,
		Name:       rec.Name,
		Client:     rec.Client,
		SyncStatus: model.SyncState(rec.SyncStatus),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}

// Upsert inserts a new inventory entry or refreshes an existing one. An
// existing entry keeps its number and client tag across re-imports.
func (r *DomainRepository) Upsert(ctx context.Context, e *model.DomainEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec DomainRecord
		err := tx.Where("name = ?", e.Name).First(&rec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			status := string(e.SyncStatus)
			if status == "" {
				status = string(model.SyncStateUnchanged)
			}
			rec = DomainRecord{Name: e.Name, Client: e.Client, SyncStatus: status}
			if err := tx.Create(&rec).Error; err != nil {
				return &model.RepositoryError{Op: "upsert", Err: err}
			}
		case err != nil:
			return &model.RepositoryError{Op: "upsert", Err: err}
		default:
			if err := tx.Model(&rec).Update("updated_at", time.Now().UTC()).Error; err != nil {
				return &model.RepositoryError{Op: "upsert", Err: err}
			}
		}
		e.Number = rec.Number
		e.Client = rec.Client
		return nil
	})
}

func (r *DomainRepository) Get(ctx context.Context, name string) (*model.DomainEntry, error) {
	var rec DomainRecord
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrDomainNotFound
		}
		return nil, &model.RepositoryError{Op: "get", Err: err}
	}
	return domainToModel(&rec), nil
}

func (r *DomainRepository) List(ctx context.Context) ([]*model.DomainEntry, error) {
	var recs []DomainRecord
	if err := r.db.WithContext(ctx).Order("number ASC").Find(&recs).Error; err != nil {
		return nil, &model.RepositoryError{Op: "list", Err: err}
	}
	out := make([]*model.DomainEntry, 0, len(recs))
	for i := range recs {
		out = append(out, domainToModel(&recs[i]))
	}
	return out, nil
}

func (r *DomainRepository) SetSyncStatus(ctx context.Context, name string, status model.SyncState) error {
	res := r.db.WithContext(ctx).Model(&DomainRecord{}).
		Where("name = ?", name).
		Updates(map[string]any{"sync_status": string(status), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return &model.RepositoryError{Op: "set-sync-status", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return model.ErrDomainNotFound
	}
	return nil
}

func (r *DomainRepository) AssignClient(ctx context.Context, name, client string) error {
	res := r.db.WithContext(ctx).Model(&DomainRecord{}).
		Where("name = ?", name).
		Updates(map[string]any{"client": client, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return &model.RepositoryError{Op: "assign-client", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return model.ErrDomainNotFound
	}
	return nil
}

var _ domain.DomainRepository = (*DomainRepository)(nil)
