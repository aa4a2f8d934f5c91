package rdb

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/domainops/domainops/domain"
	"github.com/domainops/domainops/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobStateRepository struct{ db *gorm.DB }

func NewJobStateRepository(db *gorm.DB) *JobStateRepository { return &JobStateRepository{db: db} }

// Save upserts the state row for the job's kind.
func (r *JobStateRepository) Save(ctx context.Context, s *model.SyncJobState) error {
	domains, err := json.Marshal(s.Domains)
	if err != nil {
		return &model.RepositoryError{Op: "save-job", Err: err}
	}
	recent, err := json.Marshal(s.RecentErrors)
	if err != nil {
		return &model.RepositoryError{Op: "save-job", Err: err}
	}

	rec := &JobStateRecord{
		Kind:            string(s.Kind),
		ID:              s.ID,
		Status:          string(s.Status),
		Domains:         string(domains),
		Cursor:          s.Cursor,
		CurrentDomain:   s.CurrentDomain,
		Added:           s.Added,
		Updated:         s.Updated,
		Errors:          s.Errors,
		LastError:       s.LastError,
		RecentErrors:    string(recent),
		PauseUntil:      s.PauseUntil,
		RateLimitReason: s.RateLimitReason,
		StartedAt:       s.StartedAt,
		UpdatedAt:       time.Now().UTC(),
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "kind"}}, UpdateAll: true}).
		Create(rec).Error
	if err != nil {
		return &model.RepositoryError{Op: "save-job", Err: err}
	}
	return nil
}

// Load returns the persisted state for a job kind.
func (r *JobStateRepository) Load(ctx context.Context, kind model.JobKind) (*model.SyncJobState, error) {
	var rec JobStateRecord
	if err := r.db.WithContext(ctx).Where("kind = ?", string(kind)).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrJobNotFound
		}
		return nil, &model.RepositoryError{Op: "load-job", Err: err}
	}

	s := &model.SyncJobState{
		ID:              rec.ID,
		Kind:            model.JobKind(rec.Kind),
		Status:          model.JobStatus(rec.Status),
		Cursor:          rec.Cursor,
		CurrentDomain:   rec.CurrentDomain,
		Added:           rec.Added,
		Updated:         rec.Updated,
		Errors:          rec.Errors,
		LastError:       rec.LastError,
		PauseUntil:      rec.PauseUntil,
		RateLimitReason: rec.RateLimitReason,
		StartedAt:       rec.StartedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
	if rec.Domains != "" {
		if err := json.Unmarshal([]byte(rec.Domains), &s.Domains); err != nil {
			return nil, &model.RepositoryError{Op: "load-job", Err: err}
		}
	}
	if rec.RecentErrors != "" {
		if err := json.Unmarshal([]byte(rec.RecentErrors), &s.RecentErrors); err != nil {
			return nil, &model.RepositoryError{Op: "load-job", Err: err}
		}
	}
	return s, nil
}

var _ domain.JobStateRepository = (*JobStateRepository)(nil)
