package memory

import (
	"context"
	"sync"

	"github.com/domainops/domainops/domain"
	"github.com/domainops/domainops/domain/model"
)

type JobStateRepository struct {
	mu     sync.RWMutex
	states map[model.JobKind]*model.SyncJobState
}

func NewJobStateRepository() *JobStateRepository {
	return &JobStateRepository{states: make(map[model.JobKind]*model.SyncJobState)}
}

func (r *JobStateRepository) Save(_ context.Context, s *model.SyncJobState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[s.Kind] = s.Clone()
	return nil
}

func (r *JobStateRepository) Load(_ context.Context, kind model.JobKind) (*model.SyncJobState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.states[kind]
	if !ok {
		return nil, model.ErrJobNotFound
	}
	return s.Clone(), nil
}

var _ domain.JobStateRepository = (*JobStateRepository)(nil)
