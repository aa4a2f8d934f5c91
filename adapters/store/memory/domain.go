package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/domainops/domainops/domain"
	"github.com/domainops/domainops/domain/model"
)

type DomainRepository struct {
	mu      sync.RWMutex
	entries map[string]*model.DomainEntry
	nextNum int
}

func NewDomainRepository() *DomainRepository {
	return &DomainRepository{entries: make(map[string]*model.DomainEntry), nextNum: 1}
}

func (r *DomainRepository) Upsert(_ context.Context, e *model.DomainEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.entries[e.Name]; ok {
		existing.UpdatedAt = now
		e.Number = existing.Number
		e.Client = existing.Client
		return nil
	}
	cp := *e
	cp.Number = r.nextNum
	if cp.SyncStatus == "" {
		cp.SyncStatus = model.SyncStateUnchanged
	}
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.nextNum++
	r.entries[e.Name] = &cp
	e.Number = cp.Number
	return nil
}

func (r *DomainRepository) Get(_ context.Context, name string) (*model.DomainEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, model.ErrDomainNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *DomainRepository) List(_ context.Context) ([]*model.DomainEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.DomainEntry, 0, len(r.entries))
	for _, e := range r.entries {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *DomainRepository) SetSyncStatus(_ context.Context, name string, status model.SyncState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return model.ErrDomainNotFound
	}
	e.SyncStatus = status
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *DomainRepository) AssignClient(_ context.Context, name, client string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return model.ErrDomainNotFound
	}
	e.Client = client
	e.UpdatedAt = time.Now().UTC()
	return nil
}

var _ domain.DomainRepository = (*DomainRepository)(nil)
