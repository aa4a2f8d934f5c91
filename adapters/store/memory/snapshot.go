// Package memory provides thread-safe in-memory repository implementations,
// used by tests and by ephemeral runs that do not need durable history.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/domainops/domainops/domain"
	"github.com/domainops/domainops/domain/model"
)

type SnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[string][]*model.RecordSetSnapshot // domain -> history, newest last
	seq       int64
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{snapshots: make(map[string][]*model.RecordSetSnapshot)}
}

func (r *SnapshotRepository) Backup(_ context.Context, domainName string, records []model.DNSRecord) (*model.RecordSetSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++

	for _, s := range r.snapshots[domainName] {
		s.Current = false
	}
	snap := &model.RecordSetSnapshot{
		ID:         fmt.Sprintf("snap-%d", r.seq),
		Domain:     domainName,
		Records:    append([]model.DNSRecord(nil), records...),
		CapturedAt: time.Now().UTC(),
		Current:    true,
	}
	r.snapshots[domainName] = append(r.snapshots[domainName], snap)
	return snap, nil
}

func (r *SnapshotRepository) CurrentRecords(_ context.Context, domainName string) ([]model.DNSRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	history := r.snapshots[domainName]
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Current {
			return append([]model.DNSRecord(nil), history[i].Records...), nil
		}
	}
	return nil, model.ErrSnapshotNotFound
}

func (r *SnapshotRepository) History(_ context.Context, domainName string, limit int) ([]model.SnapshotMeta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 {
		limit = 20
	}
	history := r.snapshots[domainName]
	out := make([]model.SnapshotMeta, 0, limit)
	for i := len(history) - 1; i >= 0 && len(out) < limit; i-- {
		s := history[i]
		out = append(out, model.SnapshotMeta{
			ID:          s.ID,
			Domain:      s.Domain,
			CapturedAt:  s.CapturedAt,
			RecordCount: len(s.Records),
			Current:     s.Current,
		})
	}
	return out, nil
}

var _ domain.SnapshotRepository = (*SnapshotRepository)(nil)
