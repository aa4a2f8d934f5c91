// Package sync implements resumable bulk jobs over the domain portfolio:
// full record-set sync, bulk redirect updates, and bulk email forwarding.
// Each job kind is single-flight and survives rate-limit pauses through a
// persisted cursor.
package sync

import (
	"context"
	"time"

	"github.com/domainops/domainops/domain"
	"github.com/domainops/domainops/domain/model"
	"github.com/domainops/domainops/usecase/redirect"
)

// Repos bundles repository dependencies used by sync use cases.
type Repos struct {
	Snapshot domain.SnapshotRepository
	Domain   domain.DomainRepository
	JobState domain.JobStateRepository
}

// UseCase provides application logic for bulk jobs. One UseCase owns all job
// kinds; each kind gets at most one live runner.
type UseCase struct {
	Repos     *Repos
	Registrar model.RegistrarPort

	// Redirect performs the per-domain safe update for redirect jobs.
	Redirect *redirect.UseCase

	// RetryAttempts and RetryInterval bound per-item retries of transient
	// gateway failures before the item is recorded as failed.
	RetryAttempts int
	RetryInterval time.Duration

	// BaseItemDelay seeds the progressive delay inserted between items.
	// Zero means DefaultBaseItemDelay.
	BaseItemDelay time.Duration

	// PageSize and MaxPages bound the registrar domain-list traversal.
	PageSize int
	MaxPages int

	// Sleep is swapped out in tests. Nil means a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	runners runnerSet
}

const (
	DefaultBaseItemDelay = 500 * time.Millisecond
	DefaultRetryAttempts = 3
	DefaultRetryInterval = 2 * time.Second
	DefaultPageSize      = 100

	// MaxListPages is the hard safety cap on domain-list pagination. Hitting
	// it is an error, never a silent truncation.
	MaxListPages = 20
)

func (u *UseCase) sleep(ctx context.Context, d time.Duration) error {
	if u.Sleep != nil {
		return u.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
