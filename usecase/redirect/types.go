// Package redirect implements the safe redirect update flow: fetch ground
// truth, back it up, merge the new redirect in, back up the merged set, write
// the full replacement, then verify by re-reading.
package redirect

import (
	"context"
	"time"

	"github.com/domainops/domainops/domain"
	"github.com/domainops/domainops/domain/model"
)

// Repos bundles repository dependencies used by redirect use cases.
type Repos struct {
	Snapshot domain.SnapshotRepository
	Domain   domain.DomainRepository
}

// UseCase provides application logic for redirect operations.
type UseCase struct {
	Repos     *Repos
	Registrar model.RegistrarPort

	// IsParking decides which placeholder records the merge may drop.
	// Nil means the default parking predicate.
	IsParking model.ParkingPredicate

	// PropagationWait is how long to wait between the replace write and the
	// verification re-read. Zero means DefaultPropagationWait.
	PropagationWait time.Duration

	// RetryAttempts and RetryInterval bound retries of transient gateway
	// failures. Rate-limit signals are never retried here; they escalate.
	RetryAttempts int
	RetryInterval time.Duration

	// Sleep is swapped out in tests. Nil means a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

const (
	// DefaultPropagationWait matches the provider's typical settle time
	// before a just-written host set is visible on reads.
	DefaultPropagationWait = 5 * time.Second

	DefaultRetryAttempts = 3
	DefaultRetryInterval = 2 * time.Second
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
