package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/domainops/domainops/domain/model"
	"github.com/domainops/domainops/internal/logging"
	"github.com/google/uuid"
)

type itemOutcome int

const (
	outcomeAdded itemOutcome = iota
	outcomeUpdated
	outcomeUnchanged
)

// itemOp processes one domain of a bulk run.
type itemOp func(ctx context.Context, domainName string) (itemOutcome, error)

// runner owns the single-flight slot and worker goroutine of one job kind.
type runner struct {
	u    *UseCase
	kind model.JobKind

	mu            sync.Mutex
	state         *model.SyncJobState
	op            itemOp
	stopRequested bool
	done          chan struct{}
}

type runnerSet struct {
	mu sync.Mutex
	m  map[model.JobKind]*runner
}

func (u *UseCase) runner(kind model.JobKind) *runner {
	u.runners.mu.Lock()
	defer u.runners.mu.Unlock()
	if u.runners.m == nil {
		u.runners.m = make(map[model.JobKind]*runner)
	}
	r, ok := u.runners.m[kind]
	if !ok {
		r = &runner{u: u, kind: kind}
		u.runners.m[kind] = r
	}
	return r
}

// start claims the kind's single-flight slot, freezes the domain list, and
// spawns the worker. The frozen list never changes for the lifetime of the
// job; domains added to the account mid-run wait for the next job.
func (r *runner) start(ctx context.Context, domains []string, op itemOp) (*model.SyncJobState, error) {
	now := time.Now().UTC()
	r.mu.Lock()
	if r.state != nil && r.state.Status.Active() {
		r.mu.Unlock()
		return nil, model.ErrJobAlreadyRunning
	}
	st := &model.SyncJobState{
		ID:        "job-" + uuid.NewString(),
		Kind:      r.kind,
		Status:    model.JobStatusStarting,
		StartedAt: now,
		UpdatedAt: now,
	}
	r.state = st
	r.op = op
	r.stopRequested = false
	r.mu.Unlock()

	list, err := r.u.resolveDomains(ctx, domains)
	if err != nil {
		r.mu.Lock()
		st.Status = model.JobStatusError
		st.LastError = err.Error()
		st.UpdatedAt = time.Now().UTC()
		r.mu.Unlock()
		r.persist(ctx)
		return nil, err
	}

	r.mu.Lock()
	st.Domains = list
	st.Status = model.JobStatusRunning
	st.UpdatedAt = time.Now().UTC()
	snapshot := st.Clone()
	r.mu.Unlock()
	r.persist(ctx)

	r.spawn(ctx)
	return snapshot, nil
}

// resume reopens a rate-limited run at its frozen cursor. The item that
// triggered the pause is processed again, so items are at-least-once.
func (r *runner) resume(ctx context.Context) (*model.SyncJobState, error) {
	r.mu.Lock()
	if r.state == nil || !r.state.Status.Resumable() || r.op == nil {
		r.mu.Unlock()
		return nil, model.ErrJobNotResumable
	}
	st := r.state
	st.Status = model.JobStatusRunning
	st.RateLimitReason = ""
	st.PauseUntil = time.Time{}
	st.UpdatedAt = time.Now().UTC()
	r.stopRequested = false
	snapshot := st.Clone()
	r.mu.Unlock()
	r.persist(ctx)

	r.spawn(ctx)
	return snapshot, nil
}

// stop requests a graceful halt after the in-flight item. Stopping a
// rate-limited job closes it immediately and forfeits resumability.
func (r *runner) stop(ctx context.Context) (*model.SyncJobState, error) {
	r.mu.Lock()
	if r.state == nil || !r.state.Status.Active() {
		r.mu.Unlock()
		return nil, model.ErrJobNotFound
	}
	if r.state.Status == model.JobStatusRateLimited {
		r.state.Status = model.JobStatusStopped
		r.state.UpdatedAt = time.Now().UTC()
		snapshot := r.state.Clone()
		r.mu.Unlock()
		r.persist(ctx)
		return snapshot, nil
	}
	r.stopRequested = true
	snapshot := r.state.Clone()
	r.mu.Unlock()
	return snapshot, nil
}

func (r *runner) progress() *model.SyncJobState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return &model.SyncJobState{Kind: r.kind, Status: model.JobStatusIdle}
	}
	return r.state.Clone()
}

// spawn detaches the worker from the caller's cancellation; an HTTP request
// finishing must not kill the run it started.
func (r *runner) spawn(ctx context.Context) {
	wctx := context.WithoutCancel(ctx)
	done := make(chan struct{})
	r.mu.Lock()
	r.done = done
	r.mu.Unlock()
	go func() {
		defer close(done)
		r.run(wctx)
	}()
}

// wait blocks until the worker goroutine exits. Test hook.
func (r *runner) wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (r *runner) run(ctx context.Context) {
	log := logging.FromContext(ctx).With("job", string(r.kind))
	for {
		r.mu.Lock()
		st := r.state
		if r.stopRequested {
			st.Status = model.JobStatusStopped
			st.CurrentDomain = ""
			st.UpdatedAt = time.Now().UTC()
			r.mu.Unlock()
			r.persist(ctx)
			log.Info(ctx, "job stopped", "cursor", st.Cursor)
			return
		}
		if st.Cursor >= len(st.Domains) {
			st.Status = model.JobStatusCompleted
			st.CurrentDomain = ""
			st.UpdatedAt = time.Now().UTC()
			r.mu.Unlock()
			r.persist(ctx)
			log.Info(ctx, "job completed", "added", st.Added, "updated", st.Updated, "errors", st.Errors)
			return
		}
		name := st.Domains[st.Cursor]
		st.CurrentDomain = name
		errCount := st.Errors
		processed := st.Cursor
		op := r.op
		r.mu.Unlock()

		outcome, err := r.processItem(ctx, op, name)
		now := time.Now().UTC()
		if err != nil {
			var rl *model.RateLimitedError
			if errors.As(err, &rl) {
				// Freeze the cursor at the triggering item so resume
				// retries it instead of skipping it.
				r.mu.Lock()
				st.Status = model.JobStatusRateLimited
				st.RateLimitReason = rl.Reason
				if rl.RetryAfter > 0 {
					st.PauseUntil = now.Add(rl.RetryAfter)
				}
				st.UpdatedAt = now
				r.mu.Unlock()
				r.persist(ctx)
				log.Warn(ctx, "job paused by rate limit", "domain", name, "cursor", processed, "reason", rl.Reason)
				return
			}
			r.mu.Lock()
			st.RecordItemError(name, err.Error(), now)
			errCount = st.Errors
			r.mu.Unlock()
			if r.u.Repos.Domain != nil {
				_ = r.u.Repos.Domain.SetSyncStatus(ctx, name, model.SyncStateError)
			}
			log.Warn(ctx, "item failed", "domain", name, "error", err)
		} else {
			r.mu.Lock()
			switch outcome {
			case outcomeAdded:
				st.Added++
			case outcomeUpdated:
				st.Updated++
			}
			r.mu.Unlock()
		}

		r.mu.Lock()
		st.Cursor++
		st.UpdatedAt = time.Now().UTC()
		r.mu.Unlock()
		r.persist(ctx)

		if err := r.u.sleep(ctx, interItemDelay(r.u.baseItemDelay(), errCount, processed)); err != nil {
			r.mu.Lock()
			st.Status = model.JobStatusError
			st.LastError = err.Error()
			st.UpdatedAt = time.Now().UTC()
			r.mu.Unlock()
			r.persist(ctx)
			return
		}
	}
}

// processItem bounds transient-failure retries per item. A rate-limit signal
// is never retried locally; it escalates so the whole job pauses.
func (r *runner) processItem(ctx context.Context, op itemOp, name string) (itemOutcome, error) {
	attempts := r.u.RetryAttempts
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}
	interval := r.u.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	var outcome itemOutcome
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(attempts-1))
	err := backoff.Retry(func() error {
		var ierr error
		outcome, ierr = op(ctx, name)
		if ierr == nil {
			return nil
		}
		if errors.Is(ierr, model.ErrRateLimited) {
			return backoff.Permanent(ierr)
		}
		return ierr
	}, backoff.WithContext(b, ctx))
	return outcome, err
}

func (r *runner) persist(ctx context.Context) {
	if r.u.Repos == nil || r.u.Repos.JobState == nil {
		return
	}
	r.mu.Lock()
	cp := r.state.Clone()
	r.mu.Unlock()
	if err := r.u.Repos.JobState.Save(ctx, cp); err != nil {
		logging.FromContext(ctx).Warn(ctx, "job state persist failed", "job", string(r.kind), "error", err)
	}
}

func (u *UseCase) baseItemDelay() time.Duration {
	if u.BaseItemDelay > 0 {
		return u.BaseItemDelay
	}
	return DefaultBaseItemDelay
}

// interItemDelay spreads request pressure between items. The pacing grows
// with accumulated errors and with run depth, and is capped so a long noisy
// run still finishes.
func interItemDelay(base time.Duration, errs, processed int) time.Duration {
	d := base
	d += time.Duration(errs) * base / 2
	d += time.Duration(processed/50) * base / 4
	if max := 20 * base; d > max {
		return max
	}
	return d
}
