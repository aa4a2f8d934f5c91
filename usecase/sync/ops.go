package sync

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/domainops/domainops/domain/model"
	"github.com/domainops/domainops/usecase/redirect"
)

// StartFullSyncInput holds parameters for a full record-set sync run. An
// empty Domains list means the whole portfolio, pulled from the inventory or,
// when the inventory is empty, from the registrar.
type StartFullSyncInput struct {
	Domains []string `json:"domains,omitempty"`
}

// StartRedirectInput holds parameters for a bulk redirect run: point Name at
// Target on every listed domain via the safe update flow.
type StartRedirectInput struct {
	Domains []string `json:"domains"`
	Name    string   `json:"name"`
	Target  string   `json:"target"`
	Client  string   `json:"client,omitempty"`
}

// StartForwardingInput holds parameters for a bulk email forwarding run: set
// the same rule set on every listed domain.
type StartForwardingInput struct {
	Domains []string               `json:"domains"`
	Rules   []model.ForwardingRule `json:"rules"`
}

// StartOutput holds the initial state snapshot of a freshly started run.
type StartOutput struct {
	State *model.SyncJobState `json:"state"`
}

// StopInput identifies the job kind to stop.
type StopInput struct {
	Kind model.JobKind `json:"kind"`
}

// StopOutput holds the state snapshot taken at stop request time.
type StopOutput struct {
	State *model.SyncJobState `json:"state"`
}

// ResumeInput identifies the job kind to resume.
type ResumeInput struct {
	Kind model.JobKind `json:"kind"`
}

// ResumeOutput holds the state snapshot taken right after reopening the run.
type ResumeOutput struct {
	State *model.SyncJobState `json:"state"`
}

// ProgressInput identifies the job kind to report on.
type ProgressInput struct {
	Kind model.JobKind `json:"kind"`
}

// ProgressOutput holds a point-in-time state copy. Reading progress never
// blocks on provider calls.
type ProgressOutput struct {
	State *model.SyncJobState `json:"state"`
}

// StartFullSync starts a portfolio-wide record-set sync.
func (u *UseCase) StartFullSync(ctx context.Context, in *StartFullSyncInput) (*StartOutput, error) {
	if in == nil {
		in = &StartFullSyncInput{}
	}
	st, err := u.runner(model.JobKindFullSync).start(ctx, in.Domains, u.fullSyncItem)
	if err != nil {
		return nil, err
	}
	return &StartOutput{State: st}, nil
}

// StartRedirect starts a bulk redirect run.
func (u *UseCase) StartRedirect(ctx context.Context, in *StartRedirectInput) (*StartOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if in.Name == "" || in.Target == "" {
		return nil, fmt.Errorf("Name and Target are required")
	}
	if u.Redirect == nil {
		return nil, fmt.Errorf("redirect use case is not configured")
	}
	op := func(ctx context.Context, domainName string) (itemOutcome, error) {
		_, err := u.Redirect.Update(ctx, &redirect.UpdateInput{
			Domain: domainName,
			Name:   in.Name,
			Target: in.Target,
			Client: in.Client,
		})
		if err != nil {
			return outcomeUpdated, err
		}
		return outcomeUpdated, nil
	}
	st, err := u.runner(model.JobKindRedirect).start(ctx, in.Domains, op)
	if err != nil {
		return nil, err
	}
	return &StartOutput{State: st}, nil
}

// StartForwarding starts a bulk email forwarding run.
func (u *UseCase) StartForwarding(ctx context.Context, in *StartForwardingInput) (*StartOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if len(in.Rules) == 0 {
		return nil, fmt.Errorf("Rules are required")
	}
	rules := append([]model.ForwardingRule(nil), in.Rules...)
	op := func(ctx context.Context, domainName string) (itemOutcome, error) {
		if err := u.Registrar.SetEmailForwarding(ctx, domainName, rules); err != nil {
			return outcomeUpdated, err
		}
		if u.Repos.Domain != nil {
			_ = u.Repos.Domain.SetSyncStatus(ctx, domainName, model.SyncStateUpdated)
		}
		return outcomeUpdated, nil
	}
	st, err := u.runner(model.JobKindForwarding).start(ctx, in.Domains, op)
	if err != nil {
		return nil, err
	}
	return &StartOutput{State: st}, nil
}

// Stop requests a graceful stop of the kind's active run.
func (u *UseCase) Stop(ctx context.Context, in *StopInput) (*StopOutput, error) {
	if in == nil || in.Kind == "" {
		return nil, fmt.Errorf("Kind is required")
	}
	st, err := u.runner(in.Kind).stop(ctx)
	if err != nil {
		return nil, err
	}
	return &StopOutput{State: st}, nil
}

// Resume reopens the kind's rate-limited run at its frozen cursor.
func (u *UseCase) Resume(ctx context.Context, in *ResumeInput) (*ResumeOutput, error) {
	if in == nil || in.Kind == "" {
		return nil, fmt.Errorf("Kind is required")
	}
	st, err := u.runner(in.Kind).resume(ctx)
	if err != nil {
		return nil, err
	}
	return &ResumeOutput{State: st}, nil
}

// Progress reports the kind's current state without touching the provider.
func (u *UseCase) Progress(ctx context.Context, in *ProgressInput) (*ProgressOutput, error) {
	if in == nil || in.Kind == "" {
		return nil, fmt.Errorf("Kind is required")
	}
	return &ProgressOutput{State: u.runner(in.Kind).progress()}, nil
}

// Hydrate loads persisted job states so progress survives a process restart.
// A full-sync run left rate-limited before the restart stays resumable; the
// other kinds need their parameters again and report state only.
func (u *UseCase) Hydrate(ctx context.Context) error {
	if u.Repos == nil || u.Repos.JobState == nil {
		return nil
	}
	for _, kind := range []model.JobKind{model.JobKindFullSync, model.JobKindRedirect, model.JobKindForwarding} {
		st, err := u.Repos.JobState.Load(ctx, kind)
		if err != nil {
			if errors.Is(err, model.ErrJobNotFound) {
				continue
			}
			return fmt.Errorf("load %s state: %w", kind, err)
		}
		// A run that was mid-flight when the process died cannot still be
		// running; keep its bookkeeping but mark it interrupted.
		if st.Status == model.JobStatusStarting || st.Status == model.JobStatusRunning {
			st.Status = model.JobStatusError
			st.LastError = "interrupted by process restart"
		}
		r := u.runner(kind)
		r.mu.Lock()
		r.state = st
		if kind == model.JobKindFullSync {
			r.op = u.fullSyncItem
		}
		r.mu.Unlock()
	}
	return nil
}

// fullSyncItem snapshots one domain's live record set and reconciles the
// inventory entry. Added, updated, or unchanged is judged against the latest
// stored snapshot.
func (u *UseCase) fullSyncItem(ctx context.Context, domainName string) (itemOutcome, error) {
	records, err := u.Registrar.GetHosts(ctx, domainName)
	if err != nil {
		return outcomeUnchanged, err
	}

	outcome := outcomeAdded
	status := model.SyncStateAdded
	prior, perr := u.Repos.Snapshot.CurrentRecords(ctx, domainName)
	switch {
	case perr == nil && reflect.DeepEqual(prior, records):
		outcome = outcomeUnchanged
		status = model.SyncStateUnchanged
	case perr == nil:
		outcome = outcomeUpdated
		status = model.SyncStateUpdated
	case !errors.Is(perr, model.ErrSnapshotNotFound):
		return outcomeUnchanged, &model.RepositoryError{Op: "load current snapshot", Err: perr}
	}

	if _, err := u.Repos.Snapshot.Backup(ctx, domainName, records); err != nil {
		return outcomeUnchanged, &model.RepositoryError{Op: "backup record set", Err: err}
	}
	if u.Repos.Domain != nil {
		if err := u.Repos.Domain.Upsert(ctx, &model.DomainEntry{Name: domainName, SyncStatus: status}); err == nil {
			_ = u.Repos.Domain.SetSyncStatus(ctx, domainName, status)
		}
	}
	return outcome, nil
}

// resolveDomains produces the frozen ordered list for a run.
func (u *UseCase) resolveDomains(ctx context.Context, domains []string) ([]string, error) {
	if len(domains) > 0 {
		list := normalizeDomains(domains)
		if len(list) == 0 {
			return nil, fmt.Errorf("no valid domains in request")
		}
		return list, nil
	}
	entries, err := u.Repos.Domain.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	if len(entries) > 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name)
		}
		return names, nil
	}
	out, err := u.PullDomains(ctx, &PullDomainsInput{})
	if err != nil {
		return nil, fmt.Errorf("pull portfolio: %w", err)
	}
	if len(out.Domains) == 0 {
		return nil, fmt.Errorf("account has no domains")
	}
	return out.Domains, nil
}
