package redirect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/domainops/domainops/domain/model"
	"github.com/domainops/domainops/internal/logging"
)

// UpdateInput holds parameters for a single safe redirect update. Name is
// the host label ("@" or "www"); Target is the destination URL; Client is an
// optional client tag recorded in the inventory.
type UpdateInput struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
	Target string `json:"target"`
	Client string `json:"client,omitempty"`
}

// UpdateOutput holds the result of a safe redirect update. Written and
// Verified are separate observations: the provider accepting the write does
// not prove the change is visible on reads yet.
type UpdateOutput struct {
	Written    bool              `json:"written"`
	Verified   bool              `json:"verified"`
	SnapshotID string            `json:"snapshot_id"`
	Records    []model.DNSRecord `json:"records"`
}

// Update points in.Name at in.Target on in.Domain without losing any
// unrelated record. It refuses to proceed past any step whose failure could
// risk data loss: a failed ground-truth fetch or a failed pre-image backup
// aborts before the replace-all write is ever sent.
func (u *UseCase) Update(ctx context.Context, in *UpdateInput) (*UpdateOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if in.Domain == "" {
		return nil, fmt.Errorf("Domain is required")
	}
	if in.Name == "" {
		return nil, fmt.Errorf("Name is required")
	}
	if in.Target == "" {
		return nil, fmt.Errorf("Target is required")
	}
	log := logging.FromContext(ctx).With("domain", in.Domain, "name", in.Name)

	// Ground truth comes from the provider, never from local snapshots. If
	// the fetch fails the update fails; merging against stale data and then
	// replacing the full set would drop records added elsewhere.
	var current []model.DNSRecord
	err := u.retry(ctx, func() error {
		var ferr error
		current, ferr = u.Registrar.GetHosts(ctx, in.Domain)
		return ferr
	})
	if err != nil {
		return nil, fmt.Errorf("fetch current records: %w", err)
	}

	if _, err := u.Repos.Snapshot.Backup(ctx, in.Domain, current); err != nil {
		return nil, &model.RepositoryError{Op: "backup pre-image", Err: err}
	}

	merged := model.MergeRedirect(current, in.Domain, in.Name, in.Target, u.IsParking)

	snap, err := u.Repos.Snapshot.Backup(ctx, in.Domain, merged)
	if err != nil {
		return nil, &model.RepositoryError{Op: "backup merged set", Err: err}
	}

	err = u.retry(ctx, func() error {
		return u.Registrar.SetHosts(ctx, in.Domain, merged)
	})
	if err != nil {
		return nil, fmt.Errorf("write record set: %w", err)
	}
	log.Info(ctx, "record set replaced", "records", len(merged), "snapshot", snap.ID)

	out := &UpdateOutput{Written: true, SnapshotID: snap.ID, Records: merged}
	u.touchInventory(ctx, in)

	wait := u.PropagationWait
	if wait <= 0 {
		wait = DefaultPropagationWait
	}
	if err := u.sleep(ctx, wait); err != nil {
		return out, fmt.Errorf("%w: %v", model.ErrVerificationFailed, err)
	}

	readback, err := u.Registrar.GetHosts(ctx, in.Domain)
	if err != nil {
		if errors.Is(err, model.ErrRateLimited) {
			return out, err
		}
		return out, fmt.Errorf("%w: re-read: %v", model.ErrVerificationFailed, err)
	}
	if !redirectVisible(readback, in.Name, in.Target) {
		log.Warn(ctx, "redirect not visible after write", "wait", wait)
		return out, model.ErrVerificationFailed
	}

	out.Verified = true
	return out, nil
}

// retry runs op with a bounded constant-interval retry for transient gateway
// failures. Rate-limit errors escalate immediately so the job layer can pause
// instead of hammering a throttled provider.
func (u *UseCase) retry(ctx context.Context, op func() error) error {
	attempts := u.RetryAttempts
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}
	interval := u.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(attempts-1))
	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, model.ErrRateLimited) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

// touchInventory records the domain and client tag. Inventory bookkeeping is
// best effort and never fails the update.
func (u *UseCase) touchInventory(ctx context.Context, in *UpdateInput) {
	if u.Repos == nil || u.Repos.Domain == nil {
		return
	}
	e := &model.DomainEntry{Name: in.Domain, SyncStatus: model.SyncStateUpdated}
	if err := u.Repos.Domain.Upsert(ctx, e); err != nil {
		logging.FromContext(ctx).Warn(ctx, "inventory upsert failed", "domain", in.Domain, "error", err)
		return
	}
	_ = u.Repos.Domain.SetSyncStatus(ctx, in.Domain, model.SyncStateUpdated)
	if in.Client != "" {
		_ = u.Repos.Domain.AssignClient(ctx, in.Domain, in.Client)
	}
}

func redirectVisible(records []model.DNSRecord, name, target string) bool {
	for _, r := range records {
		if r.Name == name && r.Type.IsRedirect() && strings.EqualFold(r.Address, target) {
			return true
		}
	}
	return false
}
