package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrDomainNotFound   = errors.New("domain not found")
	ErrJobNotFound      = errors.New("job not found")

	// ErrRateLimited matches any RateLimitedError via errors.Is.
	ErrRateLimited = errors.New("rate limited")

	// ErrVerificationFailed means a write the provider reported as accepted
	// is not visible on a subsequent read. Distinct from a write failure:
	// the change may simply be slow to reflect.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrJobAlreadyRunning rejects starting a job kind that already has an
	// active run.
	ErrJobAlreadyRunning = errors.New("a job of this kind is already active")

	// ErrJobNotResumable rejects resuming anything but a rate-limited job.
	ErrJobNotResumable = errors.New("job is not resumable")

	// ErrPageLimit means the domain-list pagination hit its hard safety cap
	// before a short page. Requires operator attention, never truncation.
	ErrPageLimit = errors.New("domain list page limit exceeded")
)

// RateLimitedError is the typed throttling condition: the provider signaled,
// explicitly or via heuristics, that the caller must back off. RetryAfter is
// a suggested cooldown, advisory only.
type RateLimitedError struct {
	Reason     string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: %s (retry after %s)", e.Reason, e.RetryAfter)
}

func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// GatewayError is any non-throttling provider-call failure: network, bad
// envelope, or an explicit API error. Retry policy lives in the caller.
type GatewayError struct {
	Op     string
	Domain string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Domain == "" {
		return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("gateway %s %s: %v", e.Op, e.Domain, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// RepositoryError is a local persistence failure. During a safe update it
// aborts before the replace-all write: a replace must never be sent without
// a durably captured pre-image.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string { return fmt.Sprintf("repository %s: %v", e.Op, e.Err) }

func (e *RepositoryError) Unwrap() error { return e.Err }
