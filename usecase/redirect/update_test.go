package redirect

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/domainops/domainops/adapters/store/memory"
	"github.com/domainops/domainops/domain/model"
)

// fakeRegistrar is an in-memory provider with full-replace write semantics.
type fakeRegistrar struct {
	hosts map[string][]model.DNSRecord

	getErrs  []error // consumed per GetHosts call, nil means success
	setErrs  []error // consumed per SetHosts call
	getCalls int
	setCalls int
}

func newFakeRegistrar(domain string, records []model.DNSRecord) *fakeRegistrar {
	return &fakeRegistrar{hosts: map[string][]model.DNSRecord{domain: records}}
}

func (f *fakeRegistrar) ListDomainsPage(ctx context.Context, page, pageSize int) (*model.DomainPage, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRegistrar) GetHosts(ctx context.Context, domain string) ([]model.DNSRecord, error) {
	f.getCalls++
	if len(f.getErrs) > 0 {
		err := f.getErrs[0]
		f.getErrs = f.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return append([]model.DNSRecord(nil), f.hosts[domain]...), nil
}

func (f *fakeRegistrar) SetHosts(ctx context.Context, domain string, records []model.DNSRecord) error {
	f.setCalls++
	if len(f.setErrs) > 0 {
		err := f.setErrs[0]
		f.setErrs = f.setErrs[1:]
		if err != nil {
			return err
		}
	}
	f.hosts[domain] = append([]model.DNSRecord(nil), records...)
	return nil
}

func (f *fakeRegistrar) GetEmailForwarding(ctx context.Context, domain string) ([]model.ForwardingRule, error) {
	return nil, nil
}

func (f *fakeRegistrar) SetEmailForwarding(ctx context.Context, domain string, rules []model.ForwardingRule) error {
	return nil
}

func newTestUseCase(reg *fakeRegistrar) (*UseCase, *memory.SnapshotRepository) {
	snaps := memory.NewSnapshotRepository()
	u := &UseCase{
		Repos:         &Repos{Snapshot: snaps, Domain: memory.NewDomainRepository()},
		Registrar:     reg,
		RetryInterval: time.Millisecond,
		Sleep:         func(ctx context.Context, d time.Duration) error { return nil },
	}
	return u, snaps
}

func baseRecords() []model.DNSRecord {
	return []model.DNSRecord{
		{Domain: "example.com", Name: "@", Type: model.RecordTypeMX, Address: "mx1.mail.test", TTL: 3600, MXPref: 10},
		{Domain: "example.com", Name: "@", Type: model.RecordTypeTXT, Address: "v=spf1 -all", TTL: 3600},
		{Domain: "example.com", Name: "www", Type: model.RecordTypeCNAME, Address: "parkingpage.namecheap.com.", TTL: 1800},
		{Domain: "example.com", Name: "api", Type: model.RecordTypeA, Address: "10.0.0.1", TTL: 300},
	}
}

func TestUpdatePreservesUnrelatedRecords(t *testing.T) {
	reg := newFakeRegistrar("example.com", baseRecords())
	u, _ := newTestUseCase(reg)

	out, err := u.Update(context.Background(), &UpdateInput{
		Domain: "example.com", Name: "www", Target: "https://shop.example.net",
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if !out.Written || !out.Verified {
		t.Errorf("Update() = written %v verified %v, want both true", out.Written, out.Verified)
	}

	final := reg.hosts["example.com"]
	want := []model.DNSRecord{
		{Domain: "example.com", Name: "@", Type: model.RecordTypeMX, Address: "mx1.mail.test", TTL: 3600, MXPref: 10},
		{Domain: "example.com", Name: "@", Type: model.RecordTypeTXT, Address: "v=spf1 -all", TTL: 3600},
		{Domain: "example.com", Name: "api", Type: model.RecordTypeA, Address: "10.0.0.1", TTL: 300},
		{Domain: "example.com", Name: "www", Type: model.RecordTypeURL, Address: "https://shop.example.net", TTL: model.DefaultRedirectTTL},
	}
	if !reflect.DeepEqual(final, want) {
		t.Errorf("final record set:\n got %+v\nwant %+v", final, want)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	reg := newFakeRegistrar("example.com", baseRecords())
	u, _ := newTestUseCase(reg)
	in := &UpdateInput{Domain: "example.com", Name: "www", Target: "https://shop.example.net"}

	if _, err := u.Update(context.Background(), in); err != nil {
		t.Fatalf("first Update() error: %v", err)
	}
	first := append([]model.DNSRecord(nil), reg.hosts["example.com"]...)

	if _, err := u.Update(context.Background(), in); err != nil {
		t.Fatalf("second Update() error: %v", err)
	}
	if !reflect.DeepEqual(reg.hosts["example.com"], first) {
		t.Errorf("second run changed the record set:\n got %+v\nwant %+v", reg.hosts["example.com"], first)
	}
}

func TestUpdateBacksUpBeforeAndAfterMerge(t *testing.T) {
	reg := newFakeRegistrar("example.com", baseRecords())
	u, snaps := newTestUseCase(reg)

	if _, err := u.Update(context.Background(), &UpdateInput{
		Domain: "example.com", Name: "www", Target: "https://shop.example.net",
	}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	metas, err := snaps.History(context.Background(), "example.com", 10)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("snapshots = %d, want pre-image and merged", len(metas))
	}
	// Newest first: the merged set, then the untouched pre-image.
	if metas[0].RecordCount != 4 || metas[1].RecordCount != 4 {
		t.Errorf("snapshot record counts = %d, %d", metas[0].RecordCount, metas[1].RecordCount)
	}
}

func TestUpdateAbortsWhenFetchFails(t *testing.T) {
	reg := newFakeRegistrar("example.com", baseRecords())
	reg.getErrs = []error{
		&model.GatewayError{Op: "GetHosts", Domain: "example.com", Err: errors.New("boom")},
		&model.GatewayError{Op: "GetHosts", Domain: "example.com", Err: errors.New("boom")},
		&model.GatewayError{Op: "GetHosts", Domain: "example.com", Err: errors.New("boom")},
	}
	u, snaps := newTestUseCase(reg)

	_, err := u.Update(context.Background(), &UpdateInput{
		Domain: "example.com", Name: "www", Target: "https://shop.example.net",
	})
	if err == nil {
		t.Fatal("Update() succeeded, want fetch failure after retries")
	}
	if reg.setCalls != 0 {
		t.Errorf("SetHosts called %d times after failed fetch, want 0", reg.setCalls)
	}
	if _, err := snaps.CurrentRecords(context.Background(), "example.com"); !errors.Is(err, model.ErrSnapshotNotFound) {
		t.Errorf("snapshot written despite failed fetch: %v", err)
	}
}

func TestUpdateRetriesTransientWriteFailure(t *testing.T) {
	reg := newFakeRegistrar("example.com", baseRecords())
	reg.setErrs = []error{
		&model.GatewayError{Op: "SetHosts", Domain: "example.com", Err: errors.New("flaky")},
		nil,
	}
	u, _ := newTestUseCase(reg)

	out, err := u.Update(context.Background(), &UpdateInput{
		Domain: "example.com", Name: "www", Target: "https://shop.example.net",
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if !out.Written || reg.setCalls != 2 {
		t.Errorf("written=%v setCalls=%d, want retried once then succeed", out.Written, reg.setCalls)
	}
}

func TestUpdateDoesNotRetryRateLimit(t *testing.T) {
	reg := newFakeRegistrar("example.com", baseRecords())
	reg.setErrs = []error{&model.RateLimitedError{Reason: "http 503", RetryAfter: 15 * time.Minute}}
	u, _ := newTestUseCase(reg)

	_, err := u.Update(context.Background(), &UpdateInput{
		Domain: "example.com", Name: "www", Target: "https://shop.example.net",
	})
	if !errors.Is(err, model.ErrRateLimited) {
		t.Fatalf("Update() error = %v, want ErrRateLimited", err)
	}
	if reg.setCalls != 1 {
		t.Errorf("SetHosts called %d times for a rate-limit signal, want 1", reg.setCalls)
	}
}

func TestUpdateReportsUnverifiedWrite(t *testing.T) {
	reg := newFakeRegistrar("example.com", baseRecords())
	u, _ := newTestUseCase(reg)
	// The write lands but the verification re-read fails.
	reg.getErrs = []error{
		nil,
		&model.GatewayError{Op: "GetHosts", Domain: "example.com", Err: errors.New("timeout")},
	}

	out, err := u.Update(context.Background(), &UpdateInput{
		Domain: "example.com", Name: "www", Target: "https://shop.example.net",
	})
	if !errors.Is(err, model.ErrVerificationFailed) {
		t.Fatalf("Update() error = %v, want ErrVerificationFailed", err)
	}
	if out == nil || !out.Written || out.Verified {
		t.Errorf("Update() = %+v, want written but unverified", out)
	}
}

func TestUpdateValidatesInput(t *testing.T) {
	u, _ := newTestUseCase(newFakeRegistrar("example.com", nil))
	for _, in := range []*UpdateInput{
		nil,
		{Name: "www", Target: "https://x.test"},
		{Domain: "example.com", Target: "https://x.test"},
		{Domain: "example.com", Name: "www"},
	} {
		if _, err := u.Update(context.Background(), in); err == nil {
			t.Errorf("Update(%+v) succeeded, want validation error", in)
		}
	}
}
