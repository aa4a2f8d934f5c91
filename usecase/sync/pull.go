package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/domainops/domainops/domain/model"
	"github.com/domainops/domainops/internal/logging"
	"golang.org/x/net/idna"
)

// PullDomainsInput holds parameters for a portfolio pull. Zero values take
// the use case defaults.
type PullDomainsInput struct {
	PageSize int `json:"page_size,omitempty"`
	MaxPages int `json:"max_pages,omitempty"`
}

// PullDomainsOutput holds the pulled portfolio in registrar order.
type PullDomainsOutput struct {
	Domains []string `json:"domains"`
	Pages   int      `json:"pages"`
}

// PullDomains walks the registrar's paginated domain list and reconciles the
// local inventory. Traversal ends at the first short page; reaching the page
// cap without one fails the pull rather than silently truncating it.
func (u *UseCase) PullDomains(ctx context.Context, in *PullDomainsInput) (*PullDomainsOutput, error) {
	if in == nil {
		in = &PullDomainsInput{}
	}
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = u.PageSize
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	maxPages := in.MaxPages
	if maxPages <= 0 {
		maxPages = u.MaxPages
	}
	if maxPages <= 0 {
		maxPages = MaxListPages
	}
	log := logging.FromContext(ctx)

	var names []string
	pages := 0
	for page := 1; ; page++ {
		if page > maxPages {
			return nil, fmt.Errorf("%w: %d pages of %d", model.ErrPageLimit, maxPages, pageSize)
		}
		dp, err := u.Registrar.ListDomainsPage(ctx, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("list domains page %d: %w", page, err)
		}
		pages++
		for _, d := range dp.Domains {
			names = append(names, d.Name)
		}
		if len(dp.Domains) < pageSize {
			break
		}
	}

	names = normalizeDomains(names)
	if u.Repos != nil && u.Repos.Domain != nil {
		for _, name := range names {
			if err := u.Repos.Domain.Upsert(ctx, &model.DomainEntry{Name: name}); err != nil {
				log.Warn(ctx, "inventory upsert failed", "domain", name, "error", err)
			}
		}
	}
	log.Info(ctx, "portfolio pulled", "domains", len(names), "pages", pages)
	return &PullDomainsOutput{Domains: names, Pages: pages}, nil
}

// normalizeDomains lowercases, punycodes, and dedupes while keeping order.
// Entries that survive none of that are dropped.
func normalizeDomains(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		name := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(raw), "."))
		if name == "" {
			continue
		}
		if ascii, err := idna.Lookup.ToASCII(name); err == nil {
			name = ascii
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
