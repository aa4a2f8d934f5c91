package model

import "context"

// DomainSummary is one row of the registrar's account domain list.
type DomainSummary struct {
	Name      string
	Expires   string
	AutoRenew bool
}

// DomainPage is one page of the paginated domain list. A page shorter than
// the requested size terminates the traversal.
type DomainPage struct {
	Domains    []DomainSummary
	Page       int
	PageSize   int
	TotalItems int
}

// RegistrarPort is the gateway to the registrar API. Implementations guard
// every call with the rate governor and map provider throttling signals to
// RateLimitedError; all other failures surface as GatewayError. SetHosts and
// SetEmailForwarding are full replaces: the provider overwrites the domain's
// entire set on every write.
type RegistrarPort interface {
	ListDomainsPage(ctx context.Context, page, pageSize int) (*DomainPage, error)
	GetHosts(ctx context.Context, domain string) ([]DNSRecord, error)
	SetHosts(ctx context.Context, domain string, records []DNSRecord) error
	GetEmailForwarding(ctx context.Context, domain string) ([]ForwardingRule, error)
	SetEmailForwarding(ctx context.Context, domain string, rules []ForwardingRule) error
}
