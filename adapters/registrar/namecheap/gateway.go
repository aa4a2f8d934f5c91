package namecheap

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/domainops/domainops/domain/model"
)

var _ model.RegistrarPort = (*Client)(nil)

// splitDomain splits a domain into the SLD/TLD pair the host commands
// expect. Everything after the first dot is the TLD, which also covers
// multi-label suffixes like co.uk.
func splitDomain(domain string) (sld, tld string, err error) {
	i := strings.Index(domain, ".")
	if i <= 0 || i == len(domain)-1 {
		return "", "", fmt.Errorf("invalid domain %q", domain)
	}
	return domain[:i], domain[i+1:], nil
}

// ListDomainsPage fetches one page of the account domain list.
func (c *Client) ListDomainsPage(ctx context.Context, page, pageSize int) (*model.DomainPage, error) {
	const op = "domains.getList"
	params := url.Values{}
	params.Set("ListType", "ALL")
	params.Set("Page", strconv.Itoa(page))
	params.Set("PageSize", strconv.Itoa(pageSize))

	env, err := c.call(ctx, "namecheap.domains.getList", params, false)
	if err != nil {
		return nil, err
	}
	result := env.CommandResponse.DomainList
	if result == nil {
		return nil, &model.GatewayError{Op: op, Err: fmt.Errorf("missing DomainGetListResult")}
	}

	out := &model.DomainPage{Page: page, PageSize: pageSize}
	for _, d := range result.Domains {
		if d.Name == "" {
			continue
		}
		out.Domains = append(out.Domains, model.DomainSummary{
			Name:      strings.ToLower(d.Name),
			Expires:   d.Expires,
			AutoRenew: d.AutoRenew,
		})
	}
	if p := env.CommandResponse.Paging; p != nil {
		out.TotalItems = p.TotalItems
	}
	return out, nil
}

// GetHosts fetches the complete host record set for a domain.
func (c *Client) GetHosts(ctx context.Context, domain string) ([]model.DNSRecord, error) {
	const op = "domains.dns.getHosts"
	sld, tld, err := splitDomain(domain)
	if err != nil {
		return nil, &model.GatewayError{Op: op, Domain: domain, Err: err}
	}
	params := url.Values{}
	params.Set("SLD", sld)
	params.Set("TLD", tld)

	env, err := c.call(ctx, "namecheap.domains.dns.getHosts", params, false)
	if err != nil {
		return nil, err
	}
	result := env.CommandResponse.GetHosts
	if result == nil {
		return nil, &model.GatewayError{Op: op, Domain: domain, Err: fmt.Errorf("missing DomainDNSGetHostsResult")}
	}

	entries := result.hosts()
	records := make([]model.DNSRecord, 0, len(entries))
	for _, h := range entries {
		records = append(records, model.DNSRecord{
			Domain:  domain,
			Name:    h.Name,
			Type:    model.RecordType(h.Type),
			Address: h.Address,
			TTL:     h.TTL,
			MXPref:  h.MXPref,
		})
	}
	return records, nil
}

// SetHosts replaces the domain's entire host record set. The provider has
// no partial-update primitive: whatever is sent here becomes the complete
// set, so callers must always pass the full merged set.
func (c *Client) SetHosts(ctx context.Context, domain string, records []model.DNSRecord) error {
	const op = "domains.dns.setHosts"
	sld, tld, err := splitDomain(domain)
	if err != nil {
		return &model.GatewayError{Op: op, Domain: domain, Err: err}
	}
	params := url.Values{}
	params.Set("SLD", sld)
	params.Set("TLD", tld)
	for i, r := range records {
		n := strconv.Itoa(i + 1)
		params.Set("HostName"+n, r.Name)
		params.Set("RecordType"+n, string(r.Type))
		params.Set("Address"+n, r.Address)
		params.Set("TTL"+n, strconv.Itoa(r.TTL))
		if r.Type == model.RecordTypeMX {
			params.Set("MXPref"+n, strconv.Itoa(r.MXPref))
		}
	}

	env, err := c.call(ctx, "namecheap.domains.dns.setHosts", params, true)
	if err != nil {
		return err
	}
	result := env.CommandResponse.SetHosts
	if result == nil {
		return &model.GatewayError{Op: op, Domain: domain, Err: fmt.Errorf("missing DomainDNSSetHostsResult")}
	}
	// A transport-level 200 does not imply acceptance; the structured
	// result field is authoritative.
	if !result.IsSuccess {
		return &model.GatewayError{Op: op, Domain: domain, Err: fmt.Errorf("provider rejected host set write")}
	}
	return nil
}

// GetEmailForwarding fetches the domain's mailbox forwarding table.
func (c *Client) GetEmailForwarding(ctx context.Context, domain string) ([]model.ForwardingRule, error) {
	const op = "domains.dns.getEmailForwarding"
	params := url.Values{}
	params.Set("DomainName", domain)

	env, err := c.call(ctx, "namecheap.domains.dns.getEmailForwarding", params, false)
	if err != nil {
		return nil, err
	}
	result := env.CommandResponse.GetForwarding
	if result == nil {
		return nil, &model.GatewayError{Op: op, Domain: domain, Err: fmt.Errorf("missing DomainDNSGetEmailForwardingResult")}
	}

	rules := make([]model.ForwardingRule, 0, len(result.Forwards))
	for _, f := range result.Forwards {
		rules = append(rules, model.ForwardingRule{From: f.from(), To: strings.TrimSpace(f.To)})
	}
	return rules, nil
}

// SetEmailForwarding replaces the domain's entire forwarding table.
func (c *Client) SetEmailForwarding(ctx context.Context, domain string, rules []model.ForwardingRule) error {
	const op = "domains.dns.setEmailForwarding"
	params := url.Values{}
	params.Set("DomainName", domain)
	for i, r := range rules {
		n := strconv.Itoa(i + 1)
		params.Set("MailBox"+n, r.From)
		params.Set("ForwardTo"+n, r.To)
	}

	env, err := c.call(ctx, "namecheap.domains.dns.setEmailForwarding", params, true)
	if err != nil {
		return err
	}
	result := env.CommandResponse.SetForwarding
	if result == nil {
		return &model.GatewayError{Op: op, Domain: domain, Err: fmt.Errorf("missing DomainDNSSetEmailForwardingResult")}
	}
	if !result.IsSuccess {
		return &model.GatewayError{Op: op, Domain: domain, Err: fmt.Errorf("provider rejected forwarding write")}
	}
	return nil
}
