package namecheap

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// The provider wraps every response in an ApiResponse envelope with a
// top-level Status attribute, an optional error list, and a nested
// command-specific result. It is decoded into fixed structs exactly once,
// here; no other component ever inspects provider-shaped data.

type apiResponse struct {
	XMLName         xml.Name        `xml:"ApiResponse"`
	Status          string          `xml:"Status,attr"`
	Errors          apiErrors       `xml:"Errors"`
	CommandResponse commandResponse `xml:"CommandResponse"`
}

type apiErrors struct {
	Errors []apiError `xml:"Error"`
}

type apiError struct {
	Number  string `xml:"Number,attr"`
	Message string `xml:",chardata"`
}

type commandResponse struct {
	Type          string               `xml:"Type,attr"`
	DomainList    *domainListResult    `xml:"DomainGetListResult"`
	Paging        *pagingResult        `xml:"Paging"`
	GetHosts      *getHostsResult      `xml:"DomainDNSGetHostsResult"`
	SetHosts      *setHostsResult      `xml:"DomainDNSSetHostsResult"`
	GetForwarding *getForwardingResult `xml:"DomainDNSGetEmailForwardingResult"`
	SetForwarding *setForwardingResult `xml:"DomainDNSSetEmailForwardingResult"`
}

type domainListResult struct {
	Domains []domainEntry `xml:"Domain"`
}

type domainEntry struct {
	Name      string `xml:"Name,attr"`
	Expires   string `xml:"Expires,attr"`
	AutoRenew bool   `xml:"AutoRenew,attr"`
}

type pagingResult struct {
	TotalItems  int `xml:"TotalItems"`
	CurrentPage int `xml:"CurrentPage"`
	PageSize    int `xml:"PageSize"`
}

type getHostsResult struct {
	Domain string `xml:"Domain,attr"`
	// The element name for host entries varies in case across API
	// deployments; both variants are accepted and merged.
	HostsLower []hostEntry `xml:"host"`
	HostsUpper []hostEntry `xml:"Host"`
}

// hosts resolves the case-variant host elements into one list.
func (r *getHostsResult) hosts() []hostEntry {
	if len(r.HostsLower) == 0 {
		return r.HostsUpper
	}
	if len(r.HostsUpper) == 0 {
		return r.HostsLower
	}
	out := make([]hostEntry, 0, len(r.HostsLower)+len(r.HostsUpper))
	out = append(out, r.HostsLower...)
	out = append(out, r.HostsUpper...)
	return out
}

type hostEntry struct {
	Name    string `xml:"Name,attr"`
	Type    string `xml:"Type,attr"`
	Address string `xml:"Address,attr"`
	MXPref  int    `xml:"MXPref,attr"`
	TTL     int    `xml:"TTL,attr"`
}

type setHostsResult struct {
	Domain    string `xml:"Domain,attr"`
	IsSuccess bool   `xml:"IsSuccess,attr"`
}

type getForwardingResult struct {
	Domain   string         `xml:"Domain,attr"`
	Forwards []forwardEntry `xml:"Forward"`
}

type forwardEntry struct {
	From    string `xml:"mailbox,attr"`
	FromAlt string `xml:"MailBox,attr"`
	To      string `xml:",chardata"`
}

func (f forwardEntry) from() string {
	if f.From != "" {
		return f.From
	}
	return f.FromAlt
}

type setForwardingResult struct {
	Domain    string `xml:"Domain,attr"`
	IsSuccess bool   `xml:"IsSuccess,attr"`
}

// decodeEnvelope parses a raw response body. It returns the envelope even
// when the provider reports an error so the caller can classify the error
// text; err is non-nil for malformed XML, a non-OK status, or an explicit
// error list.
func decodeEnvelope(body []byte) (*apiResponse, error) {
	var env apiResponse
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("malformed response envelope: %w", err)
	}
	if len(env.Errors.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors.Errors))
		for _, e := range env.Errors.Errors {
			msg := strings.TrimSpace(e.Message)
			if e.Number != "" {
				msg = fmt.Sprintf("[%s] %s", e.Number, msg)
			}
			msgs = append(msgs, msg)
		}
		return &env, fmt.Errorf("api error: %s", strings.Join(msgs, "; "))
	}
	if env.Status != "OK" {
		return &env, fmt.Errorf("api status %q", env.Status)
	}
	return &env, nil
}
