package model

// RecordType represents a registrar host record type.
type RecordType string

const (
	RecordTypeA      RecordType = "A"
	RecordTypeAAAA   RecordType = "AAAA"
	RecordTypeCNAME  RecordType = "CNAME"
	RecordTypeMX     RecordType = "MX"
	RecordTypeTXT    RecordType = "TXT"
	RecordTypeNS     RecordType = "NS"
	RecordTypeURL    RecordType = "URL"
	RecordTypeURL301 RecordType = "URL301"
	RecordTypeURL302 RecordType = "URL302"
	RecordTypeFrame  RecordType = "FRAME"
)

// IsRedirect reports whether the type signals an HTTP redirect rather than
// a standard resource record.
func (t RecordType) IsRedirect() bool {
	switch t {
	case RecordTypeURL, RecordTypeURL301, RecordTypeURL302, RecordTypeFrame:
		return true
	}
	return false
}

// DefaultRedirectTTL is the TTL applied to redirect records written by this tool.
const DefaultRedirectTTL = 300

// DNSRecord is one provider host record. Address semantics depend on Type:
// IP for A/AAAA, hostname for CNAME/MX/NS, redirect target for URL types,
// payload for TXT. The entire per-domain set is the unit of write at the
// provider; there is no per-record primitive.
type DNSRecord struct {
	Domain  string     `json:"domain"`
	Name    string     `json:"name"` // host label: "@", "www", ...
	Type    RecordType `json:"type"`
	Address string     `json:"address"`
	TTL     int        `json:"ttl"`
	MXPref  int        `json:"mx_pref,omitempty"` // only meaningful for MX
}

// Equal reports whether two records carry identical data.
func (r DNSRecord) Equal(o DNSRecord) bool {
	return r.Domain == o.Domain && r.Name == o.Name && r.Type == o.Type &&
		r.Address == o.Address && r.TTL == o.TTL && r.MXPref == o.MXPref
}
