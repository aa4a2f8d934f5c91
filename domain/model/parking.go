package model

import "strings"

// ParkingPredicate decides whether a record is a registrar-injected
// parking/placeholder record. Such records exist only while a domain has no
// explicit configuration and must not be written back once a real redirect
// is set for the same name.
type ParkingPredicate func(DNSRecord) bool

// defaultParkingHosts are the registrar's own parking landing hosts.
// Deliberately narrow: a broader list risks misclassifying legitimate
// CNAME targets that happen to share substrings.
var defaultParkingHosts = []string{
	"parkingpage.namecheap.com",
	"parking-page.namecheap.com",
}

// DefaultParkingPredicate matches A/CNAME records pointing at a known
// parking host.
func DefaultParkingPredicate(r DNSRecord) bool {
	if r.Type != RecordTypeA && r.Type != RecordTypeCNAME {
		return false
	}
	addr := strings.ToLower(strings.TrimSuffix(r.Address, "."))
	for _, h := range defaultParkingHosts {
		if strings.Contains(addr, h) {
			return true
		}
	}
	return false
}
