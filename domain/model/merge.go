package model

// MergeRedirect computes the complete record set that results from pointing
// name at target on the given domain. It starts from the current set and:
//   - removes parking/placeholder records for name (per isParking),
//   - removes existing redirect-type records for name (replace semantics),
//   - appends one URL record {name, target, DefaultRedirectTTL}.
//
// Every other record passes through untouched, in order. The input slice is
// not modified. The provider write primitive is a full replace, so the
// returned set is what must be sent back in its entirety.
func MergeRedirect(records []DNSRecord, domain, name, target string, isParking ParkingPredicate) []DNSRecord {
	if isParking == nil {
		isParking = DefaultParkingPredicate
	}

	merged := make([]DNSRecord, 0, len(records)+1)
	for _, r := range records {
		if r.Name == name {
			if r.Type.IsRedirect() {
				continue
			}
			if isParking(r) {
				continue
			}
		}
		merged = append(merged, r)
	}

	merged = append(merged, DNSRecord{
		Domain:  domain,
		Name:    name,
		Type:    RecordTypeURL,
		Address: target,
		TTL:     DefaultRedirectTTL,
	})

	return merged
}
