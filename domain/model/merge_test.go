package model

import (
	"reflect"
	"testing"
)

func TestMergeRedirect(t *testing.T) {
	mx := DNSRecord{Domain: "example.com", Name: "@", Type: RecordTypeMX, Address: "mx1.mail.test", TTL: 3600, MXPref: 10}
	spf := DNSRecord{Domain: "example.com", Name: "@", Type: RecordTypeTXT, Address: "v=spf1 include:mail.test ~all", TTL: 1800}
	www := DNSRecord{Domain: "example.com", Name: "www", Type: RecordTypeA, Address: "1.2.3.4", TTL: 1800}
	parking := DNSRecord{Domain: "example.com", Name: "@", Type: RecordTypeCNAME, Address: "parkingpage.namecheap.com.", TTL: 1800}
	oldRedirect := DNSRecord{Domain: "example.com", Name: "@", Type: RecordTypeURL, Address: "https://oldsite.test", TTL: 300}
	newRedirect := DNSRecord{Domain: "example.com", Name: "@", Type: RecordTypeURL, Address: "https://newsite.test", TTL: DefaultRedirectTTL}

	tests := []struct {
		name    string
		records []DNSRecord
		want    []DNSRecord
	}{
		{
			name:    "unrelated records pass through untouched",
			records: []DNSRecord{mx, spf, www},
			want:    []DNSRecord{mx, spf, www, newRedirect},
		},
		{
			name:    "existing redirect for the name is replaced",
			records: []DNSRecord{mx, oldRedirect, www},
			want:    []DNSRecord{mx, www, newRedirect},
		},
		{
			name:    "parking record for the name is dropped",
			records: []DNSRecord{parking, mx, spf},
			want:    []DNSRecord{mx, spf, newRedirect},
		},
		{
			name:    "empty set yields just the redirect",
			records: nil,
			want:    []DNSRecord{newRedirect},
		},
		{
			name: "redirect on another name is untouched",
			records: []DNSRecord{
				{Domain: "example.com", Name: "promo", Type: RecordTypeURL, Address: "https://promo.test", TTL: 300},
				mx,
			},
			want: []DNSRecord{
				{Domain: "example.com", Name: "promo", Type: RecordTypeURL, Address: "https://promo.test", TTL: 300},
				mx, newRedirect,
			},
		},
		{
			name: "parking-like record on another name is untouched",
			records: []DNSRecord{
				{Domain: "example.com", Name: "old", Type: RecordTypeCNAME, Address: "parkingpage.namecheap.com", TTL: 1800},
			},
			want: []DNSRecord{
				{Domain: "example.com", Name: "old", Type: RecordTypeCNAME, Address: "parkingpage.namecheap.com", TTL: 1800},
				newRedirect,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]DNSRecord(nil), tt.records...)
			got := MergeRedirect(in, "example.com", "@", "https://newsite.test", nil)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeRedirect() = %+v, want %+v", got, tt.want)
			}
			if !reflect.DeepEqual(in, tt.records) {
				t.Errorf("MergeRedirect() mutated its input: %+v", in)
			}
		})
	}
}

func TestMergeRedirectIdempotent(t *testing.T) {
	records := []DNSRecord{
		{Domain: "example.com", Name: "@", Type: RecordTypeMX, Address: "mx1.mail.test", TTL: 3600, MXPref: 10},
		{Domain: "example.com", Name: "www", Type: RecordTypeA, Address: "1.2.3.4", TTL: 1800},
	}
	once := MergeRedirect(records, "example.com", "@", "https://newsite.test", nil)
	twice := MergeRedirect(once, "example.com", "@", "https://newsite.test", nil)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("repeated merge changed the set:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeRedirectKeepsMultipleTXT(t *testing.T) {
	records := []DNSRecord{
		{Domain: "example.com", Name: "@", Type: RecordTypeTXT, Address: "v=spf1 -all", TTL: 1800},
		{Domain: "example.com", Name: "@", Type: RecordTypeTXT, Address: "google-site-verification=abc", TTL: 1800},
	}
	got := MergeRedirect(records, "example.com", "@", "https://newsite.test", nil)
	if len(got) != 3 {
		t.Fatalf("expected both TXT records kept plus one URL, got %d records: %+v", len(got), got)
	}
	for i := range records {
		if !got[i].Equal(records[i]) {
			t.Errorf("TXT record %d changed: %+v", i, got[i])
		}
	}
}

func TestDefaultParkingPredicate(t *testing.T) {
	tests := []struct {
		name   string
		record DNSRecord
		want   bool
	}{
		{"cname to parking host", DNSRecord{Type: RecordTypeCNAME, Address: "parkingpage.namecheap.com"}, true},
		{"trailing dot and case", DNSRecord{Type: RecordTypeCNAME, Address: "ParkingPage.Namecheap.COM."}, true},
		{"a record to parking host", DNSRecord{Type: RecordTypeA, Address: "parking-page.namecheap.com"}, true},
		{"url record never parking", DNSRecord{Type: RecordTypeURL, Address: "parkingpage.namecheap.com"}, false},
		{"ordinary cname", DNSRecord{Type: RecordTypeCNAME, Address: "ghs.googlehosted.com"}, false},
		{"txt mentioning parking", DNSRecord{Type: RecordTypeTXT, Address: "parkingpage.namecheap.com"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultParkingPredicate(tt.record); got != tt.want {
				t.Errorf("DefaultParkingPredicate(%+v) = %v, want %v", tt.record, got, tt.want)
			}
		})
	}
}
