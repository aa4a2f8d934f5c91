package domainopscfg

import (
	"strings"
	"testing"
)

func validRoot() *Root {
	return &Root{
		Version: "v1",
		Registrar: Registrar{
			APIUser:  "acme",
			APIKey:   "secret",
			Username: "acme",
			ClientIP: "198.51.100.7",
		},
		Store: Store{URL: "sqlite:domainops.db"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Root)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(r *Root) {},
		},
		{
			name:    "missing api user",
			mutate:  func(r *Root) { r.Registrar.APIUser = "" },
			wantErr: "api_user",
		},
		{
			name:    "missing api key",
			mutate:  func(r *Root) { r.Registrar.APIKey = "" },
			wantErr: "api_key",
		},
		{
			name:    "missing client ip",
			mutate:  func(r *Root) { r.Registrar.ClientIP = "" },
			wantErr: "client_ip",
		},
		{
			name:    "malformed client ip",
			mutate:  func(r *Root) { r.Registrar.ClientIP = "not-an-ip" },
			wantErr: "not a valid IP",
		},
		{
			name:    "negative ceiling",
			mutate:  func(r *Root) { r.Limits.PerHour = -1 },
			wantErr: "ceilings",
		},
		{
			name:    "missing store url",
			mutate:  func(r *Root) { r.Store.URL = "" },
			wantErr: "store",
		},
		{
			name:    "bad log format",
			mutate:  func(r *Root) { r.Log.Format = "xml" },
			wantErr: "format",
		},
		{
			name:    "bad log level",
			mutate:  func(r *Root) { r.Log.Level = "trace" },
			wantErr: "level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRoot()
			tt.mutate(r)
			err := r.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
