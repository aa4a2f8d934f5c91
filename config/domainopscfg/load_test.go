package domainopscfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "domainops.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
version: v1
registrar:
  sandbox: true
  api_user: acme
  api_key: secret
  client_ip: 198.51.100.7
limits:
  per_minute: 10
  per_hour: 350
store:
  url: sqlite:/var/lib/domainops/db.sqlite
server:
  addr: ":9090"
sync:
  page_size: 50
  base_item_delay: 250ms
  propagation_wait: 10s
log:
  format: json
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Registrar.Sandbox || cfg.Registrar.APIUser != "acme" {
		t.Errorf("registrar = %+v", cfg.Registrar)
	}
	// Username falls back to the API user when unset.
	if cfg.Registrar.Username != "acme" {
		t.Errorf("Username = %q, want api_user fallback", cfg.Registrar.Username)
	}
	if cfg.Limits.PerMinute != 10 || cfg.Limits.PerHour != 350 || cfg.Limits.PerDay != 0 {
		t.Errorf("limits = %+v", cfg.Limits)
	}
	if cfg.Sync.BaseItemDelay.Std() != 250*time.Millisecond {
		t.Errorf("BaseItemDelay = %v", cfg.Sync.BaseItemDelay.Std())
	}
	if cfg.Sync.PropagationWait.Std() != 10*time.Second {
		t.Errorf("PropagationWait = %v", cfg.Sync.PropagationWait.Std())
	}
	if cfg.Server.Addr != ":9090" || cfg.Log.Format != "json" {
		t.Errorf("server/log = %+v %+v", cfg.Server, cfg.Log)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("NAMECHEAP_API_KEY", "env-secret")
	t.Setenv("DOMAINOPS_DB_URL", "sqlite::memory:")

	path := writeConfig(t, `
registrar:
  api_user: acme
  api_key: file-secret
  client_ip: 198.51.100.7
store:
  url: sqlite:file.db
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Registrar.APIKey != "env-secret" {
		t.Errorf("APIKey = %q, want environment to win", cfg.Registrar.APIKey)
	}
	if cfg.Store.URL != "sqlite::memory:" {
		t.Errorf("Store.URL = %q", cfg.Store.URL)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `
sync:
  base_item_delay: quick
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted a malformed duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("Load() succeeded on a missing file")
	}
}

func TestDefaultReadsEnvironment(t *testing.T) {
	t.Setenv("NAMECHEAP_API_USER", "acme")
	t.Setenv("NAMECHEAP_API_KEY", "secret")
	t.Setenv("NAMECHEAP_CLIENT_IP", "198.51.100.7")

	cfg := Default()
	if cfg.Registrar.APIUser != "acme" || cfg.Registrar.Username != "acme" {
		t.Errorf("registrar = %+v", cfg.Registrar)
	}
	if cfg.Store.URL == "" || cfg.Server.Addr == "" {
		t.Errorf("defaults missing: %+v", cfg)
	}
}
