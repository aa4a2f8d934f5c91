package domainopscfg

import (
	"fmt"
	"net"
)

// Validate performs semantic validation on the configuration tree. Credential
// presence is checked here rather than at first provider call so a
// misconfigured daemon fails at startup.
func (r *Root) Validate() error {
	if err := r.Registrar.validate(); err != nil {
		return fmt.Errorf("registrar: %w", err)
	}
	if err := r.Limits.validate(); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	if r.Store.URL == "" {
		return fmt.Errorf("store: url is required")
	}
	if err := r.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func (c *Registrar) validate() error {
	if c.APIUser == "" {
		return fmt.Errorf("api_user is required (or NAMECHEAP_API_USER)")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required (or NAMECHEAP_API_KEY)")
	}
	if c.ClientIP == "" {
		return fmt.Errorf("client_ip is required (or NAMECHEAP_CLIENT_IP)")
	}
	if net.ParseIP(c.ClientIP) == nil {
		return fmt.Errorf("client_ip %q is not a valid IP address", c.ClientIP)
	}
	return nil
}

func (l *Limits) validate() error {
	if l.PerMinute < 0 || l.PerHour < 0 || l.PerDay < 0 {
		return fmt.Errorf("ceilings must not be negative")
	}
	return nil
}

func (l *Log) validate() error {
	switch l.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("format %q is not supported", l.Format)
	}
	switch l.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level %q is not supported", l.Level)
	}
	return nil
}
