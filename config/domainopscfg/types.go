// Package domainopscfg defines the configuration schema (structs) for
// domainops.yml. This package is intended for YAML -> struct deserialization;
// loading helpers and validations live in separate files.
package domainopscfg

import "time"

// Root is the root structure of domainops.yml.
type Root struct {
	Version   string    `yaml:"version"`
	Registrar Registrar `yaml:"registrar"`
	Limits    Limits    `yaml:"limits"`
	Store     Store     `yaml:"store"`
	Server    Server    `yaml:"server"`
	Sync      Sync      `yaml:"sync"`
	Log       Log       `yaml:"log"`
}

// Registrar holds provider API credentials and endpoint selection. The
// credential fields are normally left empty in the file and injected from the
// environment; see Load.
type Registrar struct {
	BaseURL  string `yaml:"base_url,omitempty"`
	Sandbox  bool   `yaml:"sandbox,omitempty"`
	APIUser  string `yaml:"api_user,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	Username string `yaml:"username,omitempty"`
	ClientIP string `yaml:"client_ip,omitempty"`
}

// Limits overrides the request ceilings. Zero fields keep the provider's
// published defaults.
type Limits struct {
	PerMinute int `yaml:"per_minute,omitempty"`
	PerHour   int `yaml:"per_hour,omitempty"`
	PerDay    int `yaml:"per_day,omitempty"`
}

// Store selects the persistence backend, e.g. "sqlite:domainops.db".
type Store struct {
	URL string `yaml:"url"`
}

// Server configures the control API listener.
type Server struct {
	Addr string `yaml:"addr,omitempty"` // e.g. ":8080"
}

// Sync tunes the bulk job runner and the safe update flow.
type Sync struct {
	PageSize        int      `yaml:"page_size,omitempty"`
	MaxPages        int      `yaml:"max_pages,omitempty"`
	BaseItemDelay   Duration `yaml:"base_item_delay,omitempty"`
	RetryAttempts   int      `yaml:"retry_attempts,omitempty"`
	RetryInterval   Duration `yaml:"retry_interval,omitempty"`
	PropagationWait Duration `yaml:"propagation_wait,omitempty"`
}

// Duration accepts Go duration strings ("500ms", "2s") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the stdlib duration value.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Log selects the logging handler.
type Log struct {
	Format string `yaml:"format,omitempty"` // text|json
	Level  string `yaml:"level,omitempty"`  // debug|info|warn|error
}
