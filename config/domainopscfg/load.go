package domainopscfg

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file from the given path and returns a deserialized Root
// with environment overrides applied. A .env file next to the working
// directory is loaded first when present; real environment variables win over
// it. Credentials belong in the environment, not in a committed YAML file.
func Load(path string) (*Root, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var cfg Root
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	cfg.applyEnv()
	return &cfg, nil
}

// Default returns the configuration used when no file is given: environment
// credentials, sqlite store, production endpoint.
func Default() *Root {
	_ = godotenv.Load()
	cfg := &Root{
		Version: "v1",
		Store:   Store{URL: "sqlite:domainops.db"},
		Server:  Server{Addr: ":8080"},
	}
	cfg.applyEnv()
	return cfg
}

func (r *Root) applyEnv() {
	setIfEnv(&r.Registrar.APIUser, "NAMECHEAP_API_USER")
	setIfEnv(&r.Registrar.APIKey, "NAMECHEAP_API_KEY")
	setIfEnv(&r.Registrar.Username, "NAMECHEAP_USERNAME")
	setIfEnv(&r.Registrar.ClientIP, "NAMECHEAP_CLIENT_IP")
	setIfEnv(&r.Registrar.BaseURL, "NAMECHEAP_BASE_URL")
	setIfEnv(&r.Store.URL, "DOMAINOPS_DB_URL")
	setIfEnv(&r.Server.Addr, "DOMAINOPS_ADDR")
	if r.Registrar.Username == "" {
		r.Registrar.Username = r.Registrar.APIUser
	}
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
