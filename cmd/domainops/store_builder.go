package main

import (
	"fmt"
	"strings"

	"github.com/domainops/domainops/adapters/store/memory"
	"github.com/domainops/domainops/adapters/store/rdb"
	"github.com/domainops/domainops/config/domainopscfg"
	"github.com/domainops/domainops/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// stores bundles the three repositories every command wires the same way.
type stores struct {
	Snapshot domain.SnapshotRepository
	Domain   domain.DomainRepository
	JobState domain.JobStateRepository
}

// loadConfig reads the --config file when given, otherwise builds an
// environment-only configuration.
func loadConfig(cmd *cobra.Command) (*domainopscfg.Root, error) {
	path := ""
	if f := findFlag(cmd, "config"); f != nil {
		path = f.Value.String()
	}
	if path == "" {
		return domainopscfg.Default(), nil
	}
	return domainopscfg.Load(path)
}

// buildStores opens the persistence backend named by the store URL.
// "memory:" serves throwaway runs; anything sqlite-shaped goes through gorm.
func buildStores(cfg *domainopscfg.Root) (*stores, error) {
	url := cfg.Store.URL
	switch {
	case url == "memory:":
		return &stores{
			Snapshot: memory.NewSnapshotRepository(),
			Domain:   memory.NewDomainRepository(),
			JobState: memory.NewJobStateRepository(),
		}, nil
	case strings.HasPrefix(url, "sqlite:") || strings.HasPrefix(url, "sqlite3:"):
		db, err := rdb.OpenFromURL(url)
		if err != nil {
			return nil, err
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, err
		}
		return &stores{
			Snapshot: rdb.NewSnapshotRepository(db),
			Domain:   rdb.NewDomainRepository(db),
			JobState: rdb.NewJobStateRepository(db),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store scheme: %s", url)
	}
}

// findFlag resolves a flag through the command hierarchy.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}
