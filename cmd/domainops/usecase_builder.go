package main

import (
	"github.com/domainops/domainops/adapters/registrar/namecheap"
	"github.com/domainops/domainops/config/domainopscfg"
	"github.com/domainops/domainops/internal/ratelimit"
	"github.com/domainops/domainops/usecase/redirect"
	syncuc "github.com/domainops/domainops/usecase/sync"
	"github.com/spf13/cobra"
)

// app bundles everything a command needs after wiring.
type app struct {
	Config    *domainopscfg.Root
	Stores    *stores
	Governor  *ratelimit.Governor
	Registrar *namecheap.Client
	Redirect  *redirect.UseCase
	Sync      *syncuc.UseCase
}

// buildApp wires config, stores, governor, gateway, and use cases. Every
// command goes through here so the governor is always the single one guarding
// the provider.
func buildApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st, err := buildStores(cfg)
	if err != nil {
		return nil, err
	}

	governor := ratelimit.New(ratelimit.Limits{
		PerMinute: cfg.Limits.PerMinute,
		PerHour:   cfg.Limits.PerHour,
		PerDay:    cfg.Limits.PerDay,
	})

	baseURL := cfg.Registrar.BaseURL
	if baseURL == "" && cfg.Registrar.Sandbox {
		baseURL = namecheap.SandboxBaseURL
	}
	client, err := namecheap.New(namecheap.Config{
		BaseURL:  baseURL,
		APIUser:  cfg.Registrar.APIUser,
		APIKey:   cfg.Registrar.APIKey,
		Username: cfg.Registrar.Username,
		ClientIP: cfg.Registrar.ClientIP,
	}, governor)
	if err != nil {
		return nil, err
	}

	red := &redirect.UseCase{
		Repos:           &redirect.Repos{Snapshot: st.Snapshot, Domain: st.Domain},
		Registrar:       client,
		PropagationWait: cfg.Sync.PropagationWait.Std(),
		RetryAttempts:   cfg.Sync.RetryAttempts,
		RetryInterval:   cfg.Sync.RetryInterval.Std(),
	}
	sy := &syncuc.UseCase{
		Repos:         &syncuc.Repos{Snapshot: st.Snapshot, Domain: st.Domain, JobState: st.JobState},
		Registrar:     client,
		Redirect:      red,
		RetryAttempts: cfg.Sync.RetryAttempts,
		RetryInterval: cfg.Sync.RetryInterval.Std(),
		BaseItemDelay: cfg.Sync.BaseItemDelay.Std(),
		PageSize:      cfg.Sync.PageSize,
		MaxPages:      cfg.Sync.MaxPages,
	}

	return &app{
		Config:    cfg,
		Stores:    st,
		Governor:  governor,
		Registrar: client,
		Redirect:  red,
		Sync:      sy,
	}, nil
}
