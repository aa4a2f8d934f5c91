package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/domainops/domainops/domain/model"
	"github.com/domainops/domainops/internal/logging"
	syncuc "github.com/domainops/domainops/usecase/sync"
	"github.com/spf13/cobra"
)

var flagJobKind string

func newCmdSync() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "sync",
		Short:              "Run and control bulk sync jobs",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.PersistentFlags().StringVarP(&flagJobKind, "kind", "k", string(model.JobKindFullSync), "Job kind (full-sync|redirect|forwarding)")
	cmd.AddCommand(newCmdSyncStart(), newCmdSyncStatus(), newCmdSyncStop(), newCmdSyncResume())
	return cmd
}

func newCmdSyncStart() *cobra.Command {
	var domains []string
	var follow bool

	cmd := &cobra.Command{
		Use:                "start",
		Short:              "Start a full record-set sync over the portfolio",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)

			out, err := a.Sync.StartFullSync(ctx, &syncuc.StartFullSyncInput{Domains: domains})
			if err != nil {
				return err
			}
			logger.Info(ctx, "sync started", "job", out.State.ID, "total", out.State.Total())
			if !follow {
				return printJSON(cmd, out.State)
			}
			return followJob(cmd, a, model.JobKindFullSync)
		},
	}

	cmd.Flags().StringSliceVar(&domains, "domains", nil, "Domains to sync (default: whole portfolio)")
	cmd.Flags().BoolVar(&follow, "follow", true, "Wait for the run to finish and stream progress")
	return cmd
}

func newCmdSyncStatus() *cobra.Command {
	return &cobra.Command{
		Use:                "status",
		Short:              "Show the current job state",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			if err := a.Sync.Hydrate(cmd.Context()); err != nil {
				return err
			}
			out, err := a.Sync.Progress(cmd.Context(), &syncuc.ProgressInput{Kind: model.JobKind(flagJobKind)})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.State)
		},
	}
}

func newCmdSyncStop() *cobra.Command {
	return &cobra.Command{
		Use:                "stop",
		Short:              "Stop the active job after the in-flight item",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			out, err := a.Sync.Stop(cmd.Context(), &syncuc.StopInput{Kind: model.JobKind(flagJobKind)})
			if err != nil {
				return err
			}
			return printJSON(cmd, out.State)
		},
	}
}

func newCmdSyncResume() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:                "resume",
		Short:              "Resume a rate-limited job at its frozen cursor",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := a.Sync.Hydrate(ctx); err != nil {
				return err
			}
			kind := model.JobKind(flagJobKind)
			out, err := a.Sync.Resume(ctx, &syncuc.ResumeInput{Kind: kind})
			if err != nil {
				return err
			}
			logging.FromContext(ctx).Info(ctx, "sync resumed", "job", out.State.ID, "cursor", out.State.Cursor)
			if !follow {
				return printJSON(cmd, out.State)
			}
			return followJob(cmd, a, kind)
		},
	}

	cmd.Flags().BoolVar(&follow, "follow", true, "Wait for the run to finish and stream progress")
	return cmd
}

// followJob polls progress until the run leaves its active states, then
// prints the final state. A rate-limit pause ends the watch; the operator
// resumes later.
func followJob(cmd *cobra.Command, a *app, kind model.JobKind) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	for {
		out, err := a.Sync.Progress(ctx, &syncuc.ProgressInput{Kind: kind})
		if err != nil {
			return err
		}
		st := out.State
		switch st.Status {
		case model.JobStatusStarting, model.JobStatusRunning:
			logger.Info(ctx, "sync progress",
				"cursor", st.Cursor, "total", st.Total(), "current", st.CurrentDomain,
				"added", st.Added, "updated", st.Updated, "errors", st.Errors)
		default:
			if err := printJSON(cmd, st); err != nil {
				return err
			}
			if st.Status == model.JobStatusRateLimited {
				return fmt.Errorf("job paused by rate limit: %s (resume with 'domainops sync resume')", st.RateLimitReason)
			}
			if st.Status == model.JobStatusError {
				return fmt.Errorf("job failed: %s", st.LastError)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
