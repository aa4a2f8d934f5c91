package main

import (
	"errors"
	"fmt"

	"github.com/domainops/domainops/domain/model"
	"github.com/domainops/domainops/internal/logging"
	"github.com/domainops/domainops/usecase/redirect"
	syncuc "github.com/domainops/domainops/usecase/sync"
	"github.com/spf13/cobra"
)

func newCmdRedirect() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "redirect",
		Short:              "Point domains at a URL without losing other records",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.AddCommand(newCmdRedirectSet(), newCmdRedirectBulk())
	return cmd
}

func newCmdRedirectSet() *cobra.Command {
	var name, target, client string

	cmd := &cobra.Command{
		Use:                "set <domain>",
		Short:              "Safely set a redirect on one domain",
		Args:               cobra.ExactArgs(1),
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

			out, err := a.Redirect.Update(ctx, &redirect.UpdateInput{
				Domain: args[0],
				Name:   name,
				Target: target,
				Client: client,
			})
			if err != nil {
				// A written-but-unverified update is a warning, not a loss;
				// the pre-image and merged set are both snapshotted.
				if out != nil && out.Written && errors.Is(err, model.ErrVerificationFailed) {
					logger.Warn(ctx, "write accepted but not visible yet", "domain", args[0], "error", err)
					return printJSON(cmd, out)
				}
				return err
			}
			return printJSON(cmd, out)
		},
	}

	cmd.Flags().StringVar(&name, "name", "@", "Host name to redirect")
	cmd.Flags().StringVar(&target, "target", "", "Destination URL (required)")
	cmd.Flags().StringVar(&client, "client", "", "Client tag for the inventory entry")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newCmdRedirectBulk() *cobra.Command {
	var name, target, client string
	var domains []string

	cmd := &cobra.Command{
		Use:                "bulk",
		Short:              "Run the redirect update over many domains as a resumable job",
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

			out, err := a.Sync.StartRedirect(ctx, &syncuc.StartRedirectInput{
				Domains: domains,
				Name:    name,
				Target:  target,
				Client:  client,
			})
			if err != nil {
				return err
			}
			logging.FromContext(ctx).Info(ctx, "bulk redirect started", "job", out.State.ID, "total", out.State.Total())
			return followJob(cmd, a, model.JobKindRedirect)
		},
	}

	cmd.Flags().StringSliceVar(&domains, "domains", nil, "Domains to update (default: whole portfolio)")
	cmd.Flags().StringVar(&name, "name", "@", "Host name to redirect")
	cmd.Flags().StringVar(&target, "target", "", "Destination URL (required)")
	cmd.Flags().StringVar(&client, "client", "", "Client tag for the inventory entries")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
