package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/domainops/domainops/internal/logging"
	syncuc "github.com/domainops/domainops/usecase/sync"
	"github.com/spf13/cobra"
)

func newCmdDomains() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "domains",
		Short:              "Manage the local domain inventory",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE:               func(cmd *cobra.Command, args []string) error { return fmt.Errorf("invalid command") },
	}
	cmd.AddCommand(newCmdDomainsList(), newCmdDomainsPull(), newCmdDomainsClient(), newCmdDomainsSnapshots())
	return cmd
}

func newCmdDomainsList() *cobra.Command {
	return &cobra.Command{
		Use:                "list",
		Short:              "List inventory domains in import order",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			entries, err := a.Stores.Domain.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NUM\tDOMAIN\tCLIENT\tSYNC\tUPDATED")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					e.Number, e.Name, e.Client, e.SyncStatus, e.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newCmdDomainsPull() *cobra.Command {
	return &cobra.Command{
		Use:                "pull",
		Short:              "Pull the portfolio from the registrar into the inventory",
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
			out, err := a.Sync.PullDomains(ctx, &syncuc.PullDomainsInput{})
			if err != nil {
				return err
			}
			logging.FromContext(ctx).Info(ctx, "portfolio pulled", "domains", len(out.Domains), "pages", out.Pages)
			return printJSON(cmd, out)
		},
	}
}

func newCmdDomainsClient() *cobra.Command {
	return &cobra.Command{
		Use:                "client <domain> <tag>",
		Short:              "Assign a client tag to an inventory domain",
		Args:               cobra.ExactArgs(2),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			if err := a.Stores.Domain.AssignClient(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], args[1])
			return nil
		},
	}
}

func newCmdDomainsSnapshots() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:                "snapshots <domain>",
		Short:              "Show the snapshot history of a domain",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			metas, err := a.Stores.Snapshot.History(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCAPTURED\tRECORDS\tCURRENT")
			for _, m := range metas {
				fmt.Fprintf(w, "%s\t%s\t%d\t%v\n",
					m.ID, m.CapturedAt.Format("2006-01-02 15:04:05"), m.RecordCount, m.Current)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum history entries")
	return cmd
}
