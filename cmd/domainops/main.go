package main

import (
	"context"
	"os"

	"log/slog"

	"github.com/domainops/domainops/internal/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "domainops",
		Short:   "DomainOps CLI",
		Long:    "Rate-limited DNS portfolio sync and safe redirect updates over the Namecheap API",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Config file (domainops.yml); defaults to environment-only configuration")
	cmd.PersistentFlags().String("log-format", "text", "Log format (text|json) (env DOMAINOPS_LOG_FORMAT)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		format, _ := c.Flags().GetString("log-format")
		if env := os.Getenv("DOMAINOPS_LOG_FORMAT"); env != "" { // env overrides flag
			format = env
		}
		level, _ := c.Flags().GetString("log-level")
		l, err := logging.New(format, slogLevel(level))
		if err != nil {
			return err
		}
		ctx := logging.WithLogger(c.Context(), l)
		c.SetContext(ctx)
		return nil
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdServe())
	cmd.AddCommand(newCmdSync())
	cmd.AddCommand(newCmdRedirect())
	cmd.AddCommand(newCmdDomains())
	return cmd
}

func slogLevel(s string) slog.Leveler {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Error(ctx, "failed", "error", err)
		os.Exit(1)
	}
}
