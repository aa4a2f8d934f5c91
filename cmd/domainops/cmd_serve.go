package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/domainops/domainops/adapters/httpapi"
	"github.com/domainops/domainops/internal/logging"
	"github.com/spf13/cobra"
)

func newCmdServe() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:                "serve",
		Short:              "Run the control API server",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			logger := logging.FromContext(ctx)

			if err := a.Sync.Hydrate(ctx); err != nil {
				return err
			}

			if addr == "" {
				addr = a.Config.Server.Addr
			}
			if addr == "" {
				addr = ":8080"
			}
			server := &httpapi.Server{
				Sync:     a.Sync,
				Redirect: a.Redirect,
				Governor: a.Governor,
				Domains:  a.Stores.Domain,
				Snapshot: a.Stores.Snapshot,
				Logger:   logger,
				Version:  version,
			}
			srv := &http.Server{Addr: addr, Handler: server.Router()}

			errCh := make(chan error, 1)
			go func() {
				logger.Info(ctx, "control API listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info(ctx, "shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, then :8080)")
	return cmd
}
