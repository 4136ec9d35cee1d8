package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aaronzipp/sus-arena/internal/arena"
	"github.com/aaronzipp/sus-arena/internal/handlers"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the matching loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := opts.open(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			if addr != "" {
				a.cfg.Addr = addr
			}

			svc, err := a.service(arena.Options{SeedAgents: a.cfg.SeedAgents})
			if err != nil {
				return err
			}
			if err := svc.Start(ctx); err != nil {
				return fmt.Errorf("start arena: %w", err)
			}
			defer svc.Stop()

			h := &handlers.Context{Arena: svc, PublicURL: a.cfg.PublicURL, Logger: a.logger}
			srv := &http.Server{
				Addr:              a.cfg.Addr,
				Handler:           h.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
				// Event streams end with the process
				BaseContext: func(net.Listener) context.Context { return ctx },
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server starting", "addr", a.cfg.Addr, "public_url", a.cfg.PublicURL)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SUS_ADDR)")
	return cmd
}
