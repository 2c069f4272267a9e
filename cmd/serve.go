package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shiroyk/crumb"
	"github.com/shiroyk/crumb/api"
	"github.com/shiroyk/crumb/lib/config"
	"github.com/shiroyk/crumb/lib/logger"
	"github.com/shiroyk/crumb/lib/utils"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			store, closeStore, err := cfg.OpenStore()
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					logger.Error("failed to close store", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, store, cfg, utils.ZeroOr(address, cfg.API.Address))
		},
	}
	cmd.Flags().StringVarP(&address, "address", "a", "", "listen address, defaults to the configured one")
	return cmd
}

func serve(ctx context.Context, store crumb.Store, cfg config.Config, address string) error {
	e := api.Server(store, api.Options{
		Logger:   slog.Default(),
		Token:    cfg.API.Token,
		Timeout:  cfg.API.Timeout,
		Defaults: cfg.Cookie.Options(),
	})

	errC := make(chan error, 1)
	go func() {
		logger.Infof("api listening on %s", address)
		errC <- e.Start(address)
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
