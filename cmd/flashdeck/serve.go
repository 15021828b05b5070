package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lehmann314159/flashdeck/internal/api"
	"github.com/lehmann314159/flashdeck/internal/config"
	"github.com/lehmann314159/flashdeck/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := setup(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.Seed {
			n, err := a.service.Seed(ctx, services.StarterDeck())
			if err != nil {
				return err
			}
			if n == 0 {
				a.log.Info("store already has cards, skipping seed")
			}
		}

		handler := api.NewHandler(a.service, a.log.Named("api"))
		srv := &http.Server{
			Addr:              a.cfg.Addr,
			Handler:           api.NewRouter(handler, api.NewHealthHandler(a.db)),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.log.Info("listening", zap.String("addr", srv.Addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String(config.FlagAddr, "", "listen address (default :8080)")
	serveCmd.Flags().Bool(config.FlagSeed, false, "load the starter deck into an empty store")
}
