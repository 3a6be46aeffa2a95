package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/boxscores/internal/api"
	"github.com/pfrederiksen/boxscores/internal/api/handler"
	"github.com/pfrederiksen/boxscores/internal/ingest"
	"github.com/pfrederiksen/boxscores/internal/logger"
	"github.com/pfrederiksen/boxscores/internal/storage"
	"github.com/pfrederiksen/boxscores/internal/task"
)

const shutdownTimeout = 10 * time.Second

var (
	flagHost string
	flagPort int
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagHost, "host", "", "Listen host (default from API_HOST)")
	cmd.Flags().IntVar(&flagPort, "port", 0, "Listen port (default from API_PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	if flagHost != "" {
		cfg.APIHost = flagHost
	}
	if flagPort != 0 {
		cfg.APIPort = flagPort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage ready", logger.Fields{"store": cfg.Store})

	games := storage.NewGames(store)
	registry := task.NewRegistry(cfg.PaceDelay)
	defer registry.Close()

	h := handler.New(games, ingest.New(newFetcher(cfg), games), registry)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(h, cfg.CORSAllowOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting boxscores API", logger.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", nil, err)
	}
	logger.Info("Server stopped", nil)
	return nil
}
