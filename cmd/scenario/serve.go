package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/scenario-engine/api"
	"github.com/warp/scenario-engine/scenario"
	"github.com/warp/scenario-engine/scenario/store"
	"github.com/warp/scenario-engine/store/sqlite"
)

const shutdownTimeout = 30 * time.Second

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the scenario API. The scenario library is kept in SQLite by default;
use --backend memory or --db ":memory:" for a throwaway library.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().Int("port", 8080, "HTTP server port")
	cmd.Flags().String("db", "./scenarios.db", `SQLite database path (":memory:" for in-memory)`)
	cmd.Flags().String("backend", "sqlite", "storage backend (sqlite, memory)")
	cmd.Flags().Int("parallel", 4, "max concurrent runs per batch (0 = unlimited)")
	return cmd
}

func (a *app) openStore() (scenario.Store, func() error, error) {
	switch a.cfg.Database.Backend {
	case "memory":
		return store.NewMemory(), func() error { return nil }, nil
	default:
		s, err := sqlite.New(a.cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return s, s.Close, nil
	}
}

func (a *app) serve(ctx context.Context) error {
	st, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.logger.Error("failed to close store", "error", err)
		}
	}()

	sim := scenario.NewSimulator(a.logger, a.cfg.Simulation.MaxParallel)
	handler := api.NewHandler(st, sim, a.logger, a.cfg.Simulation.DefaultHorizonMonths)
	router := api.NewRouter(handler, a.cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			"addr", server.Addr,
			"backend", a.cfg.Database.Backend,
			"db", a.cfg.Database.Path)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}
