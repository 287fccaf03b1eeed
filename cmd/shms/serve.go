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

	"github.com/shms/shms/internal/api"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the local HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			return runServer(a)
		},
	}
}

func runServer(a *app) error {
	logger := a.logger
	e := api.NewServer(a.store, logger, api.Options{
		Autosave:          a.cfg.Autosave,
		LowStockThreshold: a.cfg.LowStockThreshold,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := a.cfg.Addr()
		logger.Info().Str("addr", addr).Str("data_dir", a.cfg.DataDir).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if err := a.store.SaveAll(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
