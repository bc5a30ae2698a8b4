package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wanderplan/acquire"
	"wanderplan/backend"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (/api/trip, /api/nearby, /api/saved)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := backend.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// The server always generates in-process; it is the remote path for others.
	var gen backend.Generator
	client, err := acquire.DirectClient(ctx, cfg, logger)
	switch {
	case err == nil:
		gen = client
	case errors.Is(err, acquire.ErrNotConfigured):
		logger.Warn("GEMINI_API_KEY not set, generation endpoints will fail")
	default:
		return err
	}

	srv := backend.New(cfg.Server, gen, store, logger)
	logger.Info("API", zap.String("url", "http://localhost"+cfg.Server.Addr+"/api"))
	return srv.Run(ctx)
}
