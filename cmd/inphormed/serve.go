package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"inphormed/internal/server"
	"inphormed/internal/store"
	"inphormed/internal/trace"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var addr, storage string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API and the UI agent",
		Long: `Serves GET/POST /api/ui-layout, POST /api/ui-agent/command and GET /health.

The layout is stored as a JSON file (storage = "file") or in SQLite
(storage = "sqlite").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if storage != "" {
				cfg.Server.Storage = storage
			}
			return runServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8000)")
	cmd.Flags().StringVar(&storage, "storage", "", "layout storage driver: file or sqlite")
	return cmd
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := store.Open(cfg.Server.Storage, cfg.Server.StoragePath())
	if err != nil {
		return err
	}
	defer repo.Close()

	tp, err := trace.NewProvider(ctx, "server")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	srv := server.New(cfg.Server.Addr, repo,
		server.WithLogger(logger),
		server.WithTracer(tp),
	)

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	cyan.Print("inphormed layout api ")
	gray.Printf("addr=%s storage=%s path=%s tracing=%v\n",
		srv.Addr(), cfg.Server.Storage, cfg.Server.StoragePath(), tp.Enabled())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down layout api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
			return err
		}
		return nil
	})
	return g.Wait()
}
