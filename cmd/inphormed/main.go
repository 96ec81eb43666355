// Command inphormed runs the customizable dashboard, the layout API it syncs
// with, and a few layout maintenance commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inphormed/internal/cache"
	"inphormed/internal/client"
	"inphormed/internal/config"
	"inphormed/internal/layout"
	"inphormed/internal/logging"
	"inphormed/internal/trace"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "inphormed",
		Short: "Customizable dashboard for the inPhormed verification tool",
		Long: `inphormed shows the chat, verification and content-creation widgets in a
terminal dashboard whose order and visibility you can change.

Press e (or SPC c) to enter customization mode, then drag widgets with the
mouse or move the focused one with K/J. Press : to give the UI agent a
command such as "pon verificar claims primero".

The layout is cached locally and synced with the layout API, which this
binary also serves (inphormed serve).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = c

			opts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}
			if verbose {
				opts.Level = "debug"
			}
			// The dashboard owns the terminal.
			if cmd == cmd.Root() && opts.File == "" {
				opts.File = logging.DefaultFile()
			}
			logger, err = logging.New(opts)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runDashboard,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $INPHORMED_CONFIG or ~/.config/inphormed/config.toml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newServeCmd(), newLayoutCmd(), newCommandCmd())
	return root
}

// layoutDeps is what every client-side command needs: the store wired to the
// backend client and the local cache.
type layoutDeps struct {
	store  *layout.Store
	client *client.Client
	cache  *cache.Slot
	tracer *trace.Provider
}

func (d *layoutDeps) Close() {
	d.store.Wait()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Client.Timeout)
	defer cancel()
	if err := d.tracer.Shutdown(ctx); err != nil {
		logger.Debug("trace shutdown failed", zap.Error(err))
	}
}

func openLayout(ctx context.Context) (*layoutDeps, error) {
	tp, err := trace.NewProvider(ctx, "client")
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	c := client.New(cfg.Client.BaseURL,
		client.WithTimeout(cfg.Client.Timeout),
		client.WithTracer(tp),
		client.WithLogger(logger),
	)
	cs, err := cache.NewStore(cfg.CacheDir())
	if err != nil {
		return nil, fmt.Errorf("open layout cache: %w", err)
	}
	slot := cs.Slot(cfg.Cache.Key)
	s := layout.NewStore(c, slot,
		layout.WithLogger(logger),
		layout.WithPushTimeout(cfg.Client.Timeout),
	)
	return &layoutDeps{store: s, client: c, cache: slot, tracer: tp}, nil
}
