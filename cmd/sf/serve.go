package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/kbraden/slashforge/internal/config"
	"github.com/kbraden/slashforge/internal/dashboard"
	"github.com/kbraden/slashforge/internal/db"
	"github.com/kbraden/slashforge/internal/registry"
	"github.com/kbraden/slashforge/internal/sync"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var configPath string
	var apiOnly bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API and sync engine",
		Long:  "Serves the command editor API and runs the sync engine in one process. Runs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, apiOnly)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "slashforge.yaml", "path to Slashforge config file")
	cmd.Flags().BoolVar(&apiOnly, "api-only", false, "serve the API without the sync engine")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, apiOnly bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return dashboard.Start(ctx, dashboard.StartOpts{
			DB:   gormDB,
			Port: cfg.API.Port,
			Out:  out,
		})
	})

	if !apiOnly {
		reg, err := registry.New(registry.Opts{
			BotToken:      cfg.BotToken,
			ApplicationID: cfg.ApplicationID,
		})
		if err != nil {
			return err
		}
		if err := reg.Connect(ctx); err != nil {
			return err
		}
		defer reg.Close()
		fmt.Fprintf(out, "Connected to Discord gateway\n")

		g.Go(func() error {
			return sync.RunDaemon(ctx, gormDB, cfg, reg, out)
		})
	}

	return g.Wait()
}
