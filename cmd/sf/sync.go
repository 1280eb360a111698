package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/kbraden/slashforge/internal/config"
	"github.com/kbraden/slashforge/internal/db"
	"github.com/kbraden/slashforge/internal/registry"
	"github.com/kbraden/slashforge/internal/sync"
	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the command sync engine",
		Long:  "Connects to the Discord gateway and polls the reload event queue, re-registering guild commands as graphs change. Runs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "slashforge.yaml", "path to Slashforge config file")
	return cmd
}

func runSync(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	if err != nil {
		return err
	}

	reg, err := registry.New(registry.Opts{
		BotToken:      cfg.BotToken,
		ApplicationID: cfg.ApplicationID,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := reg.Connect(ctx); err != nil {
		return err
	}
	defer reg.Close()
	fmt.Fprintf(out, "Connected to Discord gateway\n")

	return sync.RunDaemon(ctx, gormDB, cfg, reg, out)
}
