package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/kbraden/slashforge/internal/config"
	"github.com/kbraden/slashforge/internal/db"
	"github.com/kbraden/slashforge/internal/store"
	"github.com/spf13/cobra"
)

func newCommandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "command",
		Short: "Inspect and reload stored commands",
	}

	cmd.AddCommand(newCommandListCmd())
	cmd.AddCommand(newCommandReloadCmd())
	return cmd
}

func newCommandListCmd() *cobra.Command {
	var configPath string
	var guildID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored commands for a guild",
		RunE: func(cmd *cobra.Command, args []string) error {
			if guildID == "" {
				return fmt.Errorf("--guild is required")
			}
			return runCommandList(cmd, configPath, guildID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "slashforge.yaml", "path to Slashforge config file")
	cmd.Flags().StringVarP(&guildID, "guild", "g", "", "guild id to list commands for")
	return cmd
}

func runCommandList(cmd *cobra.Command, configPath, guildID string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	if err != nil {
		return err
	}

	cmds, err := store.ListByGuild(gormDB, guildID)
	if err != nil {
		return err
	}

	if len(cmds) == 0 {
		fmt.Fprintf(out, "No commands stored for guild %s\n", guildID)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION\tUPDATED")
	for _, c := range cmds {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Description, c.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func newCommandReloadCmd() *cobra.Command {
	var configPath string
	var guildID string

	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Queue a reload event",
		Long:  "Queues a reload event for one guild, or for all guilds when --guild is omitted. The sync engine picks it up on its next poll.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommandReload(cmd, configPath, guildID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "slashforge.yaml", "path to Slashforge config file")
	cmd.Flags().StringVarP(&guildID, "guild", "g", "", "guild id to reload (all guilds when omitted)")
	return cmd
}

func runCommandReload(cmd *cobra.Command, configPath, guildID string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	if err != nil {
		return err
	}

	evt, err := store.InsertReload(gormDB, guildID)
	if err != nil {
		return err
	}

	if guildID == "" {
		fmt.Fprintf(out, "Queued reload event %d for all guilds\n", evt.ID)
	} else {
		fmt.Fprintf(out, "Queued reload event %d for guild %s\n", evt.ID, guildID)
	}
	return nil
}
