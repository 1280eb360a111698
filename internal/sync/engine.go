// Package sync implements the command reconciliation engine: a polling loop
// that drains reload events, recompiles each affected guild's command graphs
// and re-registers them with Discord, isolating failures per guild.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/kbraden/slashforge/internal/compiler"
	"github.com/kbraden/slashforge/internal/config"
	"github.com/kbraden/slashforge/internal/graph"
	"github.com/kbraden/slashforge/internal/models"
	"github.com/kbraden/slashforge/internal/registry"
	"github.com/kbraden/slashforge/internal/store"
	"gorm.io/gorm"
)

const defaultPollInterval = 10 * time.Second

// Registry abstracts the Discord-facing client so the engine can be tested
// without a live gateway connection.
type Registry interface {
	Resolve(ctx context.Context, guildID string) (*registry.ResolvedGuild, error)
	Authorize(ctx context.Context, rg *registry.ResolvedGuild) error
	Overwrite(ctx context.Context, guildID string, cmds []compiler.Command) error
}

// RunDaemon runs the sync engine loop. It polls the reload event queue on a
// fixed interval, reconciles each affected guild, and records per-guild
// outcomes. Pass errors never stop the loop; only ctx cancellation does.
// Running two instances against one queue is unsupported: they would race on
// event consumption.
func RunDaemon(ctx context.Context, db *gorm.DB, cfg *config.Config, reg Registry, out io.Writer) error {
	if db == nil {
		return fmt.Errorf("sync: db is required")
	}
	if cfg == nil {
		return fmt.Errorf("sync: config is required")
	}
	if reg == nil {
		return fmt.Errorf("sync: registry is required")
	}
	if out == nil {
		out = io.Discard
	}

	pollInterval := cfg.Sync.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	fmt.Fprintf(out, "Sync engine starting (poll every %s)...\n", pollInterval)

	var nextResync time.Time
	if cfg.Sync.ResyncSchedule != "" {
		d := nextCronDuration(cfg.Sync.ResyncSchedule)
		if d > 0 {
			nextResync = time.Now().Add(d)
			fmt.Fprintf(out, "Scheduled full resync enabled (next at %s)\n", nextResync.Format(time.RFC3339))
		} else {
			log.Printf("sync: invalid resync schedule %q, disabled", cfg.Sync.ResyncSchedule)
		}
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(out, "Sync engine stopped.\n")
			return nil
		default:
		}

		// Scheduled safety-net resync: enqueue a global reload when due.
		if !nextResync.IsZero() && time.Now().After(nextResync) {
			if _, err := store.InsertReload(db, ""); err != nil {
				log.Printf("sync: scheduled resync enqueue: %v", err)
			} else {
				fmt.Fprintf(out, "Scheduled full resync queued\n")
			}
			if d := nextCronDuration(cfg.Sync.ResyncSchedule); d > 0 {
				nextResync = time.Now().Add(d)
			}
		}

		if err := RunPass(ctx, db, reg, cfg.Sync.EventBatch, out); err != nil {
			// Queue read/write failures abort only this pass.
			log.Printf("sync: pass error: %v", err)
		}

		sleepWithContext(ctx, pollInterval)
	}
}

// RunPass executes one reconciliation pass: drain pending reload events
// oldest-first and sync every guild each event targets. Each event is marked
// processed exactly once, after all its guilds were attempted, even when
// some of them failed: a poison event must not wedge the queue.
func RunPass(ctx context.Context, db *gorm.DB, reg Registry, batch int, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	events, err := store.PendingReloads(db, batch)
	if err != nil {
		return err
	}

	for i := range events {
		evt := &events[i]

		guilds, err := targetGuilds(db, evt)
		if err != nil {
			return err
		}

		for _, guildID := range guilds {
			rec := syncGuild(ctx, db, reg, guildID)
			rec.EventID = &evt.ID
			if err := store.RecordSync(db, rec); err != nil {
				log.Printf("sync: record outcome for %s: %v", guildID, err)
			}
			reportOutcome(out, rec)
		}

		if err := store.MarkProcessed(db, evt.ID); err != nil {
			return err
		}
	}

	return nil
}

// targetGuilds resolves the guild set a reload event applies to: its own
// guild when set, otherwise every guild that has at least one command row.
func targetGuilds(db *gorm.DB, evt *models.ReloadEvent) ([]string, error) {
	if evt.GuildID != nil && *evt.GuildID != "" {
		return []string{*evt.GuildID}, nil
	}
	return store.GuildsWithCommands(db)
}

// syncGuild reconciles one guild: resolve, authorize, compile every command
// row, bulk-overwrite. All failures are converted into the returned record;
// nothing propagates.
func syncGuild(ctx context.Context, db *gorm.DB, reg Registry, guildID string) *models.SyncRecord {
	rec := &models.SyncRecord{GuildID: guildID}

	rg, err := reg.Resolve(ctx, guildID)
	if err != nil {
		rec.Status = models.SyncSkippedUnreachable
		rec.Error = err.Error()
		return rec
	}

	if err := reg.Authorize(ctx, rg); err != nil {
		if errors.Is(err, registry.ErrUnauthorized) {
			rec.Status = models.SyncSkippedUnauthorized
			rec.Error = err.Error()
			return rec
		}
		// The gate only hard-fails on misuse; anything else was already
		// allowed through inside Authorize.
		log.Printf("sync: authorize %s: %v", guildID, err)
	}

	compiled, err := compileGuildCommands(db, guildID)
	if err != nil {
		rec.Status = models.SyncFailed
		rec.Error = err.Error()
		return rec
	}

	// Full replace: an empty set clears the guild's commands.
	if err := reg.Overwrite(ctx, guildID, compiled); err != nil {
		rec.Status = models.SyncFailed
		rec.Error = err.Error()
		return rec
	}

	rec.Status = models.SyncRegistered
	rec.CommandCount = len(compiled)
	return rec
}

// compileGuildCommands loads and compiles every command row in a guild. A
// row that fails to decode or validate is skipped with a log line so one
// broken graph cannot block the rest of the guild.
func compileGuildCommands(db *gorm.DB, guildID string) ([]compiler.Command, error) {
	rows, err := store.ListByGuild(db, guildID)
	if err != nil {
		return nil, err
	}

	compiled := make([]compiler.Command, 0, len(rows))
	for _, row := range rows {
		g, err := graph.Decode(row.ID, row.GuildID, row.Nodes, row.Edges)
		if err != nil {
			log.Printf("sync: command %s/%s: %v (skipped)", guildID, row.Name, err)
			continue
		}
		v, err := graph.Validate(g)
		if err != nil {
			log.Printf("sync: command %s/%s: %v (skipped)", guildID, row.Name, err)
			continue
		}
		compiled = append(compiled, compiler.Compile(v))
	}
	return compiled, nil
}

// reportOutcome writes one guild outcome to the operator log.
func reportOutcome(out io.Writer, rec *models.SyncRecord) {
	switch rec.Status {
	case models.SyncRegistered:
		fmt.Fprintf(out, "Guild %s: registered %d commands\n", rec.GuildID, rec.CommandCount)
	case models.SyncSkippedUnreachable:
		fmt.Fprintf(out, "Guild %s: unreachable, skipped\n", rec.GuildID)
	case models.SyncSkippedUnauthorized:
		fmt.Fprintf(out, "Guild %s: not authorized, skipped\n", rec.GuildID)
	case models.SyncFailed:
		fmt.Fprintf(out, "Guild %s: registration failed: %s\n", rec.GuildID, rec.Error)
	}
}

// sleepWithContext sleeps for duration d, returning early if ctx is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
