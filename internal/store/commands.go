// Package store provides the persisted command table and reload event queue.
package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kbraden/slashforge/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListByGuild returns all command rows for a guild, ordered by name.
func ListByGuild(db *gorm.DB, guildID string) ([]models.Command, error) {
	if guildID == "" {
		return nil, fmt.Errorf("store: guildID is required")
	}

	var cmds []models.Command
	if err := db.Where("guild_id = ?", guildID).
		Order("name ASC").Find(&cmds).Error; err != nil {
		return nil, fmt.Errorf("store: list commands for guild %s: %w", guildID, err)
	}
	return cmds, nil
}

// Exists reports whether a command with this name already exists in the guild.
func Exists(db *gorm.DB, guildID, name string) (bool, error) {
	var count int64
	if err := db.Model(&models.Command{}).
		Where("guild_id = ? AND name = ?", guildID, name).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("store: exists %s/%s: %w", guildID, name, err)
	}
	return count > 0, nil
}

// Upsert writes a command row, replacing any existing row with the same
// (guild, name) pair. Graphs are only ever replaced whole, never patched.
func Upsert(db *gorm.DB, cmd *models.Command) error {
	if cmd.GuildID == "" {
		return fmt.Errorf("store: guildID is required")
	}
	if cmd.Name == "" {
		return fmt.Errorf("store: name is required")
	}
	if cmd.ID == "" {
		cmd.ID = uuid.NewString()
	}
	now := time.Now()
	if cmd.CreatedAt.IsZero() {
		cmd.CreatedAt = now
	}
	cmd.UpdatedAt = now

	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "guild_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "nodes", "edges", "updated_at",
		}),
	}).Create(cmd)
	if result.Error != nil {
		return fmt.Errorf("store: upsert %s/%s: %w", cmd.GuildID, cmd.Name, result.Error)
	}
	return nil
}

// Delete removes a command row. Returns an error if no row matched.
func Delete(db *gorm.DB, guildID, name string) error {
	result := db.Where("guild_id = ? AND name = ?", guildID, name).
		Delete(&models.Command{})
	if result.Error != nil {
		return fmt.Errorf("store: delete %s/%s: %w", guildID, name, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("store: command not found: %s/%s", guildID, name)
	}
	return nil
}

// GuildsWithCommands returns the distinct guild ids that have at least one
// command row. Used when a reload event targets all guilds.
func GuildsWithCommands(db *gorm.DB) ([]string, error) {
	var guilds []string
	if err := db.Model(&models.Command{}).
		Distinct("guild_id").Order("guild_id ASC").
		Pluck("guild_id", &guilds).Error; err != nil {
		return nil, fmt.Errorf("store: guilds with commands: %w", err)
	}
	return guilds, nil
}
