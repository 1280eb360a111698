package models

import "time"

// Command is a stored slash command definition authored in the graph editor.
// Nodes and Edges hold the persisted graph as JSON; the sync engine compiles
// them into a registration payload on every reload.
type Command struct {
	ID          string `gorm:"primaryKey;size:36"`
	GuildID     string `gorm:"size:32;not null;uniqueIndex:idx_guild_name"`
	Name        string `gorm:"size:32;not null;uniqueIndex:idx_guild_name"`
	Description string `gorm:"size:100"`
	Nodes       string `gorm:"type:json"`
	Edges       string `gorm:"type:json"`
	CreatedBy   string `gorm:"size:32"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
