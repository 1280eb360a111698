package models

import "time"

// ReloadEvent type values.
const (
	EventReloadCommands = "RELOAD_COMMANDS"
)

// ReloadEvent is a queued signal that a guild's commands (or all guilds'
// commands, when GuildID is nil) must be re-registered. Rows are marked
// processed rather than deleted so the table doubles as an audit trail.
type ReloadEvent struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	Type        string  `gorm:"size:32;not null;index"`
	GuildID     *string `gorm:"size:32"`
	CreatedAt   time.Time
	ProcessedAt *time.Time `gorm:"index"`
}

// Pending reports whether the event has not yet been consumed.
func (e *ReloadEvent) Pending() bool {
	return e.ProcessedAt == nil
}
