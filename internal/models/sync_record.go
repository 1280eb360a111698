package models

import "time"

// Sync outcome statuses.
const (
	SyncRegistered          = "registered"
	SyncSkippedUnreachable  = "skipped_unreachable"
	SyncSkippedUnauthorized = "skipped_unauthorized"
	SyncFailed              = "failed"
)

// SyncRecord is the persisted outcome of one guild's registration attempt
// within a reconciliation pass.
type SyncRecord struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"`
	EventID      *uint   `gorm:"index"`
	GuildID      string  `gorm:"size:32;not null;index"`
	Status       string  `gorm:"size:24;not null"`
	CommandCount int
	Error        string `gorm:"type:text"`
	CreatedAt    time.Time
}
