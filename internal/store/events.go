package store

import (
	"fmt"
	"time"

	"github.com/kbraden/slashforge/internal/models"
	"gorm.io/gorm"
)

// InsertReload queues a reload event. An empty guildID targets all guilds.
func InsertReload(db *gorm.DB, guildID string) (*models.ReloadEvent, error) {
	evt := models.ReloadEvent{
		Type:      models.EventReloadCommands,
		CreatedAt: time.Now(),
	}
	if guildID != "" {
		evt.GuildID = &guildID
	}

	if err := db.Create(&evt).Error; err != nil {
		return nil, fmt.Errorf("store: insert reload event: %w", err)
	}
	return &evt, nil
}

// PendingReloads returns unprocessed reload events oldest-first, capped at
// limit. Draining oldest-first keeps a burst of saves from starving earlier
// events.
func PendingReloads(db *gorm.DB, limit int) ([]models.ReloadEvent, error) {
	if limit <= 0 {
		limit = 10
	}

	var events []models.ReloadEvent
	if err := db.Where("type = ? AND processed_at IS NULL", models.EventReloadCommands).
		Order("created_at ASC, id ASC").Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("store: pending reloads: %w", err)
	}
	return events, nil
}

// MarkProcessed stamps an event as consumed. Idempotent: a second call on
// the same event is a no-op and does not reset the original timestamp.
func MarkProcessed(db *gorm.DB, eventID uint) error {
	result := db.Model(&models.ReloadEvent{}).
		Where("id = ? AND processed_at IS NULL", eventID).
		Update("processed_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("store: mark processed %d: %w", eventID, result.Error)
	}
	return nil
}

// RecordSync persists one guild's sync outcome for audit.
func RecordSync(db *gorm.DB, rec *models.SyncRecord) error {
	if rec.GuildID == "" {
		return fmt.Errorf("store: guildID is required")
	}
	rec.CreatedAt = time.Now()
	if err := db.Create(rec).Error; err != nil {
		return fmt.Errorf("store: record sync for %s: %w", rec.GuildID, err)
	}
	return nil
}

// RecentSyncRecords returns the newest sync outcomes, capped at limit.
func RecentSyncRecords(db *gorm.DB, limit int) ([]models.SyncRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var recs []models.SyncRecord
	if err := db.Order("id DESC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("store: recent sync records: %w", err)
	}
	return recs, nil
}
