package models

import (
	"time"

	"github.com/google/uuid"
)

// Event rows are insert-only. There is no soft delete: events vanish
// only when their app is deleted, inside the same transaction.
type Event struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	AppID      uuid.UUID `gorm:"type:uuid;not null;index:idx_events_app_name,priority:1"`
	Name       string    `gorm:"type:varchar(255);not null;index:idx_events_app_name,priority:2"`
	URL        string    `gorm:"type:text;not null"`
	Referrer   *string   `gorm:"type:text"`
	Device     *string   `gorm:"type:varchar(64)"`
	IPAddress  *string   `gorm:"type:varchar(45);index"`
	UserAgent  *string   `gorm:"type:text"`
	Browser    *string   `gorm:"type:varchar(64)"`
	OS         *string   `gorm:"type:varchar(64)"`
	ScreenSize *string   `gorm:"type:varchar(32)"`
	Metadata   string    `gorm:"type:text;not null;default:'{}'"` // JSON
	Timestamp  time.Time `gorm:"not null;index"`
	ReceivedAt time.Time `gorm:"not null"`
}
