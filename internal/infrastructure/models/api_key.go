package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApiKey struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	AppID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	KeyPrefix  string    `gorm:"type:varchar(20);not null"`
	KeyHash    string    `gorm:"type:varchar(64);uniqueIndex;not null"` // SHA256 of raw key
	IsActive   bool      `gorm:"default:true;not null"`
	ExpiresAt  *time.Time
	LastUsedAt *time.Time
	RevokedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
	App        App            `gorm:"foreignKey:AppID"`
}
