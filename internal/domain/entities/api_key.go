package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ApiKey authenticates ingest requests for a single app. Only the
// content hash of the raw credential is stored; the key prefix exists
// purely for display.
type ApiKey struct {
	ID         uuid.UUID  `json:"id"`
	AppID      uuid.UUID  `json:"appId"`
	OwnerID    uuid.UUID  `json:"ownerId"`
	KeyPrefix  string     `json:"keyPrefix"`
	KeyHash    string     `json:"-"`
	IsActive   bool       `json:"isActive"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	DeletedAt  null.Time  `json:"-"`
}

// ApiKeySummary is the listing shape exposed to the dashboard. It never
// carries the secret or its hash.
type ApiKeySummary struct {
	ID         uuid.UUID  `json:"id"`
	KeyPrefix  string     `json:"keyPrefix"`
	IsActive   bool       `json:"isActive"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
}

// Summary strips an ApiKey down to its dashboard-safe fields.
func (k *ApiKey) Summary() *ApiKeySummary {
	return &ApiKeySummary{
		ID:         k.ID,
		KeyPrefix:  k.KeyPrefix,
		IsActive:   k.IsActive,
		ExpiresAt:  k.ExpiresAt,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
		RevokedAt:  k.RevokedAt,
	}
}

// Expired reports whether the key's expiry, if set, lies strictly
// before now.
func (k *ApiKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}
