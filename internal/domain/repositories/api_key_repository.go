package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"clickpulse.backend/internal/domain/entities"
)

type ApiKeyRepository interface {
	Create(ctx context.Context, apiKey *entities.ApiKey) error
	FindByKeyHash(ctx context.Context, keyHash string) (*entities.ApiKey, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error)
	FindByAppID(ctx context.Context, appID uuid.UUID) ([]*entities.ApiKey, error)
	// UpdateLastUsed records when the key last authenticated a request.
	// Best-effort bookkeeping; callers may ignore the error.
	UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error
}
