package repositories

import (
	"context"

	"github.com/google/uuid"
	"clickpulse.backend/internal/domain/entities"
)

type AppRepository interface {
	Create(ctx context.Context, app *entities.App) error
	// CreateWithKey persists the app and its first key atomically.
	CreateWithKey(ctx context.Context, app *entities.App, key *entities.ApiKey) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.App, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entities.App, error)
	// DeleteCascade removes the app together with its keys and events
	// in a single transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}
