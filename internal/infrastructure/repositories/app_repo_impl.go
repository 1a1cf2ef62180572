package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"clickpulse.backend/internal/domain/entities"
	domainerrors "clickpulse.backend/internal/domain/errors"
	"clickpulse.backend/internal/infrastructure/models"
)

// AppRepository implements app data operations
type AppRepository struct {
	db *gorm.DB
}

// NewAppRepository creates a new app repository
func NewAppRepository(db *gorm.DB) *AppRepository {
	return &AppRepository{db: db}
}

// Create creates a new app
func (r *AppRepository) Create(ctx context.Context, app *entities.App) error {
	return r.db.WithContext(ctx).Create(appToModel(app)).Error
}

// CreateWithKey persists an app together with its first API key in one
// transaction, so a key-insert failure never leaves an orphaned app.
func (r *AppRepository) CreateWithKey(ctx context.Context, app *entities.App, key *entities.ApiKey) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(appToModel(app)).Error; err != nil {
			return err
		}
		return tx.Create(apiKeyToModel(key)).Error
	})
}

// FindByID gets an app by ID
func (r *AppRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.App, error) {
	var m models.App
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return appToEntity(&m), nil
}

// FindByOwnerID lists all apps owned by a caller identity
func (r *AppRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entities.App, error) {
	var ms []models.App
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	apps := make([]*entities.App, 0, len(ms))
	for i := range ms {
		apps = append(apps, appToEntity(&ms[i]))
	}
	return apps, nil
}

// DeleteCascade removes the app, its keys and its events atomically.
func (r *AppRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("app_id = ?", id).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("app_id = ?", id).Delete(&models.ApiKey{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.App{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotFound
		}
		return nil
	})
}

func appToModel(app *entities.App) *models.App {
	return &models.App{
		ID:          app.ID,
		OwnerID:     app.OwnerID,
		Name:        app.Name,
		Domain:      app.Domain,
		Description: app.Description.Ptr(),
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
	}
}

func appToEntity(m *models.App) *entities.App {
	return &entities.App{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Domain:      m.Domain,
		Description: null.StringFromPtr(m.Description),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
