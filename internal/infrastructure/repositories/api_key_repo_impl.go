package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"clickpulse.backend/internal/domain/entities"
	domainerrors "clickpulse.backend/internal/domain/errors"
	"clickpulse.backend/internal/infrastructure/models"
)

// ApiKeyRepository implements API key data operations
type ApiKeyRepository struct {
	db *gorm.DB
}

// NewApiKeyRepository creates a new API key repository
func NewApiKeyRepository(db *gorm.DB) *ApiKeyRepository {
	return &ApiKeyRepository{db: db}
}

// Create creates a new API key
func (r *ApiKeyRepository) Create(ctx context.Context, apiKey *entities.ApiKey) error {
	return r.db.WithContext(ctx).Create(apiKeyToModel(apiKey)).Error
}

func apiKeyToModel(apiKey *entities.ApiKey) *models.ApiKey {
	return &models.ApiKey{
		ID:         apiKey.ID,
		AppID:      apiKey.AppID,
		OwnerID:    apiKey.OwnerID,
		KeyPrefix:  apiKey.KeyPrefix,
		KeyHash:    apiKey.KeyHash,
		IsActive:   apiKey.IsActive,
		ExpiresAt:  apiKey.ExpiresAt,
		LastUsedAt: apiKey.LastUsedAt,
		RevokedAt:  apiKey.RevokedAt,
		CreatedAt:  apiKey.CreatedAt,
		UpdatedAt:  apiKey.UpdatedAt,
	}
}

// FindByKeyHash gets a key by its content hash
func (r *ApiKeyRepository) FindByKeyHash(ctx context.Context, keyHash string) (*entities.ApiKey, error) {
	var m models.ApiKey
	if err := r.db.WithContext(ctx).Where("key_hash = ?", keyHash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return apiKeyToEntity(&m), nil
}

// FindByID gets a key by ID
func (r *ApiKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
	var m models.ApiKey
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return apiKeyToEntity(&m), nil
}

// FindByAppID lists all keys of an app, newest first
func (r *ApiKeyRepository) FindByAppID(ctx context.Context, appID uuid.UUID) ([]*entities.ApiKey, error) {
	var ms []models.ApiKey
	if err := r.db.WithContext(ctx).
		Where("app_id = ?", appID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	keys := make([]*entities.ApiKey, 0, len(ms))
	for i := range ms {
		keys = append(keys, apiKeyToEntity(&ms[i]))
	}
	return keys, nil
}

// UpdateLastUsed records the last successful authentication instant.
func (r *ApiKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.ApiKey{}).
		Where("id = ?", id).
		Update("last_used_at", usedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Revoke deactivates a key. Revoking an already-revoked key keeps the
// original revocation time.
func (r *ApiKeyRepository) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.ApiKey{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"revoked_at": revokedAt,
			"updated_at": revokedAt,
		})
	return result.Error
}

func apiKeyToEntity(m *models.ApiKey) *entities.ApiKey {
	return &entities.ApiKey{
		ID:         m.ID,
		AppID:      m.AppID,
		OwnerID:    m.OwnerID,
		KeyPrefix:  m.KeyPrefix,
		KeyHash:    m.KeyHash,
		IsActive:   m.IsActive,
		ExpiresAt:  m.ExpiresAt,
		LastUsedAt: m.LastUsedAt,
		RevokedAt:  m.RevokedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
