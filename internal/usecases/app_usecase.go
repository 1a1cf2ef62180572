package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"clickpulse.backend/internal/domain/entities"
	domainerrors "clickpulse.backend/internal/domain/errors"
	"clickpulse.backend/internal/domain/repositories"
	"clickpulse.backend/pkg/crypto"
	"clickpulse.backend/pkg/utils"
)

// AppUsecase manages the app and API key lifecycle for dashboard
// callers.
type AppUsecase struct {
	appRepo    repositories.AppRepository
	apiKeyRepo repositories.ApiKeyRepository

	// now is swappable in tests
	now func() time.Time
}

// NewAppUsecase creates a new app usecase
func NewAppUsecase(appRepo repositories.AppRepository, apiKeyRepo repositories.ApiKeyRepository) *AppUsecase {
	return &AppUsecase{
		appRepo:    appRepo,
		apiKeyRepo: apiKeyRepo,
		now:        time.Now,
	}
}

// CreateApp registers a new app and mints its first key. The raw key
// rides back in the response and is never stored or logged.
func (u *AppUsecase) CreateApp(ctx context.Context, callerID uuid.UUID, input *entities.CreateAppInput) (*entities.CreateAppResponse, error) {
	if input.Name == "" || input.Domain == "" {
		return nil, domainerrors.BadRequest("name and domain are required")
	}

	now := u.now()
	app := &entities.App{
		ID:        utils.GenerateUUIDv7(),
		OwnerID:   callerID,
		Name:      input.Name,
		Domain:    input.Domain,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != "" {
		app.Description = null.StringFrom(input.Description)
	}

	rawKey, key, err := u.newKey(app)
	if err != nil {
		return nil, err
	}

	// One transaction: a key-insert failure must not leave an app
	// without any key behind.
	if err := u.appRepo.CreateWithKey(ctx, app, key); err != nil {
		return nil, domainerrors.InternalError(err)
	}

	return &entities.CreateAppResponse{App: app, ApiKey: rawKey}, nil
}

// IssueKey mints an additional key for an existing app. Ownership is
// checked first; an unowned app reads as NotFound.
func (u *AppUsecase) IssueKey(ctx context.Context, callerID, appID uuid.UUID) (*entities.CreateAppResponse, error) {
	app, err := u.ownedApp(ctx, callerID, appID)
	if err != nil {
		return nil, err
	}

	rawKey, err := u.mintKey(ctx, app)
	if err != nil {
		return nil, err
	}
	return &entities.CreateAppResponse{App: app, ApiKey: rawKey}, nil
}

// RevokeKey deactivates a key owned by the caller. Revoking an
// already-revoked key succeeds silently; the original revocation time
// is preserved.
func (u *AppUsecase) RevokeKey(ctx context.Context, callerID, keyID uuid.UUID) error {
	key, err := u.apiKeyRepo.FindByID(ctx, keyID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("api key not found")
		}
		return err
	}
	if key.OwnerID != callerID {
		return domainerrors.NotFound("api key not found")
	}

	if err := u.apiKeyRepo.Revoke(ctx, keyID, u.now()); err != nil {
		return domainerrors.InternalError(err)
	}
	return nil
}

// ListKeys returns dashboard-safe summaries of an app's keys.
func (u *AppUsecase) ListKeys(ctx context.Context, callerID, appID uuid.UUID) ([]*entities.ApiKeySummary, error) {
	if _, err := u.ownedApp(ctx, callerID, appID); err != nil {
		return nil, err
	}

	keys, err := u.apiKeyRepo.FindByAppID(ctx, appID)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	summaries := make([]*entities.ApiKeySummary, 0, len(keys))
	for _, key := range keys {
		summaries = append(summaries, key.Summary())
	}
	return summaries, nil
}

// ListApps returns the caller's apps, newest first.
func (u *AppUsecase) ListApps(ctx context.Context, callerID uuid.UUID) ([]*entities.App, error) {
	apps, err := u.appRepo.FindByOwnerID(ctx, callerID)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return apps, nil
}

// DeleteApp removes an app with its keys and events in one
// transaction.
func (u *AppUsecase) DeleteApp(ctx context.Context, callerID, appID uuid.UUID) error {
	if _, err := u.ownedApp(ctx, callerID, appID); err != nil {
		return err
	}
	if err := u.appRepo.DeleteCascade(ctx, appID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("app not found")
		}
		return domainerrors.InternalError(err)
	}
	return nil
}

func (u *AppUsecase) mintKey(ctx context.Context, app *entities.App) (string, error) {
	rawKey, key, err := u.newKey(app)
	if err != nil {
		return "", err
	}
	if err := u.apiKeyRepo.Create(ctx, key); err != nil {
		return "", domainerrors.InternalError(err)
	}
	return rawKey, nil
}

func (u *AppUsecase) newKey(app *entities.App) (string, *entities.ApiKey, error) {
	rawKey, err := crypto.GenerateAPIKey()
	if err != nil {
		return "", nil, domainerrors.InternalServerError("failed to generate api key")
	}

	now := u.now()
	key := &entities.ApiKey{
		ID:        utils.GenerateUUIDv7(),
		AppID:     app.ID,
		OwnerID:   app.OwnerID,
		KeyPrefix: crypto.DisplayPrefix(rawKey),
		KeyHash:   crypto.HashKey(rawKey),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return rawKey, key, nil
}

func (u *AppUsecase) ownedApp(ctx context.Context, callerID, appID uuid.UUID) (*entities.App, error) {
	app, err := u.appRepo.FindByID(ctx, appID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("app not found")
		}
		return nil, err
	}
	if app.OwnerID != callerID {
		return nil, domainerrors.NotFound("app not found")
	}
	return app, nil
}
