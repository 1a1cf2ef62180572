package usecases

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"clickpulse.backend/internal/domain/entities"
	domainerrors "clickpulse.backend/internal/domain/errors"
	"clickpulse.backend/internal/domain/repositories"
	"clickpulse.backend/pkg/crypto"
	"clickpulse.backend/pkg/logger"
)

// AuthUsecase validates ingest credentials against the key store.
type AuthUsecase struct {
	apiKeyRepo repositories.ApiKeyRepository

	// now is swappable in tests
	now func() time.Time
	// touchAsync runs the last-used update; tests replace it to run inline
	touchAsync func(fn func())
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(apiKeyRepo repositories.ApiKeyRepository) *AuthUsecase {
	return &AuthUsecase{
		apiKeyRepo: apiKeyRepo,
		now:        time.Now,
		touchAsync: func(fn func()) { go fn() },
	}
}

// Authenticate resolves a raw credential to the key that owns it.
// The last-used timestamp update is fired asynchronously; its failure
// is logged and never surfaces to the caller.
func (u *AuthUsecase) Authenticate(ctx context.Context, rawKey string) (*entities.ApiKey, error) {
	if rawKey == "" {
		return nil, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeMissingCredential, "missing API key", domainerrors.ErrMissingCredential)
	}

	keyHash := crypto.HashKey(rawKey)
	key, err := u.apiKeyRepo.FindByKeyHash(ctx, keyHash)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeInvalidCredential, "invalid API key", domainerrors.ErrInvalidCredential)
		}
		return nil, err
	}

	if !key.IsActive {
		return nil, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeKeyRevoked, "API key revoked", domainerrors.ErrKeyRevoked)
	}
	if key.Expired(u.now()) {
		return nil, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeKeyExpired, "API key expired", domainerrors.ErrKeyExpired)
	}

	u.touchLastUsed(key)
	return key, nil
}

// touchLastUsed records the authentication time without holding up the
// request. The detached call gets its own context: the request context
// is cancelled as soon as the response is written.
func (u *AuthUsecase) touchLastUsed(key *entities.ApiKey) {
	id := key.ID
	usedAt := u.now()
	u.touchAsync(func() {
		ctx := context.Background()
		if err := u.apiKeyRepo.UpdateLastUsed(ctx, id, usedAt); err != nil {
			logger.Warn(ctx, "failed to record api key last-used",
				zap.String("key_id", id.String()), zap.Error(err))
		}
	})
}
