package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"clickpulse.backend/internal/domain/entities"
	domainerrors "clickpulse.backend/internal/domain/errors"
	"clickpulse.backend/pkg/crypto"
)

func newTestAuthUsecase(repo *MockApiKeyRepository, now time.Time) *AuthUsecase {
	u := NewAuthUsecase(repo)
	u.now = func() time.Time { return now }
	// run the last-used touch inline so assertions see it
	u.touchAsync = func(fn func()) { fn() }
	return u
}

func TestAuthenticate_Success(t *testing.T) {
	repo := new(MockApiKeyRepository)
	now := time.Now()
	u := newTestAuthUsecase(repo, now)

	raw := "cp_live_0123456789abcdef0123456789abcdef01234567"
	key := &entities.ApiKey{
		ID:       uuid.New(),
		AppID:    uuid.New(),
		KeyHash:  crypto.HashKey(raw),
		IsActive: true,
	}
	repo.On("FindByKeyHash", mock.Anything, crypto.HashKey(raw)).Return(key, nil)
	repo.On("UpdateLastUsed", mock.Anything, key.ID, now).Return(nil)

	got, err := u.Authenticate(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, key.AppID, got.AppID)
	repo.AssertExpectations(t)
}

func TestAuthenticate_MissingCredential(t *testing.T) {
	repo := new(MockApiKeyRepository)
	u := newTestAuthUsecase(repo, time.Now())

	_, err := u.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, domainerrors.ErrMissingCredential)

	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 401, appErr.Status)
	require.Equal(t, domainerrors.CodeMissingCredential, appErr.Code)
	repo.AssertNotCalled(t, "FindByKeyHash")
}

func TestAuthenticate_UnknownKey(t *testing.T) {
	repo := new(MockApiKeyRepository)
	u := newTestAuthUsecase(repo, time.Now())

	repo.On("FindByKeyHash", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrNotFound)

	_, err := u.Authenticate(context.Background(), "cp_live_deadbeef")
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredential)
}

func TestAuthenticate_Revoked(t *testing.T) {
	repo := new(MockApiKeyRepository)
	u := newTestAuthUsecase(repo, time.Now())

	key := &entities.ApiKey{ID: uuid.New(), IsActive: false}
	repo.On("FindByKeyHash", mock.Anything, mock.Anything).Return(key, nil)

	_, err := u.Authenticate(context.Background(), "cp_live_deadbeef")
	require.ErrorIs(t, err, domainerrors.ErrKeyRevoked)
	repo.AssertNotCalled(t, "UpdateLastUsed")
}

func TestAuthenticate_Expired(t *testing.T) {
	repo := new(MockApiKeyRepository)
	now := time.Now()
	u := newTestAuthUsecase(repo, now)

	past := now.Add(-time.Hour)
	key := &entities.ApiKey{ID: uuid.New(), IsActive: true, ExpiresAt: &past}
	repo.On("FindByKeyHash", mock.Anything, mock.Anything).Return(key, nil)

	_, err := u.Authenticate(context.Background(), "cp_live_deadbeef")
	require.ErrorIs(t, err, domainerrors.ErrKeyExpired)
}

func TestAuthenticate_ExpiryExactlyNowStillValid(t *testing.T) {
	repo := new(MockApiKeyRepository)
	now := time.Now().Truncate(time.Second)
	u := newTestAuthUsecase(repo, now)

	key := &entities.ApiKey{ID: uuid.New(), IsActive: true, ExpiresAt: &now}
	repo.On("FindByKeyHash", mock.Anything, mock.Anything).Return(key, nil)
	repo.On("UpdateLastUsed", mock.Anything, key.ID, now).Return(nil)

	_, err := u.Authenticate(context.Background(), "cp_live_deadbeef")
	require.NoError(t, err, "expiry strictly before now, not at now")
}

func TestAuthenticate_TouchFailureDoesNotPropagate(t *testing.T) {
	repo := new(MockApiKeyRepository)
	now := time.Now()
	u := newTestAuthUsecase(repo, now)

	key := &entities.ApiKey{ID: uuid.New(), AppID: uuid.New(), IsActive: true}
	repo.On("FindByKeyHash", mock.Anything, mock.Anything).Return(key, nil)
	repo.On("UpdateLastUsed", mock.Anything, key.ID, now).Return(errors.New("db down"))

	_, err := u.Authenticate(context.Background(), "cp_live_deadbeef")
	require.NoError(t, err, "last-used bookkeeping is best-effort")
	repo.AssertExpectations(t)
}
