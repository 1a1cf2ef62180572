package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"clickpulse.backend/internal/domain/entities"
	"clickpulse.backend/internal/domain/repositories"
)

// Mock ApiKeyRepository
type MockApiKeyRepository struct {
	mock.Mock
}

func (m *MockApiKeyRepository) Create(ctx context.Context, apiKey *entities.ApiKey) error {
	args := m.Called(ctx, apiKey)
	return args.Error(0)
}

func (m *MockApiKeyRepository) FindByKeyHash(ctx context.Context, keyHash string) (*entities.ApiKey, error) {
	args := m.Called(ctx, keyHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ApiKey), args.Error(1)
}

func (m *MockApiKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ApiKey), args.Error(1)
}

func (m *MockApiKeyRepository) FindByAppID(ctx context.Context, appID uuid.UUID) ([]*entities.ApiKey, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ApiKey), args.Error(1)
}

func (m *MockApiKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	args := m.Called(ctx, id, usedAt)
	return args.Error(0)
}

func (m *MockApiKeyRepository) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error {
	args := m.Called(ctx, id, revokedAt)
	return args.Error(0)
}

// Mock AppRepository
type MockAppRepository struct {
	mock.Mock
}

func (m *MockAppRepository) Create(ctx context.Context, app *entities.App) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockAppRepository) CreateWithKey(ctx context.Context, app *entities.App, key *entities.ApiKey) error {
	args := m.Called(ctx, app, key)
	return args.Error(0)
}

func (m *MockAppRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.App, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.App), args.Error(1)
}

func (m *MockAppRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entities.App, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.App), args.Error(1)
}

func (m *MockAppRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *entities.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Count(ctx context.Context, filter repositories.EventFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) CountUniqueIPs(ctx context.Context, filter repositories.EventFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) DeviceHistogram(ctx context.Context, filter repositories.EventFilter) (map[string]int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockEventRepository) CountByIP(ctx context.Context, appIDs []uuid.UUID, ip string) (int64, error) {
	args := m.Called(ctx, appIDs, ip)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) RecentByIP(ctx context.Context, appIDs []uuid.UUID, ip string, limit int) ([]*entities.Event, error) {
	args := m.Called(ctx, appIDs, ip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Event), args.Error(1)
}
