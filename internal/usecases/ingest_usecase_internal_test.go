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
	"clickpulse.backend/internal/ratelimit"
)

func newTestIngestUsecase(repo *MockApiKeyRepository, events *MockEventRepository, capacity int) *IngestUsecase {
	auth := newTestAuthUsecase(repo, time.Now())
	u := NewIngestUsecase(auth, ratelimit.NewLimiter(time.Minute, capacity), events)
	return u
}

func activeKeyFixture(repo *MockApiKeyRepository) *entities.ApiKey {
	key := &entities.ApiKey{ID: uuid.New(), AppID: uuid.New(), IsActive: true}
	repo.On("FindByKeyHash", mock.Anything, mock.Anything).Return(key, nil)
	repo.On("UpdateLastUsed", mock.Anything, key.ID, mock.Anything).Return(nil)
	return key
}

func TestIngest_Success(t *testing.T) {
	repo := new(MockApiKeyRepository)
	events := new(MockEventRepository)
	u := newTestIngestUsecase(repo, events, 100)
	key := activeKeyFixture(repo)

	var stored *entities.Event
	events.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*entities.Event)
	}).Return(nil)

	input := &entities.IngestEventInput{
		Event:     "click",
		URL:       "https://shop.example.com/checkout",
		Device:    "mobile",
		IPAddress: "1.1.1.1",
		Metadata:  map[string]any{"browser": "Firefox", "os": "Linux", "plan": "pro"},
	}
	meta := &entities.RequestMeta{UserAgent: "Mozilla/5.0"}

	require.NoError(t, u.Ingest(context.Background(), "cp_live_deadbeef", input, meta))
	require.NotNil(t, stored)
	require.Equal(t, key.AppID, stored.AppID)
	require.Equal(t, "click", stored.Name)
	require.Equal(t, "mobile", stored.Device.String)
	require.Equal(t, "Mozilla/5.0", stored.UserAgent.String, "user agent comes from headers")
	require.Equal(t, "Firefox", stored.Browser.String)
	require.Equal(t, "Linux", stored.OS.String)
	require.Equal(t, "pro", stored.Metadata["plan"])
}

func TestIngest_ClientTimestampParsed(t *testing.T) {
	repo := new(MockApiKeyRepository)
	events := new(MockEventRepository)
	u := newTestIngestUsecase(repo, events, 100)
	activeKeyFixture(repo)

	var stored *entities.Event
	events.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*entities.Event)
	}).Return(nil)

	want := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	input := &entities.IngestEventInput{
		Event:     "pageview",
		URL:       "https://shop.example.com/",
		Timestamp: want.Format(time.RFC3339),
	}
	require.NoError(t, u.Ingest(context.Background(), "cp_live_deadbeef", input, nil))
	require.True(t, stored.Timestamp.Equal(want))
}

func TestIngest_BadTimestampFallsBackToServerTime(t *testing.T) {
	repo := new(MockApiKeyRepository)
	events := new(MockEventRepository)
	u := newTestIngestUsecase(repo, events, 100)
	activeKeyFixture(repo)

	server := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	u.now = func() time.Time { return server }

	var stored *entities.Event
	events.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*entities.Event)
	}).Return(nil)

	input := &entities.IngestEventInput{
		Event:     "pageview",
		URL:       "https://shop.example.com/",
		Timestamp: "not-a-timestamp",
	}
	require.NoError(t, u.Ingest(context.Background(), "cp_live_deadbeef", input, nil))
	require.True(t, stored.Timestamp.Equal(server))
	require.True(t, stored.ReceivedAt.Equal(server))
}

func TestIngest_InvalidCredential(t *testing.T) {
	repo := new(MockApiKeyRepository)
	events := new(MockEventRepository)
	u := newTestIngestUsecase(repo, events, 100)

	repo.On("FindByKeyHash", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrNotFound)

	err := u.Ingest(context.Background(), "cp_live_wrong", &entities.IngestEventInput{Event: "click", URL: "https://x"}, nil)
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredential)
	events.AssertNotCalled(t, "Create")
}

func TestIngest_RateLimited(t *testing.T) {
	repo := new(MockApiKeyRepository)
	events := new(MockEventRepository)
	u := newTestIngestUsecase(repo, events, 2)
	activeKeyFixture(repo)
	events.On("Create", mock.Anything, mock.Anything).Return(nil)

	input := &entities.IngestEventInput{Event: "click", URL: "https://shop.example.com/"}
	require.NoError(t, u.Ingest(context.Background(), "cp_live_deadbeef", input, nil))
	require.NoError(t, u.Ingest(context.Background(), "cp_live_deadbeef", input, nil))

	err := u.Ingest(context.Background(), "cp_live_deadbeef", input, nil)
	require.ErrorIs(t, err, domainerrors.ErrRateLimited)
	events.AssertNumberOfCalls(t, "Create", 2)
}

func TestIngest_InvalidPayload(t *testing.T) {
	repo := new(MockApiKeyRepository)
	events := new(MockEventRepository)
	u := newTestIngestUsecase(repo, events, 100)
	activeKeyFixture(repo)

	for _, input := range []*entities.IngestEventInput{
		{Event: "", URL: "https://shop.example.com/"},
		{Event: "click", URL: ""},
	} {
		err := u.Ingest(context.Background(), "cp_live_deadbeef", input, nil)
		require.ErrorIs(t, err, domainerrors.ErrInvalidPayload)
	}
	events.AssertNotCalled(t, "Create")
}

func TestIngest_StorageFailure(t *testing.T) {
	repo := new(MockApiKeyRepository)
	events := new(MockEventRepository)
	u := newTestIngestUsecase(repo, events, 100)
	activeKeyFixture(repo)

	events.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	err := u.Ingest(context.Background(), "cp_live_deadbeef", &entities.IngestEventInput{Event: "click", URL: "https://x"}, nil)
	require.ErrorIs(t, err, domainerrors.ErrStorageFailure)

	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 500, appErr.Status)
}
