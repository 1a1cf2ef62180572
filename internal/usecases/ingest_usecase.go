package usecases

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/volatiletech/null/v8"
	"clickpulse.backend/internal/domain/entities"
	domainerrors "clickpulse.backend/internal/domain/errors"
	"clickpulse.backend/internal/domain/repositories"
	"clickpulse.backend/internal/ratelimit"
	"clickpulse.backend/pkg/metrics"
	"clickpulse.backend/pkg/utils"
)

// IngestUsecase handles the event write path: credential check, rate
// limiting, payload validation, then a single insert.
type IngestUsecase struct {
	auth      *AuthUsecase
	limiter   *ratelimit.Limiter
	eventRepo repositories.EventRepository

	// now is swappable in tests
	now func() time.Time
}

// NewIngestUsecase creates a new ingest usecase
func NewIngestUsecase(auth *AuthUsecase, limiter *ratelimit.Limiter, eventRepo repositories.EventRepository) *IngestUsecase {
	return &IngestUsecase{
		auth:      auth,
		limiter:   limiter,
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

// Ingest authenticates, throttles, validates and stores one event.
// Steps short-circuit on the first failure; a rejected event is never
// stored.
func (u *IngestUsecase) Ingest(ctx context.Context, rawKey string, input *entities.IngestEventInput, meta *entities.RequestMeta) error {
	key, err := u.auth.Authenticate(ctx, rawKey)
	if err != nil {
		metrics.IngestRejected.WithLabelValues("unauthorized").Inc()
		return err
	}

	if !u.limiter.Allow(key.ID) {
		metrics.IngestRejected.WithLabelValues("rate_limited").Inc()
		return domainerrors.TooManyRequests("rate limit exceeded for this API key")
	}

	if input.Event == "" || input.URL == "" {
		metrics.IngestRejected.WithLabelValues("invalid_payload").Inc()
		return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidPayload, "event and url are required", domainerrors.ErrInvalidPayload)
	}

	event := u.buildEvent(key, input, meta)
	if err := u.eventRepo.Create(ctx, event); err != nil {
		metrics.IngestRejected.WithLabelValues("storage").Inc()
		return domainerrors.InternalError(errors.Join(domainerrors.ErrStorageFailure, err))
	}

	metrics.EventsIngested.WithLabelValues(key.AppID.String()).Inc()
	return nil
}

func (u *IngestUsecase) buildEvent(key *entities.ApiKey, input *entities.IngestEventInput, meta *entities.RequestMeta) *entities.Event {
	received := u.now()

	// Client timestamps are trusted only when they parse; anything
	// else falls back to the server clock.
	timestamp := received
	if input.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, input.Timestamp); err == nil {
			timestamp = parsed
		}
	}

	event := &entities.Event{
		ID:         utils.GenerateUUIDv7(),
		AppID:      key.AppID,
		Name:       input.Event,
		URL:        input.URL,
		Referrer:   nullIfEmpty(input.Referrer),
		Device:     nullIfEmpty(input.Device),
		IPAddress:  nullIfEmpty(input.IPAddress),
		Metadata:   input.Metadata,
		Timestamp:  timestamp,
		ReceivedAt: received,
	}
	if meta != nil {
		event.UserAgent = nullIfEmpty(meta.UserAgent)
	}

	// browser/os/screenSize ride inside metadata on the wire but get
	// their own columns so the histogram queries stay cheap.
	event.Browser = metadataString(input.Metadata, "browser")
	event.OS = metadataString(input.Metadata, "os")
	event.ScreenSize = metadataString(input.Metadata, "screenSize")

	return event
}

func nullIfEmpty(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

func metadataString(meta map[string]any, field string) null.String {
	if meta == nil {
		return null.String{}
	}
	if v, ok := meta[field].(string); ok && v != "" {
		return null.StringFrom(v)
	}
	return null.String{}
}
