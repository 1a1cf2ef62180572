package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"clickpulse.backend/internal/domain/entities"
	domainerrors "clickpulse.backend/internal/domain/errors"
	"clickpulse.backend/internal/domain/repositories"
)

const recentEventLimit = 10

// AnalyticsUsecase answers aggregate queries over stored events,
// always scoped to the apps the caller owns.
type AnalyticsUsecase struct {
	appRepo   repositories.AppRepository
	eventRepo repositories.EventRepository
}

// NewAnalyticsUsecase creates a new analytics usecase
func NewAnalyticsUsecase(appRepo repositories.AppRepository, eventRepo repositories.EventRepository) *AnalyticsUsecase {
	return &AnalyticsUsecase{
		appRepo:   appRepo,
		eventRepo: eventRepo,
	}
}

// Summarize computes count, unique visitors and the device histogram
// for one event name. When appID is set it must belong to the caller;
// an unowned or unknown app surfaces as NotFound so existence never
// leaks. With no appID the caller's whole app set is queried, and an
// empty set yields a zero summary rather than an error.
func (u *AnalyticsUsecase) Summarize(ctx context.Context, callerID uuid.UUID, eventName string, appID *uuid.UUID, start, end *time.Time) (*entities.EventSummary, error) {
	if eventName == "" {
		return nil, domainerrors.BadRequest("event name is required")
	}

	appIDs, err := u.resolveScope(ctx, callerID, appID)
	if err != nil {
		return nil, err
	}

	summary := &entities.EventSummary{
		Event:      eventName,
		DeviceData: map[string]int64{},
	}
	if len(appIDs) == 0 {
		return summary, nil
	}

	filter := repositories.EventFilter{
		AppIDs: appIDs,
		Name:   eventName,
		Start:  start,
		End:    end,
	}

	if summary.Count, err = u.eventRepo.Count(ctx, filter); err != nil {
		return nil, domainerrors.InternalError(err)
	}
	if summary.UniqueUsers, err = u.eventRepo.CountUniqueIPs(ctx, filter); err != nil {
		return nil, domainerrors.InternalError(err)
	}
	if summary.DeviceData, err = u.eventRepo.DeviceHistogram(ctx, filter); err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return summary, nil
}

// UserHistory reports the activity of one IP address across the
// caller's apps: total events, the device seen most recently, and the
// ten newest events.
func (u *AnalyticsUsecase) UserHistory(ctx context.Context, callerID uuid.UUID, ip string) (*entities.UserSummary, error) {
	if ip == "" {
		return nil, domainerrors.BadRequest("ip is required")
	}

	appIDs, err := u.resolveScope(ctx, callerID, nil)
	if err != nil {
		return nil, err
	}

	summary := &entities.UserSummary{
		UserID:       visitorLabel(ip),
		IPAddress:    ip,
		RecentEvents: []entities.RecentEvent{},
	}
	if len(appIDs) == 0 {
		return summary, nil
	}

	if summary.TotalEvents, err = u.eventRepo.CountByIP(ctx, appIDs, ip); err != nil {
		return nil, domainerrors.InternalError(err)
	}

	recent, err := u.eventRepo.RecentByIP(ctx, appIDs, ip, recentEventLimit)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	for _, ev := range recent {
		summary.RecentEvents = append(summary.RecentEvents, entities.RecentEvent{
			Event:     ev.Name,
			URL:       ev.URL,
			Timestamp: ev.Timestamp,
		})
	}
	if len(recent) > 0 {
		newest := recent[0]
		summary.DeviceDetails = entities.DeviceDetails{
			Device:     newest.Device.String,
			Browser:    newest.Browser.String,
			OS:         newest.OS.String,
			ScreenSize: newest.ScreenSize.String,
		}
	}
	return summary, nil
}

// resolveScope turns (caller, optional app) into the app-ID set that
// queries run against.
func (u *AnalyticsUsecase) resolveScope(ctx context.Context, callerID uuid.UUID, appID *uuid.UUID) ([]uuid.UUID, error) {
	if appID != nil {
		app, err := u.appRepo.FindByID(ctx, *appID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.NotFound("app not found")
			}
			return nil, err
		}
		if app.OwnerID != callerID {
			return nil, domainerrors.NotFound("app not found")
		}
		return []uuid.UUID{app.ID}, nil
	}

	apps, err := u.appRepo.FindByOwnerID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.ID)
	}
	return ids, nil
}

// visitorLabel derives a stable, non-reversible identifier from an IP
// address for display purposes.
func visitorLabel(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return "usr_" + hex.EncodeToString(sum[:])[:12]
}
