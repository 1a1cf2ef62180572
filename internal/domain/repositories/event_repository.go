package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"clickpulse.backend/internal/domain/entities"
)

// EventFilter scopes aggregate queries. AppIDs is always the resolved,
// ownership-checked set; Start/End bounds are inclusive when set.
type EventFilter struct {
	AppIDs []uuid.UUID
	Name   string
	Start  *time.Time
	End    *time.Time
}

type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	Count(ctx context.Context, filter EventFilter) (int64, error)
	// CountUniqueIPs counts distinct non-null IP addresses among
	// matching events. Events without an IP are excluded entirely.
	CountUniqueIPs(ctx context.Context, filter EventFilter) (int64, error)
	// DeviceHistogram maps each non-null device value to its occurrence
	// count among matching events.
	DeviceHistogram(ctx context.Context, filter EventFilter) (map[string]int64, error)
	CountByIP(ctx context.Context, appIDs []uuid.UUID, ip string) (int64, error)
	// RecentByIP returns matching events ordered by event timestamp
	// descending, at most limit entries.
	RecentByIP(ctx context.Context, appIDs []uuid.UUID, ip string, limit int) ([]*entities.Event, error)
}
