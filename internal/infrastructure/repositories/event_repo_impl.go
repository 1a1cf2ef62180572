package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"clickpulse.backend/internal/domain/entities"
	domainrepos "clickpulse.backend/internal/domain/repositories"
	"clickpulse.backend/internal/infrastructure/models"
)

// EventRepository implements event data operations
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts one event. The insert is a single atomic statement;
// there is no partial write to roll back.
func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	meta := "{}"
	if len(event.Metadata) > 0 {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
		meta = string(raw)
	}

	m := &models.Event{
		ID:         event.ID,
		AppID:      event.AppID,
		Name:       event.Name,
		URL:        event.URL,
		Referrer:   event.Referrer.Ptr(),
		Device:     event.Device.Ptr(),
		IPAddress:  event.IPAddress.Ptr(),
		UserAgent:  event.UserAgent.Ptr(),
		Browser:    event.Browser.Ptr(),
		OS:         event.OS.Ptr(),
		ScreenSize: event.ScreenSize.Ptr(),
		Metadata:   meta,
		Timestamp:  event.Timestamp,
		ReceivedAt: event.ReceivedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// Count counts events matching the filter.
func (r *EventRepository) Count(ctx context.Context, filter domainrepos.EventFilter) (int64, error) {
	var n int64
	if len(filter.AppIDs) == 0 {
		return 0, nil
	}
	if err := r.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CountUniqueIPs counts distinct non-null IP addresses among matching
// events. Events without an IP contribute nothing, not an "unknown" bucket.
func (r *EventRepository) CountUniqueIPs(ctx context.Context, filter domainrepos.EventFilter) (int64, error) {
	var n int64
	if len(filter.AppIDs) == 0 {
		return 0, nil
	}
	if err := r.filtered(ctx, filter).
		Where("ip_address IS NOT NULL").
		Distinct("ip_address").
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// DeviceHistogram maps each non-null device to its occurrence count.
func (r *EventRepository) DeviceHistogram(ctx context.Context, filter domainrepos.EventFilter) (map[string]int64, error) {
	histogram := make(map[string]int64)
	if len(filter.AppIDs) == 0 {
		return histogram, nil
	}

	var rows []struct {
		Device string
		Total  int64
	}
	if err := r.filtered(ctx, filter).
		Select("device, COUNT(*) AS total").
		Where("device IS NOT NULL").
		Group("device").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		histogram[row.Device] = row.Total
	}
	return histogram, nil
}

// CountByIP counts events reported from one IP across the given apps.
func (r *EventRepository) CountByIP(ctx context.Context, appIDs []uuid.UUID, ip string) (int64, error) {
	var n int64
	if len(appIDs) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("app_id IN ? AND ip_address = ?", appIDs, ip).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// RecentByIP returns up to limit events for one IP, newest first by
// event timestamp.
func (r *EventRepository) RecentByIP(ctx context.Context, appIDs []uuid.UUID, ip string, limit int) ([]*entities.Event, error) {
	if len(appIDs) == 0 {
		return []*entities.Event{}, nil
	}

	var ms []models.Event
	if err := r.db.WithContext(ctx).
		Where("app_id IN ? AND ip_address = ?", appIDs, ip).
		Order("timestamp DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	events := make([]*entities.Event, 0, len(ms))
	for i := range ms {
		events = append(events, eventToEntity(&ms[i]))
	}
	return events, nil
}

func (r *EventRepository) filtered(ctx context.Context, filter domainrepos.EventFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("app_id IN ? AND name = ?", filter.AppIDs, filter.Name)
	if filter.Start != nil {
		query = query.Where("timestamp >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("timestamp <= ?", *filter.End)
	}
	return query
}

func eventToEntity(m *models.Event) *entities.Event {
	var meta map[string]any
	if m.Metadata != "" && m.Metadata != "{}" {
		// Stored metadata was marshalled by us; a decode failure only
		// loses the metadata, never the event.
		_ = json.Unmarshal([]byte(m.Metadata), &meta)
	}

	return &entities.Event{
		ID:         m.ID,
		AppID:      m.AppID,
		Name:       m.Name,
		URL:        m.URL,
		Referrer:   null.StringFromPtr(m.Referrer),
		Device:     null.StringFromPtr(m.Device),
		IPAddress:  null.StringFromPtr(m.IPAddress),
		UserAgent:  null.StringFromPtr(m.UserAgent),
		Browser:    null.StringFromPtr(m.Browser),
		OS:         null.StringFromPtr(m.OS),
		ScreenSize: null.StringFromPtr(m.ScreenSize),
		Metadata:   meta,
		Timestamp:  m.Timestamp,
		ReceivedAt: m.ReceivedAt,
	}
}
