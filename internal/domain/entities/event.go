package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Event is one client-reported occurrence (a page view, a click).
// Events are immutable once stored: they are only ever inserted, and
// transitively deleted when their app is deleted.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	AppID      uuid.UUID      `json:"appId"`
	Name       string         `json:"event"`
	URL        string         `json:"url"`
	Referrer   null.String    `json:"referrer,omitempty"`
	Device     null.String    `json:"device,omitempty"`
	IPAddress  null.String    `json:"ipAddress,omitempty"`
	UserAgent  null.String    `json:"userAgent,omitempty"`
	Browser    null.String    `json:"browser,omitempty"`
	OS         null.String    `json:"os,omitempty"`
	ScreenSize null.String    `json:"screenSize,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	ReceivedAt time.Time      `json:"receivedAt"`
}

// IngestEventInput is the public ingest payload. The user agent is
// deliberately absent: it is taken from request headers, not the body,
// so clients cannot spoof it.
type IngestEventInput struct {
	Event     string         `json:"event"`
	URL       string         `json:"url"`
	Referrer  string         `json:"referrer"`
	Device    string         `json:"device"`
	IPAddress string         `json:"ipAddress"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata"`
}

// RequestMeta carries the transport-level context of an ingest call.
type RequestMeta struct {
	UserAgent string
}

// EventSummary is the aggregate answer for one event name.
type EventSummary struct {
	Event       string           `json:"event"`
	Count       int64            `json:"count"`
	UniqueUsers int64            `json:"uniqueUsers"`
	DeviceData  map[string]int64 `json:"deviceData"`
}

// DeviceDetails describes the client seen on the most recent event for
// an IP address.
type DeviceDetails struct {
	Device     string `json:"device,omitempty"`
	Browser    string `json:"browser,omitempty"`
	OS         string `json:"os,omitempty"`
	ScreenSize string `json:"screenSize,omitempty"`
}

// RecentEvent is one entry of a per-IP history listing.
type RecentEvent struct {
	Event     string    `json:"event"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// UserSummary is the per-IP history answer. UserID is a stable,
// non-reversible label derived from the IP address.
type UserSummary struct {
	UserID        string        `json:"userId"`
	TotalEvents   int64         `json:"totalEvents"`
	DeviceDetails DeviceDetails `json:"deviceDetails"`
	IPAddress     string        `json:"ipAddress"`
	RecentEvents  []RecentEvent `json:"recentEvents"`
}
