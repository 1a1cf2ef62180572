package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// App is a registered website or application that reports usage events.
// Every app is owned by exactly one caller identity; the owner comes
// from the upstream dashboard auth service and is opaque to us.
type App struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"ownerId"`
	Name        string      `json:"name"`
	Domain      string      `json:"domain"`
	Description null.String `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	DeletedAt   null.Time   `json:"-"`
}

type CreateAppInput struct {
	Name        string `json:"name" binding:"required"`
	Domain      string `json:"domain" binding:"required"`
	Description string `json:"description"`
}

// CreateAppResponse carries the new app together with the raw API key
// minted for it. The raw key is shown exactly once and never stored.
type CreateAppResponse struct {
	App    *App   `json:"app"`
	ApiKey string `json:"apiKey"`
}
