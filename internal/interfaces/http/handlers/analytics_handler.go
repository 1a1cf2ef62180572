package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"clickpulse.backend/internal/domain/entities"
	domainerrors "clickpulse.backend/internal/domain/errors"
	"clickpulse.backend/internal/interfaces/http/middleware"
	"clickpulse.backend/internal/interfaces/http/response"
)

type AnalyticsService interface {
	Summarize(ctx context.Context, callerID uuid.UUID, eventName string, appID *uuid.UUID, start, end *time.Time) (*entities.EventSummary, error)
	UserHistory(ctx context.Context, callerID uuid.UUID, ip string) (*entities.UserSummary, error)
}

type AnalyticsHandler struct {
	analyticsUsecase AnalyticsService
}

func NewAnalyticsHandler(analyticsUsecase AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUsecase: analyticsUsecase}
}

// Summary answers count / unique visitors / device breakdown for one
// event name, optionally narrowed to an app and a date range
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		response.ErrorWithError(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "authentication required")
		return
	}

	eventName := c.Query("event")
	if eventName == "" {
		response.ErrorWithError(c, http.StatusBadRequest, domainerrors.CodeInvalidInput, "event query parameter is required")
		return
	}

	var appID *uuid.UUID
	if raw := c.Query("app"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.ErrorWithError(c, http.StatusBadRequest, domainerrors.CodeInvalidInput, "invalid app id")
			return
		}
		appID = &id
	}

	start, err := parseQueryTime(c.Query("startDate"), false)
	if err != nil {
		response.ErrorWithError(c, http.StatusBadRequest, domainerrors.CodeInvalidInput, "invalid startDate")
		return
	}
	end, err := parseQueryTime(c.Query("endDate"), true)
	if err != nil {
		response.ErrorWithError(c, http.StatusBadRequest, domainerrors.CodeInvalidInput, "invalid endDate")
		return
	}

	summary, err := h.analyticsUsecase.Summarize(c.Request.Context(), callerID, eventName, appID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// ByIP reports the activity history of one IP address
func (h *AnalyticsHandler) ByIP(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		response.ErrorWithError(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "authentication required")
		return
	}

	ip := c.Query("ip")
	if ip == "" {
		response.ErrorWithError(c, http.StatusBadRequest, domainerrors.CodeInvalidInput, "ip query parameter is required")
		return
	}

	summary, err := h.analyticsUsecase.UserHistory(c.Request.Context(), callerID, ip)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// parseQueryTime accepts RFC3339 or a bare date. A bare end date means
// the whole day, so it resolves to that day's last instant.
func parseQueryTime(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
