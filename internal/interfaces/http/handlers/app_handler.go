package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"clickpulse.backend/internal/domain/entities"
	domainerrors "clickpulse.backend/internal/domain/errors"
	"clickpulse.backend/internal/interfaces/http/middleware"
	"clickpulse.backend/internal/interfaces/http/response"
)

type AppService interface {
	CreateApp(ctx context.Context, callerID uuid.UUID, input *entities.CreateAppInput) (*entities.CreateAppResponse, error)
	IssueKey(ctx context.Context, callerID, appID uuid.UUID) (*entities.CreateAppResponse, error)
	RevokeKey(ctx context.Context, callerID, keyID uuid.UUID) error
	ListKeys(ctx context.Context, callerID, appID uuid.UUID) ([]*entities.ApiKeySummary, error)
	ListApps(ctx context.Context, callerID uuid.UUID) ([]*entities.App, error)
	DeleteApp(ctx context.Context, callerID, appID uuid.UUID) error
}

type AppHandler struct {
	appUsecase AppService
}

func NewAppHandler(appUsecase AppService) *AppHandler {
	return &AppHandler{appUsecase: appUsecase}
}

// CreateApp registers an app and returns it with its first raw API key
func (h *AppHandler) CreateApp(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		response.ErrorWithError(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "authentication required")
		return
	}

	var input entities.CreateAppInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ErrorWithError(c, http.StatusBadRequest, domainerrors.CodeInvalidInput, err.Error())
		return
	}

	resp, err := h.appUsecase.CreateApp(c.Request.Context(), callerID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// ListApps lists the caller's apps
func (h *AppHandler) ListApps(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		response.ErrorWithError(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "authentication required")
		return
	}

	apps, err := h.appUsecase.ListApps(c.Request.Context(), callerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"apps": apps})
}

// IssueKey mints an additional key for an app
func (h *AppHandler) IssueKey(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		response.ErrorWithError(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "authentication required")
		return
	}

	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithError(c, http.StatusBadRequest, domainerrors.CodeInvalidInput, "invalid app id")
		return
	}

	resp, err := h.appUsecase.IssueKey(c.Request.Context(), callerID, appID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// ListKeys lists an app's keys without secrets
func (h *AppHandler) ListKeys(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		response.ErrorWithError(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "authentication required")
		return
	}

	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithError(c, http.StatusBadRequest, domainerrors.CodeInvalidInput, "invalid app id")
		return
	}

	keys, err := h.appUsecase.ListKeys(c.Request.Context(), callerID, appID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"apiKeys": keys})
}

// RevokeKey deactivates a key
func (h *AppHandler) RevokeKey(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		response.ErrorWithError(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "authentication required")
		return
	}

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithError(c, http.StatusBadRequest, domainerrors.CodeInvalidInput, "invalid key id")
		return
	}

	if err := h.appUsecase.RevokeKey(c.Request.Context(), callerID, keyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "API key revoked"})
}

// DeleteApp removes an app together with its keys and events
func (h *AppHandler) DeleteApp(c *gin.Context) {
	callerID, ok := middleware.GetCallerID(c)
	if !ok {
		response.ErrorWithError(c, http.StatusUnauthorized, domainerrors.CodeUnauthorized, "authentication required")
		return
	}

	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithError(c, http.StatusBadRequest, domainerrors.CodeInvalidInput, "invalid app id")
		return
	}

	if err := h.appUsecase.DeleteApp(c.Request.Context(), callerID, appID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "App deleted"})
}
