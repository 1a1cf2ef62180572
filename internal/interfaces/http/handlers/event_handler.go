package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"clickpulse.backend/internal/domain/entities"
	domainerrors "clickpulse.backend/internal/domain/errors"
	"clickpulse.backend/internal/interfaces/http/response"
)

// ApiKeyHeader carries the ingest credential. Bearer tokens stay
// reserved for dashboard callers.
const ApiKeyHeader = "X-Api-Key"

type IngestService interface {
	Ingest(ctx context.Context, rawKey string, input *entities.IngestEventInput, meta *entities.RequestMeta) error
}

type EventHandler struct {
	ingestUsecase IngestService
}

func NewEventHandler(ingestUsecase IngestService) *EventHandler {
	return &EventHandler{ingestUsecase: ingestUsecase}
}

// Ingest accepts one usage event from a client site
func (h *EventHandler) Ingest(c *gin.Context) {
	var input entities.IngestEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ErrorWithError(c, http.StatusBadRequest, domainerrors.CodeInvalidPayload, err.Error())
		return
	}

	meta := &entities.RequestMeta{UserAgent: c.Request.UserAgent()}
	if err := h.ingestUsecase.Ingest(c.Request.Context(), c.GetHeader(ApiKeyHeader), &input, meta); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"success": true})
}
