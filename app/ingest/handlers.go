package ingest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/propline/propline/app/api"
)

// Handler handles HTTP requests for ingestion jobs
type Handler struct {
	service Service
}

// NewHandler creates a new ingestion handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RunIngest triggers one synchronous ingestion pass. The scheduler calls
// this on its cadence; overlapping calls are safe because the store's
// uniqueness constraint absorbs the race.
func (h *Handler) RunIngest(c *gin.Context) {
	report, err := h.service.Ingest(c.Request.Context())
	if err != nil {
		api.InternalErrorResponse(c, "Ingestion pass failed")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Ingestion pass complete", report)
}
