package resolve

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/propline/propline/app/api"
)

// Handler handles HTTP requests for resolution jobs
type Handler struct {
	service Service
}

// NewHandler creates a new resolution handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RunResolve triggers one synchronous resolution pass.
func (h *Handler) RunResolve(c *gin.Context) {
	report, err := h.service.Resolve(c.Request.Context())
	if err != nil {
		api.InternalErrorResponse(c, "Resolution pass failed")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Resolution pass complete", report)
}
