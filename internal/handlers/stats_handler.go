package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/zonewise/api/internal/errors"
	"github.com/zonewise/api/internal/services"
)

// StatsHandler reports dataset-wide aggregates.
type StatsHandler struct {
	reference services.ReferenceService
}

// NewStatsHandler creates a new StatsHandler instance.
func NewStatsHandler(reference services.ReferenceService) *StatsHandler {
	return &StatsHandler{
		reference: reference,
	}
}

// Stats handles GET /api/v1/stats.
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.reference.Stats(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to collect dataset stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
