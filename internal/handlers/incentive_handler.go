package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/zonewise/api/internal/errors"
	"github.com/zonewise/api/internal/services"
)

// IncentiveHandler handles tax incentive requests.
type IncentiveHandler struct {
	analyses  services.AnalysisService
	reference services.ReferenceService
}

// NewIncentiveHandler creates a new IncentiveHandler instance.
func NewIncentiveHandler(analyses services.AnalysisService, reference services.ReferenceService) *IncentiveHandler {
	return &IncentiveHandler{
		analyses:  analyses,
		reference: reference,
	}
}

// PropertyIncentives handles GET /api/v1/properties/:id/tax-incentives.
// It evaluates every cataloged program against the property.
func (h *IncentiveHandler) PropertyIncentives(c *gin.Context) {
	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	report, err := h.analyses.TaxIncentives(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to evaluate tax incentives", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"propertyId":    id,
		"taxIncentives": report,
	})
}

// Programs handles GET /api/v1/tax-incentives/programs.
func (h *IncentiveHandler) Programs(c *gin.Context) {
	programs, err := h.reference.Programs(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list incentive programs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"programs": programs,
		"count":    len(programs),
	})
}
