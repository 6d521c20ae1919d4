package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/zonewise/api/internal/analysis"
	apierrors "github.com/zonewise/api/internal/errors"
	"github.com/zonewise/api/internal/middleware"
	"github.com/zonewise/api/internal/services"
)

// AirRightsHandler handles transferable development rights requests.
type AirRightsHandler struct {
	analyses services.AnalysisService
}

// NewAirRightsHandler creates a new AirRightsHandler instance.
func NewAirRightsHandler(analyses services.AnalysisService) *AirRightsHandler {
	return &AirRightsHandler{
		analyses: analyses,
	}
}

// TransferRequest is the body of the transfer simulation endpoint.
type TransferRequest struct {
	FromPropertyID uuid.UUID `json:"fromPropertyId" binding:"required"`
	ToPropertyID   uuid.UUID `json:"toPropertyId" binding:"required"`
	TransferSF     float64   `json:"transferSf" binding:"required,gt=0"`
}

// PropertyAirRights handles GET /api/v1/properties/:id/air-rights.
func (h *AirRightsHandler) PropertyAirRights(c *gin.Context) {
	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	summary, err := h.analyses.AirRights(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			apierrors.NotFound(c, "Property not found")
		case errors.Is(err, analysis.ErrInvalidLandArea):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to compute air rights", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"propertyId": id,
		"airRights":  summary,
	})
}

// Recipients handles GET /api/v1/properties/:id/air-rights/recipients.
func (h *AirRightsHandler) Recipients(c *gin.Context) {
	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	report, err := h.analyses.Recipients(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			apierrors.NotFound(c, "Property not found")
		case errors.Is(err, analysis.ErrInvalidLandArea):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to rank recipients", err)
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// SimulateTransfer handles POST /api/v1/air-rights/simulate-transfer.
func (h *AirRightsHandler) SimulateTransfer(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if req.FromPropertyID == req.ToPropertyID {
		apierrors.BadRequest(c, "Source and recipient must be different properties", nil)
		return
	}

	if log != nil {
		log.Info("Processing transfer simulation", map[string]interface{}{
			"from":        req.FromPropertyID.String(),
			"to":          req.ToPropertyID.String(),
			"transfer_sf": req.TransferSF,
		})
	}

	quote, err := h.analyses.SimulateTransfer(c.Request.Context(), req.FromPropertyID, req.ToPropertyID, req.TransferSF)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			apierrors.NotFound(c, "Property not found")
		case errors.Is(err, analysis.ErrInvalidTransfer), errors.Is(err, analysis.ErrInvalidLandArea):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to simulate transfer", err)
		}
		return
	}

	c.JSON(http.StatusOK, quote)
}

// MarketData handles GET /api/v1/air-rights/market-data.
func (h *AirRightsHandler) MarketData(c *gin.Context) {
	c.JSON(http.StatusOK, h.analyses.MarketData())
}
