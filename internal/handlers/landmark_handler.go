package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/zonewise/api/internal/errors"
	"github.com/zonewise/api/internal/services"
)

// LandmarkHandler handles landmark proximity and catalog requests.
type LandmarkHandler struct {
	analyses  services.AnalysisService
	reference services.ReferenceService
}

// NewLandmarkHandler creates a new LandmarkHandler instance.
func NewLandmarkHandler(analyses services.AnalysisService, reference services.ReferenceService) *LandmarkHandler {
	return &LandmarkHandler{
		analyses:  analyses,
		reference: reference,
	}
}

// NearbyLandmarksRequest is the query of the property landmark endpoint.
// Radius is clamped server-side to the configured bounds.
type NearbyLandmarksRequest struct {
	RadiusFt float64 `form:"radius_ft,omitempty" binding:"omitempty,gt=0"`
	Category string  `form:"category,omitempty"`
}

// ListLandmarksRequest is the query of the landmark catalog endpoint.
type ListLandmarksRequest struct {
	Category string `form:"category,omitempty"`
	Limit    int    `form:"limit,omitempty" binding:"omitempty,min=1,max=50"`
	Offset   int    `form:"offset,omitempty" binding:"omitempty,min=0"`
}

// PropertyLandmarks handles GET /api/v1/properties/:id/landmarks.
func (h *LandmarkHandler) PropertyLandmarks(c *gin.Context) {
	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	var req NearbyLandmarksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	report, err := h.analyses.NearbyLandmarks(c.Request.Context(), id, req.RadiusFt, req.Category)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			apierrors.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrInvalidCategory):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to query nearby landmarks", err)
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// List handles GET /api/v1/landmarks.
func (h *LandmarkHandler) List(c *gin.Context) {
	var req ListLandmarksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	page, err := h.reference.Landmarks(c.Request.Context(), req.Category, req.Limit, req.Offset)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCategory) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to list landmarks", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/v1/landmarks/:id.
func (h *LandmarkHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid landmark ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		return
	}

	landmark, err := h.reference.Landmark(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrLandmarkNotFound) {
			apierrors.NotFound(c, "Landmark not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to get landmark", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"landmark": landmark})
}
