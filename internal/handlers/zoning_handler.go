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

// ZoningHandler handles zoning computation and district reference requests.
type ZoningHandler struct {
	analyses  services.AnalysisService
	reference services.ReferenceService
}

// NewZoningHandler creates a new ZoningHandler instance.
func NewZoningHandler(analyses services.AnalysisService, reference services.ReferenceService) *ZoningHandler {
	return &ZoningHandler{
		analyses:  analyses,
		reference: reference,
	}
}

// ListDistrictsRequest is the query of the district catalog endpoint.
type ListDistrictsRequest struct {
	Category string `form:"category,omitempty" binding:"omitempty,oneof=residential commercial manufacturing special"`
	Limit    int    `form:"limit,omitempty" binding:"omitempty,min=1,max=50"`
	Offset   int    `form:"offset,omitempty" binding:"omitempty,min=0"`
}

// FARCalculatorRequest is the body of the ad-hoc FAR calculator.
type FARCalculatorRequest struct {
	LandAreaSF    float64  `json:"landAreaSf" binding:"required,gt=0"`
	DistrictCodes []string `json:"districtCodes" binding:"required,min=1,dive,required"`
	UseBonus      bool     `json:"useBonus"`
}

// ComplianceRequest is the body of the compliance check endpoint.
type ComplianceRequest struct {
	PropertyID             uuid.UUID `json:"propertyId" binding:"required"`
	ProposedBuildingAreaSF float64   `json:"proposedBuildingAreaSf" binding:"required,gt=0"`
}

// PropertyZoning handles GET /api/v1/properties/:id/zoning.
func (h *ZoningHandler) PropertyZoning(c *gin.Context) {
	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	summary, err := h.analyses.Zoning(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			apierrors.NotFound(c, "Property not found")
		case errors.Is(err, analysis.ErrInvalidLandArea):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to compute zoning", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"propertyId": id,
		"zoning":     summary,
	})
}

// PropertySetbacks handles GET /api/v1/properties/:id/setbacks.
func (h *ZoningHandler) PropertySetbacks(c *gin.Context) {
	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	setbacks, err := h.analyses.Setbacks(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			apierrors.NotFound(c, "Property not found")
		case errors.Is(err, analysis.ErrInvalidLandArea):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to compute setbacks", err)
		}
		return
	}

	c.JSON(http.StatusOK, setbacks)
}

// Districts handles GET /api/v1/zoning/districts.
func (h *ZoningHandler) Districts(c *gin.Context) {
	var req ListDistrictsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	page, err := h.reference.Districts(c.Request.Context(), req.Category, req.Limit, req.Offset)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list zoning districts", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// DistrictByCode handles GET /api/v1/zoning/districts/:code.
func (h *ZoningHandler) DistrictByCode(c *gin.Context) {
	code := c.Param("code")

	district, err := h.reference.DistrictByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrDistrictNotFound) {
			apierrors.NotFound(c, "Zoning district not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to get zoning district", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"district": district})
}

// CalculateFAR handles POST /api/v1/zoning/far-calculator.
// It computes the buildable envelope for a lot split evenly across the given
// district codes.
func (h *ZoningHandler) CalculateFAR(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req FARCalculatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log != nil {
		log.Info("Processing FAR calculation", map[string]interface{}{
			"land_area_sf": req.LandAreaSF,
			"districts":    req.DistrictCodes,
		})
	}

	summary, err := h.analyses.CalculateFAR(c.Request.Context(), services.FARCalculatorInput{
		LandAreaSF:    req.LandAreaSF,
		DistrictCodes: req.DistrictCodes,
		UseBonus:      req.UseBonus,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDistrictNotFound):
			apierrors.BadRequest(c, err.Error(), nil)
		case errors.Is(err, analysis.ErrInvalidLandArea):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to calculate FAR", err)
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

// CheckCompliance handles POST /api/v1/zoning/compliance-check.
func (h *ZoningHandler) CheckCompliance(c *gin.Context) {
	var req ComplianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	result, err := h.analyses.CheckCompliance(c.Request.Context(), req.PropertyID, req.ProposedBuildingAreaSF)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			apierrors.NotFound(c, "Property not found")
		case errors.Is(err, analysis.ErrInvalidBuildingArea), errors.Is(err, analysis.ErrInvalidLandArea):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to check compliance", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
