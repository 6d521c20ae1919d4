package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/zonewise/api/internal/analysis"
	apierrors "github.com/zonewise/api/internal/errors"
	"github.com/zonewise/api/internal/geocoding"
	"github.com/zonewise/api/internal/middleware"
	"github.com/zonewise/api/internal/models"
	"github.com/zonewise/api/internal/repository"
	"github.com/zonewise/api/internal/services"
)

// PropertyHandler handles property-related HTTP requests.
type PropertyHandler struct {
	properties services.PropertyService
	analyses   services.AnalysisService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(properties services.PropertyService, analyses services.AnalysisService) *PropertyHandler {
	return &PropertyHandler{
		properties: properties,
		analyses:   analyses,
	}
}

// AnalyzeRequest is the body of the create-and-analyze endpoint.
type AnalyzeRequest struct {
	Address        string   `json:"address" binding:"required"`
	Borough        string   `json:"borough,omitempty"`
	LotNumber      *string  `json:"lotNumber,omitempty"`
	BlockNumber    *string  `json:"blockNumber,omitempty"`
	ZipCode        *string  `json:"zipCode,omitempty"`
	LandAreaSF     float64  `json:"landAreaSf" binding:"required,gt=0"`
	BuildingAreaSF *float64 `json:"buildingAreaSf,omitempty" binding:"omitempty,gt=0"`
	CurrentUse     *string  `json:"currentUse,omitempty"`
	YearBuilt      *int     `json:"yearBuilt,omitempty" binding:"omitempty,min=1600,max=2100"`
	Latitude       *float64 `json:"latitude,omitempty" binding:"omitempty,min=-90,max=90"`
	Longitude      *float64 `json:"longitude,omitempty" binding:"omitempty,min=-180,max=180"`
}

// UpdatePropertyRequest carries the mutable property fields. Absent fields
// are left unchanged.
type UpdatePropertyRequest struct {
	ZipCode        *string  `json:"zipCode,omitempty"`
	LandAreaSF     *float64 `json:"landAreaSf,omitempty" binding:"omitempty,gt=0"`
	BuildingAreaSF *float64 `json:"buildingAreaSf,omitempty" binding:"omitempty,gt=0"`
	CurrentUse     *string  `json:"currentUse,omitempty"`
	YearBuilt      *int     `json:"yearBuilt,omitempty" binding:"omitempty,min=1600,max=2100"`
}

// SearchRequest is the query of the address-search endpoint.
type SearchRequest struct {
	Address string `form:"address" binding:"required"`
	Limit   int    `form:"limit,omitempty" binding:"omitempty,min=1,max=50"`
}

// ListPropertiesRequest is the query of the property listing endpoint.
type ListPropertiesRequest struct {
	Borough       string  `form:"borough,omitempty"`
	Query         string  `form:"q,omitempty"`
	MinLandAreaSF float64 `form:"minLandAreaSf,omitempty" binding:"omitempty,gt=0"`
	MaxLandAreaSF float64 `form:"maxLandAreaSf,omitempty" binding:"omitempty,gt=0"`
	Limit         int     `form:"limit,omitempty" binding:"omitempty,min=1,max=50"`
	Offset        int     `form:"offset,omitempty" binding:"omitempty,min=0"`
}

// AnalyzeResponse pairs the registered property with its first analysis.
// Analysis is null when the initial run failed; registration still succeeds.
type AnalyzeResponse struct {
	Property      *models.Property `json:"property"`
	Existed       bool             `json:"existed"`
	Analysis      *analysis.Result `json:"analysis,omitempty"`
	AnalysisError string           `json:"analysisError,omitempty"`
}

// propertyIDParam parses the :id path parameter. On failure it writes the
// error response and reports false.
func propertyIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid property ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		return uuid.Nil, false
	}
	return id, true
}

// Analyze handles POST /api/v1/properties/analyze.
// It registers the property (or finds it by address) and runs the full
// analysis pipeline against it.
func (h *PropertyHandler) Analyze(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log != nil {
		log.Info("Processing analyze request", map[string]interface{}{
			"address": req.Address,
		})
	}

	property, existed, err := h.properties.Register(c.Request.Context(), services.PropertyInput{
		Address:        req.Address,
		Borough:        req.Borough,
		LotNumber:      req.LotNumber,
		BlockNumber:    req.BlockNumber,
		ZipCode:        req.ZipCode,
		LandAreaSF:     req.LandAreaSF,
		BuildingAreaSF: req.BuildingAreaSF,
		CurrentUse:     req.CurrentUse,
		YearBuilt:      req.YearBuilt,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidProperty):
			apierrors.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrOutsideNYC):
			apierrors.BadRequest(c, "Address is outside New York City", map[string]interface{}{
				"address": req.Address,
			})
		case errors.Is(err, geocoding.ErrAddressNotFound):
			apierrors.NotFound(c, "Address could not be geocoded")
		case errors.Is(err, geocoding.ErrUnavailable):
			apierrors.ServiceUnavailable(c, "Geocoding service is unavailable", err)
		default:
			apierrors.InternalServerError(c, "Failed to register property", err)
		}
		return
	}

	response := AnalyzeResponse{
		Property: property,
		Existed:  existed,
	}

	// A failed first analysis is reported inline rather than failing the
	// registration.
	full, err := h.analyses.Analyze(c.Request.Context(), property.ID)
	if err != nil {
		if log != nil {
			log.Warn("Initial analysis failed", map[string]interface{}{
				"property_id": property.ID.String(),
				"error":       err.Error(),
			})
		}
		response.AnalysisError = "analysis could not be completed; retry via the analysis endpoint"
	} else {
		response.Analysis = full.Analysis
	}

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	c.JSON(status, response)
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	property, err := h.properties.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to get property", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	var req ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	page, err := h.properties.List(c.Request.Context(), repository.PropertySearchFilter{
		Borough:       req.Borough,
		Query:         req.Query,
		MinLandAreaSF: req.MinLandAreaSF,
		MaxLandAreaSF: req.MaxLandAreaSF,
		Limit:         req.Limit,
		Offset:        req.Offset,
	})
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list properties", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Search handles GET /api/v1/properties/search.
// It geocodes the address and returns known properties near it.
func (h *PropertyHandler) Search(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	if log != nil {
		log.Info("Processing address search", map[string]interface{}{
			"address": req.Address,
		})
	}

	results, err := h.properties.SearchByAddress(c.Request.Context(), req.Address, req.Limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidProperty):
			apierrors.BadRequest(c, err.Error(), nil)
		case errors.Is(err, services.ErrOutsideNYC):
			apierrors.BadRequest(c, "Address is outside New York City", map[string]interface{}{
				"address": req.Address,
			})
		case errors.Is(err, geocoding.ErrAddressNotFound):
			apierrors.NotFound(c, "Address could not be geocoded")
		case errors.Is(err, geocoding.ErrUnavailable):
			apierrors.ServiceUnavailable(c, "Geocoding service is unavailable", err)
		default:
			apierrors.InternalServerError(c, "Failed to search properties", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// Update handles PATCH /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	property, err := h.properties.Update(c.Request.Context(), id, services.PropertyUpdate{
		ZipCode:        req.ZipCode,
		LandAreaSF:     req.LandAreaSF,
		BuildingAreaSF: req.BuildingAreaSF,
		CurrentUse:     req.CurrentUse,
		YearBuilt:      req.YearBuilt,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			apierrors.NotFound(c, "Property not found")
		case errors.Is(err, services.ErrInvalidProperty):
			apierrors.BadRequest(c, err.Error(), nil)
		default:
			apierrors.InternalServerError(c, "Failed to update property", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// Delete handles DELETE /api/v1/properties/:id.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	if err := h.properties.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to delete property", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// FullAnalysis handles GET /api/v1/properties/:id/analysis.
// It runs every analysis section and returns the aggregate envelope.
func (h *PropertyHandler) FullAnalysis(c *gin.Context) {
	log := middleware.GetLogger(c)

	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	if log != nil {
		log.Info("Processing full analysis request", map[string]interface{}{
			"property_id": id.String(),
		})
	}

	full, err := h.analyses.Analyze(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to analyze property", err)
		return
	}

	c.JSON(http.StatusOK, full)
}
