package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/zonewise/api/internal/errors"
	"github.com/zonewise/api/internal/middleware"
	"github.com/zonewise/api/internal/reports"
	"github.com/zonewise/api/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler assembles report payloads and spreadsheet exports.
type ReportHandler struct {
	analyses services.AnalysisService
}

// NewReportHandler creates a new ReportHandler instance.
func NewReportHandler(analyses services.AnalysisService) *ReportHandler {
	return &ReportHandler{
		analyses: analyses,
	}
}

// PreviewRequest is the body of the report preview endpoint. An empty
// section list selects every section.
type PreviewRequest struct {
	PropertyID uuid.UUID `json:"propertyId" binding:"required"`
	Sections   []string  `json:"sections,omitempty"`
}

// Preview handles POST /api/v1/reports/preview.
// It returns the assembled report payload a renderer would consume.
func (h *ReportHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	full, err := h.analyses.Analyze(c.Request.Context(), req.PropertyID)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to assemble report", err)
		return
	}

	payload, err := reports.Preview(full, req.Sections)
	if err != nil {
		if errors.Is(err, reports.ErrUnknownSection) {
			apierrors.BadRequest(c, err.Error(), map[string]interface{}{
				"knownSections": reports.SectionNames,
			})
			return
		}
		apierrors.InternalServerError(c, "Failed to assemble report", err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

// Workbook handles GET /api/v1/properties/:id/report.xlsx.
// It streams the analysis as a spreadsheet download.
func (h *ReportHandler) Workbook(c *gin.Context) {
	log := middleware.GetLogger(c)

	id, ok := propertyIDParam(c)
	if !ok {
		return
	}

	full, err := h.analyses.Analyze(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to assemble report", err)
		return
	}

	file, err := reports.Workbook(full)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to build workbook", err)
		return
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		apierrors.InternalServerError(c, "Failed to encode workbook", err)
		return
	}

	if log != nil {
		log.Info("Workbook generated", map[string]interface{}{
			"property_id": id.String(),
			"bytes":       buf.Len(),
		})
	}

	filename := fmt.Sprintf("zoning-analysis-%s.xlsx", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
