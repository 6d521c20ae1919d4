package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zonewise/api/internal/analysis"
	apierrors "github.com/zonewise/api/internal/errors"
	"github.com/zonewise/api/internal/logger"
	"github.com/zonewise/api/internal/middleware"
	"github.com/zonewise/api/internal/services"
)

// setupAirRightsTestRouter creates a test router with middleware and air rights handlers.
func setupAirRightsTestRouter(handler *AirRightsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	log := logger.New("test")
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/properties/:id/air-rights", handler.PropertyAirRights)
		v1.GET("/properties/:id/air-rights/recipients", handler.Recipients)

		airRights := v1.Group("/air-rights")
		{
			airRights.POST("/simulate-transfer", handler.SimulateTransfer)
			airRights.GET("/market-data", handler.MarketData)
		}
	}

	return router
}

func airRightsSummary() *analysis.AirRightsSummary {
	return &analysis.AirRightsSummary{
		FARUtilized:        6.0,
		FARWithBonus:       12.0,
		UnusedFAR:          6.0,
		TransferableFAR:    4.8,
		TransferableSF:     24000,
		PricePerSF:         150,
		EstimatedValueUSD:  3600000,
		AdjacentCandidates: 1,
		Recipients: []analysis.Recipient{
			{
				PropertyID:             uuid.NewString(),
				Address:                "352 Fifth Avenue, New York, NY",
				CurrentFAR:             4.0,
				MaxFAR:                 12.0,
				AdditionalPotentialFAR: 8.0,
				AdditionalPotentialSF:  32000,
				LotAreaSF:              4000,
			},
		},
	}
}

func TestPropertyAirRights(t *testing.T) {
	// Setup
	mockAnalyses := new(MockAnalysisService)
	handler := NewAirRightsHandler(mockAnalyses)
	router := setupAirRightsTestRouter(handler)

	id := uuid.New()
	mockAnalyses.On("AirRights", mock.Anything, id).Return(airRightsSummary(), nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/properties/"+id.String()+"/air-rights", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		PropertyID uuid.UUID                 `json:"propertyId"`
		AirRights  analysis.AirRightsSummary `json:"airRights"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, id, response.PropertyID)
	assert.InDelta(t, 24000.0, response.AirRights.TransferableSF, 1e-6)
	assert.InDelta(t, 3600000.0, response.AirRights.EstimatedValueUSD, 1e-3)
}

func TestPropertyAirRights_NotFound(t *testing.T) {
	// Setup
	mockAnalyses := new(MockAnalysisService)
	handler := NewAirRightsHandler(mockAnalyses)
	router := setupAirRightsTestRouter(handler)

	id := uuid.New()
	mockAnalyses.On("AirRights", mock.Anything, id).Return(nil, services.ErrPropertyNotFound)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/properties/"+id.String()+"/air-rights", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusNotFound, w.Code)

	var response apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, apierrors.ErrNotFound, response.Error.Code)
}

func TestRecipients(t *testing.T) {
	// Setup
	mockAnalyses := new(MockAnalysisService)
	handler := NewAirRightsHandler(mockAnalyses)
	router := setupAirRightsTestRouter(handler)

	id := uuid.New()
	summary := airRightsSummary()
	mockAnalyses.On("Recipients", mock.Anything, id).Return(&services.RecipientsReport{
		PropertyID:         id,
		TransferableFAR:    summary.TransferableFAR,
		TransferableSF:     summary.TransferableSF,
		AdjacentCandidates: summary.AdjacentCandidates,
		Recipients:         summary.Recipients,
	}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/properties/"+id.String()+"/air-rights/recipients", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusOK, w.Code)

	var report services.RecipientsReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, id, report.PropertyID)
	require.Len(t, report.Recipients, 1)
	assert.InDelta(t, 32000.0, report.Recipients[0].AdditionalPotentialSF, 1e-6)
}

func TestSimulateTransferEndpoint(t *testing.T) {
	// Setup
	mockAnalyses := new(MockAnalysisService)
	handler := NewAirRightsHandler(mockAnalyses)
	router := setupAirRightsTestRouter(handler)

	fromID := uuid.New()
	toID := uuid.New()
	transferSF := 10000.0
	mockAnalyses.On("SimulateTransfer", mock.Anything, fromID, toID, transferSF).
		Return(&services.TransferQuote{
			FromPropertyID: fromID,
			FromAddress:    "350 Fifth Avenue, New York, NY",
			ToPropertyID:   toID,
			ToAddress:      "352 Fifth Avenue, New York, NY",
			Simulation: &analysis.TransferSimulation{
				TransferSF:              transferSF,
				PricePerSF:              150,
				TransferValueUSD:        1500000,
				RemainingTransferableSF: 14000,
				RecipientNewBuildableSF: 58000,
			},
		}, nil)

	body := fmt.Sprintf(`{"fromPropertyId": %q, "toPropertyId": %q, "transferSf": 10000}`, fromID, toID)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/air-rights/simulate-transfer", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusOK, w.Code)

	var quote services.TransferQuote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, fromID, quote.FromPropertyID)
	require.NotNil(t, quote.Simulation)
	assert.InDelta(t, 1500000.0, quote.Simulation.TransferValueUSD, 1e-3)
	assert.InDelta(t, 14000.0, quote.Simulation.RemainingTransferableSF, 1e-6)
}

func TestSimulateTransferEndpoint_SameProperty(t *testing.T) {
	// Setup
	mockAnalyses := new(MockAnalysisService)
	handler := NewAirRightsHandler(mockAnalyses)
	router := setupAirRightsTestRouter(handler)

	id := uuid.New()
	body := fmt.Sprintf(`{"fromPropertyId": %q, "toPropertyId": %q, "transferSf": 10000}`, id, id)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/air-rights/simulate-transfer", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, apierrors.ErrBadRequest, response.Error.Code)
	assert.Equal(t, "Source and recipient must be different properties", response.Error.Message)
	mockAnalyses.AssertNotCalled(t, "SimulateTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSimulateTransferEndpoint_ExceedsBalance(t *testing.T) {
	// Setup
	mockAnalyses := new(MockAnalysisService)
	handler := NewAirRightsHandler(mockAnalyses)
	router := setupAirRightsTestRouter(handler)

	fromID := uuid.New()
	toID := uuid.New()
	mockAnalyses.On("SimulateTransfer", mock.Anything, fromID, toID, 90000.0).
		Return(nil, fmt.Errorf("%w: requested 90000 sf exceeds transferable balance", analysis.ErrInvalidTransfer))

	body := fmt.Sprintf(`{"fromPropertyId": %q, "toPropertyId": %q, "transferSf": 90000}`, fromID, toID)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/air-rights/simulate-transfer", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, apierrors.ErrBadRequest, response.Error.Code)
}

func TestSimulateTransferEndpoint_RejectsZeroArea(t *testing.T) {
	// Setup
	mockAnalyses := new(MockAnalysisService)
	handler := NewAirRightsHandler(mockAnalyses)
	router := setupAirRightsTestRouter(handler)

	body := fmt.Sprintf(`{"fromPropertyId": %q, "toPropertyId": %q, "transferSf": 0}`, uuid.New(), uuid.New())
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/air-rights/simulate-transfer", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, apierrors.ErrValidation, response.Error.Code)
}

func TestMarketDataEndpoint(t *testing.T) {
	// Setup
	mockAnalyses := new(MockAnalysisService)
	handler := NewAirRightsHandler(mockAnalyses)
	router := setupAirRightsTestRouter(handler)

	mockAnalyses.On("MarketData").Return(services.MarketData{
		BasePricePerSF:    125,
		BoroughPricePerSF: map[string]float64{"manhattan": 150},
		PremiumPrefixes:   []string{"C5", "C6"},
		PremiumMultiplier: 1.5,
	})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/air-rights/market-data", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assertions
	assert.Equal(t, http.StatusOK, w.Code)

	var data services.MarketData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.InDelta(t, 125.0, data.BasePricePerSF, 1e-9)
	assert.InDelta(t, 150.0, data.BoroughPricePerSF["manhattan"], 1e-9)
	assert.Contains(t, data.PremiumPrefixes, "C5")
}
