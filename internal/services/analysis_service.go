package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zonewise/api/internal/analysis"
	"github.com/zonewise/api/internal/config"
	"github.com/zonewise/api/internal/logger"
	"github.com/zonewise/api/internal/models"
	"github.com/zonewise/api/internal/repository"
)

// Caps on spatial lookups feeding the analysis pipeline.
const (
	maxLandmarkResults    = 25
	maxAdjacentCandidates = 25
)

// ReportVersion identifies the analysis payload layout for downstream
// report renderers.
const ReportVersion = "1.0"

// ReportDataSources names the public datasets the reference catalog is
// derived from.
var ReportDataSources = []string{"NYC DOF", "NYC DCP", "NYC Landmarks"}

var (
	ErrDistrictNotFound = errors.New("zoning district not found")
	ErrInvalidCategory  = errors.New("invalid landmark category")
)

// ReportMeta annotates an analysis payload for report generation.
type ReportMeta struct {
	GeneratedAt     time.Time `json:"generatedAt"`
	AnalysisVersion string    `json:"analysisVersion"`
	DataSources     []string  `json:"dataSources"`
}

// FullAnalysis is the aggregate analysis envelope: the property record, the
// section results, and report metadata.
type FullAnalysis struct {
	Property *models.Property `json:"property"`
	Analysis *analysis.Result `json:"analysis"`
	Report   ReportMeta       `json:"report"`
}

// SetbackRequirements carries the strictest setbacks across the property's
// districts.
type SetbackRequirements struct {
	PropertyID       uuid.UUID         `json:"propertyId"`
	Setbacks         analysis.Setbacks `json:"setbacks"`
	MaxHeightFt      *float64          `json:"maxHeightFt,omitempty"`
	DistrictsChecked []string          `json:"districtsChecked"`
}

// RecipientsReport lists the ranked transfer recipients for a property.
type RecipientsReport struct {
	PropertyID         uuid.UUID            `json:"propertyId"`
	TransferableFAR    float64              `json:"transferableFar"`
	TransferableSF     float64              `json:"transferableSf"`
	AdjacentCandidates int                  `json:"adjacentCandidates"`
	Recipients         []analysis.Recipient `json:"recipients"`
}

// LandmarkReport is the proximity query result for one property.
type LandmarkReport struct {
	PropertyID uuid.UUID              `json:"propertyId"`
	RadiusFt   float64                `json:"radiusFt"`
	Category   string                 `json:"category,omitempty"`
	Landmarks  []analysis.LandmarkHit `json:"landmarks"`
}

// FARCalculatorInput is the ad-hoc calculator request: a lot size and the
// district codes it falls in, weighted evenly.
type FARCalculatorInput struct {
	LandAreaSF    float64
	DistrictCodes []string
	UseBonus      bool
}

// TransferQuote prices an air-rights transfer between two properties.
type TransferQuote struct {
	FromPropertyID uuid.UUID                    `json:"fromPropertyId"`
	FromAddress    string                       `json:"fromAddress"`
	ToPropertyID   uuid.UUID                    `json:"toPropertyId"`
	ToAddress      string                       `json:"toAddress"`
	Simulation     *analysis.TransferSimulation `json:"simulation"`
}

// MarketData exposes the air-rights price book.
type MarketData struct {
	BasePricePerSF    float64            `json:"basePricePerSf"`
	BoroughPricePerSF map[string]float64 `json:"boroughPricePerSf"`
	PremiumPrefixes   []string           `json:"premiumPrefixes"`
	PremiumMultiplier float64            `json:"premiumMultiplier"`
}

// AnalysisService runs the zoning analysis pipeline and its individual
// sections against registered properties.
type AnalysisService interface {
	// Analyze runs every section against one property and returns the
	// aggregate envelope. Section failures are reported inline; the call
	// itself fails only when the property is missing, the snapshot cannot
	// be assembled, or ctx is done.
	Analyze(ctx context.Context, propertyID uuid.UUID) (*FullAnalysis, error)

	// Zoning computes the FAR and envelope summary for one property.
	Zoning(ctx context.Context, propertyID uuid.UUID) (*analysis.ZoningSummary, error)

	// Setbacks returns the strictest setbacks across the property's districts.
	Setbacks(ctx context.Context, propertyID uuid.UUID) (*SetbackRequirements, error)

	// TaxIncentives evaluates every cataloged program against the property.
	TaxIncentives(ctx context.Context, propertyID uuid.UUID) (*analysis.IncentiveReport, error)

	// AirRights computes unused development rights and their value.
	AirRights(ctx context.Context, propertyID uuid.UUID) (*analysis.AirRightsSummary, error)

	// Recipients ranks adjacent properties able to absorb a transfer.
	Recipients(ctx context.Context, propertyID uuid.UUID) (*RecipientsReport, error)

	// NearbyLandmarks lists landmarks around the property. A non-positive
	// radius falls back to the configured default; out-of-range radii are
	// clamped. Returns ErrInvalidCategory for an unknown category.
	NearbyLandmarks(ctx context.Context, propertyID uuid.UUID, radiusFt float64, category string) (*LandmarkReport, error)

	// CalculateFAR runs the ad-hoc calculator against cataloged districts.
	// Returns ErrDistrictNotFound when a code is not in the catalog.
	CalculateFAR(ctx context.Context, input FARCalculatorInput) (*analysis.ZoningSummary, error)

	// CheckCompliance tests a proposed building area against the property's
	// maximum buildable area.
	CheckCompliance(ctx context.Context, propertyID uuid.UUID, proposedBuildingAreaSF float64) (*analysis.ComplianceResult, error)

	// SimulateTransfer prices moving transferSF of air rights from one
	// property to another.
	SimulateTransfer(ctx context.Context, fromID, toID uuid.UUID, transferSF float64) (*TransferQuote, error)

	// MarketData returns the configured price book.
	MarketData() MarketData
}

// analysisService is the concrete implementation of AnalysisService.
type analysisService struct {
	properties   repository.PropertyRepository
	zoning       repository.ZoningRepository
	incentives   repository.IncentiveRepository
	landmarks    repository.LandmarkRepository
	cfg          config.AnalysisConfig
	orchestrator *analysis.Orchestrator
	log          *logger.Logger
	now          func() time.Time
}

// NewAnalysisService creates a new instance of AnalysisService.
func NewAnalysisService(
	properties repository.PropertyRepository,
	zoning repository.ZoningRepository,
	incentives repository.IncentiveRepository,
	landmarks repository.LandmarkRepository,
	cfg config.AnalysisConfig,
	log *logger.Logger,
) AnalysisService {
	s := &analysisService{
		properties: properties,
		zoning:     zoning,
		incentives: incentives,
		landmarks:  landmarks,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
	s.orchestrator = analysis.NewOrchestrator(cfg, s.findLandmarks, s.findCandidates, log)
	return s
}

// snapshot loads everything the pipeline reads for one property.
func (s *analysisService) snapshot(ctx context.Context, propertyID uuid.UUID) (*analysis.Snapshot, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}

	shares, err := s.zoning.LinksForProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load district links for property %s: %w", propertyID, err)
	}

	programs, err := s.incentives.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load incentive programs: %w", err)
	}

	return &analysis.Snapshot{
		Property: *property,
		Shares:   shares,
		Programs: programs,
	}, nil
}

// propertyShares loads a property and its district links for the single
// section entry points.
func (s *analysisService) propertyShares(ctx context.Context, propertyID uuid.UUID) (*models.Property, []models.DistrictShare, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get property: %w", err)
	}
	if property == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}

	shares, err := s.zoning.LinksForProperty(ctx, propertyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load district links for property %s: %w", propertyID, err)
	}
	return property, shares, nil
}

// findLandmarks adapts the landmark repository to the pipeline's finder
// signature.
func (s *analysisService) findLandmarks(ctx context.Context, lat, lng, radiusFt float64) ([]analysis.LandmarkHit, error) {
	nearby, err := s.landmarks.Nearby(ctx, lat, lng, radiusFt, "", maxLandmarkResults)
	if err != nil {
		return nil, err
	}
	hits := make([]analysis.LandmarkHit, 0, len(nearby))
	for _, n := range nearby {
		hits = append(hits, analysis.LandmarkHit{
			Landmark:   n.Landmark,
			DistanceFt: n.DistanceFt,
		})
	}
	return hits, nil
}

// findCandidates returns the adjacent properties with their own maximum FAR,
// so the air-rights section can rank them as transfer recipients.
func (s *analysisService) findCandidates(ctx context.Context, p models.Property) ([]analysis.RecipientCandidate, error) {
	adjacent, err := s.properties.Adjacent(ctx, p.ID, s.cfg.AdjacencyToleranceFt, maxAdjacentCandidates)
	if err != nil {
		return nil, err
	}

	candidates := make([]analysis.RecipientCandidate, 0, len(adjacent))
	for _, neighbor := range adjacent {
		shares, err := s.zoning.LinksForProperty(ctx, neighbor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load district links for candidate %s: %w", neighbor.ID, err)
		}
		candidates = append(candidates, analysis.RecipientCandidate{
			Property: neighbor,
			MaxFAR:   analysis.WeightedFARWithBonus(shares),
		})
	}
	return candidates, nil
}

func (s *analysisService) Analyze(ctx context.Context, propertyID uuid.UUID) (*FullAnalysis, error) {
	snap, err := s.snapshot(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	result, err := s.orchestrator.Run(ctx, *snap)
	if err != nil {
		return nil, fmt.Errorf("analysis aborted: %w", err)
	}

	return &FullAnalysis{
		Property: &snap.Property,
		Analysis: result,
		Report: ReportMeta{
			GeneratedAt:     result.GeneratedAt,
			AnalysisVersion: ReportVersion,
			DataSources:     ReportDataSources,
		},
	}, nil
}

func (s *analysisService) Zoning(ctx context.Context, propertyID uuid.UUID) (*analysis.ZoningSummary, error) {
	property, shares, err := s.propertyShares(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return analysis.ComputeZoning(property.LandAreaSF, shares, true)
}

func (s *analysisService) Setbacks(ctx context.Context, propertyID uuid.UUID) (*SetbackRequirements, error) {
	property, shares, err := s.propertyShares(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	summary, err := analysis.ComputeZoning(property.LandAreaSF, shares, true)
	if err != nil {
		return nil, err
	}

	return &SetbackRequirements{
		PropertyID:       propertyID,
		Setbacks:         summary.Setbacks,
		MaxHeightFt:      summary.MaxHeightFt,
		DistrictsChecked: analysis.DistrictCodes(shares),
	}, nil
}

func (s *analysisService) TaxIncentives(ctx context.Context, propertyID uuid.UUID) (*analysis.IncentiveReport, error) {
	property, shares, err := s.propertyShares(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	programs, err := s.incentives.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load incentive programs: %w", err)
	}

	report := analysis.EvaluatePrograms(*property, analysis.DistrictCodes(shares), programs, s.cfg.TaxRate, s.now())
	return &report, nil
}

func (s *analysisService) AirRights(ctx context.Context, propertyID uuid.UUID) (*analysis.AirRightsSummary, error) {
	property, shares, err := s.propertyShares(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.findCandidates(ctx, *property)
	if err != nil {
		return nil, fmt.Errorf("failed to find adjacent properties: %w", err)
	}

	return analysis.ComputeAirRights(
		*property,
		analysis.WeightedFARWithBonus(shares),
		analysis.DistrictCodes(shares),
		candidates,
		s.cfg,
	)
}

func (s *analysisService) Recipients(ctx context.Context, propertyID uuid.UUID) (*RecipientsReport, error) {
	summary, err := s.AirRights(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	return &RecipientsReport{
		PropertyID:         propertyID,
		TransferableFAR:    summary.TransferableFAR,
		TransferableSF:     summary.TransferableSF,
		AdjacentCandidates: summary.AdjacentCandidates,
		Recipients:         summary.Recipients,
	}, nil
}

func (s *analysisService) NearbyLandmarks(ctx context.Context, propertyID uuid.UUID, radiusFt float64, category string) (*LandmarkReport, error) {
	if category != "" && !models.ValidLandmarkCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}

	radiusFt = s.clampRadius(radiusFt)

	nearby, err := s.landmarks.Nearby(ctx, property.Geom.Lat(), property.Geom.Lng(), radiusFt, category, maxLandmarkResults)
	if err != nil {
		return nil, fmt.Errorf("failed to query landmarks near property %s: %w", propertyID, err)
	}

	hits := make([]analysis.LandmarkHit, 0, len(nearby))
	for _, n := range nearby {
		hits = append(hits, analysis.LandmarkHit{
			Landmark:   n.Landmark,
			DistanceFt: n.DistanceFt,
		})
	}

	return &LandmarkReport{
		PropertyID: propertyID,
		RadiusFt:   radiusFt,
		Category:   category,
		Landmarks:  hits,
	}, nil
}

// clampRadius applies the configured default and bounds to a requested
// landmark search radius.
func (s *analysisService) clampRadius(radiusFt float64) float64 {
	if radiusFt <= 0 {
		return s.cfg.LandmarkRadiusFt
	}
	if radiusFt < s.cfg.LandmarkRadiusMinFt {
		return s.cfg.LandmarkRadiusMinFt
	}
	if radiusFt > s.cfg.LandmarkRadiusMaxFt {
		return s.cfg.LandmarkRadiusMaxFt
	}
	return radiusFt
}

// CalculateFAR resolves each district code from the catalog and computes the
// envelope as if the lot were split evenly among them.
func (s *analysisService) CalculateFAR(ctx context.Context, input FARCalculatorInput) (*analysis.ZoningSummary, error) {
	shares := make([]models.DistrictShare, 0, len(input.DistrictCodes))
	percent := 0.0
	if len(input.DistrictCodes) > 0 {
		percent = 100.0 / float64(len(input.DistrictCodes))
	}

	for _, code := range input.DistrictCodes {
		district, err := s.zoning.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to look up district %q: %w", code, err)
		}
		if district == nil {
			return nil, fmt.Errorf("%w: %q", ErrDistrictNotFound, code)
		}
		shares = append(shares, models.DistrictShare{
			District:          *district,
			PercentInDistrict: percent,
		})
	}

	return analysis.ComputeZoning(input.LandAreaSF, shares, input.UseBonus)
}

func (s *analysisService) CheckCompliance(ctx context.Context, propertyID uuid.UUID, proposedBuildingAreaSF float64) (*analysis.ComplianceResult, error) {
	property, shares, err := s.propertyShares(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return analysis.CheckCompliance(property.LandAreaSF, proposedBuildingAreaSF, shares)
}

func (s *analysisService) SimulateTransfer(ctx context.Context, fromID, toID uuid.UUID, transferSF float64) (*TransferQuote, error) {
	source, sourceShares, err := s.propertyShares(ctx, fromID)
	if err != nil {
		return nil, err
	}

	// The transferable balance does not depend on recipient ranking, so no
	// adjacency query is needed here.
	summary, err := analysis.ComputeAirRights(
		*source,
		analysis.WeightedFARWithBonus(sourceShares),
		analysis.DistrictCodes(sourceShares),
		nil,
		s.cfg,
	)
	if err != nil {
		return nil, err
	}

	recipient, recipientShares, err := s.propertyShares(ctx, toID)
	if err != nil {
		return nil, err
	}

	recipientZoning, err := analysis.ComputeZoning(recipient.LandAreaSF, recipientShares, true)
	if err != nil {
		return nil, err
	}

	sim, err := analysis.SimulateTransfer(*summary, recipientZoning.TotalBuildableAreaSF, transferSF)
	if err != nil {
		return nil, err
	}

	s.log.Info("Air rights transfer simulated", map[string]interface{}{
		"from_property_id": fromID.String(),
		"to_property_id":   toID.String(),
		"transfer_sf":      transferSF,
	})

	return &TransferQuote{
		FromPropertyID: fromID,
		FromAddress:    source.Address,
		ToPropertyID:   toID,
		ToAddress:      recipient.Address,
		Simulation:     sim,
	}, nil
}

func (s *analysisService) MarketData() MarketData {
	book := make(map[string]float64, len(s.cfg.BoroughPricePerSF))
	for borough, price := range s.cfg.BoroughPricePerSF {
		book[borough] = price
	}
	prefixes := make([]string, len(s.cfg.PremiumPrefixes))
	copy(prefixes, s.cfg.PremiumPrefixes)

	return MarketData{
		BasePricePerSF:    s.cfg.BasePricePerSF,
		BoroughPricePerSF: book,
		PremiumPrefixes:   prefixes,
		PremiumMultiplier: s.cfg.PremiumMultiplier,
	}
}
