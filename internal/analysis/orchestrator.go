package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zonewise/api/internal/config"
	"github.com/zonewise/api/internal/logger"
	"github.com/zonewise/api/internal/models"
)

// LandmarkHit is one landmark within the proximity radius of a property.
type LandmarkHit struct {
	Landmark   models.Landmark `json:"landmark"`
	DistanceFt float64         `json:"distanceFt"`
}

// LandmarkFinder looks up landmarks within radiusFt feet of a point.
type LandmarkFinder func(ctx context.Context, lat, lng, radiusFt float64) ([]LandmarkHit, error)

// CandidateFinder resolves the adjacent properties of p together with each
// one's own allowed bonus FAR.
type CandidateFinder func(ctx context.Context, p models.Property) ([]RecipientCandidate, error)

// Snapshot is the per-request input to a full analysis: the property plus
// the reference data fetched for it. Reference data is read-only for the
// duration of the run.
type Snapshot struct {
	Property models.Property
	Shares   []models.DistrictShare
	Programs []models.TaxIncentiveProgram
}

// SectionStatus reports whether one section of an analysis succeeded.
type SectionStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func sectionOK() SectionStatus {
	return SectionStatus{OK: true}
}

func sectionFailed(err error) SectionStatus {
	return SectionStatus{Error: err.Error()}
}

// Result aggregates the four analysis sections. A failed section leaves its
// pointer nil and carries the error in its status; the other sections are
// still populated. Partial is true when at least one section failed.
type Result struct {
	PropertyID  uuid.UUID `json:"propertyId"`
	Address     string    `json:"address"`
	GeneratedAt time.Time `json:"generatedAt"`

	Zoning       *ZoningSummary `json:"zoning,omitempty"`
	ZoningStatus SectionStatus  `json:"zoningStatus"`

	Incentives       *IncentiveReport `json:"taxIncentives,omitempty"`
	IncentivesStatus SectionStatus    `json:"taxIncentivesStatus"`

	AirRights       *AirRightsSummary `json:"airRights,omitempty"`
	AirRightsStatus SectionStatus     `json:"airRightsStatus"`

	Landmarks       []LandmarkHit `json:"landmarks"`
	LandmarksStatus SectionStatus `json:"landmarksStatus"`

	Partial bool `json:"partial"`
}

// Orchestrator runs the full analysis pipeline. The calculators themselves
// are pure; the orchestrator owns concurrency, the injected finders for
// adjacency and landmark lookups, and the partial-failure contract.
type Orchestrator struct {
	cfg        config.AnalysisConfig
	landmarks  LandmarkFinder
	candidates CandidateFinder
	log        *logger.Logger
	now        func() time.Time
}

// NewOrchestrator creates an Orchestrator with the given configuration and
// finders.
func NewOrchestrator(cfg config.AnalysisConfig, landmarks LandmarkFinder, candidates CandidateFinder, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		landmarks:  landmarks,
		candidates: candidates,
		log:        log,
		now:        time.Now,
	}
}

// Run evaluates the four sections concurrently over one snapshot. Sections
// are independent: a failing section records its error in its own status and
// never aborts the others, so the result always carries every section that
// succeeded. The only error Run itself returns is context cancellation, which
// aborts outstanding sections promptly.
func (o *Orchestrator) Run(ctx context.Context, snap Snapshot) (*Result, error) {
	start := o.now()
	result := &Result{
		PropertyID:  snap.Property.ID,
		Address:     snap.Property.Address,
		GeneratedAt: start.UTC(),
		Landmarks:   []LandmarkHit{},
	}

	// Each goroutine writes a disjoint set of result fields, so no locking
	// is needed; Wait establishes the happens-before edge for the reader.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		summary, err := ComputeZoning(snap.Property.LandAreaSF, snap.Shares, true)
		if err != nil {
			result.ZoningStatus = sectionFailed(err)
			return nil
		}
		result.Zoning = summary
		result.ZoningStatus = sectionOK()
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		report := EvaluatePrograms(snap.Property, DistrictCodes(snap.Shares), snap.Programs, o.cfg.TaxRate, o.now())
		result.Incentives = &report
		result.IncentivesStatus = sectionOK()
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		candidates, err := o.candidates(gctx, snap.Property)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			result.AirRightsStatus = sectionFailed(err)
			return nil
		}
		summary, err := ComputeAirRights(snap.Property, WeightedFARWithBonus(snap.Shares), DistrictCodes(snap.Shares), candidates, o.cfg)
		if err != nil {
			result.AirRightsStatus = sectionFailed(err)
			return nil
		}
		result.AirRights = summary
		result.AirRightsStatus = sectionOK()
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		hits, err := o.landmarks(gctx, snap.Property.Geom.Lat(), snap.Property.Geom.Lng(), o.cfg.LandmarkRadiusFt)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			result.LandmarksStatus = sectionFailed(err)
			return nil
		}
		if hits == nil {
			hits = []LandmarkHit{}
		}
		result.Landmarks = hits
		result.LandmarksStatus = sectionOK()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Partial = !result.ZoningStatus.OK || !result.IncentivesStatus.OK ||
		!result.AirRightsStatus.OK || !result.LandmarksStatus.OK

	if result.Partial {
		o.log.Warn("Analysis completed with failed sections", map[string]interface{}{
			"property_id": snap.Property.ID.String(),
			"zoning":      result.ZoningStatus.OK,
			"incentives":  result.IncentivesStatus.OK,
			"air_rights":  result.AirRightsStatus.OK,
			"landmarks":   result.LandmarksStatus.OK,
		})
	} else {
		o.log.Debug("Analysis completed", map[string]interface{}{
			"property_id": snap.Property.ID.String(),
			"duration_ms": o.now().Sub(start).Milliseconds(),
		})
	}

	return result, nil
}
