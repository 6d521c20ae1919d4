// Package seeds loads the reference data a working database needs: zoning
// districts, tax incentive programs, landmarks, and a few demo properties
// linked to districts. Seeding is idempotent; rows that already exist are
// left alone, so the seeder is safe to run on every deploy.
package seeds

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/zonewise/api/internal/logger"
	"github.com/zonewise/api/internal/models"
	"github.com/zonewise/api/internal/repository"
)

// Seeder writes the reference catalogs through the repository layer.
type Seeder struct {
	properties repository.PropertyRepository
	zoning     repository.ZoningRepository
	incentives repository.IncentiveRepository
	landmarks  repository.LandmarkRepository
	log        *logger.Logger
}

// Summary counts what a seeding run created and what it left in place.
type Summary struct {
	DistrictsCreated  int
	DistrictsSkipped  int
	ProgramsCreated   int
	ProgramsSkipped   int
	LandmarksCreated  int
	LandmarksSkipped  int
	PropertiesCreated int
	PropertiesSkipped int
}

// New creates a Seeder.
func New(
	properties repository.PropertyRepository,
	zoning repository.ZoningRepository,
	incentives repository.IncentiveRepository,
	landmarks repository.LandmarkRepository,
	log *logger.Logger,
) *Seeder {
	return &Seeder{
		properties: properties,
		zoning:     zoning,
		incentives: incentives,
		landmarks:  landmarks,
		log:        log.WithComponent("seeds"),
	}
}

// Run seeds every catalog. The three reference catalogs are independent and
// load concurrently; demo properties follow once districts are in place,
// since their zoning links resolve district codes.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sum.DistrictsCreated, sum.DistrictsSkipped, err = s.seedDistricts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sum.ProgramsCreated, sum.ProgramsSkipped, err = s.seedPrograms(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sum.LandmarksCreated, sum.LandmarksSkipped, err = s.seedLandmarks(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return sum, err
	}

	var err error
	sum.PropertiesCreated, sum.PropertiesSkipped, err = s.seedProperties(ctx)
	if err != nil {
		return sum, err
	}

	return sum, nil
}

func (s *Seeder) seedDistricts(ctx context.Context) (int, int, error) {
	created, skipped := 0, 0
	for _, d := range districtCatalog() {
		existing, err := s.zoning.GetByCode(ctx, d.DistrictCode)
		if err != nil {
			return created, skipped, fmt.Errorf("failed to check district %s: %w", d.DistrictCode, err)
		}
		if existing != nil {
			skipped++
			continue
		}

		if err := s.zoning.Create(ctx, &d); err != nil {
			return created, skipped, err
		}
		created++
	}

	s.log.Info("Seeded zoning districts", map[string]interface{}{
		"created": created,
		"skipped": skipped,
	})
	return created, skipped, nil
}

func (s *Seeder) seedPrograms(ctx context.Context) (int, int, error) {
	created, skipped := 0, 0
	for _, p := range programCatalog() {
		existing, err := s.incentives.GetByCode(ctx, p.ProgramCode)
		if err != nil {
			return created, skipped, fmt.Errorf("failed to check program %s: %w", p.ProgramCode, err)
		}
		if existing != nil {
			skipped++
			continue
		}

		if err := s.incentives.Create(ctx, &p); err != nil {
			return created, skipped, err
		}
		created++
	}

	s.log.Info("Seeded incentive programs", map[string]interface{}{
		"created": created,
		"skipped": skipped,
	})
	return created, skipped, nil
}

// seedLandmarks loads the landmark catalog. Landmarks have no natural key,
// so an existing catalog short-circuits the whole batch rather than matching
// row by row.
func (s *Seeder) seedLandmarks(ctx context.Context) (int, int, error) {
	_, total, err := s.landmarks.List(ctx, "", 1, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to check landmark catalog: %w", err)
	}

	catalog := landmarkCatalog()
	if total > 0 {
		s.log.Info("Landmark catalog already present", map[string]interface{}{
			"existing": total,
		})
		return 0, len(catalog), nil
	}

	created := 0
	for _, l := range catalog {
		if err := s.landmarks.Create(ctx, &l); err != nil {
			return created, 0, err
		}
		created++
	}

	s.log.Info("Seeded landmarks", map[string]interface{}{
		"created": created,
	})
	return created, 0, nil
}

func (s *Seeder) seedProperties(ctx context.Context) (int, int, error) {
	created, skipped := 0, 0
	for _, demo := range propertyCatalog() {
		existing, err := s.properties.GetByAddress(ctx, demo.address)
		if err != nil {
			return created, skipped, fmt.Errorf("failed to check property %q: %w", demo.address, err)
		}
		if existing != nil {
			skipped++
			continue
		}

		p := demo.model()
		if err := s.properties.Create(ctx, &p); err != nil {
			return created, skipped, err
		}

		links := make([]models.PropertyZoningLink, 0, len(demo.links))
		percentSum := 0.0
		for _, link := range demo.links {
			district, err := s.zoning.GetByCode(ctx, link.code)
			if err != nil {
				return created, skipped, fmt.Errorf("failed to resolve district %s for %q: %w", link.code, demo.address, err)
			}
			if district == nil {
				return created, skipped, fmt.Errorf("demo property %q references unknown district %s", demo.address, link.code)
			}
			links = append(links, models.PropertyZoningLink{
				PropertyID:        p.ID,
				ZoningDistrictID:  district.ID,
				PercentInDistrict: link.percent,
			})
			percentSum += link.percent
		}
		// Percentages above 100 are stored as-is and only warned about;
		// reads trust the recorded values.
		if percentSum > 100 {
			s.log.Warn("District percentages exceed 100", map[string]interface{}{
				"address": demo.address,
				"sum":     percentSum,
			})
		}
		if err := s.zoning.ReplaceLinks(ctx, p.ID, links); err != nil {
			return created, skipped, err
		}
		created++
	}

	s.log.Info("Seeded demo properties", map[string]interface{}{
		"created": created,
		"skipped": skipped,
	})
	return created, skipped, nil
}

// ImportBoundaries replaces district boundaries with polygons from an
// authority extract, keyed by district code. Codes with no matching district
// are counted and skipped; the attribute catalog stays authoritative for
// which districts exist.
func (s *Seeder) ImportBoundaries(ctx context.Context, boundaries map[string]models.MultiPolygon) (int, int, error) {
	updated, unmatched := 0, 0
	for code, b := range boundaries {
		ok, err := s.zoning.UpdateBoundary(ctx, code, b)
		if err != nil {
			return updated, unmatched, err
		}
		if !ok {
			unmatched++
			continue
		}
		updated++
	}

	s.log.Info("Imported district boundaries", map[string]interface{}{
		"updated":   updated,
		"unmatched": unmatched,
	})
	return updated, unmatched, nil
}
