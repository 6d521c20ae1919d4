package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zonewise/api/internal/config"
	"github.com/zonewise/api/internal/geocoding"
	"github.com/zonewise/api/internal/logger"
	"github.com/zonewise/api/internal/models"
	"github.com/zonewise/api/internal/repository"
)

// Search result limits
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// Service-level errors
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrInvalidProperty  = errors.New("invalid property data")
	ErrOutsideNYC       = errors.New("location outside New York City")
)

// PropertyInput carries the fields accepted when registering a property.
// Latitude and Longitude are optional; when absent the address is geocoded.
type PropertyInput struct {
	Address        string
	Borough        string
	LotNumber      *string
	BlockNumber    *string
	ZipCode        *string
	LandAreaSF     float64
	BuildingAreaSF *float64
	CurrentUse     *string
	YearBuilt      *int
	Latitude       *float64
	Longitude      *float64
}

// PropertyUpdate carries the mutable fields of a property. Nil fields are
// left unchanged. Location and address are fixed at registration.
type PropertyUpdate struct {
	ZipCode        *string
	LandAreaSF     *float64
	BuildingAreaSF *float64
	CurrentUse     *string
	YearBuilt      *int
}

// PropertySearchResult pairs a known property with its distance from the
// searched location.
type PropertySearchResult struct {
	Property   models.Property `json:"property"`
	DistanceFt float64         `json:"distanceFt"`
}

// PropertyPage is one page of registered properties plus the total match
// count before pagination.
type PropertyPage struct {
	Properties []models.Property `json:"properties"`
	Total      int               `json:"total"`
	Limit      int               `json:"limit"`
	Offset     int               `json:"offset"`
}

// PropertyService defines the interface for property registration and lookup.
type PropertyService interface {
	// Register creates a property from the input, geocoding the address when
	// coordinates are absent and resolving its zoning district links. When a
	// property with the same address already exists it is returned instead of
	// creating a duplicate; the second return reports whether that happened.
	// Returns ErrInvalidProperty for unusable input, ErrOutsideNYC for
	// locations beyond the city bounds, and geocoding errors unchanged.
	Register(ctx context.Context, input PropertyInput) (*models.Property, bool, error)

	// Get retrieves one property.
	// Returns ErrPropertyNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*models.Property, error)

	// List pages through registered properties matching the filter. Limit
	// falls back to DefaultSearchLimit and is capped at MaxSearchLimit.
	List(ctx context.Context, filter repository.PropertySearchFilter) (*PropertyPage, error)

	// SearchByAddress geocodes an address and returns known properties near
	// it, closest first. Limit falls back to DefaultSearchLimit and is capped
	// at MaxSearchLimit. Returns an empty slice when nothing is nearby.
	SearchByAddress(ctx context.Context, address string, limit int) ([]PropertySearchResult, error)

	// Update applies the non-nil fields and returns the updated property.
	// Returns ErrPropertyNotFound if it does not exist.
	Update(ctx context.Context, id uuid.UUID, update PropertyUpdate) (*models.Property, error)

	// Delete removes a property and its zoning links.
	// Returns ErrPropertyNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// propertyService is the concrete implementation of PropertyService.
type propertyService struct {
	properties repository.PropertyRepository
	zoning     repository.ZoningRepository
	geocoder   geocoding.Provider
	cfg        config.AnalysisConfig
	log        *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(
	properties repository.PropertyRepository,
	zoning repository.ZoningRepository,
	geocoder geocoding.Provider,
	cfg config.AnalysisConfig,
	log *logger.Logger,
) PropertyService {
	return &propertyService{
		properties: properties,
		zoning:     zoning,
		geocoder:   geocoder,
		cfg:        cfg,
		log:        log,
	}
}

// Register creates or fetches the property for an address. Geocoding and the
// bounds check run before anything is written. District link resolution runs
// after the insert and is best-effort: a failure there leaves the property
// registered without links and the next analysis reports it as unzoned.
func (s *propertyService) Register(ctx context.Context, input PropertyInput) (*models.Property, bool, error) {
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, false, fmt.Errorf("%w: address is required", ErrInvalidProperty)
	}
	if input.LandAreaSF <= 0 {
		return nil, false, fmt.Errorf("%w: land area must be positive, got %g sf", ErrInvalidProperty, input.LandAreaSF)
	}

	existing, err := s.properties.GetByAddress(ctx, address)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check for existing property: %w", err)
	}
	if existing != nil {
		s.log.Debug("Property already registered", map[string]interface{}{
			"property_id": existing.ID.String(),
			"address":     address,
		})
		return existing, true, nil
	}

	lat, lng, borough, zipCode, err := s.resolveLocation(ctx, address, input)
	if err != nil {
		return nil, false, err
	}

	if !s.cfg.NYCBounds.Contains(lat, lng) {
		s.log.Warn("Rejected location outside NYC bounds", map[string]interface{}{
			"address": address,
			"lat":     lat,
			"lng":     lng,
		})
		return nil, false, fmt.Errorf("%w: %s resolves to (%f, %f)", ErrOutsideNYC, address, lat, lng)
	}

	property := &models.Property{
		Address:        address,
		Borough:        borough,
		LotNumber:      input.LotNumber,
		BlockNumber:    input.BlockNumber,
		ZipCode:        input.ZipCode,
		LandAreaSF:     input.LandAreaSF,
		BuildingAreaSF: input.BuildingAreaSF,
		CurrentUse:     input.CurrentUse,
		YearBuilt:      input.YearBuilt,
		Geom:           models.NewPoint(lat, lng),
	}
	if property.ZipCode == nil && zipCode != "" {
		property.ZipCode = &zipCode
	}

	if err := s.properties.Create(ctx, property); err != nil {
		return nil, false, fmt.Errorf("failed to create property: %w", err)
	}

	s.log.Info("Property registered", map[string]interface{}{
		"property_id": property.ID.String(),
		"address":     address,
		"borough":     property.Borough,
	})

	if err := s.resolveDistrictLinks(ctx, property); err != nil {
		s.log.Warn("District link resolution failed; property left unlinked", map[string]interface{}{
			"property_id": property.ID.String(),
			"error":       err.Error(),
		})
	}

	return property, false, nil
}

// resolveLocation returns the property's coordinates plus the best-known
// borough and zip. Caller-provided coordinates win over geocoding; the
// borough falls back to the geocoder's answer when the input has none.
func (s *propertyService) resolveLocation(ctx context.Context, address string, input PropertyInput) (lat, lng float64, borough, zipCode string, err error) {
	borough = normalizeBoroughName(input.Borough)

	if input.Latitude != nil && input.Longitude != nil {
		return *input.Latitude, *input.Longitude, borough, "", nil
	}

	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return 0, 0, "", "", fmt.Errorf("failed to geocode %q: %w", address, err)
	}

	if borough == "" {
		borough = loc.Borough
	}
	return loc.Lat, loc.Lng, borough, loc.ZipCode, nil
}

// resolveDistrictLinks replaces the property's zoning links with the
// districts containing its location. Overlapping districts split the lot
// evenly since a point geometry carries no area to apportion.
func (s *propertyService) resolveDistrictLinks(ctx context.Context, property *models.Property) error {
	districts, err := s.zoning.DistrictsContaining(ctx, property.Geom.Lat(), property.Geom.Lng())
	if err != nil {
		return fmt.Errorf("failed to find districts for property %s: %w", property.ID, err)
	}

	if len(districts) == 0 {
		s.log.Debug("No zoning districts contain property location", map[string]interface{}{
			"property_id": property.ID.String(),
		})
		return nil
	}

	percent := 100.0 / float64(len(districts))
	links := make([]models.PropertyZoningLink, 0, len(districts))
	for _, d := range districts {
		links = append(links, models.PropertyZoningLink{
			PropertyID:        property.ID,
			ZoningDistrictID:  d.ID,
			PercentInDistrict: percent,
		})
	}

	if err := s.zoning.ReplaceLinks(ctx, property.ID, links); err != nil {
		return fmt.Errorf("failed to store zoning links for property %s: %w", property.ID, err)
	}

	s.log.Debug("Zoning links resolved", map[string]interface{}{
		"property_id": property.ID.String(),
		"districts":   len(links),
	})
	return nil
}

func (s *propertyService) Get(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}
	return property, nil
}

func (s *propertyService) List(ctx context.Context, filter repository.PropertySearchFilter) (*PropertyPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultSearchLimit
	}
	if filter.Limit > MaxSearchLimit {
		filter.Limit = MaxSearchLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Borough = normalizeBoroughName(filter.Borough)

	properties, total, err := s.properties.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	return &PropertyPage{
		Properties: properties,
		Total:      total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// SearchByAddress geocodes the query and looks up known properties within the
// configured search radius.
func (s *propertyService) SearchByAddress(ctx context.Context, address string, limit int) ([]PropertySearchResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidProperty)
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode %q: %w", address, err)
	}

	if !s.cfg.NYCBounds.Contains(loc.Lat, loc.Lng) {
		return nil, fmt.Errorf("%w: %s resolves to (%f, %f)", ErrOutsideNYC, address, loc.Lat, loc.Lng)
	}

	nearby, err := s.properties.FindNearby(ctx, loc.Lat, loc.Lng, s.cfg.SearchRadiusFt, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search near %q: %w", address, err)
	}

	results := make([]PropertySearchResult, 0, len(nearby))
	for _, hit := range nearby {
		results = append(results, PropertySearchResult{
			Property:   hit.Property,
			DistanceFt: hit.DistanceFt,
		})
	}

	s.log.Debug("Address search complete", map[string]interface{}{
		"address": address,
		"matches": len(results),
	})
	return results, nil
}

func (s *propertyService) Update(ctx context.Context, id uuid.UUID, update PropertyUpdate) (*models.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}

	if update.LandAreaSF != nil {
		if *update.LandAreaSF <= 0 {
			return nil, fmt.Errorf("%w: land area must be positive, got %g sf", ErrInvalidProperty, *update.LandAreaSF)
		}
		property.LandAreaSF = *update.LandAreaSF
	}
	if update.ZipCode != nil {
		property.ZipCode = update.ZipCode
	}
	if update.BuildingAreaSF != nil {
		property.BuildingAreaSF = update.BuildingAreaSF
	}
	if update.CurrentUse != nil {
		property.CurrentUse = update.CurrentUse
	}
	if update.YearBuilt != nil {
		property.YearBuilt = update.YearBuilt
	}

	found, err := s.properties.Update(ctx, property)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}

	s.log.Info("Property updated", map[string]interface{}{
		"property_id": id.String(),
	})
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.properties.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}

	s.log.Info("Property deleted", map[string]interface{}{
		"property_id": id.String(),
	})
	return nil
}

// normalizeBoroughName lowercases a borough to the stored form, with spaces
// as underscores.
func normalizeBoroughName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
