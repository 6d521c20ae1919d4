// Package geocoding resolves free-form addresses to coordinates.
//
// Providers implement a common interface so the service layer can swap the
// real Mapbox backend for a static one in development and tests.
package geocoding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/zonewise/api/internal/config"
)

// Sentinel errors returned by providers. Callers branch with errors.Is.
var (
	// ErrAddressNotFound means the provider answered but had no match.
	ErrAddressNotFound = errors.New("address not found")
	// ErrUnavailable means the provider could not be reached; the caller
	// may retry.
	ErrUnavailable = errors.New("geocoding service unavailable")
)

// Location is a resolved address.
type Location struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Formatted string  `json:"formatted,omitempty"`
	Borough   string  `json:"borough,omitempty"`
	ZipCode   string  `json:"zipCode,omitempty"`
}

// Provider represents a single geocoding backend.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, address string) (*Location, error)
	Available() bool
}

// New builds the provider selected by configuration.
func New(cfg config.GeocodingConfig, bounds config.BoundsConfig) (Provider, error) {
	switch cfg.Provider {
	case "mapbox":
		return NewMapbox(cfg, bounds), nil
	case "static":
		return NewStatic(), nil
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q", cfg.Provider)
	}
}

// earthRadiusM is the mean earth radius used by the haversine formula.
const earthRadiusM = 6371000.0

const metersPerFoot = 0.3048

// DistanceFt returns the great-circle distance between two points in feet.
func DistanceFt(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c / metersPerFoot
}

// normalizeBorough lowercases a borough name to the stored form.
func normalizeBorough(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
