package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/zonewise/api/internal/config"
)

const mapboxBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Mapbox geocodes through the Mapbox Places API, biased toward the
// configured bounding box so ambiguous queries resolve inside the city.
type Mapbox struct {
	token      string
	bounds     config.BoundsConfig
	baseURL    string
	httpClient *http.Client
}

// NewMapbox creates a Mapbox provider with the configured token and timeout.
func NewMapbox(cfg config.GeocodingConfig, bounds config.BoundsConfig) *Mapbox {
	return &Mapbox{
		token:   cfg.MapboxToken,
		bounds:  bounds,
		baseURL: mapboxBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name implements Provider.
func (m *Mapbox) Name() string { return "mapbox" }

// Available implements Provider.
func (m *Mapbox) Available() bool { return m.token != "" }

type mapboxResponse struct {
	Features []mapboxFeature `json:"features"`
}

type mapboxFeature struct {
	Center    []float64       `json:"center"` // [lng, lat]
	PlaceName string          `json:"place_name"`
	Context   []mapboxContext `json:"context"`
}

type mapboxContext struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Geocode converts a free-form address into a location.
// Returns ErrAddressNotFound when Mapbox has no candidate and ErrUnavailable
// when the API cannot be reached.
func (m *Mapbox) Geocode(ctx context.Context, address string) (*Location, error) {
	query := url.Values{}
	query.Set("access_token", m.token)
	query.Set("country", "us")
	query.Set("limit", "1")
	// Bias results into the city: bbox is (west, south, east, north) and
	// proximity is the box center.
	query.Set("bbox", fmt.Sprintf("%f,%f,%f,%f",
		m.bounds.West, m.bounds.South, m.bounds.East, m.bounds.North))
	query.Set("proximity", fmt.Sprintf("%f,%f",
		(m.bounds.West+m.bounds.East)/2, (m.bounds.South+m.bounds.North)/2))

	endpoint := fmt.Sprintf("%s/%s.json?%s", m.baseURL, url.PathEscape(address), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrAddressNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: mapbox returned HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var mbResp mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&mbResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	if len(mbResp.Features) == 0 {
		return nil, ErrAddressNotFound
	}

	feature := mbResp.Features[0]
	if len(feature.Center) < 2 {
		return nil, ErrAddressNotFound
	}

	loc := &Location{
		Lng:       feature.Center[0],
		Lat:       feature.Center[1],
		Formatted: feature.PlaceName,
	}

	// Context entries carry the locality (borough) and postcode when known.
	for _, entry := range feature.Context {
		switch {
		case strings.HasPrefix(entry.ID, "locality"):
			loc.Borough = normalizeBorough(entry.Text)
		case strings.HasPrefix(entry.ID, "postcode"):
			loc.ZipCode = entry.Text
		}
	}

	return loc, nil
}
