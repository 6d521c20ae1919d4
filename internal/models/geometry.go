package models

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// SRIDWGS84 is the spatial reference system used for all stored geometries.
// Coordinates are (longitude, latitude) degrees.
const SRIDWGS84 = 4326

// Point represents a PostGIS Point geometry in SRID 4326.
// Columns are read and written as EWKB; API payloads use GeoJSON.
type Point struct {
	geom *geom.Point
}

// NewPoint builds a point from latitude/longitude degrees.
func NewPoint(lat, lng float64) Point {
	return Point{geom: geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(SRIDWGS84)}
}

// IsZero reports whether the point carries no geometry.
func (p Point) IsZero() bool {
	return p.geom == nil
}

// Lat returns the latitude in degrees, or 0 for an empty point.
func (p Point) Lat() float64 {
	if p.geom == nil {
		return 0
	}
	return p.geom.Y()
}

// Lng returns the longitude in degrees, or 0 for an empty point.
func (p Point) Lng() float64 {
	if p.geom == nil {
		return 0
	}
	return p.geom.X()
}

// Scan implements sql.Scanner for reading point geometry from the database.
// PostGIS returns EWKB, either raw or hex-encoded depending on the wire format.
func (p *Point) Scan(value interface{}) error {
	g, err := scanGeometry(value)
	if err != nil {
		return fmt.Errorf("failed to scan Point: %w", err)
	}
	if g == nil {
		p.geom = nil
		return nil
	}

	pt, ok := g.(*geom.Point)
	if !ok {
		return fmt.Errorf("failed to scan Point: expected point geometry, got %T", g)
	}
	p.geom = pt

	return nil
}

// Value implements driver.Valuer for writing point geometry to the database.
// Returns EWKB bytes suitable for a geometry(Point,4326) column.
func (p Point) Value() (driver.Value, error) {
	if p.geom == nil {
		return nil, nil
	}

	data, err := ewkb.Marshal(p.geom, ewkb.NDR)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal point to EWKB: %w", err)
	}

	return data, nil
}

// MarshalJSON implements json.Marshaler for API responses.
// Returns GeoJSON-compliant format for frontend consumption.
func (p Point) MarshalJSON() ([]byte, error) {
	if p.geom == nil {
		return []byte("null"), nil
	}
	return geojson.Marshal(p.geom)
}

// UnmarshalJSON implements json.Unmarshaler for parsing GeoJSON input.
func (p *Point) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		p.geom = nil
		return nil
	}

	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("failed to unmarshal point: %w", err)
	}

	pt, ok := g.(*geom.Point)
	if !ok {
		return fmt.Errorf("expected Point geometry, got %T", g)
	}
	p.geom = pt.SetSRID(SRIDWGS84)

	return nil
}

// MultiPolygon represents a PostGIS MultiPolygon geometry in SRID 4326.
// Used for zoning-district boundaries, which may consist of disjoint areas.
type MultiPolygon struct {
	geom *geom.MultiPolygon
}

// NewMultiPolygon wraps a go-geom multipolygon, forcing SRID 4326.
func NewMultiPolygon(mp *geom.MultiPolygon) MultiPolygon {
	if mp != nil {
		mp.SetSRID(SRIDWGS84)
	}
	return MultiPolygon{geom: mp}
}

// IsZero reports whether the multipolygon carries no geometry.
func (mp MultiPolygon) IsZero() bool {
	return mp.geom == nil || mp.geom.NumPolygons() == 0
}

// Geom exposes the underlying go-geom multipolygon for encoding helpers.
func (mp MultiPolygon) Geom() *geom.MultiPolygon {
	return mp.geom
}

// Scan implements sql.Scanner for reading multipolygon geometry from the database.
func (mp *MultiPolygon) Scan(value interface{}) error {
	g, err := scanGeometry(value)
	if err != nil {
		return fmt.Errorf("failed to scan MultiPolygon: %w", err)
	}
	if g == nil {
		mp.geom = nil
		return nil
	}

	switch t := g.(type) {
	case *geom.MultiPolygon:
		mp.geom = t
	case *geom.Polygon:
		// Single polygons are promoted so callers only deal with one shape.
		promoted := geom.NewMultiPolygon(geom.XY).SetSRID(SRIDWGS84)
		if err := promoted.Push(t); err != nil {
			return fmt.Errorf("failed to scan MultiPolygon: %w", err)
		}
		mp.geom = promoted
	default:
		return fmt.Errorf("failed to scan MultiPolygon: expected polygonal geometry, got %T", g)
	}

	return nil
}

// Value implements driver.Valuer for writing multipolygon geometry to the database.
func (mp MultiPolygon) Value() (driver.Value, error) {
	if mp.geom == nil {
		return nil, nil
	}

	data, err := ewkb.Marshal(mp.geom, ewkb.NDR)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal multipolygon to EWKB: %w", err)
	}

	return data, nil
}

// MarshalJSON implements json.Marshaler for API responses.
func (mp MultiPolygon) MarshalJSON() ([]byte, error) {
	if mp.geom == nil {
		return []byte("null"), nil
	}
	return geojson.Marshal(mp.geom)
}

// UnmarshalJSON implements json.Unmarshaler for parsing GeoJSON input.
func (mp *MultiPolygon) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		mp.geom = nil
		return nil
	}

	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("failed to unmarshal multipolygon: %w", err)
	}

	return mp.Scan(mustEWKB(g))
}

// scanGeometry decodes a database geometry value into a go-geom type.
// Accepts raw EWKB bytes or the hex encoding PostGIS emits in text mode.
func scanGeometry(value interface{}) (geom.T, error) {
	if value == nil {
		return nil, nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil, fmt.Errorf("expected []byte or string, got %T", value)
	}

	if len(data) == 0 {
		return nil, nil
	}

	// Hex-encoded EWKB starts with the byte-order marker "00" or "01".
	if decoded, err := hex.DecodeString(string(data)); err == nil {
		data = decoded
	}

	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode EWKB: %w", err)
	}

	return g, nil
}

func mustEWKB(g geom.T) []byte {
	data, err := ewkb.Marshal(g, ewkb.NDR)
	if err != nil {
		return nil
	}
	return data
}
