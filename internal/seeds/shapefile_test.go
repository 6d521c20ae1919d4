package seeds

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/zonewise/api/internal/models"
)

func TestBoundary(t *testing.T) {
	b := boundary(40.75, -73.98, 0.01)

	require.False(t, b.IsZero())
	mp := b.Geom()
	assert.Equal(t, models.SRIDWGS84, mp.SRID())
	require.Equal(t, 1, mp.NumPolygons())

	bounds := mp.Bounds()
	assert.InDelta(t, -73.99, bounds.Min(0), 1e-9)
	assert.InDelta(t, -73.97, bounds.Max(0), 1e-9)
	assert.InDelta(t, 40.74, bounds.Min(1), 1e-9)
	assert.InDelta(t, 40.76, bounds.Max(1), 1e-9)

	// The single ring must close on itself.
	ring := mp.Polygon(0).LinearRing(0)
	assert.Equal(t, ring.Coord(0), ring.Coord(ring.NumCoords()-1))
}

func TestAppendPolygonParts(t *testing.T) {
	poly := &shp.Polygon{
		NumParts: 1,
		Parts:    []int32{0},
		Points: []shp.Point{
			{X: -74.0, Y: 40.7},
			{X: -74.0, Y: 40.8},
			{X: -73.9, Y: 40.8},
			{X: -73.9, Y: 40.7},
			{X: -74.0, Y: 40.7},
		},
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(models.SRIDWGS84)
	appendPolygonParts(mp, poly)

	require.Equal(t, 1, mp.NumPolygons())
	assert.Equal(t, 5, mp.Polygon(0).LinearRing(0).NumCoords())
}

func TestAppendPolygonParts_MultiPart(t *testing.T) {
	poly := &shp.Polygon{
		NumParts: 2,
		Parts:    []int32{0, 5},
		Points: []shp.Point{
			{X: -74.0, Y: 40.7},
			{X: -74.0, Y: 40.8},
			{X: -73.9, Y: 40.8},
			{X: -73.9, Y: 40.7},
			{X: -74.0, Y: 40.7},
			{X: -73.8, Y: 40.6},
			{X: -73.8, Y: 40.65},
			{X: -73.75, Y: 40.65},
			{X: -73.75, Y: 40.6},
			{X: -73.8, Y: 40.6},
		},
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(models.SRIDWGS84)
	appendPolygonParts(mp, poly)

	assert.Equal(t, 2, mp.NumPolygons())
}

func TestAppendPolygonParts_EmptyPartSkipped(t *testing.T) {
	poly := &shp.Polygon{
		NumParts: 2,
		Parts:    []int32{0, 5},
		Points: []shp.Point{
			{X: -74.0, Y: 40.7},
			{X: -74.0, Y: 40.8},
			{X: -73.9, Y: 40.8},
			{X: -73.9, Y: 40.7},
			{X: -74.0, Y: 40.7},
		},
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(models.SRIDWGS84)
	appendPolygonParts(mp, poly)

	assert.Equal(t, 1, mp.NumPolygons())
}

func TestLoadBoundaries_MissingFile(t *testing.T) {
	_, err := LoadBoundaries("testdata/does-not-exist.shp")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open shapefile")
}
