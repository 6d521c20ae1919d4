package repository

import (
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/zonewise/api/internal/models"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// pointEWKB returns the EWKB bytes a geometry(Point,4326) column yields
// through ST_AsEWKB.
func pointEWKB(t *testing.T, lat, lng float64) []byte {
	t.Helper()
	v, err := models.NewPoint(lat, lng).Value()
	require.NoError(t, err)
	return v.([]byte)
}

// testMultiPolygon builds a small rectangle over midtown Manhattan.
func testMultiPolygon(t *testing.T) models.MultiPolygon {
	t.Helper()
	mp := geom.NewMultiPolygon(geom.XY).SetSRID(models.SRIDWGS84)
	poly := geom.NewPolygonFlat(geom.XY, []float64{
		-74.00, 40.74,
		-73.97, 40.74,
		-73.97, 40.76,
		-74.00, 40.76,
		-74.00, 40.74,
	}, []int{10})
	require.NoError(t, mp.Push(poly))
	return models.NewMultiPolygon(mp)
}

func multiPolygonEWKB(t *testing.T) []byte {
	t.Helper()
	v, err := testMultiPolygon(t).Value()
	require.NoError(t, err)
	return v.([]byte)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
