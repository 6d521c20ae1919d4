package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonewise/api/internal/models"
)

func landmarkRows(extra ...string) *pgxmock.Rows {
	cols := []string{"id", "name", "category", "description", "geom", "created_at", "updated_at"}
	return pgxmock.NewRows(append(cols, extra...))
}

func TestLandmarkRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewLandmarkRepository(mock)

	now := time.Now()
	l := &models.Landmark{
		Name:     "Empire State Building",
		Category: models.LandmarkHistoric,
		Geom:     models.NewPoint(40.7484, -73.9857),
	}

	mock.ExpectQuery(`INSERT INTO landmarks`).
		WithArgs(pgxmock.AnyArg(), "Empire State Building", models.LandmarkHistoric,
			(*string)(nil), -73.9857, 40.7484).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := repo.Create(context.Background(), l)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, l.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLandmarkRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewLandmarkRepository(mock)

	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM landmarks WHERE id =`).
		WithArgs(id).
		WillReturnRows(landmarkRows())

	l, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, l)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLandmarkRepository_List_CategoryFilter(t *testing.T) {
	mock := newMock(t)
	repo := NewLandmarkRepository(mock)

	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM landmarks WHERE category =`).
		WithArgs(models.LandmarkTransportation).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT .+ FROM landmarks WHERE category = .+ ORDER BY name`).
		WithArgs(models.LandmarkTransportation, 25, 0).
		WillReturnRows(landmarkRows().AddRow(
			uuid.New(), "Grand Central Terminal", models.LandmarkTransportation,
			strPtr("Beaux-Arts rail terminal"), pointEWKB(t, 40.7527, -73.9772), now, now,
		))

	landmarks, total, err := repo.List(context.Background(), models.LandmarkTransportation, 25, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, landmarks, 1)
	assert.Equal(t, "Grand Central Terminal", landmarks[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLandmarkRepository_Nearby(t *testing.T) {
	mock := newMock(t)
	repo := NewLandmarkRepository(mock)

	now := time.Now()
	radiusFt := 150.0

	// 45.72 meters is exactly 150 feet.
	mock.ExpectQuery(`SELECT .+ FROM landmarks WHERE ST_DWithin`).
		WithArgs(-73.9857, 40.7484, radiusFt*metersPerFoot, "", 10).
		WillReturnRows(landmarkRows("distance_meters").AddRow(
			uuid.New(), "Empire State Building", models.LandmarkHistoric,
			nil, pointEWKB(t, 40.7484, -73.9857), now, now, 45.72,
		))

	hits, err := repo.Nearby(context.Background(), 40.7484, -73.9857, radiusFt, "", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Empire State Building", hits[0].Landmark.Name)
	assert.InDelta(t, 150.0, hits[0].DistanceFt, 0.01)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLandmarkRepository_Nearby_CategoryFilter(t *testing.T) {
	mock := newMock(t)
	repo := NewLandmarkRepository(mock)

	now := time.Now()
	radiusFt := 500.0

	mock.ExpectQuery(`SELECT .+ FROM landmarks WHERE ST_DWithin`).
		WithArgs(-73.9772, 40.7527, radiusFt*metersPerFoot, models.LandmarkTransportation, 10).
		WillReturnRows(landmarkRows("distance_meters").AddRow(
			uuid.New(), "Grand Central Terminal", models.LandmarkTransportation,
			nil, pointEWKB(t, 40.7527, -73.9772), now, now, 30.48,
		))

	hits, err := repo.Nearby(context.Background(), 40.7527, -73.9772, radiusFt, models.LandmarkTransportation, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, models.LandmarkTransportation, hits[0].Landmark.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLandmarkRepository_Nearby_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewLandmarkRepository(mock)

	radiusFt := 50.0
	mock.ExpectQuery(`SELECT .+ FROM landmarks WHERE ST_DWithin`).
		WithArgs(-74.15, 40.58, radiusFt*metersPerFoot, "", defaultListLimit).
		WillReturnRows(landmarkRows("distance_meters"))

	hits, err := repo.Nearby(context.Background(), 40.58, -74.15, radiusFt, "", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLandmarkRepository_Nearby_DBError(t *testing.T) {
	mock := newMock(t)
	repo := NewLandmarkRepository(mock)

	radiusFt := 150.0
	mock.ExpectQuery(`SELECT .+ FROM landmarks WHERE ST_DWithin`).
		WithArgs(-73.9857, 40.7484, radiusFt*metersPerFoot, "", 10).
		WillReturnError(fmt.Errorf("connection refused"))

	_, err := repo.Nearby(context.Background(), 40.7484, -73.9857, radiusFt, "", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query nearby landmarks")
}
