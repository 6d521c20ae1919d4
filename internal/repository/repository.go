// Package repository implements data access over PostgreSQL with PostGIS.
// All spatial queries use geography casts for distances so results are in
// meters regardless of latitude; callers work in feet and the conversion
// happens here.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the minimal database pool interface the repositories use.
// *pgxpool.Pool satisfies it in production; mock pools satisfy it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Unit conversions between the API's feet and PostGIS geography meters.
const (
	metersPerFoot = 0.3048
	feetPerMeter  = 3.28084
)

// defaultListLimit caps list queries when the caller does not set a limit.
const defaultListLimit = 50
