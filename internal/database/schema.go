package database

// schemaDDL creates every table and index the service needs. PostGIS must be
// installable by the connecting role on first run. The link table constrains
// each percentage to [0, 100] but deliberately not the per-property sum;
// stored percentages are trusted at read time.
const schemaDDL = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS properties (
    id               UUID PRIMARY KEY,
    address          TEXT NOT NULL,
    borough          TEXT NOT NULL DEFAULT '',
    lot_number       TEXT,
    block_number     TEXT,
    zip_code         TEXT,
    land_area_sf     DOUBLE PRECISION NOT NULL CHECK (land_area_sf > 0),
    building_area_sf DOUBLE PRECISION,
    current_use      TEXT,
    year_built       INTEGER,
    geom             geometry(Point, 4326) NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_properties_geom ON properties USING GIST (geom);
CREATE INDEX IF NOT EXISTS idx_properties_address ON properties (address);

CREATE TABLE IF NOT EXISTS zoning_districts (
    id               UUID PRIMARY KEY,
    district_code    TEXT NOT NULL UNIQUE,
    district_name    TEXT NOT NULL,
    far_base         DOUBLE PRECISION NOT NULL,
    far_with_bonus   DOUBLE PRECISION NOT NULL,
    max_height_ft    DOUBLE PRECISION,
    setback_front_ft DOUBLE PRECISION NOT NULL DEFAULT 0,
    setback_side_ft  DOUBLE PRECISION NOT NULL DEFAULT 0,
    setback_rear_ft  DOUBLE PRECISION NOT NULL DEFAULT 0,
    category         TEXT NOT NULL,
    geom             geometry(MultiPolygon, 4326) NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_zoning_districts_geom ON zoning_districts USING GIST (geom);

CREATE TABLE IF NOT EXISTS property_zoning_links (
    id                  UUID PRIMARY KEY,
    property_id         UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
    zoning_district_id  UUID NOT NULL REFERENCES zoning_districts(id) ON DELETE CASCADE,
    percent_in_district DOUBLE PRECISION NOT NULL
        CHECK (percent_in_district >= 0 AND percent_in_district <= 100),
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (property_id, zoning_district_id)
);

CREATE INDEX IF NOT EXISTS idx_property_zoning_links_property
    ON property_zoning_links (property_id);

CREATE TABLE IF NOT EXISTS tax_incentive_programs (
    id                      UUID PRIMARY KEY,
    program_code            TEXT NOT NULL UNIQUE,
    program_name            TEXT NOT NULL,
    description             TEXT,
    eligible_district_codes JSONB NOT NULL DEFAULT '[]',
    min_building_age        INTEGER,
    requires_residential    BOOLEAN NOT NULL DEFAULT FALSE,
    assessment_basis        TEXT NOT NULL DEFAULT 'building',
    assessment_rate_per_sf  DOUBLE PRECISION NOT NULL DEFAULT 0,
    abatement_schedule      JSONB NOT NULL DEFAULT '[]',
    created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS landmarks (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL,
    category    TEXT NOT NULL,
    description TEXT,
    geom        geometry(Point, 4326) NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_landmarks_geom ON landmarks USING GIST (geom);
CREATE INDEX IF NOT EXISTS idx_landmarks_category ON landmarks (category);
`
