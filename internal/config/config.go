package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Geocoding GeocodingConfig
	Analysis  AnalysisConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// GeocodingConfig selects and configures the geocoding provider.
// Provider is "mapbox" or "static"; static resolves every address to the
// configured fallback location and exists for development and tests.
type GeocodingConfig struct {
	Provider    string
	MapboxToken string
	Timeout     time.Duration
}

// BoundsConfig is a lat/lng bounding box. Geocoding results outside the box
// are rejected as non-NYC addresses.
type BoundsConfig struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Contains reports whether the point falls inside the box.
func (b BoundsConfig) Contains(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}

// AnalysisConfig carries every tuning constant of the analysis pipeline.
// These are injected at service construction so tests can substitute
// fixtures; nothing in the pipeline reads ambient state.
type AnalysisConfig struct {
	// TaxRate is the effective annual property tax rate used in abatement
	// value estimates.
	TaxRate float64

	// Landmark proximity search radii, in feet. Requests outside the
	// min/max range are clamped.
	LandmarkRadiusFt    float64
	LandmarkRadiusMinFt float64
	LandmarkRadiusMaxFt float64

	// AdjacencyToleranceFt bounds how far apart two lots may sit and still
	// count as adjacent for air-rights transfers.
	AdjacencyToleranceFt float64

	// SearchRadiusFt bounds the address-search nearby lookup.
	SearchRadiusFt float64

	// MaxRecipients caps the ranked air-rights recipient list.
	MaxRecipients int

	// TransferFraction is the share of unused FAR that may be transferred.
	// 1.0 passes unused FAR through untouched.
	TransferFraction float64

	// Air-rights market price book: $/sf by borough, with a fallback for
	// unknown boroughs and a multiplier applied when any governing district
	// code carries a premium prefix.
	BasePricePerSF    float64
	BoroughPricePerSF map[string]float64
	PremiumPrefixes   []string
	PremiumMultiplier float64

	// NYCBounds validates geocoded coordinates.
	NYCBounds BoundsConfig
}

// RateLimitConfig holds the per-client request throttle settings.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "zonewise")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("GEOCODING_PROVIDER", "static")
	v.SetDefault("GEOCODING_TIMEOUT_SECONDS", 5)
	v.SetDefault("ANALYSIS_TAX_RATE", 0.012)
	v.SetDefault("LANDMARK_RADIUS_FT", 150.0)
	v.SetDefault("LANDMARK_RADIUS_MIN_FT", 50.0)
	v.SetDefault("LANDMARK_RADIUS_MAX_FT", 1000.0)
	v.SetDefault("ADJACENCY_TOLERANCE_FT", 100.0)
	v.SetDefault("SEARCH_RADIUS_FT", 500.0)
	v.SetDefault("AIR_RIGHTS_MAX_RECIPIENTS", 5)
	v.SetDefault("AIR_RIGHTS_TRANSFER_FRACTION", 0.8)
	v.SetDefault("TDR_BASE_PRICE_PER_SF", 125.0)
	v.SetDefault("TDR_PRICE_MANHATTAN", 150.0)
	v.SetDefault("TDR_PRICE_BROOKLYN", 95.0)
	v.SetDefault("TDR_PRICE_QUEENS", 85.0)
	v.SetDefault("TDR_PRICE_BRONX", 75.0)
	v.SetDefault("TDR_PRICE_STATEN_ISLAND", 70.0)
	v.SetDefault("TDR_PREMIUM_PREFIXES", "C5,C6,M1,M2")
	v.SetDefault("TDR_PREMIUM_MULTIPLIER", 1.5)
	v.SetDefault("NYC_BOUNDS_NORTH", 40.9176)
	v.SetDefault("NYC_BOUNDS_SOUTH", 40.4774)
	v.SetDefault("NYC_BOUNDS_EAST", -73.7004)
	v.SetDefault("NYC_BOUNDS_WEST", -74.2591)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseList(v.GetString("CORS_ORIGINS")),
		},
		Geocoding: GeocodingConfig{
			Provider:    v.GetString("GEOCODING_PROVIDER"),
			MapboxToken: v.GetString("MAPBOX_ACCESS_TOKEN"),
			Timeout:     time.Duration(v.GetInt("GEOCODING_TIMEOUT_SECONDS")) * time.Second,
		},
		Analysis: AnalysisConfig{
			TaxRate:              v.GetFloat64("ANALYSIS_TAX_RATE"),
			LandmarkRadiusFt:     v.GetFloat64("LANDMARK_RADIUS_FT"),
			LandmarkRadiusMinFt:  v.GetFloat64("LANDMARK_RADIUS_MIN_FT"),
			LandmarkRadiusMaxFt:  v.GetFloat64("LANDMARK_RADIUS_MAX_FT"),
			AdjacencyToleranceFt: v.GetFloat64("ADJACENCY_TOLERANCE_FT"),
			SearchRadiusFt:       v.GetFloat64("SEARCH_RADIUS_FT"),
			MaxRecipients:        v.GetInt("AIR_RIGHTS_MAX_RECIPIENTS"),
			TransferFraction:     v.GetFloat64("AIR_RIGHTS_TRANSFER_FRACTION"),
			BasePricePerSF:       v.GetFloat64("TDR_BASE_PRICE_PER_SF"),
			BoroughPricePerSF: map[string]float64{
				"manhattan":     v.GetFloat64("TDR_PRICE_MANHATTAN"),
				"brooklyn":      v.GetFloat64("TDR_PRICE_BROOKLYN"),
				"queens":        v.GetFloat64("TDR_PRICE_QUEENS"),
				"bronx":         v.GetFloat64("TDR_PRICE_BRONX"),
				"staten_island": v.GetFloat64("TDR_PRICE_STATEN_ISLAND"),
			},
			PremiumPrefixes:   parseList(v.GetString("TDR_PREMIUM_PREFIXES")),
			PremiumMultiplier: v.GetFloat64("TDR_PREMIUM_MULTIPLIER"),
			NYCBounds: BoundsConfig{
				North: v.GetFloat64("NYC_BOUNDS_NORTH"),
				South: v.GetFloat64("NYC_BOUNDS_SOUTH"),
				East:  v.GetFloat64("NYC_BOUNDS_EAST"),
				West:  v.GetFloat64("NYC_BOUNDS_WEST"),
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:           v.GetBool("RATE_LIMIT_ENABLED"),
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Validate database config
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	// Validate CORS config
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	// Validate geocoding config
	switch c.Geocoding.Provider {
	case "mapbox":
		if c.Geocoding.MapboxToken == "" {
			return fmt.Errorf("MAPBOX_ACCESS_TOKEN is required when GEOCODING_PROVIDER is mapbox")
		}
	case "static":
	default:
		return fmt.Errorf("GEOCODING_PROVIDER must be mapbox or static")
	}
	if c.Geocoding.Timeout <= 0 {
		return fmt.Errorf("GEOCODING_TIMEOUT_SECONDS must be positive")
	}

	// Validate analysis config
	if c.Analysis.TaxRate <= 0 {
		return fmt.Errorf("ANALYSIS_TAX_RATE must be positive")
	}
	if c.Analysis.LandmarkRadiusMinFt <= 0 {
		return fmt.Errorf("LANDMARK_RADIUS_MIN_FT must be positive")
	}
	if c.Analysis.LandmarkRadiusMaxFt < c.Analysis.LandmarkRadiusMinFt {
		return fmt.Errorf("LANDMARK_RADIUS_MAX_FT must be at least LANDMARK_RADIUS_MIN_FT")
	}
	if c.Analysis.LandmarkRadiusFt < c.Analysis.LandmarkRadiusMinFt || c.Analysis.LandmarkRadiusFt > c.Analysis.LandmarkRadiusMaxFt {
		return fmt.Errorf("LANDMARK_RADIUS_FT must be within the min/max range")
	}
	if c.Analysis.AdjacencyToleranceFt <= 0 {
		return fmt.Errorf("ADJACENCY_TOLERANCE_FT must be positive")
	}
	if c.Analysis.SearchRadiusFt <= 0 {
		return fmt.Errorf("SEARCH_RADIUS_FT must be positive")
	}
	if c.Analysis.MaxRecipients < 1 {
		return fmt.Errorf("AIR_RIGHTS_MAX_RECIPIENTS must be at least 1")
	}
	if c.Analysis.TransferFraction <= 0 || c.Analysis.TransferFraction > 1 {
		return fmt.Errorf("AIR_RIGHTS_TRANSFER_FRACTION must be in (0, 1]")
	}
	if c.Analysis.BasePricePerSF <= 0 {
		return fmt.Errorf("TDR_BASE_PRICE_PER_SF must be positive")
	}
	if c.Analysis.PremiumMultiplier < 1 {
		return fmt.Errorf("TDR_PREMIUM_MULTIPLIER must be at least 1")
	}
	if c.Analysis.NYCBounds.North <= c.Analysis.NYCBounds.South {
		return fmt.Errorf("NYC_BOUNDS_NORTH must be greater than NYC_BOUNDS_SOUTH")
	}
	if c.Analysis.NYCBounds.East <= c.Analysis.NYCBounds.West {
		return fmt.Errorf("NYC_BOUNDS_EAST must be greater than NYC_BOUNDS_WEST")
	}

	// Validate rate limit config
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("RATE_LIMIT_RPS must be positive")
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
		}
	}

	return nil
}

// parseList splits a comma-separated string into trimmed entries.
func parseList(raw string) []string {
	if raw == "" {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
