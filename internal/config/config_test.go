package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	// Clear all environment variables
	clearConfigEnvVars()

	// Set only required env var (password has no default)
	os.Setenv("DB_PASSWORD", "testpass")
	defer os.Unsetenv("DB_PASSWORD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected host localhost, got %s", cfg.Database.Host)
	}
	if cfg.Database.Name != "zonewise" {
		t.Errorf("Expected db name zonewise, got %s", cfg.Database.Name)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("Expected sslmode disable, got %s", cfg.Database.SSLMode)
	}
	if cfg.Database.PoolMin != 2 {
		t.Errorf("Expected pool min 2, got %d", cfg.Database.PoolMin)
	}
	if cfg.Database.PoolMax != 10 {
		t.Errorf("Expected pool max 10, got %d", cfg.Database.PoolMax)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.Geocoding.Provider != "static" {
		t.Errorf("Expected static geocoding provider, got %s", cfg.Geocoding.Provider)
	}
	if cfg.Geocoding.Timeout != 5*time.Second {
		t.Errorf("Expected 5s geocoding timeout, got %s", cfg.Geocoding.Timeout)
	}
	if cfg.Analysis.TaxRate != 0.012 {
		t.Errorf("Expected tax rate 0.012, got %f", cfg.Analysis.TaxRate)
	}
	if cfg.Analysis.LandmarkRadiusFt != 150.0 {
		t.Errorf("Expected default landmark radius 150, got %f", cfg.Analysis.LandmarkRadiusFt)
	}
	if cfg.Analysis.MaxRecipients != 5 {
		t.Errorf("Expected 5 max recipients, got %d", cfg.Analysis.MaxRecipients)
	}
	if cfg.Analysis.TransferFraction != 0.8 {
		t.Errorf("Expected transfer fraction 0.8, got %f", cfg.Analysis.TransferFraction)
	}
	if cfg.Analysis.BoroughPricePerSF["manhattan"] != 150.0 {
		t.Errorf("Expected manhattan price 150, got %f", cfg.Analysis.BoroughPricePerSF["manhattan"])
	}
	if len(cfg.Analysis.PremiumPrefixes) != 4 {
		t.Errorf("Expected 4 premium prefixes, got %d", len(cfg.Analysis.PremiumPrefixes))
	}
	if !cfg.RateLimit.Enabled {
		t.Error("Expected rate limiting enabled by default")
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	// Set all environment variables
	os.Setenv("PORT", "9090")
	os.Setenv("ENV", "production")
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PORT", "5433")
	os.Setenv("DB_NAME", "testdb")
	os.Setenv("DB_USER", "testuser")
	os.Setenv("DB_PASSWORD", "testpass")
	os.Setenv("DB_SSLMODE", "require")
	os.Setenv("DB_POOL_MIN", "5")
	os.Setenv("DB_POOL_MAX", "20")
	os.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	os.Setenv("GEOCODING_PROVIDER", "mapbox")
	os.Setenv("MAPBOX_ACCESS_TOKEN", "pk.test")
	os.Setenv("LANDMARK_RADIUS_FT", "300")
	os.Setenv("AIR_RIGHTS_TRANSFER_FRACTION", "1.0")
	os.Setenv("RATE_LIMIT_ENABLED", "false")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify all values from environment
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Server.Env)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Expected host db.internal, got %s", cfg.Database.Host)
	}
	if cfg.Database.SSLMode != "require" {
		t.Errorf("Expected sslmode require, got %s", cfg.Database.SSLMode)
	}
	if cfg.Database.PoolMin != 5 {
		t.Errorf("Expected pool min 5, got %d", cfg.Database.PoolMin)
	}
	if cfg.Geocoding.Provider != "mapbox" {
		t.Errorf("Expected mapbox provider, got %s", cfg.Geocoding.Provider)
	}
	if cfg.Geocoding.MapboxToken != "pk.test" {
		t.Errorf("Expected mapbox token pk.test, got %s", cfg.Geocoding.MapboxToken)
	}
	if cfg.Analysis.LandmarkRadiusFt != 300.0 {
		t.Errorf("Expected landmark radius 300, got %f", cfg.Analysis.LandmarkRadiusFt)
	}
	if cfg.Analysis.TransferFraction != 1.0 {
		t.Errorf("Expected transfer fraction 1.0, got %f", cfg.Analysis.TransferFraction)
	}
	if cfg.RateLimit.Enabled {
		t.Error("Expected rate limiting disabled")
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
}

func TestLoad_MissingPassword(t *testing.T) {
	// Clear all environment variables (password has no default)
	clearConfigEnvVars()

	_, err := Load()
	if err == nil {
		t.Error("Expected error when DB_PASSWORD is missing")
	}
}

func TestLoad_MapboxWithoutToken(t *testing.T) {
	clearConfigEnvVars()

	os.Setenv("DB_PASSWORD", "testpass")
	os.Setenv("GEOCODING_PROVIDER", "mapbox")
	defer clearConfigEnvVars()

	_, err := Load()
	if err == nil {
		t.Error("Expected error when mapbox provider has no access token")
	}
}

// validConfig returns a fully valid configuration that individual cases
// mutate to exercise one check at a time.
func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "development"},
		Database: DatabaseConfig{
			Host: "localhost", Port: "5432", Name: "zonewise",
			User: "postgres", Password: "postgres", SSLMode: "disable",
			PoolMin: 2, PoolMax: 10,
		},
		CORS: CORSConfig{Origins: []string{"http://localhost:3000"}},
		Geocoding: GeocodingConfig{
			Provider: "static",
			Timeout:  5 * time.Second,
		},
		Analysis: AnalysisConfig{
			TaxRate:              0.012,
			LandmarkRadiusFt:     150,
			LandmarkRadiusMinFt:  50,
			LandmarkRadiusMaxFt:  1000,
			AdjacencyToleranceFt: 100,
			SearchRadiusFt:       500,
			MaxRecipients:        5,
			TransferFraction:     0.8,
			BasePricePerSF:       125,
			BoroughPricePerSF:    map[string]float64{"manhattan": 150},
			PremiumPrefixes:      []string{"C5", "C6"},
			PremiumMultiplier:    1.5,
			NYCBounds:            BoundsConfig{North: 40.9176, South: 40.4774, East: -73.7004, West: -74.2591},
		},
		RateLimit: RateLimitConfig{Enabled: true, RequestsPerSecond: 20, Burst: 40},
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid baseline",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
		},
		{
			name:    "missing db host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: true,
		},
		{
			name:    "missing db password",
			mutate:  func(c *Config) { c.Database.Password = "" },
			wantErr: true,
		},
		{
			name:    "negative pool min",
			mutate:  func(c *Config) { c.Database.PoolMin = -1 },
			wantErr: true,
		},
		{
			name:    "zero pool max",
			mutate:  func(c *Config) { c.Database.PoolMax = 0 },
			wantErr: true,
		},
		{
			name:    "pool min greater than max",
			mutate:  func(c *Config) { c.Database.PoolMin = 15; c.Database.PoolMax = 10 },
			wantErr: true,
		},
		{
			name:    "missing CORS origins",
			mutate:  func(c *Config) { c.CORS.Origins = []string{} },
			wantErr: true,
		},
		{
			name:    "unknown geocoding provider",
			mutate:  func(c *Config) { c.Geocoding.Provider = "nominatim" },
			wantErr: true,
		},
		{
			name:    "zero tax rate",
			mutate:  func(c *Config) { c.Analysis.TaxRate = 0 },
			wantErr: true,
		},
		{
			name:    "landmark radius below minimum",
			mutate:  func(c *Config) { c.Analysis.LandmarkRadiusFt = 10 },
			wantErr: true,
		},
		{
			name:    "landmark max below min",
			mutate:  func(c *Config) { c.Analysis.LandmarkRadiusMaxFt = 25 },
			wantErr: true,
		},
		{
			name:    "transfer fraction above one",
			mutate:  func(c *Config) { c.Analysis.TransferFraction = 1.2 },
			wantErr: true,
		},
		{
			name:    "transfer fraction zero",
			mutate:  func(c *Config) { c.Analysis.TransferFraction = 0 },
			wantErr: true,
		},
		{
			name:    "zero max recipients",
			mutate:  func(c *Config) { c.Analysis.MaxRecipients = 0 },
			wantErr: true,
		},
		{
			name:    "inverted NYC bounds",
			mutate:  func(c *Config) { c.Analysis.NYCBounds.North = 40.0 },
			wantErr: true,
		},
		{
			name:    "premium multiplier below one",
			mutate:  func(c *Config) { c.Analysis.PremiumMultiplier = 0.5 },
			wantErr: true,
		},
		{
			name:    "rate limit enabled with zero rps",
			mutate:  func(c *Config) { c.RateLimit.RequestsPerSecond = 0 },
			wantErr: true,
		},
		{
			name:    "rate limit disabled ignores rps",
			mutate:  func(c *Config) { c.RateLimit.Enabled = false; c.RateLimit.RequestsPerSecond = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBoundsContains(t *testing.T) {
	bounds := BoundsConfig{North: 40.9176, South: 40.4774, East: -73.7004, West: -74.2591}

	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{name: "midtown manhattan", lat: 40.7549, lng: -73.9840, want: true},
		{name: "exactly on the northern edge", lat: 40.9176, lng: -73.9840, want: true},
		{name: "north of the city", lat: 41.1, lng: -73.9840, want: false},
		{name: "west of the city", lat: 40.7, lng: -74.5, want: false},
		{name: "philadelphia", lat: 39.9526, lng: -75.1652, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bounds.Contains(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Contains(%f, %f) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "single entry",
			input:  "http://localhost:3000",
			expect: []string{"http://localhost:3000"},
		},
		{
			name:   "multiple entries",
			input:  "C5,C6,M1,M2",
			expect: []string{"C5", "C6", "M1", "M2"},
		},
		{
			name:   "entries with spaces",
			input:  " http://localhost:3000 , http://localhost:3001 ",
			expect: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		{
			name:   "empty string",
			input:  "",
			expect: []string{},
		},
		{
			name:   "only commas",
			input:  ",,,",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseList(tt.input)
			if len(result) != len(tt.expect) {
				t.Errorf("Expected %d entries, got %d", len(tt.expect), len(result))
				return
			}
			for i, entry := range result {
				if entry != tt.expect[i] {
					t.Errorf("Expected entry %s at index %d, got %s", tt.expect[i], i, entry)
				}
			}
		})
	}
}

// Helper function to clear all config-related environment variables
func clearConfigEnvVars() {
	vars := []string{
		"PORT", "ENV",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_SSLMODE",
		"DB_POOL_MIN", "DB_POOL_MAX",
		"CORS_ORIGINS",
		"GEOCODING_PROVIDER", "MAPBOX_ACCESS_TOKEN", "GEOCODING_TIMEOUT_SECONDS",
		"ANALYSIS_TAX_RATE",
		"LANDMARK_RADIUS_FT", "LANDMARK_RADIUS_MIN_FT", "LANDMARK_RADIUS_MAX_FT",
		"ADJACENCY_TOLERANCE_FT", "SEARCH_RADIUS_FT",
		"AIR_RIGHTS_MAX_RECIPIENTS", "AIR_RIGHTS_TRANSFER_FRACTION",
		"TDR_BASE_PRICE_PER_SF", "TDR_PRICE_MANHATTAN", "TDR_PRICE_BROOKLYN",
		"TDR_PRICE_QUEENS", "TDR_PRICE_BRONX", "TDR_PRICE_STATEN_ISLAND",
		"TDR_PREMIUM_PREFIXES", "TDR_PREMIUM_MULTIPLIER",
		"NYC_BOUNDS_NORTH", "NYC_BOUNDS_SOUTH", "NYC_BOUNDS_EAST", "NYC_BOUNDS_WEST",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	}
	for _, name := range vars {
		os.Unsetenv(name)
	}
}
