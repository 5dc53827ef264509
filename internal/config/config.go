// Package config defines service configuration and its loading order.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir holds the SQLite history database.
	DataDir string `koanf:"data_dir"`

	// Catalogue table paths.
	ScoresPath      string `koanf:"scores_path"`
	WeightsPath     string `koanf:"weights_path"`
	MultipliersPath string `koanf:"multipliers_path"`

	// TopK is how many leading animals get percentage strengths.
	TopK int `koanf:"top_k"`

	// MinPercentage is the strong-match percentage floor.
	MinPercentage float64 `koanf:"min_percentage"`

	// SignaturePoints is how many top contributing points get flagged
	// per leading animal.
	SignaturePoints int `koanf:"signature_points"`

	// EphemerisURL is the base URL of the ephemeris position service.
	EphemerisURL string `koanf:"ephemeris_url"`

	// EphemerisTimeoutSec bounds one ephemeris HTTP call.
	EphemerisTimeoutSec int `koanf:"ephemeris_timeout_sec"`

	// Redis settings for distributed rate limiting. Empty addr falls
	// back to in-memory limiting.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// CacheTTLSec is the analysis response cache TTL.
	CacheTTLSec int `koanf:"cache_ttl_sec"`

	// Rate limits.
	IPLimitPerMin       int `koanf:"ip_limit_per_min"`
	AnalysisLimitPerDay int `koanf:"analysis_limit_per_day"`

	// AllowedOrigins for CORS.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// RequestTimeoutSec bounds one inbound request.
	RequestTimeoutSec int `koanf:"request_timeout_sec"`

	// EnablePprof exposes the pprof debug endpoints.
	EnablePprof bool `koanf:"enable_pprof"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		DataDir:             "./data",
		ScoresPath:          "./data/animal_scores.json",
		WeightsPath:         "./data/point_weights.csv",
		MultipliersPath:     "./data/sign_multipliers.csv",
		TopK:                3,
		MinPercentage:       0,
		SignaturePoints:     6,
		EphemerisURL:        "http://localhost:9000",
		EphemerisTimeoutSec: 10,
		RedisAddr:           "",
		RedisDB:             0,
		CacheTTLSec:         3600,
		IPLimitPerMin:       60,
		AnalysisLimitPerDay: 500,
		AllowedOrigins:      []string{"http://localhost:3000", "http://localhost:5173"},
		RequestTimeoutSec:   30,
		EnablePprof:         false,
	}
}

// EphemerisTimeout returns the ephemeris call timeout as a duration.
func (c *Config) EphemerisTimeout() time.Duration {
	return time.Duration(c.EphemerisTimeoutSec) * time.Second
}

// CacheTTL returns the response cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// RequestTimeout returns the inbound request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}
