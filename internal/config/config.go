// Package config provides configuration management for the parlay advisor.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	APIFootball APIFootballConfig `mapstructure:"api_football" validate:"required"`
	HTTPClient  HTTPClientConfig  `mapstructure:"http_client" validate:"required"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Analysis    AnalysisConfig    `mapstructure:"analysis" validate:"required"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Health      HealthConfig      `mapstructure:"health"`
	Warmup      WarmupConfig      `mapstructure:"warmup"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFile     string `mapstructure:"log_file"`
}

// APIFootballConfig represents the upstream sports-data provider configuration
type APIFootballConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	APIKey         string `mapstructure:"api_key" validate:"required"`
	LeagueID       int    `mapstructure:"league_id" validate:"required,gt=0"`
	Season         int    `mapstructure:"season" validate:"required,gt=1900"`
	ArchiveEnabled bool   `mapstructure:"archive_enabled"`
	ArchiveDir     string `mapstructure:"archive_dir" validate:"required_if=ArchiveEnabled true"`
}

// HTTPClientConfig represents outbound HTTP client tuning
type HTTPClientConfig struct {
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0"`
	RetryWaitMinMs    int     `mapstructure:"retry_wait_min_ms" validate:"gte=0"`
	RetryWaitMaxMs    int     `mapstructure:"retry_wait_max_ms" validate:"gte=0"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
}

// CacheConfig represents upstream response caching configuration
type CacheConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Backend       string `mapstructure:"backend" validate:"omitempty,cachebackend"`
	TTLSeconds    int    `mapstructure:"ttl_seconds" validate:"gte=0"`
	MaxSize       int    `mapstructure:"max_size" validate:"gte=0"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`
}

// TierConfig represents one parlay risk tier
type TierConfig struct {
	TargetProbability int `mapstructure:"target_probability" validate:"gte=0,lte=100"`
	MaxLegs           int `mapstructure:"max_legs" validate:"required,gt=0"`
	ReturnMultiplier  int `mapstructure:"return_multiplier" validate:"gte=0"`
}

// AnalysisConfig represents scoring and selection configuration
type AnalysisConfig struct {
	MaxConcurrentMatches int        `mapstructure:"max_concurrent_matches" validate:"required,gt=0"`
	LowRisk              TierConfig `mapstructure:"low_risk" validate:"required"`
	HighRisk             TierConfig `mapstructure:"high_risk" validate:"required"`
}

// ServerConfig represents the inbound HTTP server configuration
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// HealthConfig represents the health check server configuration
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	// CheckTTLSeconds reuses dependency check results so readiness probes do not spend upstream quota
	CheckTTLSeconds int `mapstructure:"check_ttl_seconds" validate:"gte=0"`
}

// WarmupConfig represents scheduled upstream cache warm-up
type WarmupConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// TracingConfig represents AWS X-Ray tracing configuration
type TracingConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	DaemonAddr string `mapstructure:"daemon_addr" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ServerAddr returns the listen address of the inbound API
func (c *Config) ServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// HTTPTimeout returns the outbound request timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPClient.TimeoutSeconds) * time.Second
}

// HealthCheckTTL returns how long a readiness dependency result is reused
func (c *Config) HealthCheckTTL() time.Duration {
	return time.Duration(c.Health.CheckTTLSeconds) * time.Second
}

// CacheTTL returns the upstream cache entry lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
