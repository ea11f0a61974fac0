// Package config provides configuration management for the parlay advisor.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is used when no path is supplied
	DefaultConfigPath = "config/config.yaml"
	envPrefix         = "PARLAY"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables are used instead.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "parlay-advisor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_file", "")

	v.SetDefault("api_football.base_url", "https://v3.football.api-sports.io")
	v.SetDefault("api_football.api_key", "")
	v.SetDefault("api_football.league_id", 71)
	v.SetDefault("api_football.season", 2024)
	v.SetDefault("api_football.archive_enabled", false)
	v.SetDefault("api_football.archive_dir", "data/responses")

	v.SetDefault("http_client.timeout_seconds", 30)
	v.SetDefault("http_client.max_retries", 3)
	v.SetDefault("http_client.retry_wait_min_ms", 100)
	v.SetDefault("http_client.retry_wait_max_ms", 10000)
	v.SetDefault("http_client.rate_limit", 5.0)
	v.SetDefault("http_client.circuit_breaker_max", 5)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl_seconds", 900)
	v.SetDefault("cache.max_size", 5000)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("analysis.max_concurrent_matches", 4)
	v.SetDefault("analysis.low_risk.target_probability", 60)
	v.SetDefault("analysis.low_risk.max_legs", 3)
	v.SetDefault("analysis.low_risk.return_multiplier", 1)
	v.SetDefault("analysis.high_risk.target_probability", 30)
	v.SetDefault("analysis.high_risk.max_legs", 4)
	v.SetDefault("analysis.high_risk.return_multiplier", 1)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 120)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("health.port", 8081)
	v.SetDefault("health.check_ttl_seconds", 30)

	v.SetDefault("warmup.enabled", false)
	v.SetDefault("warmup.schedule", "0 6 * * *")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.daemon_addr", "127.0.0.1:2000")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
