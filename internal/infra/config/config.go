// Package config loads the YAML application configuration with defaults and
// FACTLENS_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Tools   ToolsConfig   `yaml:"tools"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// ServiceConfig holds connection settings for the verification service.
type ServiceConfig struct {
	BaseURL           string        `yaml:"base_url"`
	APIKey            string        `yaml:"api_key"`
	ConnTimeout       time.Duration `yaml:"conn_timeout"`
	RespTimeout       time.Duration `yaml:"resp_timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"` // 0 disables client-side limiting
	Burst             int           `yaml:"burst"`
	Breaker           BreakerConfig `yaml:"breaker"`
}

// RequestBurst returns the limiter burst, defaulting to 1.
func (s ServiceConfig) RequestBurst() int {
	if s.Burst <= 0 {
		return 1
	}
	return s.Burst
}

// BreakerConfig configures the circuit breaker around the service client.
type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// ToolsConfig holds tool surface settings.
type ToolsConfig struct {
	MaxSources     int   `yaml:"max_sources"`
	UploadMaxBytes int64 `yaml:"upload_max_bytes"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:           "https://api.factlens.dev/v1",
			ConnTimeout:       30 * time.Second,
			RespTimeout:       120 * time.Second,
			RequestsPerMinute: 60,
			Burst:             5,
		},
		Tools: ToolsConfig{
			MaxSources:     10,
			UploadMaxBytes: 25 * 1024 * 1024,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads the config file at path, applying defaults and environment
// overrides. A missing file is not an error; defaults plus environment are
// used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies FACTLENS_* environment variables on top of cfg.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FACTLENS_BASE_URL"); v != "" {
		cfg.Service.BaseURL = v
	}
	if v := os.Getenv("FACTLENS_API_KEY"); v != "" {
		cfg.Service.APIKey = v
	}
	if v := os.Getenv("FACTLENS_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("FACTLENS_LOG_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("FACTLENS_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Service.RequestsPerMinute = n
		}
	}
	if v := os.Getenv("FACTLENS_TRACE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tracer.Enabled = b
			if b && cfg.Tracer.Exporter == "noop" {
				cfg.Tracer.Exporter = "stdout"
			}
		}
	}
}

// Validate checks the configuration for values that would fail at runtime.
func Validate(cfg *Config) error {
	if cfg.Service.BaseURL == "" {
		return fmt.Errorf("service.base_url must not be empty")
	}
	if cfg.Service.RequestsPerMinute < 0 {
		return fmt.Errorf("service.requests_per_minute must be >= 0")
	}
	if cfg.Tools.MaxSources < 0 {
		return fmt.Errorf("tools.max_sources must be >= 0")
	}
	if cfg.Tools.UploadMaxBytes < 0 {
		return fmt.Errorf("tools.upload_max_bytes must be >= 0")
	}
	switch cfg.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		return fmt.Errorf("tracer.exporter must be noop or stdout, got %q", cfg.Tracer.Exporter)
	}
	return nil
}
