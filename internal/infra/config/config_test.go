package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://api.factlens.dev/v1", cfg.Service.BaseURL)
	assert.Equal(t, 60, cfg.Service.RequestsPerMinute)
	assert.Equal(t, "stderr", cfg.Logger.Output)
	assert.False(t, cfg.Tracer.Enabled)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
service:
  base_url: https://staging.factlens.dev/v1
  api_key: sk-test
  conn_timeout: 5s
  requests_per_minute: 30
tools:
  max_sources: 20
logger:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.factlens.dev/v1", cfg.Service.BaseURL)
	assert.Equal(t, "sk-test", cfg.Service.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Service.ConnTimeout)
	assert.Equal(t, 30, cfg.Service.RequestsPerMinute)
	assert.Equal(t, 20, cfg.Tools.MaxSources)
	assert.Equal(t, "debug", cfg.Logger.Level)
	// Untouched sections keep defaults.
	assert.Equal(t, int64(25*1024*1024), cfg.Tools.UploadMaxBytes)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "service: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	t.Setenv("FACTLENS_BASE_URL", "https://env.factlens.dev/v1")
	t.Setenv("FACTLENS_API_KEY", "sk-env")
	t.Setenv("FACTLENS_RPM", "90")
	t.Setenv("FACTLENS_TRACE", "true")

	path := writeConfig(t, `
service:
  base_url: https://file.factlens.dev/v1
  api_key: sk-file
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.factlens.dev/v1", cfg.Service.BaseURL)
	assert.Equal(t, "sk-env", cfg.Service.APIKey)
	assert.Equal(t, 90, cfg.Service.RequestsPerMinute)
	assert.True(t, cfg.Tracer.Enabled)
	assert.Equal(t, "stdout", cfg.Tracer.Exporter)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Service.BaseURL = "" }},
		{"negative rpm", func(c *Config) { c.Service.RequestsPerMinute = -1 }},
		{"negative max sources", func(c *Config) { c.Tools.MaxSources = -1 }},
		{"negative upload limit", func(c *Config) { c.Tools.UploadMaxBytes = -1 }},
		{"unknown exporter", func(c *Config) { c.Tracer.Exporter = "jaeger" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestRequestBurstDefault(t *testing.T) {
	assert.Equal(t, 1, ServiceConfig{}.RequestBurst())
	assert.Equal(t, 5, ServiceConfig{Burst: 5}.RequestBurst())
}
