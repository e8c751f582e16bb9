package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ligustah/goesdl/pkg/goes"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, goes.DefaultBucketURL, cfg.BucketURL)
	assert.Equal(t, 16, cfg.Satellite)
	assert.Equal(t, "ABI-L1b-RadC", cfg.Product)
	assert.Equal(t, "US/Pacific", cfg.Timezone)
	assert.Equal(t, time.Hour, cfg.Before)
	assert.Equal(t, time.Hour, cfg.After)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
bucket_url: gs://gcp-public-data-goes-{satellite}
satellite: 18
product: ABI-L2-CMIPF
base_dir: /data/goes
timezone: UTC
before: 30
after: 2h
geotiff: true
metrics_file: /var/lib/node_exporter/goesdl.prom
creation_options:
  - COMPRESS=DEFLATE
  - TILED=YES
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "gs://gcp-public-data-goes-{satellite}", cfg.BucketURL)
	assert.Equal(t, 18, cfg.Satellite)
	assert.Equal(t, "ABI-L2-CMIPF", cfg.Product)
	assert.Equal(t, "/data/goes", cfg.BaseDir)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 30*time.Minute, cfg.Before)
	assert.Equal(t, 2*time.Hour, cfg.After)
	assert.True(t, cfg.GeoTIFF)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "/var/lib/node_exporter/goesdl.prom", cfg.MetricsFile)
	assert.Equal(t, []string{"COMPRESS=DEFLATE", "TILED=YES"}, cfg.CreationOptions)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOESDL_SATELLITE", "G17")
	t.Setenv("GOESDL_PRODUCT", "ABI-L1b-RadF")
	t.Setenv("GOESDL_BEFORE", "15")
	t.Setenv("GOESDL_AFTER", "45m")
	t.Setenv("GOESDL_GEOTIFF", "true")
	t.Setenv("GOESDL_VERBOSE", "1")
	t.Setenv("GOESDL_CREATION_OPTIONS", "COMPRESS=LZW,TILED=YES")

	cfg := Default()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 17, cfg.Satellite)
	assert.Equal(t, "ABI-L1b-RadF", cfg.Product)
	assert.Equal(t, 15*time.Minute, cfg.Before)
	assert.Equal(t, 45*time.Minute, cfg.After)
	assert.True(t, cfg.GeoTIFF)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, []string{"COMPRESS=LZW", "TILED=YES"}, cfg.CreationOptions)
}

func TestLoadFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"GOESDL_SATELLITE", "19"},
		{"GOESDL_BEFORE", "soon"},
		{"GOESDL_GEOTIFF", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := Default()
			assert.Error(t, cfg.LoadFromEnv())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid config", modify: func(c *Config) {}},
		{name: "missing bucket URL", modify: func(c *Config) { c.BucketURL = "" }, wantErr: true},
		{name: "invalid satellite", modify: func(c *Config) { c.Satellite = 19 }, wantErr: true},
		{name: "missing product", modify: func(c *Config) { c.Product = "" }, wantErr: true},
		{name: "missing base dir", modify: func(c *Config) { c.BaseDir = "" }, wantErr: true},
		{name: "unknown timezone", modify: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "negative buffer", modify: func(c *Config) { c.Before = -10 * time.Minute }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	base.BaseDir = "/data"

	merged := base.Merge(Config{
		Satellite: 18,
		GeoTIFF:   true,
	})

	assert.Equal(t, "/data", merged.BaseDir)
	assert.Equal(t, goes.DefaultProduct, merged.Product)
	assert.Equal(t, 18, merged.Satellite)
	assert.True(t, merged.GeoTIFF)
}

func TestLoadYAMLFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadYAMLInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0644))

	_, err := LoadFromFile(configPath)
	assert.Error(t, err)
}
