package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ligustah/goesdl/internal/timerange"
	"github.com/ligustah/goesdl/pkg/goes"
)

// Config defines configuration for the goesdl CLI.
type Config struct {
	BucketURL       string        `yaml:"bucket_url"`
	Satellite       int           `yaml:"satellite"`
	Product         string        `yaml:"product"`
	BaseDir         string        `yaml:"base_dir"`
	Timezone        string        `yaml:"timezone"`
	Before          time.Duration `yaml:"before"`
	After           time.Duration `yaml:"after"`
	GeoTIFF         bool          `yaml:"geotiff"`
	Verbose         bool          `yaml:"verbose"`
	MetricsFile     string        `yaml:"metrics_file"`
	CreationOptions []string      `yaml:"creation_options"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		BucketURL: goes.DefaultBucketURL,
		Satellite: int(goes.GOES16),
		Product:   goes.DefaultProduct,
		BaseDir:   ".",
		Timezone:  goes.DefaultTimezone,
		Before:    60 * time.Minute,
		After:     60 * time.Minute,
	}
}

// yamlConfig is used for YAML unmarshaling with string buffers.
type yamlConfig struct {
	BucketURL       string   `yaml:"bucket_url"`
	Satellite       int      `yaml:"satellite"`
	Product         string   `yaml:"product"`
	BaseDir         string   `yaml:"base_dir"`
	Timezone        string   `yaml:"timezone"`
	Before          string   `yaml:"before"`
	After           string   `yaml:"after"`
	GeoTIFF         bool     `yaml:"geotiff"`
	Verbose         bool     `yaml:"verbose"`
	MetricsFile     string   `yaml:"metrics_file"`
	CreationOptions []string `yaml:"creation_options"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.BucketURL != "" {
		cfg.BucketURL = yc.BucketURL
	}
	if yc.Satellite != 0 {
		cfg.Satellite = yc.Satellite
	}
	if yc.Product != "" {
		cfg.Product = yc.Product
	}
	if yc.BaseDir != "" {
		cfg.BaseDir = yc.BaseDir
	}
	if yc.Timezone != "" {
		cfg.Timezone = yc.Timezone
	}
	if yc.Before != "" {
		d, err := timerange.ParseBuffer(yc.Before)
		if err != nil {
			return Config{}, fmt.Errorf("parse before: %w", err)
		}
		cfg.Before = d
	}
	if yc.After != "" {
		d, err := timerange.ParseBuffer(yc.After)
		if err != nil {
			return Config{}, fmt.Errorf("parse after: %w", err)
		}
		cfg.After = d
	}
	cfg.GeoTIFF = yc.GeoTIFF
	cfg.Verbose = yc.Verbose
	cfg.MetricsFile = yc.MetricsFile
	if len(yc.CreationOptions) > 0 {
		cfg.CreationOptions = yc.CreationOptions
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the GOESDL_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("GOESDL_BUCKET_URL"); v != "" {
		c.BucketURL = v
	}
	if v := os.Getenv("GOESDL_SATELLITE"); v != "" {
		sat, err := goes.ParseSatellite(v)
		if err != nil {
			return fmt.Errorf("parse GOESDL_SATELLITE: %w", err)
		}
		c.Satellite = int(sat)
	}
	if v := os.Getenv("GOESDL_PRODUCT"); v != "" {
		c.Product = v
	}
	if v := os.Getenv("GOESDL_BASE_DIR"); v != "" {
		c.BaseDir = v
	}
	if v := os.Getenv("GOESDL_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("GOESDL_BEFORE"); v != "" {
		d, err := timerange.ParseBuffer(v)
		if err != nil {
			return fmt.Errorf("parse GOESDL_BEFORE: %w", err)
		}
		c.Before = d
	}
	if v := os.Getenv("GOESDL_AFTER"); v != "" {
		d, err := timerange.ParseBuffer(v)
		if err != nil {
			return fmt.Errorf("parse GOESDL_AFTER: %w", err)
		}
		c.After = d
	}
	if v := os.Getenv("GOESDL_GEOTIFF"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse GOESDL_GEOTIFF: %w", err)
		}
		c.GeoTIFF = b
	}
	if v := os.Getenv("GOESDL_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse GOESDL_VERBOSE: %w", err)
		}
		c.Verbose = b
	}
	if v := os.Getenv("GOESDL_METRICS_FILE"); v != "" {
		c.MetricsFile = v
	}
	if v := os.Getenv("GOESDL_CREATION_OPTIONS"); v != "" {
		c.CreationOptions = strings.Split(v, ",")
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BucketURL == "" {
		return errors.New("config: bucket_url is required")
	}
	if err := goes.Satellite(c.Satellite).Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Product == "" {
		return errors.New("config: product is required")
	}
	if c.BaseDir == "" {
		return errors.New("config: base_dir is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: timezone: %w", err)
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.BucketURL != "" {
		c.BucketURL = override.BucketURL
	}
	if override.Satellite != 0 {
		c.Satellite = override.Satellite
	}
	if override.Product != "" {
		c.Product = override.Product
	}
	if override.BaseDir != "" {
		c.BaseDir = override.BaseDir
	}
	if override.Timezone != "" {
		c.Timezone = override.Timezone
	}
	if override.Before != 0 {
		c.Before = override.Before
	}
	if override.After != 0 {
		c.After = override.After
	}
	if override.GeoTIFF {
		c.GeoTIFF = override.GeoTIFF
	}
	if override.Verbose {
		c.Verbose = override.Verbose
	}
	if override.MetricsFile != "" {
		c.MetricsFile = override.MetricsFile
	}
	if len(override.CreationOptions) > 0 {
		c.CreationOptions = override.CreationOptions
	}
	return c
}
