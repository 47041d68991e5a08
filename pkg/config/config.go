// Package config loads runtime settings for the maps server.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file in the working directory, then process environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables understood by Load.
const (
	EnvAPIKey      = "GOOGLE_MAPS_API_KEY"
	EnvConfigPath  = "MAPSMCP_CONFIG"
	EnvDownloadDir = "MAPSMCP_DOWNLOAD_DIR"
	EnvLogLevel    = "MAPSMCP_LOG_LEVEL"
	EnvHTTPTimeout = "MAPSMCP_HTTP_TIMEOUT"
	EnvTracing     = "MAPSMCP_TRACING"
	EnvOTLPURL     = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// ErrMissingAPIKey is returned by Validate when no Google Maps key is set.
// The server must not start without one.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " environment variable is not set")

// Endpoints holds upstream base URLs. Tests point these at stub servers.
type Endpoints struct {
	GoogleMaps string `yaml:"googleMaps"`
	Routes     string `yaml:"routes"`
	Forecast   string `yaml:"forecast"`
	AirQuality string `yaml:"airQuality"`
}

// HTTP configures the shared upstream client.
type HTTP struct {
	// Timeout bounds each upstream request. Zero leaves the transport
	// defaults in place.
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// Tracing configures the OpenTelemetry exporter.
type Tracing struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"serviceName"`
}

// Config defines runtime settings.
type Config struct {
	APIKey      string    `yaml:"apiKey"`
	DownloadDir string    `yaml:"downloadDir"`
	LogLevel    string    `yaml:"logLevel"`
	HTTP        HTTP      `yaml:"http"`
	Endpoints   Endpoints `yaml:"endpoints"`
	Tracing     Tracing   `yaml:"tracing"`
}

// DefaultEndpoints returns the production upstream base URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		GoogleMaps: "https://maps.googleapis.com",
		Routes:     "https://routes.googleapis.com/directions/v2:computeRoutes",
		Forecast:   "https://api.open-meteo.com/v1/forecast",
		AirQuality: "https://air-quality-api.open-meteo.com/v1/air-quality",
	}
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		DownloadDir: "downloads/maps",
		LogLevel:    "info",
		Endpoints:   DefaultEndpoints(),
		Tracing: Tracing{
			ServiceName: "mapsmcp",
		},
	}
}

// Load builds the configuration. path may be empty, in which case
// MAPSMCP_CONFIG is consulted; a missing .env file is not an error.
// Load does not validate; call Validate before serving.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Existing environment variables win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillEndpoints()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvDownloadDir); v != "" {
		c.DownloadDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvHTTPTimeout, err)
		}
		c.HTTP.Timeout = d
	}
	if v := os.Getenv(EnvTracing); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTracing, err)
		}
		c.Tracing.Enabled = on
	}
	if v := os.Getenv(EnvOTLPURL); v != "" && c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = v
	}
	return nil
}

// fillEndpoints restores defaults for endpoints a config file left blank.
func (c *Config) fillEndpoints() {
	def := DefaultEndpoints()
	if c.Endpoints.GoogleMaps == "" {
		c.Endpoints.GoogleMaps = def.GoogleMaps
	}
	if c.Endpoints.Routes == "" {
		c.Endpoints.Routes = def.Routes
	}
	if c.Endpoints.Forecast == "" {
		c.Endpoints.Forecast = def.Forecast
	}
	if c.Endpoints.AirQuality == "" {
		c.Endpoints.AirQuality = def.AirQuality
	}
}

// Validate reports configuration that prevents the server from starting.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
