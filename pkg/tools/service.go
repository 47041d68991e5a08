// Package tools implements the Google Maps and Open-Meteo MCP tools.
//
// Each tool has three parts: an XxxTool() schema, a typed method on Service
// that talks to the upstream API and returns a payload or an error, and a
// HandleXxx binding that reads the MCP argument bag by name and converts the
// outcome into the result envelope.
package tools

import (
	"log/slog"
	"net/url"

	"github.com/NERVsystems/mapsmcp/pkg/config"
	"github.com/NERVsystems/mapsmcp/pkg/download"
	"github.com/NERVsystems/mapsmcp/pkg/fetch"
)

// Service holds the read-only dependencies shared by every tool call.
type Service struct {
	apiKey     string
	client     *fetch.Client
	endpoints  config.Endpoints
	downloader *download.Downloader
	logger     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClient sets the upstream HTTP client.
func WithClient(c *fetch.Client) ServiceOption {
	return func(s *Service) { s.client = c }
}

// WithEndpoints overrides upstream base URLs.
func WithEndpoints(e config.Endpoints) ServiceOption {
	return func(s *Service) { s.endpoints = e }
}

// WithDownloader sets the image downloader used by the imagery tools.
func WithDownloader(d *download.Downloader) ServiceOption {
	return func(s *Service) { s.downloader = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a Service that signs Google requests with apiKey.
func NewService(apiKey string, opts ...ServiceOption) *Service {
	s := &Service{
		apiKey:    apiKey,
		endpoints: config.DefaultEndpoints(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = fetch.New(fetch.WithLogger(s.logger))
	}
	if s.downloader == nil {
		s.downloader = download.New(s.client, download.WithLogger(s.logger))
	}
	return s
}

// NewServiceFromConfig wires a Service from loaded configuration.
func NewServiceFromConfig(cfg *config.Config, logger *slog.Logger) *Service {
	client := fetch.New(
		fetch.WithTimeout(cfg.HTTP.Timeout),
		fetch.WithUserAgent(cfg.HTTP.UserAgent),
		fetch.WithLogger(logger),
	)
	return NewService(cfg.APIKey,
		WithClient(client),
		WithEndpoints(cfg.Endpoints),
		WithDownloader(download.New(client,
			download.WithDir(cfg.DownloadDir),
			download.WithLogger(logger))),
		WithLogger(logger),
	)
}

// googleURL builds a Maps Platform web service URL with the key attached.
func (s *Service) googleURL(path string, q url.Values) (string, error) {
	u, err := url.Parse(s.endpoints.GoogleMaps + path)
	if err != nil {
		return "", err
	}
	q.Set("key", s.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// openMeteoURL builds an Open-Meteo URL; these APIs take no key.
func openMeteoURL(base string, q url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
