// Package download saves imagery returned by the Street View and Static Maps
// endpoints to local disk under descriptive file names.
//
// A failed download never fails the tool call that requested it. Every
// outcome, good or bad, is reported as a Result.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/NERVsystems/mapsmcp/pkg/fetch"
	"github.com/NERVsystems/mapsmcp/pkg/geo"
)

// DefaultDir is used when neither the caller nor the configuration names a
// download directory.
const DefaultDir = "downloads/maps"

const timestampLayout = "2006-01-02T15-04-05"

// Result describes the outcome of one download. FileSize is set on every
// success, including an empty image.
type Result struct {
	Success  bool   `json:"success"`
	FilePath string `json:"filePath,omitempty"`
	FileName string `json:"fileName,omitempty"`
	FileSize *int64 `json:"fileSize,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Downloader fetches images and writes them to disk.
type Downloader struct {
	client *fetch.Client
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithDir sets the directory used when a call does not name one.
func WithDir(dir string) Option {
	return func(d *Downloader) {
		if dir != "" {
			d.dir = dir
		}
	}
}

// WithClock replaces the time source used for file name timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Downloader) { d.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) { d.logger = logger }
}

// New creates a Downloader that fetches through client.
func New(client *fetch.Client, opts ...Option) *Downloader {
	d := &Downloader{
		client: client,
		dir:    DefaultDir,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dir returns the default target directory.
func (d *Downloader) Dir() string {
	return d.dir
}

// Download fetches url and writes it to dir/filename. An empty dir selects
// the default directory; an empty filename selects maps_image_<timestamp>.jpg.
func (d *Downloader) Download(ctx context.Context, url, dir, filename string) Result {
	if dir == "" {
		dir = d.dir
	}
	if filename == "" {
		filename = "maps_image_" + d.timestamp() + ".jpg"
	}

	res, err := d.save(ctx, url, dir, filename)
	if err != nil {
		d.logger.Warn("image download failed", "file", filename, "error", err)
		return Result{Success: false, Error: err.Error()}
	}
	d.logger.Info("image downloaded", "path", res.FilePath, "bytes", *res.FileSize)
	return res
}

// DownloadStreetView saves a Street View image as
// streetview_<location>_h<heading>_p<pitch>_<timestamp>.jpg.
func (d *Downloader) DownloadStreetView(ctx context.Context, url, location string, heading, pitch float64, dir string) Result {
	name := fmt.Sprintf("streetview_%s_h%s_p%s_%s.jpg",
		SanitizeForFilename(location),
		geo.FormatNumber(heading),
		geo.FormatNumber(pitch),
		d.timestamp())
	return d.Download(ctx, url, dir, name)
}

// DownloadStaticMap saves a static map image as
// staticmap_<maptype>_<center>_z<zoom>_<timestamp>.jpg.
func (d *Downloader) DownloadStaticMap(ctx context.Context, url, center, maptype string, zoom float64, dir string) Result {
	name := fmt.Sprintf("staticmap_%s_%s_z%s_%s.jpg",
		maptype,
		SanitizeForFilename(center),
		geo.FormatNumber(zoom),
		d.timestamp())
	return d.Download(ctx, url, dir, name)
}

func (d *Downloader) save(ctx context.Context, url, dir, filename string) (Result, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{}, fmt.Errorf("create download directory: %w", err)
	}

	resp, err := d.client.Do(ctx, url)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read image: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Result{}, err
	}

	size := int64(len(data))
	return Result{
		Success:  true,
		FilePath: path,
		FileName: filename,
		FileSize: &size,
	}, nil
}

func (d *Downloader) timestamp() string {
	return d.now().UTC().Format(timestampLayout)
}

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// SanitizeForFilename strips everything except letters, digits, whitespace,
// hyphens and underscores, turns whitespace runs into underscores, lowercases
// and keeps at most 50 characters.
func SanitizeForFilename(s string) string {
	s = unsafeChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "_")
	s = strings.ToLower(s)
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}
