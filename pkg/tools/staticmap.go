package tools

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/NERVsystems/mapsmcp/pkg/download"
	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

const staticMapPath = "/maps/api/staticmap"

var (
	// imageSize matches WIDTHxHEIGHT with positive dimensions.
	imageSize   = regexp.MustCompile(`^[1-9]\d*x[1-9]\d*$`)
	markerLabel = regexp.MustCompile(`^[A-Za-z0-9]$`)

	mapTypes     = []string{"roadmap", "satellite", "terrain", "hybrid"}
	markerColors = []string{"red", "blue", "green", "purple", "yellow", "gray", "orange", "white"}
)

var mapTypeDescriptions = map[string]string{
	"roadmap":   "Standard roadmap",
	"satellite": "Satellite imagery",
	"terrain":   "Terrain with topographical features",
	"hybrid":    "Satellite imagery with road overlays",
}

// Marker is a pin drawn on a static map.
type Marker struct {
	Location string `json:"location"`
	Color    string `json:"color,omitempty"`
	Label    string `json:"label,omitempty"`
}

// param renders the marker in the Static Maps "markers" syntax.
func (m Marker) param() string {
	var b strings.Builder
	if m.Color != "" {
		b.WriteString("color:" + m.Color + "|")
	}
	if m.Label != "" {
		b.WriteString("label:" + m.Label + "|")
	}
	b.WriteString(m.Location)
	return b.String()
}

// StaticMapInput defines the input parameters for a static map
type StaticMapInput struct {
	Center      string
	Zoom        float64 // default 13
	Size        string  // default "640x640"
	MapType     string  // default "roadmap"
	Markers     []Marker
	Download    bool
	DownloadDir string // empty selects the configured directory
}

// StaticMapParameters echoes the rendering options.
type StaticMapParameters struct {
	Zoom    float64  `json:"zoom"`
	Size    string   `json:"size"`
	MapType string   `json:"maptype"`
	Markers []Marker `json:"markers,omitempty"`
}

// StaticMapOutput describes a static map image.
type StaticMapOutput struct {
	ImageURL    string              `json:"image_url"`
	Center      string              `json:"center"`
	Parameters  StaticMapParameters `json:"parameters"`
	Description string              `json:"description"`
	Download    *download.Result    `json:"download,omitempty"`
}

// StaticMapTool returns a tool definition for static map images
func StaticMapTool() mcp.Tool {
	return mcp.NewTool("maps_static_map",
		mcp.WithDescription("Get static map images in various styles (satellite, roadmap, terrain, hybrid) with optional markers"),
		mcp.WithString("center",
			mcp.Required(),
			mcp.Description("Center point of the map (address or lat,lng coordinates)"),
		),
		mcp.WithNumber("zoom",
			mcp.Description("Zoom level (1-20, where 1=world view, 20=building level)"),
			mcp.DefaultNumber(13),
		),
		mcp.WithString("size",
			mcp.Description("Image size in pixels (e.g., '640x640', max 640x640)"),
			mcp.DefaultString("640x640"),
		),
		mcp.WithString("maptype",
			mcp.Description("Type of map to display"),
			mcp.Enum(mapTypes...),
			mcp.DefaultString("roadmap"),
		),
		mcp.WithArray("markers",
			mcp.Description("Optional markers to add to the map"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"location": map[string]any{
						"type":        "string",
						"description": "Location of the marker (address or lat,lng)",
					},
					"color": map[string]any{
						"type":        "string",
						"description": "Color of the marker (red, blue, green, purple, yellow, gray, orange, white)",
					},
					"label": map[string]any{
						"type":        "string",
						"description": "Single alphanumeric character to label the marker (A-Z, 0-9)",
					},
				},
				"required": []string{"location"},
			}),
		),
		downloadParam(),
		downloadDirParam(),
	)
}

func downloadParam() mcp.ToolOption {
	return mcp.WithBoolean("download",
		mcp.Description("Whether to download the image locally (default: false)"),
		mcp.DefaultBool(false),
	)
}

func downloadDirParam() mcp.ToolOption {
	return mcp.WithString("downloadDir",
		mcp.Description("Custom directory to save downloaded image (optional, defaults to 'downloads/maps')"),
	)
}

// validate checks the static map options in a fixed order; the first
// violation is reported.
func (in StaticMapInput) validate() error {
	if strings.TrimSpace(in.Center) == "" {
		return invalidf("Center parameter is required and cannot be empty")
	}
	if !imageSize.MatchString(in.Size) {
		return invalidf("Size must be in format 'WIDTHxHEIGHT' (e.g., '640x640')")
	}
	if in.Zoom < 1 || in.Zoom > 20 {
		return invalidf("Zoom level must be between 1 and 20")
	}
	if !slices.Contains(mapTypes, in.MapType) {
		return invalidf("Map type must be one of: %s", strings.Join(mapTypes, ", "))
	}
	for _, m := range in.Markers {
		if strings.TrimSpace(m.Location) == "" {
			return invalidf("Marker location cannot be empty")
		}
		if m.Color != "" && !slices.Contains(markerColors, m.Color) {
			return invalidf("Marker color must be one of: %s", strings.Join(markerColors, ", "))
		}
		if m.Label != "" && !markerLabel.MatchString(m.Label) {
			return invalidf("Marker label must be a single alphanumeric character (A-Z, 0-9)")
		}
	}
	return nil
}

// StaticMap builds a Static Maps image URL and, when asked, saves the image.
// The image itself is only fetched for a download.
func (s *Service) StaticMap(ctx context.Context, in StaticMapInput) (*StaticMapOutput, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	q := url.Values{
		"center":  {in.Center},
		"zoom":    {geo.FormatNumber(in.Zoom)},
		"size":    {in.Size},
		"maptype": {in.MapType},
	}
	for _, m := range in.Markers {
		q.Add("markers", m.param())
	}
	imageURL, err := s.googleURL(staticMapPath, q)
	if err != nil {
		return nil, &RequestError{Prefix: "Static map request failed", Err: err}
	}

	var markerNote string
	if len(in.Markers) > 0 {
		markerNote = fmt.Sprintf("Includes %d marker(s).", len(in.Markers))
	}
	out := &StaticMapOutput{
		ImageURL: imageURL,
		Center:   in.Center,
		Parameters: StaticMapParameters{
			Zoom:    in.Zoom,
			Size:    in.Size,
			MapType: in.MapType,
			Markers: in.Markers,
		},
		Description: fmt.Sprintf("%s map image URL centered on %s at zoom level %s. %s You can display this image or save it locally.",
			mapTypeDescriptions[in.MapType], in.Center, geo.FormatNumber(in.Zoom), markerNote),
	}

	if in.Download {
		res := s.downloader.DownloadStaticMap(ctx, imageURL, in.Center, in.MapType, in.Zoom, in.DownloadDir)
		out.Download = &res
		out.Description += downloadNote(res)
	}
	return out, nil
}

// downloadNote is appended to an imagery description after a download attempt.
func downloadNote(res download.Result) string {
	if res.Success {
		return " Image downloaded to: " + res.FilePath
	}
	return " Note: Download failed - " + res.Error
}

// HandleStaticMap implements the maps_static_map tool
func (s *Service) HandleStaticMap(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	markers, err := optionalMarkers(req, "markers")
	if err != nil {
		return Result(nil, err)
	}
	opt := optionals{req: req}
	in := StaticMapInput{
		Center:      mcp.ParseString(req, "center", ""),
		Zoom:        opt.float("zoom", 13),
		Size:        mcp.ParseString(req, "size", "640x640"),
		MapType:     mcp.ParseString(req, "maptype", "roadmap"),
		Markers:     markers,
		Download:    opt.bool("download", false),
		DownloadDir: mcp.ParseString(req, "downloadDir", ""),
	}
	if opt.err != nil {
		return Result(nil, opt.err)
	}
	return Result(s.StaticMap(ctx, in))
}
