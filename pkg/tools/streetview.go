package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/NERVsystems/mapsmcp/pkg/download"
	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

const streetViewPath = "/maps/api/streetview"

// StreetViewInput defines the input parameters for a Street View image
type StreetViewInput struct {
	Location    string
	Size        string  // default "640x640"
	Heading     float64 // default 0 (north)
	Pitch       float64 // default 0 (horizontal)
	FOV         float64 // default 90
	Download    bool
	DownloadDir string
}

// StreetViewParameters echoes the camera options.
type StreetViewParameters struct {
	Size    string  `json:"size"`
	Heading float64 `json:"heading"`
	Pitch   float64 `json:"pitch"`
	FOV     float64 `json:"fov"`
}

// StreetViewOutput describes a Street View image.
type StreetViewOutput struct {
	ImageURL    string               `json:"image_url"`
	Location    string               `json:"location"`
	Parameters  StreetViewParameters `json:"parameters"`
	Description string               `json:"description"`
	Download    *download.Result     `json:"download,omitempty"`
}

// StreetViewTool returns a tool definition for Street View images
func StreetViewTool() mcp.Tool {
	return mcp.NewTool("maps_street_view",
		mcp.WithDescription("Get Street View images for any location with customizable viewing angle and field of view"),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("Address or lat,lng coordinates (e.g., 'Times Square, NYC' or '40.758,-73.985')"),
		),
		mcp.WithString("size",
			mcp.Description("Image size in pixels (e.g., '640x640', max 640x640)"),
			mcp.DefaultString("640x640"),
		),
		mcp.WithNumber("heading",
			mcp.Description("Compass heading in degrees (0-360, 0=North, 90=East, 180=South, 270=West)"),
			mcp.DefaultNumber(0),
		),
		mcp.WithNumber("pitch",
			mcp.Description("Up/down viewing angle in degrees (-90 to 90, 0=horizontal, positive=up, negative=down)"),
			mcp.DefaultNumber(0),
		),
		mcp.WithNumber("fov",
			mcp.Description("Field of view in degrees (10-120, determines zoom level, lower=more zoomed)"),
			mcp.DefaultNumber(90),
		),
		downloadParam(),
		downloadDirParam(),
	)
}

func (in StreetViewInput) validate() error {
	if strings.TrimSpace(in.Location) == "" {
		return invalidf("Location parameter is required and cannot be empty")
	}
	if !imageSize.MatchString(in.Size) {
		return invalidf("Size must be in format 'WIDTHxHEIGHT' (e.g., '640x640')")
	}
	if in.Heading < 0 || in.Heading > 360 {
		return invalidf("Heading must be between 0 and 360 degrees")
	}
	if in.Pitch < -90 || in.Pitch > 90 {
		return invalidf("Pitch must be between -90 and 90 degrees")
	}
	if in.FOV < 10 || in.FOV > 120 {
		return invalidf("Field of view must be between 10 and 120 degrees")
	}
	return nil
}

// StreetView builds a Street View Static API image URL and, when asked,
// saves the image.
func (s *Service) StreetView(ctx context.Context, in StreetViewInput) (*StreetViewOutput, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	imageURL, err := s.googleURL(streetViewPath, url.Values{
		"location": {in.Location},
		"size":     {in.Size},
		"heading":  {geo.FormatNumber(in.Heading)},
		"pitch":    {geo.FormatNumber(in.Pitch)},
		"fov":      {geo.FormatNumber(in.FOV)},
	})
	if err != nil {
		return nil, &RequestError{Prefix: "Street View request failed", Err: err}
	}

	angle := "upward"
	if in.Pitch < 0 {
		angle = "downward"
	}
	out := &StreetViewOutput{
		ImageURL: imageURL,
		Location: in.Location,
		Parameters: StreetViewParameters{
			Size:    in.Size,
			Heading: in.Heading,
			Pitch:   in.Pitch,
			FOV:     in.FOV,
		},
		Description: fmt.Sprintf("Street View image URL for %s. You can display this image or save it locally. The image shows a %s° field of view, facing %s° (%s) with a %s° %s angle.",
			in.Location,
			geo.FormatNumber(in.FOV),
			geo.FormatNumber(in.Heading),
			geo.CompassDirection(in.Heading),
			geo.FormatNumber(in.Pitch),
			angle),
	}

	if in.Download {
		res := s.downloader.DownloadStreetView(ctx, imageURL, in.Location, in.Heading, in.Pitch, in.DownloadDir)
		out.Download = &res
		out.Description += downloadNote(res)
	}
	return out, nil
}

// HandleStreetView implements the maps_street_view tool
func (s *Service) HandleStreetView(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opt := optionals{req: req}
	in := StreetViewInput{
		Location:    mcp.ParseString(req, "location", ""),
		Size:        mcp.ParseString(req, "size", "640x640"),
		Heading:     opt.float("heading", 0),
		Pitch:       opt.float("pitch", 0),
		FOV:         opt.float("fov", 90),
		Download:    opt.bool("download", false),
		DownloadDir: mcp.ParseString(req, "downloadDir", ""),
	}
	if opt.err != nil {
		return Result(nil, opt.err)
	}
	return Result(s.StreetView(ctx, in))
}
