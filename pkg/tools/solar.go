package tools

import (
	"context"
	"encoding/json"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	solarCurrent = "global_tilted_irradiance,direct_normal_irradiance,diffuse_horizontal_irradiance"
	solarHourly  = "global_tilted_irradiance,direct_normal_irradiance,diffuse_horizontal_irradiance,global_horizontal_irradiance"
)

// SolarInput defines the input parameters for a solar irradiance lookup
type SolarInput struct {
	Location     geo.Location
	Tilt         float64 // default 0
	Azimuth      float64 // default 180 (south)
	ForecastDays float64 // default 1
}

// PanelConfig echoes the panel orientation used for tilted irradiance.
type PanelConfig struct {
	Tilt    float64 `json:"tilt"`
	Azimuth float64 `json:"azimuth"`
}

// SolarOutput is the irradiance report for one panel at one location.
type SolarOutput struct {
	Location    geo.Location    `json:"location"`
	PanelConfig PanelConfig     `json:"panel_config"`
	Current     json.RawMessage `json:"current,omitempty"`
	Hourly      json.RawMessage `json:"hourly,omitempty"`
}

// SolarTool returns a tool definition for solar irradiance lookups
func SolarTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Get solar irradiance data for solar power planning at campsites"),
	}, coordinateParams()...)
	opts = append(opts,
		mcp.WithNumber("tilt",
			mcp.Description("Solar panel tilt angle in degrees (0-90, default: optimal angle)"),
			mcp.DefaultNumber(0),
		),
		mcp.WithNumber("azimuth",
			mcp.Description("Solar panel azimuth angle in degrees (default: 180 for south)"),
			mcp.DefaultNumber(180),
		),
		mcp.WithNumber("forecast_days",
			mcp.Description("Number of forecast days (1-5, default: 1)"),
			mcp.DefaultNumber(1),
		),
	)
	return mcp.NewTool("maps_solar", opts...)
}

// Solar fetches irradiance for a panel orientation from the Open-Meteo
// forecast API.
func (s *Service) Solar(ctx context.Context, in SolarInput) (*SolarOutput, error) {
	q := openMeteoQuery(in.Location, in.ForecastDays)
	q.Set("current", solarCurrent)
	q.Set("hourly", solarHourly)
	q.Set("tilt", geo.FormatNumber(in.Tilt))
	q.Set("azimuth", geo.FormatNumber(in.Azimuth))

	data, err := s.fetchOpenMeteo(ctx, s.endpoints.Forecast, q, "Solar request failed")
	if err != nil {
		return nil, err
	}
	return &SolarOutput{
		Location:    in.Location,
		PanelConfig: PanelConfig{Tilt: in.Tilt, Azimuth: in.Azimuth},
		Current:     data.Current,
		Hourly:      data.Hourly,
	}, nil
}

// HandleSolar implements the maps_solar tool
func (s *Service) HandleSolar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc, err := requireCoordinates(req)
	if err != nil {
		return Result(nil, err)
	}
	opt := optionals{req: req}
	in := SolarInput{
		Location:     loc,
		Tilt:         opt.float("tilt", 0),
		Azimuth:      opt.float("azimuth", 180),
		ForecastDays: opt.float("forecast_days", 1),
	}
	if opt.err != nil {
		return Result(nil, opt.err)
	}
	return Result(s.Solar(ctx, in))
}
