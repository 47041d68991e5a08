package tools

import (
	"context"
	"encoding/json"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	pollenCurrent = "european_alder_pollen,birch_pollen,grass_pollen,mugwort_pollen,olive_pollen,ragweed_pollen"
	pollenDaily   = "european_alder_pollen_max,birch_pollen_max,grass_pollen_max,mugwort_pollen_max,olive_pollen_max,ragweed_pollen_max"
)

// PollenInput defines the input parameters for a pollen lookup
type PollenInput struct {
	Location     geo.Location
	ForecastDays float64 // default 3
}

// PollenOutput is the pollen report for one location.
type PollenOutput struct {
	Location geo.Location    `json:"location"`
	Current  json.RawMessage `json:"current,omitempty"`
	Daily    json.RawMessage `json:"daily,omitempty"`
}

// PollenTool returns a tool definition for pollen lookups
func PollenTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Get pollen and allergy information for outdoor activities"),
	}, coordinateParams()...)
	opts = append(opts,
		mcp.WithNumber("forecast_days",
			mcp.Description("Number of forecast days (1-5, default: 3)"),
			mcp.DefaultNumber(3),
		),
	)
	return mcp.NewTool("maps_pollen", opts...)
}

// Pollen fetches pollen levels from the Open-Meteo air quality API.
func (s *Service) Pollen(ctx context.Context, in PollenInput) (*PollenOutput, error) {
	q := openMeteoQuery(in.Location, in.ForecastDays)
	q.Set("current", pollenCurrent)
	q.Set("daily", pollenDaily)

	data, err := s.fetchOpenMeteo(ctx, s.endpoints.AirQuality, q, "Pollen request failed")
	if err != nil {
		return nil, err
	}
	return &PollenOutput{
		Location: in.Location,
		Current:  data.Current,
		Daily:    data.Daily,
	}, nil
}

// HandlePollen implements the maps_pollen tool
func (s *Service) HandlePollen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc, err := requireCoordinates(req)
	if err != nil {
		return Result(nil, err)
	}
	days, err := optionalFloat(req, "forecast_days", 3)
	if err != nil {
		return Result(nil, err)
	}
	return Result(s.Pollen(ctx, PollenInput{
		Location:     loc,
		ForecastDays: days,
	}))
}
