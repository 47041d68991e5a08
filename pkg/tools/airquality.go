package tools

import (
	"context"
	"encoding/json"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	airQualityCurrent = "us_aqi,pm10,pm2_5,carbon_monoxide,nitrogen_dioxide,sulphur_dioxide,ozone"
	airQualityHourly  = "us_aqi,pm10,pm2_5"
)

// AirQualityInput defines the input parameters for an air quality lookup
type AirQualityInput struct {
	Location     geo.Location
	ForecastDays float64 // default 1
}

// AirQualityOutput is the air quality report for one location.
type AirQualityOutput struct {
	Location geo.Location    `json:"location"`
	Current  json.RawMessage `json:"current,omitempty"`
	Hourly   json.RawMessage `json:"hourly,omitempty"`
}

// AirQualityTool returns a tool definition for air quality lookups
func AirQualityTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Get air quality data for wilderness areas and camping locations"),
	}, coordinateParams()...)
	opts = append(opts,
		mcp.WithNumber("forecast_days",
			mcp.Description("Number of forecast days (1-5, default: 1)"),
			mcp.DefaultNumber(1),
		),
	)
	return mcp.NewTool("maps_air_quality", opts...)
}

// AirQuality fetches current and hourly air quality from Open-Meteo.
func (s *Service) AirQuality(ctx context.Context, in AirQualityInput) (*AirQualityOutput, error) {
	q := openMeteoQuery(in.Location, in.ForecastDays)
	q.Set("current", airQualityCurrent)
	q.Set("hourly", airQualityHourly)

	data, err := s.fetchOpenMeteo(ctx, s.endpoints.AirQuality, q, "Air quality request failed")
	if err != nil {
		return nil, err
	}
	return &AirQualityOutput{
		Location: in.Location,
		Current:  data.Current,
		Hourly:   data.Hourly,
	}, nil
}

// HandleAirQuality implements the maps_air_quality tool
func (s *Service) HandleAirQuality(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc, err := requireCoordinates(req)
	if err != nil {
		return Result(nil, err)
	}
	days, err := optionalFloat(req, "forecast_days", 1)
	if err != nil {
		return Result(nil, err)
	}
	return Result(s.AirQuality(ctx, AirQualityInput{
		Location:     loc,
		ForecastDays: days,
	}))
}
