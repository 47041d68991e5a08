package tools

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	weatherCurrent = "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation,weather_code,wind_speed_10m,wind_direction_10m"
	weatherDaily   = "temperature_2m_max,temperature_2m_min,precipitation_sum,weather_code"
	weatherHourly  = "temperature_2m,precipitation_probability,weather_code"
)

// openMeteoResponse holds the sections every Open-Meteo API may return.
// They are passed through untouched.
type openMeteoResponse struct {
	Current json.RawMessage `json:"current"`
	Daily   json.RawMessage `json:"daily"`
	Hourly  json.RawMessage `json:"hourly"`
}

// openMeteoQuery builds the parameters shared by all Open-Meteo calls.
func openMeteoQuery(loc geo.Location, forecastDays float64) url.Values {
	return url.Values{
		"latitude":      {geo.FormatNumber(loc.Latitude)},
		"longitude":     {geo.FormatNumber(loc.Longitude)},
		"forecast_days": {geo.FormatNumber(forecastDays)},
		"timezone":      {"auto"},
	}
}

// fetchOpenMeteo issues one Open-Meteo request and wraps any failure with prefix.
func (s *Service) fetchOpenMeteo(ctx context.Context, base string, q url.Values, prefix string) (*openMeteoResponse, error) {
	reqURL, err := openMeteoURL(base, q)
	if err != nil {
		return nil, &RequestError{Prefix: prefix, Err: err}
	}
	var data openMeteoResponse
	if err := s.client.GetJSON(ctx, reqURL, &data); err != nil {
		s.logger.Error("open-meteo request failed", "base", base, "error", err)
		return nil, &RequestError{Prefix: prefix, Err: err}
	}
	return &data, nil
}

// coordinateParams are the latitude/longitude options shared by the
// environmental tools.
func coordinateParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("Latitude coordinate"),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("Longitude coordinate"),
		),
	}
}

// requireCoordinates reads the required latitude and longitude arguments.
func requireCoordinates(req mcp.CallToolRequest) (geo.Location, error) {
	lat, err := requireFloat(req, "latitude")
	if err != nil {
		return geo.Location{}, err
	}
	lng, err := requireFloat(req, "longitude")
	if err != nil {
		return geo.Location{}, err
	}
	return geo.Location{Latitude: lat, Longitude: lng}, nil
}

// WeatherInput defines the input parameters for a weather forecast
type WeatherInput struct {
	Location      geo.Location
	ForecastDays  float64 // default 3
	IncludeHourly bool    // default false
}

// WeatherOutput is the forecast for one location.
type WeatherOutput struct {
	Location geo.Location    `json:"location"`
	Current  json.RawMessage `json:"current,omitempty"`
	Daily    json.RawMessage `json:"daily,omitempty"`
	Hourly   json.RawMessage `json:"hourly,omitempty"`
}

// WeatherTool returns a tool definition for weather forecasts
func WeatherTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Get current weather conditions and forecast for a location"),
	}, coordinateParams()...)
	opts = append(opts,
		mcp.WithNumber("forecast_days",
			mcp.Description("Number of forecast days (1-16, default: 3)"),
			mcp.DefaultNumber(3),
		),
		mcp.WithBoolean("include_hourly",
			mcp.Description("Include hourly forecast data (default: false)"),
			mcp.DefaultBool(false),
		),
	)
	return mcp.NewTool("maps_weather", opts...)
}

// Weather fetches current conditions and a daily forecast from Open-Meteo.
func (s *Service) Weather(ctx context.Context, in WeatherInput) (*WeatherOutput, error) {
	q := openMeteoQuery(in.Location, in.ForecastDays)
	q.Set("current", weatherCurrent)
	q.Set("daily", weatherDaily)
	if in.IncludeHourly {
		q.Set("hourly", weatherHourly)
	}

	data, err := s.fetchOpenMeteo(ctx, s.endpoints.Forecast, q, "Weather request failed")
	if err != nil {
		return nil, err
	}

	out := &WeatherOutput{
		Location: in.Location,
		Current:  data.Current,
		Daily:    data.Daily,
	}
	if in.IncludeHourly {
		out.Hourly = data.Hourly
	}
	return out, nil
}

// HandleWeather implements the maps_weather tool
func (s *Service) HandleWeather(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc, err := requireCoordinates(req)
	if err != nil {
		return Result(nil, err)
	}
	opt := optionals{req: req}
	in := WeatherInput{
		Location:      loc,
		ForecastDays:  opt.float("forecast_days", 3),
		IncludeHourly: opt.bool("include_hourly", false),
	}
	if opt.err != nil {
		return Result(nil, opt.err)
	}
	return Result(s.Weather(ctx, in))
}
