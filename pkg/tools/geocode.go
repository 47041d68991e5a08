package tools

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

const geocodePath = "/maps/api/geocode/json"

// GeocodeInput defines the input parameters for geocoding an address
type GeocodeInput struct {
	Address string `json:"address"`
}

// GeocodeOutput defines the output format for geocoded addresses
type GeocodeOutput struct {
	Location         geo.LatLng `json:"location"`
	FormattedAddress string     `json:"formatted_address"`
	PlaceID          string     `json:"place_id"`
}

// ReverseGeocodeInput defines the input parameters for reverse geocoding
type ReverseGeocodeInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReverseGeocodeOutput defines the output format for reverse geocoded coordinates
type ReverseGeocodeOutput struct {
	FormattedAddress  string          `json:"formatted_address"`
	PlaceID           string          `json:"place_id"`
	AddressComponents json.RawMessage `json:"address_components,omitempty"`
}

type geocodeResponse struct {
	googleStatus
	Results []struct {
		FormattedAddress  string          `json:"formatted_address"`
		PlaceID           string          `json:"place_id"`
		AddressComponents json.RawMessage `json:"address_components"`
		Geometry          struct {
			Location geo.LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GeocodeTool returns a tool definition for geocoding addresses
func GeocodeTool() mcp.Tool {
	return mcp.NewTool("maps_geocode",
		mcp.WithDescription("Convert an address into geographic coordinates"),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("The address to geocode"),
		),
	)
}

// ReverseGeocodeTool returns a tool definition for reverse geocoding
func ReverseGeocodeTool() mcp.Tool {
	return mcp.NewTool("maps_reverse_geocode",
		mcp.WithDescription("Convert coordinates into an address"),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("Latitude coordinate"),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("Longitude coordinate"),
		),
	)
}

// Geocode resolves an address to the first matching result.
func (s *Service) Geocode(ctx context.Context, in GeocodeInput) (*GeocodeOutput, error) {
	const prefix = "Geocoding"
	data, err := s.geocode(ctx, url.Values{"address": {in.Address}}, prefix)
	if err != nil {
		return nil, err
	}
	first := data.Results[0]
	return &GeocodeOutput{
		Location:         first.Geometry.Location,
		FormattedAddress: first.FormattedAddress,
		PlaceID:          first.PlaceID,
	}, nil
}

// ReverseGeocode resolves coordinates to the first matching address.
func (s *Service) ReverseGeocode(ctx context.Context, in ReverseGeocodeInput) (*ReverseGeocodeOutput, error) {
	const prefix = "Reverse geocoding"
	latlng := geo.Location{Latitude: in.Latitude, Longitude: in.Longitude}.String()
	data, err := s.geocode(ctx, url.Values{"latlng": {latlng}}, prefix)
	if err != nil {
		return nil, err
	}
	first := data.Results[0]
	return &ReverseGeocodeOutput{
		FormattedAddress:  first.FormattedAddress,
		PlaceID:           first.PlaceID,
		AddressComponents: first.AddressComponents,
	}, nil
}

// geocode performs a Geocoding API call and guarantees at least one result.
func (s *Service) geocode(ctx context.Context, q url.Values, prefix string) (*geocodeResponse, error) {
	logger := s.logger.With("api", "geocode")

	reqURL, err := s.googleURL(geocodePath, q)
	if err != nil {
		return nil, &RequestError{Prefix: prefix + " request failed", Err: err}
	}

	var data geocodeResponse
	if err := s.client.GetJSON(ctx, reqURL, &data); err != nil {
		logger.Error("geocoding request failed", "error", err)
		return nil, &RequestError{Prefix: prefix + " request failed", Err: err}
	}
	if err := data.check(prefix + " failed"); err != nil {
		logger.Debug("geocoding returned non-OK status", "status", data.Status)
		return nil, err
	}
	if len(data.Results) == 0 {
		return nil, &StatusError{Prefix: prefix + " failed", Status: "no results"}
	}
	return &data, nil
}

// HandleGeocode implements the maps_geocode tool
func (s *Service) HandleGeocode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, err := requireString(req, "address")
	if err != nil {
		return Result(nil, err)
	}
	return Result(s.Geocode(ctx, GeocodeInput{Address: address}))
}

// HandleReverseGeocode implements the maps_reverse_geocode tool
func (s *Service) HandleReverseGeocode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lat, err := requireFloat(req, "latitude")
	if err != nil {
		return Result(nil, err)
	}
	lng, err := requireFloat(req, "longitude")
	if err != nil {
		return Result(nil, err)
	}
	return Result(s.ReverseGeocode(ctx, ReverseGeocodeInput{Latitude: lat, Longitude: lng}))
}
