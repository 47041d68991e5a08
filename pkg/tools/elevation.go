package tools

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

const elevationPath = "/maps/api/elevation/json"

// ElevationInput defines the input parameters for an elevation lookup
type ElevationInput struct {
	Locations []geo.Location
}

// ElevationResult is the elevation at one sampled point.
type ElevationResult struct {
	Elevation  float64         `json:"elevation"`
	Location   json.RawMessage `json:"location,omitempty"`
	Resolution *float64        `json:"resolution,omitempty"`
}

// ElevationOutput lists one result per requested location.
type ElevationOutput struct {
	Results []ElevationResult `json:"results"`
}

type elevationResponse struct {
	googleStatus
	Results []ElevationResult `json:"results"`
}

// ElevationTool returns a tool definition for elevation lookups
func ElevationTool() mcp.Tool {
	return mcp.NewTool("maps_elevation",
		mcp.WithDescription("Get elevation data for locations on the earth"),
		mcp.WithArray("locations",
			mcp.Required(),
			mcp.Description("Array of locations to get elevation for"),
			mcp.Items(map[string]any{
				"type":       "object",
				"properties": locationProperties(),
				"required":   []string{"latitude", "longitude"},
			}),
		),
	)
}

// Elevation looks up the elevation of every location in a single request.
func (s *Service) Elevation(ctx context.Context, in ElevationInput) (*ElevationOutput, error) {
	const prefix = "Elevation request failed"

	reqURL, err := s.googleURL(elevationPath, url.Values{
		"locations": {geo.JoinLocations(in.Locations)},
	})
	if err != nil {
		return nil, &RequestError{Prefix: prefix, Err: err}
	}

	var data elevationResponse
	if err := s.client.GetJSON(ctx, reqURL, &data); err != nil {
		s.logger.Error("elevation request failed", "error", err)
		return nil, &RequestError{Prefix: prefix, Err: err}
	}
	if err := data.check(prefix); err != nil {
		return nil, err
	}

	out := &ElevationOutput{Results: make([]ElevationResult, 0, len(data.Results))}
	out.Results = append(out.Results, data.Results...)
	return out, nil
}

// HandleElevation implements the maps_elevation tool
func (s *Service) HandleElevation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	locations, err := requireLocations(req, "locations")
	if err != nil {
		return Result(nil, err)
	}
	return Result(s.Elevation(ctx, ElevationInput{Locations: locations}))
}
