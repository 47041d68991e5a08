package tools

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	placeSearchPath  = "/maps/api/place/textsearch/json"
	placeDetailsPath = "/maps/api/place/details/json"
)

// PlaceSearchInput defines the input parameters for a text search.
type PlaceSearchInput struct {
	Query    string
	Location *geo.Location // optional search bias
	Radius   float64       // meters, 0 = not sent
}

// Place is one text search hit.
type Place struct {
	Name             string          `json:"name"`
	FormattedAddress string          `json:"formatted_address"`
	Location         *geo.LatLng     `json:"location,omitempty"`
	PlaceID          string          `json:"place_id"`
	Rating           *float64        `json:"rating,omitempty"`
	Types            json.RawMessage `json:"types,omitempty"`
}

// PlaceSearchOutput lists every place the search returned.
type PlaceSearchOutput struct {
	Places []Place `json:"places"`
}

// PlaceDetailsOutput is the reshaped Place Details result.
type PlaceDetailsOutput struct {
	Name                 string          `json:"name"`
	FormattedAddress     string          `json:"formatted_address"`
	Location             *geo.LatLng     `json:"location,omitempty"`
	FormattedPhoneNumber string          `json:"formatted_phone_number,omitempty"`
	Website              string          `json:"website,omitempty"`
	Rating               *float64        `json:"rating,omitempty"`
	Reviews              json.RawMessage `json:"reviews,omitempty"`
	OpeningHours         json.RawMessage `json:"opening_hours,omitempty"`
}

type placeGeometry struct {
	Location *geo.LatLng `json:"location"`
}

type placeSearchResponse struct {
	googleStatus
	Results []struct {
		Name             string          `json:"name"`
		FormattedAddress string          `json:"formatted_address"`
		Geometry         placeGeometry   `json:"geometry"`
		PlaceID          string          `json:"place_id"`
		Rating           *float64        `json:"rating"`
		Types            json.RawMessage `json:"types"`
	} `json:"results"`
}

type placeDetailsResponse struct {
	googleStatus
	Result struct {
		Name                 string          `json:"name"`
		FormattedAddress     string          `json:"formatted_address"`
		Geometry             placeGeometry   `json:"geometry"`
		FormattedPhoneNumber string          `json:"formatted_phone_number"`
		Website              string          `json:"website"`
		Rating               *float64        `json:"rating"`
		Reviews              json.RawMessage `json:"reviews"`
		OpeningHours         json.RawMessage `json:"opening_hours"`
	} `json:"result"`
}

// SearchPlacesTool returns a tool definition for place text search
func SearchPlacesTool() mcp.Tool {
	return mcp.NewTool("maps_search_places",
		mcp.WithDescription("Search for places using Google Places API"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithObject("location",
			mcp.Description("Optional center point for the search"),
			mcp.Properties(locationProperties()),
		),
		mcp.WithNumber("radius",
			mcp.Description("Search radius in meters (max 50000)"),
		),
	)
}

// PlaceDetailsTool returns a tool definition for place details
func PlaceDetailsTool() mcp.Tool {
	return mcp.NewTool("maps_place_details",
		mcp.WithDescription("Get detailed information about a specific place"),
		mcp.WithString("place_id",
			mcp.Required(),
			mcp.Description("The place ID to get details for"),
		),
	)
}

// locationProperties is the JSON schema of a {latitude, longitude} object.
func locationProperties() map[string]any {
	return map[string]any{
		"latitude":  map[string]any{"type": "number"},
		"longitude": map[string]any{"type": "number"},
	}
}

// SearchPlaces runs a Places text search.
func (s *Service) SearchPlaces(ctx context.Context, in PlaceSearchInput) (*PlaceSearchOutput, error) {
	q := url.Values{"query": {in.Query}}
	if in.Location != nil {
		q.Set("location", in.Location.String())
	}
	if in.Radius != 0 {
		q.Set("radius", geo.FormatNumber(in.Radius))
	}

	reqURL, err := s.googleURL(placeSearchPath, q)
	if err != nil {
		return nil, &RequestError{Prefix: "Place search request failed", Err: err}
	}

	var data placeSearchResponse
	if err := s.client.GetJSON(ctx, reqURL, &data); err != nil {
		s.logger.Error("place search request failed", "error", err)
		return nil, &RequestError{Prefix: "Place search request failed", Err: err}
	}
	if err := data.check("Place search failed"); err != nil {
		return nil, err
	}

	out := &PlaceSearchOutput{Places: make([]Place, 0, len(data.Results))}
	for _, r := range data.Results {
		out.Places = append(out.Places, Place{
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			Location:         r.Geometry.Location,
			PlaceID:          r.PlaceID,
			Rating:           r.Rating,
			Types:            r.Types,
		})
	}
	return out, nil
}

// PlaceDetails fetches details for one place ID.
func (s *Service) PlaceDetails(ctx context.Context, placeID string) (*PlaceDetailsOutput, error) {
	const prefix = "Place details request failed"

	reqURL, err := s.googleURL(placeDetailsPath, url.Values{"place_id": {placeID}})
	if err != nil {
		return nil, &RequestError{Prefix: prefix, Err: err}
	}

	var data placeDetailsResponse
	if err := s.client.GetJSON(ctx, reqURL, &data); err != nil {
		s.logger.Error("place details request failed", "error", err)
		return nil, &RequestError{Prefix: prefix, Err: err}
	}
	if err := data.check(prefix); err != nil {
		return nil, err
	}

	r := data.Result
	return &PlaceDetailsOutput{
		Name:                 r.Name,
		FormattedAddress:     r.FormattedAddress,
		Location:             r.Geometry.Location,
		FormattedPhoneNumber: r.FormattedPhoneNumber,
		Website:              r.Website,
		Rating:               r.Rating,
		Reviews:              r.Reviews,
		OpeningHours:         r.OpeningHours,
	}, nil
}

// HandleSearchPlaces implements the maps_search_places tool
func (s *Service) HandleSearchPlaces(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := requireString(req, "query")
	if err != nil {
		return Result(nil, err)
	}
	loc, err := optionalLocation(req, "location")
	if err != nil {
		return Result(nil, err)
	}
	radius, err := optionalFloat(req, "radius", 0)
	if err != nil {
		return Result(nil, err)
	}
	return Result(s.SearchPlaces(ctx, PlaceSearchInput{
		Query:    query,
		Location: loc,
		Radius:   radius,
	}))
}

// HandlePlaceDetails implements the maps_place_details tool
func (s *Service) HandlePlaceDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	placeID, err := requireString(req, "place_id")
	if err != nil {
		return Result(nil, err)
	}
	return Result(s.PlaceDetails(ctx, placeID))
}
