package tools

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	distanceMatrixPath = "/maps/api/distancematrix/json"
	directionsPath     = "/maps/api/directions/json"

	// routesFieldMask limits the Routes API response to what the tool returns.
	routesFieldMask = "routes.duration,routes.distanceMeters,routes.polyline.encodedPolyline,routes.legs.steps.navigationInstruction"
)

// Travel modes accepted by the Distance Matrix and Directions APIs.
var travelModes = []string{"driving", "walking", "bicycling", "transit"}

// DistanceMatrixInput defines the input parameters for a distance matrix.
type DistanceMatrixInput struct {
	Origins      []string
	Destinations []string
	Mode         string // default "driving"
}

// MatrixElement is one origin/destination pair.
type MatrixElement struct {
	Status   string          `json:"status"`
	Duration json.RawMessage `json:"duration,omitempty"`
	Distance json.RawMessage `json:"distance,omitempty"`
}

// MatrixRow holds the elements for one origin.
type MatrixRow struct {
	Elements []MatrixElement `json:"elements"`
}

// DistanceMatrixOutput is the reshaped Distance Matrix result.
type DistanceMatrixOutput struct {
	OriginAddresses      json.RawMessage `json:"origin_addresses,omitempty"`
	DestinationAddresses json.RawMessage `json:"destination_addresses,omitempty"`
	Results              []MatrixRow     `json:"results"`
}

// DirectionsInput defines the input parameters for directions.
type DirectionsInput struct {
	Origin      string
	Destination string
	Mode        string // default "driving"
}

// DirectionsStep is one maneuver of the first leg.
type DirectionsStep struct {
	Instructions string          `json:"instructions"`
	Distance     json.RawMessage `json:"distance,omitempty"`
	Duration     json.RawMessage `json:"duration,omitempty"`
	TravelMode   string          `json:"travel_mode"`
}

// DirectionsRoute summarizes a route by its first leg.
type DirectionsRoute struct {
	Summary  string           `json:"summary"`
	Distance json.RawMessage  `json:"distance,omitempty"`
	Duration json.RawMessage  `json:"duration,omitempty"`
	Steps    []DirectionsStep `json:"steps,omitempty"`
}

// DirectionsOutput is the reshaped Directions result.
type DirectionsOutput struct {
	Routes []DirectionsRoute `json:"routes"`
}

// RoutesInput defines the input parameters for the Routes API.
type RoutesInput struct {
	Origin            geo.Location
	Destination       geo.Location
	TravelMode        string // default "DRIVE"
	RoutingPreference string // default "TRAFFIC_UNAWARE"
}

// NavigationStep is one step of the first leg of a computed route.
type NavigationStep struct {
	DistanceMeters *int   `json:"distance_meters,omitempty"`
	Duration       string `json:"duration,omitempty"`
	Instruction    string `json:"instruction,omitempty"`
	Maneuver       string `json:"maneuver,omitempty"`
}

// ComputedRoute is the first route returned by the Routes API.
type ComputedRoute struct {
	DistanceMeters  *int             `json:"distance_meters,omitempty"`
	Duration        string           `json:"duration,omitempty"`
	Polyline        string           `json:"polyline,omitempty"`
	NavigationSteps []NavigationStep `json:"navigation_steps,omitempty"`
}

// RoutesOutput wraps the first computed route.
type RoutesOutput struct {
	Route *ComputedRoute `json:"route"`
}

type distanceMatrixResponse struct {
	googleStatus
	OriginAddresses      json.RawMessage `json:"origin_addresses"`
	DestinationAddresses json.RawMessage `json:"destination_addresses"`
	Rows                 []struct {
		Elements []MatrixElement `json:"elements"`
	} `json:"rows"`
}

type directionsResponse struct {
	googleStatus
	Routes []struct {
		Summary string `json:"summary"`
		Legs    []struct {
			Distance json.RawMessage `json:"distance"`
			Duration json.RawMessage `json:"duration"`
			Steps    []struct {
				HTMLInstructions string          `json:"html_instructions"`
				Distance         json.RawMessage `json:"distance"`
				Duration         json.RawMessage `json:"duration"`
				TravelMode       string          `json:"travel_mode"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

type routesLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type routesWaypoint struct {
	Location struct {
		LatLng routesLatLng `json:"latLng"`
	} `json:"location"`
}

func waypoint(l geo.Location) routesWaypoint {
	var w routesWaypoint
	w.Location.LatLng = routesLatLng{Latitude: l.Latitude, Longitude: l.Longitude}
	return w
}

type routeModifiers struct {
	AvoidTolls    bool `json:"avoidTolls"`
	AvoidHighways bool `json:"avoidHighways"`
	AvoidFerries  bool `json:"avoidFerries"`
}

type computeRoutesRequest struct {
	Origin                   routesWaypoint `json:"origin"`
	Destination              routesWaypoint `json:"destination"`
	TravelMode               string         `json:"travelMode"`
	RoutingPreference        string         `json:"routingPreference"`
	ComputeAlternativeRoutes bool           `json:"computeAlternativeRoutes"`
	RouteModifiers           routeModifiers `json:"routeModifiers"`
	LanguageCode             string         `json:"languageCode"`
	Units                    string         `json:"units"`
}

type computeRoutesResponse struct {
	Routes []struct {
		DistanceMeters *int   `json:"distanceMeters"`
		Duration       string `json:"duration"`
		Polyline       struct {
			EncodedPolyline string `json:"encodedPolyline"`
		} `json:"polyline"`
		Legs []struct {
			Steps []struct {
				DistanceMeters        *int   `json:"distanceMeters"`
				StaticDuration        string `json:"staticDuration"`
				NavigationInstruction *struct {
					Maneuver     string `json:"maneuver"`
					Instructions string `json:"instructions"`
				} `json:"navigationInstruction"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// DistanceMatrixTool returns a tool definition for the distance matrix
func DistanceMatrixTool() mcp.Tool {
	return mcp.NewTool("maps_distance_matrix",
		mcp.WithDescription("Calculate travel distance and time for multiple origins and destinations"),
		mcp.WithArray("origins",
			mcp.Required(),
			mcp.Description("Array of origin addresses or coordinates"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("destinations",
			mcp.Required(),
			mcp.Description("Array of destination addresses or coordinates"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("mode",
			mcp.Description("Travel mode (driving, walking, bicycling, transit)"),
			mcp.Enum(travelModes...),
		),
	)
}

// DirectionsTool returns a tool definition for directions
func DirectionsTool() mcp.Tool {
	return mcp.NewTool("maps_directions",
		mcp.WithDescription("Get directions between two points"),
		mcp.WithString("origin",
			mcp.Required(),
			mcp.Description("Starting point address or coordinates"),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Ending point address or coordinates"),
		),
		mcp.WithString("mode",
			mcp.Description("Travel mode (driving, walking, bicycling, transit)"),
			mcp.Enum(travelModes...),
		),
	)
}

// RoutesTool returns a tool definition for the Routes API
func RoutesTool() mcp.Tool {
	return mcp.NewTool("maps_routes",
		mcp.WithDescription("Get enhanced route planning with detailed navigation using Routes API"),
		mcp.WithObject("origin",
			mcp.Required(),
			mcp.Description("Starting point coordinates"),
			mcp.Properties(locationProperties()),
		),
		mcp.WithObject("destination",
			mcp.Required(),
			mcp.Description("Ending point coordinates"),
			mcp.Properties(locationProperties()),
		),
		mcp.WithString("travel_mode",
			mcp.Description("Travel mode"),
			mcp.Enum("DRIVE", "WALK", "BICYCLE", "TRANSIT"),
			mcp.DefaultString("DRIVE"),
		),
		mcp.WithString("routing_preference",
			mcp.Description("Routing preference"),
			mcp.Enum("TRAFFIC_UNAWARE", "TRAFFIC_AWARE", "TRAFFIC_AWARE_OPTIMAL"),
			mcp.DefaultString("TRAFFIC_UNAWARE"),
		),
	)
}

// DistanceMatrix computes travel distance and time between every origin and
// destination.
func (s *Service) DistanceMatrix(ctx context.Context, in DistanceMatrixInput) (*DistanceMatrixOutput, error) {
	const prefix = "Distance matrix request failed"

	q := url.Values{
		"origins":      {strings.Join(in.Origins, "|")},
		"destinations": {strings.Join(in.Destinations, "|")},
		"mode":         {in.Mode},
	}
	reqURL, err := s.googleURL(distanceMatrixPath, q)
	if err != nil {
		return nil, &RequestError{Prefix: prefix, Err: err}
	}

	var data distanceMatrixResponse
	if err := s.client.GetJSON(ctx, reqURL, &data); err != nil {
		s.logger.Error("distance matrix request failed", "error", err)
		return nil, &RequestError{Prefix: prefix, Err: err}
	}
	if err := data.check(prefix); err != nil {
		return nil, err
	}

	out := &DistanceMatrixOutput{
		OriginAddresses:      data.OriginAddresses,
		DestinationAddresses: data.DestinationAddresses,
		Results:              make([]MatrixRow, 0, len(data.Rows)),
	}
	for _, row := range data.Rows {
		elems := make([]MatrixElement, 0, len(row.Elements))
		elems = append(elems, row.Elements...)
		out.Results = append(out.Results, MatrixRow{Elements: elems})
	}
	return out, nil
}

// Directions fetches directions and summarizes each route by its first leg.
func (s *Service) Directions(ctx context.Context, in DirectionsInput) (*DirectionsOutput, error) {
	const prefix = "Directions request failed"

	q := url.Values{
		"origin":      {in.Origin},
		"destination": {in.Destination},
		"mode":        {in.Mode},
	}
	reqURL, err := s.googleURL(directionsPath, q)
	if err != nil {
		return nil, &RequestError{Prefix: prefix, Err: err}
	}

	var data directionsResponse
	if err := s.client.GetJSON(ctx, reqURL, &data); err != nil {
		s.logger.Error("directions request failed", "error", err)
		return nil, &RequestError{Prefix: prefix, Err: err}
	}
	if err := data.check(prefix); err != nil {
		return nil, err
	}

	out := &DirectionsOutput{Routes: make([]DirectionsRoute, 0, len(data.Routes))}
	for _, r := range data.Routes {
		route := DirectionsRoute{Summary: r.Summary}
		if len(r.Legs) > 0 {
			leg := r.Legs[0]
			route.Distance = leg.Distance
			route.Duration = leg.Duration
			route.Steps = make([]DirectionsStep, 0, len(leg.Steps))
			for _, st := range leg.Steps {
				route.Steps = append(route.Steps, DirectionsStep{
					Instructions: st.HTMLInstructions,
					Distance:     st.Distance,
					Duration:     st.Duration,
					TravelMode:   st.TravelMode,
				})
			}
		}
		out.Routes = append(out.Routes, route)
	}
	return out, nil
}

// Routes computes a route with the Routes API. Unlike the other Google
// calls it is a POST with the key and field mask sent as headers.
func (s *Service) Routes(ctx context.Context, in RoutesInput) (*RoutesOutput, error) {
	body := computeRoutesRequest{
		Origin:                   waypoint(in.Origin),
		Destination:              waypoint(in.Destination),
		TravelMode:               in.TravelMode,
		RoutingPreference:        in.RoutingPreference,
		ComputeAlternativeRoutes: false,
		LanguageCode:             "en-US",
		Units:                    "IMPERIAL",
	}
	headers := map[string]string{
		"X-Goog-Api-Key":   s.apiKey,
		"X-Goog-FieldMask": routesFieldMask,
	}

	var data computeRoutesResponse
	if err := s.client.PostJSON(ctx, s.endpoints.Routes, body, headers, &data); err != nil {
		s.logger.Error("routes request failed", "error", err)
		return nil, &RequestError{Prefix: "Routes request failed", Err: err}
	}
	if len(data.Routes) == 0 {
		return nil, ErrNoRoutes
	}

	first := data.Routes[0]
	route := &ComputedRoute{
		DistanceMeters: first.DistanceMeters,
		Duration:       first.Duration,
		Polyline:       first.Polyline.EncodedPolyline,
	}
	if len(first.Legs) > 0 {
		route.NavigationSteps = make([]NavigationStep, 0, len(first.Legs[0].Steps))
		for _, st := range first.Legs[0].Steps {
			step := NavigationStep{
				DistanceMeters: st.DistanceMeters,
				Duration:       st.StaticDuration,
			}
			if st.NavigationInstruction != nil {
				step.Instruction = st.NavigationInstruction.Instructions
				step.Maneuver = st.NavigationInstruction.Maneuver
			}
			route.NavigationSteps = append(route.NavigationSteps, step)
		}
	}
	return &RoutesOutput{Route: route}, nil
}

// HandleDistanceMatrix implements the maps_distance_matrix tool
func (s *Service) HandleDistanceMatrix(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	origins, err := requireStrings(req, "origins")
	if err != nil {
		return Result(nil, err)
	}
	destinations, err := requireStrings(req, "destinations")
	if err != nil {
		return Result(nil, err)
	}
	return Result(s.DistanceMatrix(ctx, DistanceMatrixInput{
		Origins:      origins,
		Destinations: destinations,
		Mode:         mcp.ParseString(req, "mode", "driving"),
	}))
}

// HandleDirections implements the maps_directions tool
func (s *Service) HandleDirections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	origin, err := requireString(req, "origin")
	if err != nil {
		return Result(nil, err)
	}
	destination, err := requireString(req, "destination")
	if err != nil {
		return Result(nil, err)
	}
	return Result(s.Directions(ctx, DirectionsInput{
		Origin:      origin,
		Destination: destination,
		Mode:        mcp.ParseString(req, "mode", "driving"),
	}))
}

// HandleRoutes implements the maps_routes tool
func (s *Service) HandleRoutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	origin, err := requireLocation(req, "origin")
	if err != nil {
		return Result(nil, err)
	}
	destination, err := requireLocation(req, "destination")
	if err != nil {
		return Result(nil, err)
	}
	return Result(s.Routes(ctx, RoutesInput{
		Origin:            origin,
		Destination:       destination,
		TravelMode:        mcp.ParseString(req, "travel_mode", "DRIVE"),
		RoutingPreference: mcp.ParseString(req, "routing_preference", "TRAFFIC_UNAWARE"),
	}))
}
