// Package prompts provides prompt templates for use with the MCP server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Prompts returns every prompt this server offers, in registration order.
func Prompts() []server.ServerPrompt {
	return []server.ServerPrompt{
		{
			Prompt: mcp.NewPrompt("maps_usage",
				mcp.WithPromptDescription("Instructions for choosing and calling the Google Maps and environmental tools"),
			),
			Handler: MapsUsageHandler,
		},
		{
			Prompt: mcp.NewPrompt("static_map_examples",
				mcp.WithPromptDescription("Examples of properly formed maps_static_map calls"),
			),
			Handler: StaticMapExamplesHandler,
		},
		{
			Prompt: mcp.NewPrompt("street_view_examples",
				mcp.WithPromptDescription("Examples of properly formed maps_street_view calls"),
			),
			Handler: StreetViewExamplesHandler,
		},
	}
}

// RegisterPrompts registers all prompts with the MCP server
func RegisterPrompts(s *server.MCPServer) {
	s.AddPrompts(Prompts()...)
}

func assistantPrompt(title, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(
		title,
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(text),
			),
		},
	)
}

// MapsUsageHandler returns the main prompt for the tool set
func MapsUsageHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	usagePrompt := `You have access to Google Maps tools and Open-Meteo environmental tools.
When using these tools:

1. Geocode first. maps_routes, maps_elevation, maps_weather, maps_air_quality, maps_solar and maps_pollen take numeric coordinates, so resolve addresses with maps_geocode before calling them.
2. maps_distance_matrix, maps_directions, maps_street_view and maps_static_map accept plain addresses or "lat,lng" strings.
3. Include city and country in addresses, e.g. "Eiffel Tower, Paris, France" rather than "Eiffel Tower".
4. Coordinates are decimal degrees. Latitude is between -90 and 90, longitude between -180 and 180.
5. Use maps_routes for turn-by-turn navigation with a polyline. Use maps_directions when only a summary and steps are needed.

ERROR HANDLING GUIDELINES:
Every failed call returns text starting with "Error: ".
1. "Missing required argument" and range messages describe the fix. Correct the argument and retry.
2. "Geocoding failed: ZERO_RESULTS" means the address was not recognised. Add a city or country, or simplify it.
3. "No routes found." means the Routes API could not connect the two points with the chosen travel mode. Try another mode.
4. A failed image download is reported in the description while the image URL is still returned.`

	return assistantPrompt("Google Maps Tool Usage Guidelines", usagePrompt), nil
}

// StaticMapExamplesHandler returns examples for maps_static_map
func StaticMapExamplesHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	examplesPrompt := `EXAMPLES OF EFFECTIVE MAPS_STATIC_MAP USAGE:

User: "Show me a satellite view of the Golden Gate Bridge"
AI: *uses maps_static_map with center: "Golden Gate Bridge, San Francisco", maptype: "satellite", zoom: 15*

User: "Mark the Louvre and the Eiffel Tower on a map of Paris"
AI: *uses maps_static_map with center: "Paris, France", zoom: 13, markers: [{location: "Louvre, Paris", color: "red", label: "L"}, {location: "Eiffel Tower, Paris", color: "blue", label: "E"}]*

User: "Save a terrain map of Yosemite Valley"
AI: *uses maps_static_map with center: "Yosemite Valley, CA", maptype: "terrain", download: true*

CONSTRAINTS:
1. zoom is 1-20 (1 = world, 20 = building)
2. size is WIDTHxHEIGHT, at most 640x640
3. marker colors: red, blue, green, purple, yellow, gray, orange, white
4. a marker label is one character, A-Z or 0-9`

	return assistantPrompt("Static Map Examples", examplesPrompt), nil
}

// StreetViewExamplesHandler returns examples for maps_street_view
func StreetViewExamplesHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	examplesPrompt := `EXAMPLES OF EFFECTIVE MAPS_STREET_VIEW USAGE:

User: "What does Times Square look like from street level?"
AI: *uses maps_street_view with location: "Times Square, New York, NY"*

User: "Look east down the street at 40.758,-73.985"
AI: *uses maps_street_view with location: "40.758,-73.985", heading: 90*

User: "Zoom in on the top of the Flatiron Building"
AI: *uses maps_street_view with location: "Flatiron Building, New York", pitch: 30, fov: 40*

CAMERA SETTINGS:
1. heading is 0-360 degrees: 0 = North, 90 = East, 180 = South, 270 = West
2. pitch is -90 to 90 degrees: positive looks up, negative looks down
3. fov is 10-120 degrees: lower values zoom in
4. set download: true to keep a local copy (saved under downloads/maps unless downloadDir is given)`

	return assistantPrompt("Street View Examples", examplesPrompt), nil
}
