package tools

import (
	"fmt"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
)

// Arguments are always read by name. Optional strings go through mcp-go's
// Parse helpers with their documented defaults; numbers, booleans and
// structured values are coerced with cast so a wrong type becomes a
// ValidationError instead of a silent zero.

func missing(key string) error {
	return invalidf("Missing required argument: %s", key)
}

func argument(req mcp.CallToolRequest, key string) (any, bool) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func requireString(req mcp.CallToolRequest, key string) (string, error) {
	v, ok := argument(req, key)
	if !ok {
		return "", missing(key)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", invalidf("Argument %s must be a string", key)
	}
	return s, nil
}

func requireFloat(req mcp.CallToolRequest, key string) (float64, error) {
	v, ok := argument(req, key)
	if !ok {
		return 0, missing(key)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, invalidf("Argument %s must be a number", key)
	}
	return f, nil
}

func optionalFloat(req mcp.CallToolRequest, key string, def float64) (float64, error) {
	v, ok := argument(req, key)
	if !ok {
		return def, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, invalidf("Argument %s must be a number", key)
	}
	return f, nil
}

func optionalBool(req mcp.CallToolRequest, key string, def bool) (bool, error) {
	v, ok := argument(req, key)
	if !ok {
		return def, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, invalidf("Argument %s must be a boolean", key)
	}
	return b, nil
}

// optionals reads several optional scalars and keeps the first error.
type optionals struct {
	req mcp.CallToolRequest
	err error
}

func (o *optionals) float(key string, def float64) float64 {
	v, err := optionalFloat(o.req, key, def)
	if err != nil && o.err == nil {
		o.err = err
	}
	return v
}

func (o *optionals) bool(key string, def bool) bool {
	v, err := optionalBool(o.req, key, def)
	if err != nil && o.err == nil {
		o.err = err
	}
	return v
}

func requireStrings(req mcp.CallToolRequest, key string) ([]string, error) {
	v, ok := argument(req, key)
	if !ok {
		return nil, missing(key)
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, invalidf("Argument %s must be an array of strings", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, err := cast.ToStringE(item)
		if err != nil {
			return nil, invalidf("Argument %s must be an array of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// toLocation coerces a {"latitude": .., "longitude": ..} object.
func toLocation(v any, key string) (geo.Location, error) {
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return geo.Location{}, invalidf("Argument %s must be an object with latitude and longitude", key)
	}
	lat, err := coordinate(m, key, "latitude")
	if err != nil {
		return geo.Location{}, err
	}
	lng, err := coordinate(m, key, "longitude")
	if err != nil {
		return geo.Location{}, err
	}
	return geo.Location{Latitude: lat, Longitude: lng}, nil
}

// coordinate reads one axis of a location object. cast maps nil to 0, so
// presence is checked first.
func coordinate(m map[string]any, key, axis string) (float64, error) {
	v, ok := m[axis]
	if !ok || v == nil {
		return 0, invalidf("Argument %s.%s is required", key, axis)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, invalidf("Argument %s.%s must be a number", key, axis)
	}
	return f, nil
}

func requireLocation(req mcp.CallToolRequest, key string) (geo.Location, error) {
	v, ok := argument(req, key)
	if !ok {
		return geo.Location{}, missing(key)
	}
	return toLocation(v, key)
}

func optionalLocation(req mcp.CallToolRequest, key string) (*geo.Location, error) {
	v, ok := argument(req, key)
	if !ok {
		return nil, nil
	}
	loc, err := toLocation(v, key)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func requireLocations(req mcp.CallToolRequest, key string) ([]geo.Location, error) {
	v, ok := argument(req, key)
	if !ok {
		return nil, missing(key)
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, invalidf("Argument %s must be an array of locations", key)
	}
	out := make([]geo.Location, 0, len(items))
	for i, item := range items {
		loc, err := toLocation(item, fmt.Sprintf("%s[%d]", key, i))
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}

func optionalMarkers(req mcp.CallToolRequest, key string) ([]Marker, error) {
	v, ok := argument(req, key)
	if !ok {
		return nil, nil
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, invalidf("Argument %s must be an array of marker objects", key)
	}
	out := make([]Marker, 0, len(items))
	for i, item := range items {
		m, err := cast.ToStringMapE(item)
		if err != nil {
			return nil, invalidf("Argument %s[%d] must be a marker object", key, i)
		}
		out = append(out, Marker{
			Location: cast.ToString(m["location"]),
			Color:    cast.ToString(m["color"]),
			Label:    cast.ToString(m["label"]),
		})
	}
	return out, nil
}
