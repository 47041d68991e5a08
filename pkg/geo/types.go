// Package geo provides the coordinate types shared by the tools and the
// helpers that render them for upstream APIs.
package geo

import (
	"math"
	"strconv"
	"strings"
)

// Location represents a geographic coordinate (latitude and longitude)
// with standardized JSON field names. It is the shape callers use for
// tool arguments and the shape echoed back in environmental payloads.
//
// Example:
//
//	loc := geo.Location{Latitude: 37.7749, Longitude: -122.4194}
//	q.Set("latlng", loc.String()) // "37.7749,-122.4194"
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String renders the location as "lat,lng".
func (l Location) String() string {
	return FormatNumber(l.Latitude) + "," + FormatNumber(l.Longitude)
}

// LatLng is the coordinate shape Google Maps returns in geometry.location.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// JoinLocations renders locations as "lat,lng|lat,lng|...".
func JoinLocations(locs []Location) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = l.String()
	}
	return strings.Join(parts, "|")
}

// FormatNumber renders v in its shortest decimal form: 13, 37.7749, -0.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var compassPoints = [...]string{
	"North", "Northeast", "East", "Southeast",
	"South", "Southwest", "West", "Northwest",
}

// CompassDirection names the 45-degree sector heading falls in, rounding to
// the nearest point. 0 and 360 are both North.
func CompassDirection(heading float64) string {
	i := int(math.Floor(heading/45+0.5)) % len(compassPoints)
	if i < 0 {
		i += len(compassPoints)
	}
	return compassPoints[i]
}
