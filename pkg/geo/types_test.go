package geo

import (
	"encoding/json"
	"testing"
)

func TestCompassDirection(t *testing.T) {
	tests := []struct {
		heading float64
		want    string
	}{
		{0, "North"},
		{22.4, "North"},
		{22.5, "Northeast"},
		{45, "Northeast"},
		{90, "East"},
		{135, "Southeast"},
		{180, "South"},
		{225, "Southwest"},
		{270, "West"},
		{315, "Northwest"},
		{337.5, "North"},
		{360, "North"},
	}

	for _, tt := range tests {
		if got := CompassDirection(tt.heading); got != tt.want {
			t.Errorf("CompassDirection(%v) = %q, want %q", tt.heading, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{13, "13"},
		{37.7749, "37.7749"},
		{-122.4194, "-122.4194"},
		{0, "0"},
		{22.5, "22.5"},
		{50000, "50000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinLocations(t *testing.T) {
	locs := []Location{
		{Latitude: 39.7391536, Longitude: -104.9847034},
		{Latitude: 36.455556, Longitude: -116.866667},
	}
	want := "39.7391536,-104.9847034|36.455556,-116.866667"
	if got := JoinLocations(locs); got != want {
		t.Errorf("JoinLocations() = %q, want %q", got, want)
	}
	if got := JoinLocations(nil); got != "" {
		t.Errorf("JoinLocations(nil) = %q, want empty", got)
	}
}

func TestLocationJSON(t *testing.T) {
	data, err := json.Marshal(Location{Latitude: 1.5, Longitude: -2})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"latitude":1.5,"longitude":-2}` {
		t.Errorf("Location JSON = %s", data)
	}

	data, err = json.Marshal(LatLng{Lat: 1.5, Lng: -2})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"lat":1.5,"lng":-2}` {
		t.Errorf("LatLng JSON = %s", data)
	}
}
