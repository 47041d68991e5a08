package tools

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/NERVsystems/mapsmcp/pkg/geo"
	"github.com/NERVsystems/mapsmcp/pkg/testutil"
	"github.com/google/go-cmp/cmp"
)

const geocodeOK = `{
  "status": "OK",
  "results": [{
    "formatted_address": "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA",
    "place_id": "ChIJ2eUgeAK6j4ARbn5u_wAGqWA",
    "geometry": {"location": {"lat": 37.4224764, "lng": -122.0842499}},
    "address_components": [{"long_name": "1600", "short_name": "1600", "types": ["street_number"]}]
  }]
}`

func TestHandleGeocode(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		response  http.Handler
		wantError string
		want      *GeocodeOutput
	}{
		{
			name:     "first result",
			args:     map[string]any{"address": "1600 Amphitheatre Parkway"},
			response: testutil.JSON(http.StatusOK, geocodeOK),
			want: &GeocodeOutput{
				Location:         geo.LatLng{Lat: 37.4224764, Lng: -122.0842499},
				FormattedAddress: "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA",
				PlaceID:          "ChIJ2eUgeAK6j4ARbn5u_wAGqWA",
			},
		},
		{
			name:      "zero results status",
			args:      map[string]any{"address": "NonexistentPlace123456789"},
			response:  testutil.JSON(http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`),
			wantError: "Error: Geocoding failed: ZERO_RESULTS",
		},
		{
			name:      "upstream error message preferred over status",
			args:      map[string]any{"address": "x"},
			response:  testutil.JSON(http.StatusOK, `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`),
			wantError: "Error: Geocoding failed: The provided API key is invalid.",
		},
		{
			name:      "ok without results",
			args:      map[string]any{"address": "x"},
			response:  testutil.JSON(http.StatusOK, `{"status":"OK","results":[]}`),
			wantError: "Error: Geocoding failed: no results",
		},
		{
			name:      "http failure",
			args:      map[string]any{"address": "x"},
			response:  testutil.JSON(http.StatusInternalServerError, `boom`),
			wantError: "Error: Geocoding request failed: request failed with status 500: boom",
		},
		{
			name:      "missing address",
			args:      map[string]any{},
			response:  testutil.JSON(http.StatusOK, geocodeOK),
			wantError: "Error: Missing required argument: address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, tt.response)
			res := call(t, svc.HandleGeocode, tt.args)

			if tt.wantError != "" {
				text, isErr := testutil.ResultText(t, res)
				if !isErr || text != tt.wantError {
					t.Errorf("got (%q, isError=%v), want (%q, isError=true)", text, isErr, tt.wantError)
				}
				return
			}

			var got GeocodeOutput
			if err := json.Unmarshal([]byte(successText(t, res)), &got); err != nil {
				t.Fatalf("result is not JSON: %v", err)
			}
			if diff := cmp.Diff(tt.want, &got); diff != "" {
				t.Errorf("geocode output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGeocodeRequest(t *testing.T) {
	svc, up := newTestService(t, testutil.JSON(http.StatusOK, geocodeOK))
	successText(t, call(t, svc.HandleGeocode, map[string]any{"address": "Paris, France"}))

	got := up.LastRequest(t)
	if got.Path != geocodePath {
		t.Errorf("path = %q, want %q", got.Path, geocodePath)
	}
	if got.Query.Get("address") != "Paris, France" {
		t.Errorf("address = %q", got.Query.Get("address"))
	}
	if got.Query.Get("key") != testAPIKey {
		t.Errorf("key = %q, want %q", got.Query.Get("key"), testAPIKey)
	}
}

func TestHandleReverseGeocode(t *testing.T) {
	svc, up := newTestService(t, testutil.JSON(http.StatusOK, geocodeOK))
	text := successText(t, call(t, svc.HandleReverseGeocode, map[string]any{
		"latitude":  37.4224764,
		"longitude": -122.0842499,
	}))

	if q := up.LastRequest(t).Query.Get("latlng"); q != "37.4224764,-122.0842499" {
		t.Errorf("latlng = %q", q)
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	for _, key := range []string{"formatted_address", "place_id", "address_components"} {
		if _, ok := got[key]; !ok {
			t.Errorf("result lacks %q: %s", key, text)
		}
	}
	if _, ok := got["location"]; ok {
		t.Errorf("reverse geocode result should not carry location: %s", text)
	}
}

func TestHandleReverseGeocodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		response string
		want     string
	}{
		{
			name:     "status",
			args:     map[string]any{"latitude": 0, "longitude": 0},
			response: `{"status":"ZERO_RESULTS"}`,
			want:     "Error: Reverse geocoding failed: ZERO_RESULTS",
		},
		{
			name:     "missing longitude",
			args:     map[string]any{"latitude": 1},
			response: geocodeOK,
			want:     "Error: Missing required argument: longitude",
		},
		{
			name:     "latitude not a number",
			args:     map[string]any{"latitude": []any{1}, "longitude": 2},
			response: geocodeOK,
			want:     "Error: Argument latitude must be a number",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, testutil.JSON(http.StatusOK, tt.response))
			text, isErr := testutil.ResultText(t, call(t, svc.HandleReverseGeocode, tt.args))
			if !isErr || text != tt.want {
				t.Errorf("got (%q, %v), want (%q, true)", text, isErr, tt.want)
			}
		})
	}
}
