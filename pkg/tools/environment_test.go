package tools

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/NERVsystems/mapsmcp/pkg/testutil"
	"github.com/google/go-cmp/cmp"
)

const openMeteoBody = `{
  "latitude": 40.71, "longitude": -74.0,
  "current": {"temperature_2m": 21.4},
  "daily": {"time": ["2024-03-09"]},
  "hourly": {"time": ["2024-03-09T00:00"]}
}`

func TestOpenMeteoRequests(t *testing.T) {
	tests := []struct {
		name      string
		handler   func(*Service) ToolHandler
		args      map[string]any
		wantPath  string
		wantQuery map[string]string
		absent    []string
		wantKeys  []string
	}{
		{
			name:     "weather defaults",
			handler:  func(s *Service) ToolHandler { return s.HandleWeather },
			args:     map[string]any{"latitude": 40.7128, "longitude": -74.006},
			wantPath: "/v1/forecast",
			wantQuery: map[string]string{
				"latitude":      "40.7128",
				"longitude":     "-74.006",
				"current":       weatherCurrent,
				"daily":         weatherDaily,
				"forecast_days": "3",
				"timezone":      "auto",
			},
			absent:   []string{"hourly", "key"},
			wantKeys: []string{"location", "current", "daily"},
		},
		{
			name:     "weather hourly",
			handler:  func(s *Service) ToolHandler { return s.HandleWeather },
			args:     map[string]any{"latitude": 1, "longitude": 2, "forecast_days": 7, "include_hourly": true},
			wantPath: "/v1/forecast",
			wantQuery: map[string]string{
				"forecast_days": "7",
				"hourly":        weatherHourly,
			},
			wantKeys: []string{"location", "current", "daily", "hourly"},
		},
		{
			name:     "air quality",
			handler:  func(s *Service) ToolHandler { return s.HandleAirQuality },
			args:     map[string]any{"latitude": 1, "longitude": 2},
			wantPath: "/v1/air-quality",
			wantQuery: map[string]string{
				"current":       airQualityCurrent,
				"hourly":        airQualityHourly,
				"forecast_days": "1",
				"timezone":      "auto",
			},
			absent:   []string{"daily"},
			wantKeys: []string{"location", "current", "hourly"},
		},
		{
			name:     "solar",
			handler:  func(s *Service) ToolHandler { return s.HandleSolar },
			args:     map[string]any{"latitude": 1, "longitude": 2, "tilt": 22.5},
			wantPath: "/v1/forecast",
			wantQuery: map[string]string{
				"current":       solarCurrent,
				"hourly":        solarHourly,
				"tilt":          "22.5",
				"azimuth":       "180",
				"forecast_days": "1",
			},
			wantKeys: []string{"location", "panel_config", "current", "hourly"},
		},
		{
			name:     "pollen",
			handler:  func(s *Service) ToolHandler { return s.HandlePollen },
			args:     map[string]any{"latitude": 1, "longitude": 2},
			wantPath: "/v1/air-quality",
			wantQuery: map[string]string{
				"current":       pollenCurrent,
				"daily":         pollenDaily,
				"forecast_days": "3",
			},
			absent:   []string{"hourly"},
			wantKeys: []string{"location", "current", "daily"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, up := newTestService(t, testutil.JSON(http.StatusOK, openMeteoBody))
			text := successText(t, call(t, tt.handler(svc), tt.args))

			req := up.LastRequest(t)
			if req.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", req.Path, tt.wantPath)
			}
			for k, v := range tt.wantQuery {
				if got := req.Query.Get(k); got != v {
					t.Errorf("query %s = %q, want %q", k, got, v)
				}
			}
			for _, k := range tt.absent {
				if req.Query.Has(k) {
					t.Errorf("query should not carry %s", k)
				}
			}

			var got map[string]json.RawMessage
			if err := json.Unmarshal([]byte(text), &got); err != nil {
				t.Fatal(err)
			}
			var keys []string
			for k := range got {
				keys = append(keys, k)
			}
			if diff := cmp.Diff(tt.wantKeys, keys, sortStrings); diff != "" {
				t.Errorf("result keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSolarEchoesPanelConfig(t *testing.T) {
	svc, _ := newTestService(t, testutil.JSON(http.StatusOK, openMeteoBody))
	text := successText(t, call(t, svc.HandleSolar, map[string]any{
		"latitude": 39.5, "longitude": -105, "tilt": 30, "azimuth": 170,
	}))

	var got SolarOutput
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatal(err)
	}
	if got.PanelConfig != (PanelConfig{Tilt: 30, Azimuth: 170}) {
		t.Errorf("panel_config = %+v", got.PanelConfig)
	}
	if got.Location.Latitude != 39.5 || got.Location.Longitude != -105 {
		t.Errorf("location = %+v", got.Location)
	}
}

func TestOpenMeteoErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler func(*Service) ToolHandler
		want    string
	}{
		{"weather", func(s *Service) ToolHandler { return s.HandleWeather }, "Error: Weather request failed: request failed with status 400"},
		{"air quality", func(s *Service) ToolHandler { return s.HandleAirQuality }, "Error: Air quality request failed: request failed with status 400"},
		{"solar", func(s *Service) ToolHandler { return s.HandleSolar }, "Error: Solar request failed: request failed with status 400"},
		{"pollen", func(s *Service) ToolHandler { return s.HandlePollen }, "Error: Pollen request failed: request failed with status 400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, testutil.JSON(http.StatusBadRequest, `{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`))
			testutil.RequireError(t, call(t, tt.handler(svc), map[string]any{"latitude": 91, "longitude": 0}), tt.want)
		})
	}
}

func TestOpenMeteoMissingCoordinates(t *testing.T) {
	svc, up := newTestService(t, testutil.JSON(http.StatusOK, openMeteoBody))
	testutil.RequireError(t, call(t, svc.HandleWeather, map[string]any{"longitude": 2}), "Error: Missing required argument: latitude")
	if n := len(up.Requests()); n != 0 {
		t.Errorf("upstream called %d times for invalid input", n)
	}
}

func TestOpenMeteoArgumentTypes(t *testing.T) {
	tests := []struct {
		name    string
		handler func(*Service) ToolHandler
		args    map[string]any
		want    string
	}{
		{
			name:    "weather forecast_days",
			handler: func(s *Service) ToolHandler { return s.HandleWeather },
			args:    map[string]any{"latitude": 1, "longitude": 2, "forecast_days": "three"},
			want:    "Error: Argument forecast_days must be a number",
		},
		{
			name:    "weather include_hourly",
			handler: func(s *Service) ToolHandler { return s.HandleWeather },
			args:    map[string]any{"latitude": 1, "longitude": 2, "include_hourly": "sometimes"},
			want:    "Error: Argument include_hourly must be a boolean",
		},
		{
			name:    "air quality forecast_days",
			handler: func(s *Service) ToolHandler { return s.HandleAirQuality },
			args:    map[string]any{"latitude": 1, "longitude": 2, "forecast_days": []any{1}},
			want:    "Error: Argument forecast_days must be a number",
		},
		{
			name:    "solar azimuth",
			handler: func(s *Service) ToolHandler { return s.HandleSolar },
			args:    map[string]any{"latitude": 1, "longitude": 2, "azimuth": "south"},
			want:    "Error: Argument azimuth must be a number",
		},
		{
			name:    "pollen forecast_days",
			handler: func(s *Service) ToolHandler { return s.HandlePollen },
			args:    map[string]any{"latitude": 1, "longitude": 2, "forecast_days": "a week"},
			want:    "Error: Argument forecast_days must be a number",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, up := newTestService(t, testutil.JSON(http.StatusOK, openMeteoBody))
			text, isErr := testutil.ResultText(t, call(t, tt.handler(svc), tt.args))
			if !isErr || text != tt.want {
				t.Errorf("got (%q, %v), want (%q, true)", text, isErr, tt.want)
			}
			if n := len(up.Requests()); n != 0 {
				t.Errorf("upstream called %d times for invalid input", n)
			}
		})
	}
}

func TestHandleElevation(t *testing.T) {
	const body = `{
	  "status": "OK",
	  "results": [
	    {"elevation": 1608.637939453125, "location": {"lat": 39.7391536, "lng": -104.9847034}, "resolution": 4.771975994110107},
	    {"elevation": -50.78903579711914, "location": {"lat": 36.455556, "lng": -116.866667}, "resolution": 19.08790397644043}
	  ]
	}`
	svc, up := newTestService(t, testutil.JSON(http.StatusOK, body))
	text := successText(t, call(t, svc.HandleElevation, map[string]any{
		"locations": []any{
			map[string]any{"latitude": 39.7391536, "longitude": -104.9847034},
			map[string]any{"latitude": 36.455556, "longitude": -116.866667},
		},
	}))

	req := up.LastRequest(t)
	if req.Path != elevationPath {
		t.Errorf("path = %q", req.Path)
	}
	if got, want := req.Query.Get("locations"), "39.7391536,-104.9847034|36.455556,-116.866667"; got != want {
		t.Errorf("locations = %q, want %q", got, want)
	}

	var got ElevationOutput
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Results) != 2 || got.Results[0].Elevation != 1608.637939453125 {
		t.Errorf("unexpected results: %s", text)
	}
	if got.Results[1].Resolution == nil || *got.Results[1].Resolution != 19.08790397644043 {
		t.Errorf("resolution not carried: %s", text)
	}
}

func TestElevationErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		resp string
		want string
	}{
		{
			name: "status",
			args: map[string]any{"locations": []any{map[string]any{"latitude": 1, "longitude": 2}}},
			resp: `{"status":"INVALID_REQUEST","error_message":"Invalid request."}`,
			want: "Error: Elevation request failed: Invalid request.",
		},
		{
			name: "bad location element",
			args: map[string]any{"locations": []any{map[string]any{"latitude": "north", "longitude": 2}}},
			resp: `{"status":"OK"}`,
			want: "Error: Argument locations[0].latitude must be a number",
		},
		{
			name: "bare location element",
			args: map[string]any{"locations": []any{map[string]any{"latitude": 1, "longitude": 2}, map[string]any{}}},
			resp: `{"status":"OK"}`,
			want: "Error: Argument locations[1].latitude is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, testutil.JSON(http.StatusOK, tt.resp))
			text, isErr := testutil.ResultText(t, call(t, svc.HandleElevation, tt.args))
			if !isErr || text != tt.want {
				t.Errorf("got (%q, %v), want (%q, true)", text, isErr, tt.want)
			}
		})
	}
}
