package telemetry

import (
	"context"
	"testing"

	"github.com/NERVsystems/mapsmcp/pkg/config"
	"github.com/NERVsystems/mapsmcp/pkg/testutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestSetupDisabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Setup(context.Background(), config.Tracing{}, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Error("disabled Setup replaced the global tracer provider")
	}
}

func TestSetupEnabled(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	cfg := config.Tracing{Enabled: true, Endpoint: "http://127.0.0.1:4318", ServiceName: "mapsmcp-test"}
	shutdown, err := Setup(context.Background(), cfg, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if otel.GetTracerProvider() == before {
		t.Error("enabled Setup did not install a tracer provider")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestResource(t *testing.T) {
	tests := []struct {
		name    string
		service string
		want    string
	}{
		{"explicit", "maps-prod", "maps-prod"},
		{"fallback", "", "mapsmcp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resource(tt.service)
			v, ok := res.Set().Value(attribute.Key("service.name"))
			if !ok || v.AsString() != tt.want {
				t.Errorf("service.name = %v (present %v), want %q", v.AsString(), ok, tt.want)
			}
		})
	}
}
