package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/mcptest"
)

func TestPromptHandlers(t *testing.T) {
	tests := []struct {
		name      string
		wantTitle string
		contains  []string
	}{
		{"maps_usage", "Google Maps Tool Usage Guidelines", []string{"maps_geocode", "Error: ", "No routes found."}},
		{"static_map_examples", "Static Map Examples", []string{"maps_static_map", "640x640", "label"}},
		{"street_view_examples", "Street View Examples", []string{"maps_street_view", "heading", "fov"}},
	}

	byName := make(map[string]func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error))
	for _, p := range Prompts() {
		byName[p.Prompt.Name] = p.Handler
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, ok := byName[tt.name]
			if !ok {
				t.Fatalf("prompt %q not registered", tt.name)
			}
			res, err := handler(context.Background(), mcp.GetPromptRequest{})
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if res.Description != tt.wantTitle {
				t.Errorf("title = %q, want %q", res.Description, tt.wantTitle)
			}
			if len(res.Messages) != 1 || res.Messages[0].Role != mcp.RoleAssistant {
				t.Fatalf("messages = %+v, want one assistant message", res.Messages)
			}
			tc, ok := mcp.AsTextContent(res.Messages[0].Content)
			if !ok {
				t.Fatalf("content is %T, want text", res.Messages[0].Content)
			}
			for _, s := range tt.contains {
				if !strings.Contains(tc.Text, s) {
					t.Errorf("prompt text lacks %q", s)
				}
			}
		})
	}
}

func TestPromptsOverMCP(t *testing.T) {
	srv := mcptest.NewUnstartedServer(t)
	srv.AddPrompts(Prompts()...)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start mcptest server: %v", err)
	}
	defer srv.Close()

	list, err := srv.Client().ListPrompts(context.Background(), mcp.ListPromptsRequest{})
	if err != nil {
		t.Fatalf("list prompts: %v", err)
	}
	var names []string
	for _, p := range list.Prompts {
		names = append(names, p.Name)
	}
	want := []string{"maps_usage", "static_map_examples", "street_view_examples"}
	if diff := cmp.Diff(want, names, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("prompt names mismatch (-want +got):\n%s", diff)
	}
}

