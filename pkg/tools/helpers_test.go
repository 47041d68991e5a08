package tools

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/NERVsystems/mapsmcp/pkg/config"
	"github.com/NERVsystems/mapsmcp/pkg/download"
	"github.com/NERVsystems/mapsmcp/pkg/fetch"
	"github.com/NERVsystems/mapsmcp/pkg/testutil"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mark3labs/mcp-go/mcp"
)

const testAPIKey = "test-key"

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

var sortStrings = cmpopts.SortSlices(func(a, b string) bool { return a < b })

// newTestService returns a Service whose upstreams all point at one stub
// server, plus the stub so tests can inspect what was sent.
func newTestService(t *testing.T, handler http.Handler) (*Service, *testutil.Upstream) {
	t.Helper()
	up := testutil.NewUpstream(t, handler)
	logger := testutil.DiscardLogger()
	client := fetch.New(fetch.WithHTTPClient(up.Client()), fetch.WithLogger(logger))
	svc := NewService(testAPIKey,
		WithClient(client),
		WithEndpoints(config.Endpoints{
			GoogleMaps: up.URL,
			Routes:     up.URL + "/directions/v2:computeRoutes",
			Forecast:   up.URL + "/v1/forecast",
			AirQuality: up.URL + "/v1/air-quality",
		}),
		WithDownloader(download.New(client,
			download.WithDir(t.TempDir()),
			download.WithClock(func() time.Time { return fixedTime }),
			download.WithLogger(logger))),
		WithLogger(logger),
	)
	return svc, up
}

// call invokes a handler the way mcp-go would, with a named argument bag.
func call(t *testing.T, h ToolHandler, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error %v, want nil", err)
	}
	return res
}

// successText returns the text of a success result, failing on an error result.
func successText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	text, isErr := testutil.ResultText(t, res)
	if isErr {
		t.Fatalf("unexpected error result: %s", text)
	}
	return text
}
