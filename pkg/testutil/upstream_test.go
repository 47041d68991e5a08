package testutil

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestUpstreamRecordsRequests(t *testing.T) {
	up := NewUpstream(t, JSON(http.StatusOK, `{"status":"OK"}`))

	resp, err := http.Post(up.URL+"/v1/forecast?latitude=1", "application/json", strings.NewReader(`{"a":1}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if string(body) != `{"status":"OK"}` {
		t.Errorf("body = %s", body)
	}

	got := up.LastRequest(t)
	if got.Method != http.MethodPost {
		t.Errorf("Method = %s, want POST", got.Method)
	}
	if got.Path != "/v1/forecast" {
		t.Errorf("Path = %s", got.Path)
	}
	if got.Query.Get("latitude") != "1" {
		t.Errorf("latitude = %q", got.Query.Get("latitude"))
	}
	if string(got.Body) != `{"a":1}` {
		t.Errorf("Body = %s", got.Body)
	}
	if n := len(up.Requests()); n != 1 {
		t.Errorf("recorded %d requests, want 1", n)
	}
}

func TestResultText(t *testing.T) {
	text, isErr := ResultText(t, mcp.NewToolResultError("Error: boom"))
	if !isErr || text != "Error: boom" {
		t.Errorf("ResultText() = %q, %v", text, isErr)
	}

	text, isErr = ResultText(t, mcp.NewToolResultText("{}"))
	if isErr || text != "{}" {
		t.Errorf("ResultText() = %q, %v", text, isErr)
	}
}
