package tools

import (
	"bytes"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrorResponse is used for consistent error reporting. Every failure text
// starts with "Error: " so clients can detect it without parsing JSON.
func ErrorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + message)
}

// SuccessResponse renders payload as two-space indented JSON. HTML
// characters are left unescaped so image URLs keep their '&' separators and
// direction steps keep their markup.
func SuccessResponse(payload any) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(bytes.TrimRight(buf.Bytes(), "\n"))), nil
}

// Result converts a handler outcome into the wire envelope. It always
// returns a nil error so mcp-go never sees a protocol-level failure.
func Result(payload any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return ErrorResponse(err.Error()), nil
	}
	res, err := SuccessResponse(payload)
	if err != nil {
		return ErrorResponse("encode result: " + err.Error()), nil
	}
	return res, nil
}
