package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NERVsystems/mapsmcp/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ToolHandler is the signature shared by every tool binding.
type ToolHandler func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ToolDefinition represents a Google Maps MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     ToolHandler
}

// Registry holds all MCP tool registrations and routes calls to them by name.
type Registry struct {
	svc    *Service
	logger *slog.Logger
	tracer trace.Tracer
	defs   []ToolDefinition
	byName map[string]ToolDefinition
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithTracer sets the tracer used for dispatch spans.
func WithTracer(t trace.Tracer) RegistryOption {
	return func(r *Registry) { r.tracer = t }
}

// NewRegistry creates a new MCP tool registry backed by svc.
func NewRegistry(svc *Service, logger *slog.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		svc:    svc,
		logger: logger,
		tracer: telemetry.Tracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.defs = r.buildDefinitions()
	r.byName = make(map[string]ToolDefinition, len(r.defs))
	for _, def := range r.defs {
		r.byName[def.Name] = def
	}
	return r
}

// tool pairs a schema with its handler; the name and description come from
// the schema so the two cannot drift apart.
func tool(t mcp.Tool, h ToolHandler) ToolDefinition {
	return ToolDefinition{
		Name:        t.Name,
		Description: t.Description,
		Tool:        t,
		Handler:     h,
	}
}

func (r *Registry) buildDefinitions() []ToolDefinition {
	s := r.svc
	return []ToolDefinition{
		// Geocoding
		tool(GeocodeTool(), s.HandleGeocode),
		tool(ReverseGeocodeTool(), s.HandleReverseGeocode),

		// Places
		tool(SearchPlacesTool(), s.HandleSearchPlaces),
		tool(PlaceDetailsTool(), s.HandlePlaceDetails),

		// Routing and terrain
		tool(DistanceMatrixTool(), s.HandleDistanceMatrix),
		tool(ElevationTool(), s.HandleElevation),
		tool(DirectionsTool(), s.HandleDirections),
		tool(RoutesTool(), s.HandleRoutes),

		// Environment
		tool(WeatherTool(), s.HandleWeather),
		tool(AirQualityTool(), s.HandleAirQuality),
		tool(SolarTool(), s.HandleSolar),
		tool(PollenTool(), s.HandlePollen),

		// Imagery
		tool(StreetViewTool(), s.HandleStreetView),
		tool(StaticMapTool(), s.HandleStaticMap),
	}
}

// GetToolDefinitions returns all tool definitions in registration order.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	out := make([]ToolDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Dispatch invokes the named tool with args and always returns an envelope.
// Unknown names, handler errors and handler panics all become error results.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	callID := uuid.NewString()
	logger := r.logger.With("tool", name, "call_id", callID)

	ctx, span := r.tracer.Start(ctx, "tools."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("mcp.tool.name", name),
			attribute.String("mcp.tool.call_id", callID),
		))
	defer span.End()

	start := time.Now()
	res := r.invoke(ctx, name, args, logger)

	span.SetAttributes(attribute.Bool("mcp.tool.is_error", res.IsError))
	if res.IsError {
		span.SetStatus(codes.Error, resultText(res))
		logger.Warn("tool call failed", "elapsed", time.Since(start), "message", resultText(res))
	} else {
		logger.Info("tool call completed", "elapsed", time.Since(start))
	}
	return res
}

func (r *Registry) invoke(ctx context.Context, name string, args map[string]any, logger *slog.Logger) (res *mcp.CallToolResult) {
	def, ok := r.byName[name]
	if !ok {
		return ErrorResponse(fmt.Errorf("%w: %s", ErrUnknownTool, name).Error())
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("tool handler panicked", "panic", p)
			res = ErrorResponse(fmt.Sprintf("Error invoking handler: %v", p))
		}
	}()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	logger.Debug("dispatching tool call", "args", len(args))
	out, err := def.Handler(ctx, req)
	if err != nil {
		return ErrorResponse("Error invoking handler: " + err.Error())
	}
	if out == nil {
		return ErrorResponse("Error invoking handler: handler returned no result")
	}
	return out
}

// RegisterTools registers all tools with the MCP server. Calls are routed
// through Dispatch so MCP clients see exactly what Dispatch returns.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	mcpServer.AddTools(r.ServerTools()...)
}

// ServerTools returns the tool set in the form mcp-go and mcptest accept.
func (r *Registry) ServerTools() []server.ServerTool {
	tools := make([]server.ServerTool, 0, len(r.defs))
	for _, def := range r.defs {
		r.logger.Info("registering tool", "name", def.Name)
		name := def.Name
		tools = append(tools, server.ServerTool{
			Tool: def.Tool,
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return r.Dispatch(ctx, name, req.GetArguments()), nil
			},
		})
	}
	return tools
}

// resultText returns the text of the first content block, if any.
func resultText(res *mcp.CallToolResult) string {
	if len(res.Content) == 0 {
		return ""
	}
	if tc, ok := mcp.AsTextContent(res.Content[0]); ok {
		return tc.Text
	}
	return ""
}
