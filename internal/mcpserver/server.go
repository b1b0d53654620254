// Package mcpserver exposes the weather skills as MCP tools over the
// streamable HTTP transport, so tool-calling clients can use them without
// speaking the agent RPC dialects.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/stratus-agent/stratus/internal/agent"
)

// Server wraps the mcp-go server around the weather agent.
type Server struct {
	mcpServer *server.MCPServer
	httpSrv   *server.StreamableHTTPServer
	logger    *slog.Logger
}

// New creates the MCP server and registers one tool per skill.
func New(a *agent.Agent, name, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mcpServer: server.NewMCPServer(name, version),
		logger:    logger,
	}

	s.registerTool("current_weather", "Get current weather conditions for a city.",
		func(ctx context.Context, args map[string]any) string {
			return a.CurrentWeather(ctx, stringArg(args, "city"))
		})
	s.registerTool("forecast", "Get a weather forecast for a city, up to 5 days.",
		func(ctx context.Context, args map[string]any) string {
			return a.ForecastWeather(ctx, stringArg(args, "city"), intArg(args, "days", 3))
		})
	s.registerTool("air_quality", "Get the air quality index for a city.",
		func(ctx context.Context, args map[string]any) string {
			return a.AirQualityIndex(ctx, stringArg(args, "city"))
		})
	s.registerTool("recommendations", "Get clothing and activity recommendations for a city's weather.",
		func(ctx context.Context, args map[string]any) string {
			return a.Recommendations(ctx, stringArg(args, "city"))
		})
	s.registerTool("compare", "Compare current weather between two cities.",
		func(ctx context.Context, args map[string]any) string {
			return a.CompareWeather(ctx, stringArg(args, "city1"), stringArg(args, "city2"))
		})
	s.registerTool("summary", "Get a complete weather report for a city.",
		func(ctx context.Context, args map[string]any) string {
			return a.WeatherSummary(ctx, stringArg(args, "city"))
		})
	s.registerTool("query", "Ask a weather question in natural language.",
		func(ctx context.Context, args map[string]any) string {
			return a.Query(ctx, stringArg(args, "question"))
		})

	return s
}

func (s *Server) registerTool(name, description string, run func(ctx context.Context, args map[string]any) string) {
	tool := mcp.NewTool(name, mcp.WithDescription(description))
	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]any)
		text := run(ctx, args)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.TextContent{Type: "text", Text: text},
			},
		}, nil
	})
}

// Start serves MCP over streamable HTTP on addr. Blocks until Shutdown.
func (s *Server) Start(addr string) error {
	s.httpSrv = server.NewStreamableHTTPServer(s.mcpServer)
	s.logger.Info("mcp server listening", "addr", addr)
	return s.httpSrv.Start(addr)
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key]; ok {
		return fmt.Sprint(v)
	}
	return ""
}

func intArg(args map[string]any, key string, fallback int) int {
	if args == nil {
		return fallback
	}
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
