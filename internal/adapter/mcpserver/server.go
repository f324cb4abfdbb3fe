// Package mcpserver exposes the tool registry to MCP clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"factlens/internal/adapter/tool"
	"factlens/internal/domain"
)

// Server wraps an MCP stdio server around a tool registry.
type Server struct {
	mcp    *server.MCPServer
	logger *slog.Logger
}

// New builds an MCP server advertising every tool in the registry.
func New(name, version string, registry *tool.Registry, logger *slog.Logger) *Server {
	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	// List and Schemas share registration order.
	schemas := registry.Schemas()
	for i, t := range registry.List() {
		s.AddTool(toMCPTool(schemas[i]), handlerFor(t, logger))
		logger.Debug("mcp tool registered", "tool", t.Name())
	}

	return &Server{mcp: s, logger: logger}
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout until the
// client disconnects or ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// toMCPTool converts a domain schema into an MCP tool declaration. The
// parameters are already a JSON Schema document, so the raw-schema
// constructor avoids a lossy round-trip through typed options.
func toMCPTool(schema domain.ToolSchema) mcp.Tool {
	return mcp.NewToolWithRawSchema(schema.Name, schema.Description, schema.Parameters)
}

// handlerFor adapts a domain.Tool to the MCP tool handler signature.
func handlerFor(t domain.Tool, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		result, err := t.Execute(ctx, args)
		if err != nil {
			// Tools report expected failures through ToolResult; an error here
			// is an adapter bug or a context cancellation.
			logger.Error("tool execution error", "tool", t.Name(), "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		if result.IsError {
			return mcp.NewToolResultError(result.Content), nil
		}
		return mcp.NewToolResultText(result.Content), nil
	}
}
