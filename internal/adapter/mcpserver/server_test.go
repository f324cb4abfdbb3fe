package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factlens/internal/adapter/tool"
	"factlens/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// echoTool reflects its arguments back so the handler mapping is observable.
type echoTool struct {
	result *domain.ToolResult
}

func (e *echoTool) Name() string        { return "echo" }
func (e *echoTool) Description() string { return "echo" }
func (e *echoTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        e.Name(),
		Description: e.Description(),
		Parameters:  json.RawMessage(`{"type":"object"}`),
	}
}
func (e *echoTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	if e.result != nil {
		return e.result, nil
	}
	return &domain.ToolResult{Content: string(params)}, nil
}

func callWith(t *testing.T, dt domain.Tool, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handlerFor(dt, testLogger())(context.Background(), req)
	require.NoError(t, err)
	return result
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("content is %T, want TextContent", c)
		return ""
	}
}

func TestHandlerForwardsArguments(t *testing.T) {
	result := callWith(t, &echoTool{}, map[string]any{"claim": "x"})
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"claim":"x"}`, textOf(t, result))
}

func TestHandlerMapsErrorResult(t *testing.T) {
	result := callWith(t, &echoTool{result: &domain.ToolResult{IsError: true, Content: "boom"}},
		map[string]any{})
	assert.True(t, result.IsError)
	assert.Equal(t, "boom", textOf(t, result))
}

func TestNewRegistersRegistrySchemas(t *testing.T) {
	registry := tool.NewRegistry(nil)
	require.NoError(t, registry.Register(&echoTool{}))

	srv := New("factlens", "test", registry, testLogger())
	require.NotNil(t, srv)

	// The advertised declaration comes from the registry's schema listing.
	schemas := registry.Schemas()
	require.Len(t, schemas, 1)
	decl := toMCPTool(schemas[0])
	assert.Equal(t, "echo", decl.Name)
	assert.Equal(t, "echo", decl.Description)
}
