package tool

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"factlens/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type echoParams struct {
	Text string `json:"text"`
}

func TestExecuteStringResult(t *testing.T) {
	result, err := Execute(context.Background(), "tool.test", testLogger(), json.RawMessage(`{"text":"hi"}`),
		func(ctx context.Context, span trace.Span, p echoParams) (any, error) {
			return "echo: " + p.Text, nil
		},
	)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "echo: hi", result.Content)
}

func TestExecuteStructResultMarshaled(t *testing.T) {
	result, err := Execute(context.Background(), "tool.test", testLogger(), json.RawMessage(`{}`),
		func(ctx context.Context, span trace.Span, p echoParams) (any, error) {
			return map[string]int{"n": 3}, nil
		},
	)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"n":3}`, result.Content)
}

func TestExecuteToolResultPassthrough(t *testing.T) {
	custom := &domain.ToolResult{Content: "custom", IsError: true}
	result, err := Execute(context.Background(), "tool.test", testLogger(), json.RawMessage(`{}`),
		func(ctx context.Context, span trace.Span, p echoParams) (any, error) {
			return custom, nil
		},
	)
	require.NoError(t, err)
	assert.Same(t, custom, result)
}

func TestExecuteInvalidParams(t *testing.T) {
	result, err := Execute(context.Background(), "tool.test", testLogger(), json.RawMessage(`{not json`),
		func(ctx context.Context, span trace.Span, p echoParams) (any, error) {
			t.Fatal("handler must not run on bad params")
			return nil, nil
		},
	)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "invalid params")
}

func TestExecuteRetryableError(t *testing.T) {
	result, err := Execute(context.Background(), "tool.test", testLogger(), json.RawMessage(`{}`),
		func(ctx context.Context, span trace.Span, p echoParams) (any, error) {
			return nil, domain.NewDomainError("tool.test", domain.ErrRateLimit, "slow down")
		},
	)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.True(t, result.IsRetryable)
	assert.Contains(t, result.Content, "may succeed on retry")
}

func TestExecuteNonRetryableError(t *testing.T) {
	result, err := Execute(context.Background(), "tool.test", testLogger(), json.RawMessage(`{}`),
		func(ctx context.Context, span trace.Span, p echoParams) (any, error) {
			return nil, domain.NewDomainError("tool.test", domain.ErrInvalidInput, "bad claim")
		},
	)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.False(t, result.IsRetryable)
	assert.NotContains(t, result.Content, "may succeed on retry")
}

func TestErrResult(t *testing.T) {
	result, err := ErrResult("bad value %d", 7)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "bad value 7", result.Content)
}

func TestTextResult(t *testing.T) {
	result := TextResult("plain")
	assert.False(t, result.IsError)
	assert.Equal(t, "plain", result.Content)
}
