package tool

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"factlens/internal/domain"
	"factlens/internal/infra/tracer"
)

// ThreadTool retrieves the result of a past verification session by its
// thread id.
type ThreadTool struct {
	verifier domain.Verifier
	logger   *slog.Logger
}

// NewThreadTool creates the verification_thread tool.
func NewThreadTool(verifier domain.Verifier, logger *slog.Logger) *ThreadTool {
	return &ThreadTool{verifier: verifier, logger: logger}
}

func (t *ThreadTool) Name() string { return "verification_thread" }
func (t *ThreadTool) Description() string {
	return "Retrieve the result of a past verification session by thread id."
}

func (t *ThreadTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"thread_id": {"type": "string", "description": "The verification thread id"},
				"format": {"type": "string", "enum": ["markdown", "json"], "description": "Result format (default: markdown)"}
			},
			"required": ["thread_id"]
		}`),
	}
}

type threadParams struct {
	ThreadID string `json:"thread_id"`
	Format   string `json:"format,omitempty"`
}

func (t *ThreadTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return Execute(ctx, "tool.verification_thread", t.logger, params,
		func(ctx context.Context, span trace.Span, p threadParams) (any, error) {
			if err := ValidateAll(
				RequireField("thread_id", p.ThreadID),
				ValidateEnum("format", p.Format, "markdown", "json"),
			); err != nil {
				return nil, err
			}
			span.SetAttributes(tracer.StringAttr("tool.thread_id", p.ThreadID))

			result, err := t.verifier.Thread(ctx, p.ThreadID)
			if err != nil {
				return nil, err
			}
			if p.Format == "json" {
				return result, nil
			}
			return RenderResult(result), nil
		},
	)
}
