package tool

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"factlens/internal/domain"
	"factlens/internal/infra/tracer"
)

const (
	defaultMaxSources = 10
	maxMaxSources     = 50
	maxClaimLength    = 8192
)

// VerifyTool verifies a textual claim against the fact-verification service
// using the streaming endpoint.
type VerifyTool struct {
	verifier   domain.Verifier
	maxSources int
	logger     *slog.Logger
}

// NewVerifyTool creates the verify_claims tool.
func NewVerifyTool(verifier domain.Verifier, maxSources int, logger *slog.Logger) *VerifyTool {
	if maxSources <= 0 {
		maxSources = defaultMaxSources
	}
	return &VerifyTool{verifier: verifier, maxSources: maxSources, logger: logger}
}

func (t *VerifyTool) Name() string { return "verify_claims" }
func (t *VerifyTool) Description() string {
	return "Verify the factual accuracy of a claim against web sources. Complex claims are decomposed into sub-claims, each with cited evidence and a verdict."
}

func (t *VerifyTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"claim": {"type": "string", "description": "The claim to verify"},
				"thread_id": {"type": "string", "description": "Continue an earlier verification session (optional)"},
				"source_url": {"type": "string", "description": "Restrict evidence to this source URL (optional)"},
				"max_sources": {"type": "integer", "minimum": 1, "maximum": 50, "description": "Maximum sources to consult (default: 10)"}
			},
			"required": ["claim"]
		}`),
	}
}

type verifyParams struct {
	Claim      string `json:"claim"`
	ThreadID   string `json:"thread_id,omitempty"`
	SourceURL  string `json:"source_url,omitempty"`
	MaxSources int    `json:"max_sources,omitempty"`
}

func (t *VerifyTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return Execute(ctx, "tool.verify_claims", t.logger, params,
		func(ctx context.Context, span trace.Span, p verifyParams) (any, error) {
			if strings.TrimSpace(p.Claim) == "" {
				return ErrResult("'claim' must not be empty")
			}
			if len(p.Claim) > maxClaimLength {
				return ErrResult("'claim' exceeds %d characters", maxClaimLength)
			}

			if p.MaxSources <= 0 {
				p.MaxSources = t.maxSources
			}
			if err := ValidateAll(
				ValidateRange("max_sources", p.MaxSources, 1, maxMaxSources),
				ValidateURL("source_url", p.SourceURL),
			); err != nil {
				return nil, err
			}

			span.SetAttributes(tracer.IntAttr("tool.max_sources", p.MaxSources))

			outcome, err := t.verifier.VerifyStream(ctx, domain.VerifyRequest{
				Claim:      p.Claim,
				ThreadID:   p.ThreadID,
				SourceURL:  p.SourceURL,
				MaxSources: p.MaxSources,
			})
			if err != nil {
				return nil, err
			}

			if outcome.Kind == domain.OutcomeUnresolved {
				t.logger.Warn("verification stream unresolved", "events", len(outcome.Events))
			}
			return TextResult(RenderOutcome(outcome)), nil
		},
	)
}
