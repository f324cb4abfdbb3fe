package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/trace"

	"factlens/internal/domain"
	"factlens/internal/infra/tracer"
)

const defaultUploadMaxBytes = 25 * 1024 * 1024

// DocumentTool uploads a local file to the verification service and verifies
// the claims it contains.
type DocumentTool struct {
	verifier domain.Verifier
	maxBytes int64
	logger   *slog.Logger
}

// NewDocumentTool creates the verify_document tool.
func NewDocumentTool(verifier domain.Verifier, maxBytes int64, logger *slog.Logger) *DocumentTool {
	if maxBytes <= 0 {
		maxBytes = defaultUploadMaxBytes
	}
	return &DocumentTool{verifier: verifier, maxBytes: maxBytes, logger: logger}
}

func (t *DocumentTool) Name() string { return "verify_document" }
func (t *DocumentTool) Description() string {
	return "Upload a document and verify the factual claims it contains. Returns per-claim verdicts with cited evidence."
}

func (t *DocumentTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {"type": "string", "description": "Path to the document to verify"},
				"max_sources": {"type": "integer", "minimum": 1, "maximum": 50, "description": "Maximum sources per claim (default: 10)"}
			},
			"required": ["path"]
		}`),
	}
}

type documentParams struct {
	Path       string `json:"path"`
	MaxSources int    `json:"max_sources,omitempty"`
}

func (t *DocumentTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return Execute(ctx, "tool.verify_document", t.logger, params,
		func(ctx context.Context, span trace.Span, p documentParams) (any, error) {
			if err := RequireField("path", p.Path); err != nil {
				return nil, err
			}

			info, err := os.Stat(p.Path)
			if err != nil {
				return nil, fmt.Errorf("stat document: %w", err)
			}
			if info.Size() > t.maxBytes {
				return nil, domain.NewDomainError("verify_document", domain.ErrDocumentTooLarge,
					fmt.Sprintf("%d bytes (limit %d)", info.Size(), t.maxBytes))
			}

			f, err := os.Open(p.Path)
			if err != nil {
				return nil, fmt.Errorf("open document: %w", err)
			}
			defer f.Close()

			doc, err := t.verifier.UploadDocument(ctx, filepath.Base(p.Path), f)
			if err != nil {
				return nil, err
			}
			span.SetAttributes(tracer.StringAttr("tool.document_id", doc.ID))
			t.logger.Debug("document uploaded for verification", "document_id", doc.ID, "bytes", info.Size())

			outcome, err := t.verifier.VerifyStream(ctx, domain.VerifyRequest{
				DocumentID: doc.ID,
				MaxSources: p.MaxSources,
			})
			if err != nil {
				return nil, err
			}
			return RenderOutcome(outcome), nil
		},
	)
}
