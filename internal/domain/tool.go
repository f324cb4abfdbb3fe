package domain

import (
	"context"
	"encoding/json"
	"io"
)

// ToolSchema describes a tool for the MCP tool-listing protocol.
type ToolSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolResult is the outcome of executing a tool.
type ToolResult struct {
	Content     string `json:"content"`
	IsError     bool   `json:"is_error"`
	IsRetryable bool   `json:"is_retryable,omitempty"`
}

// Tool is the interface every tool must implement.
type Tool interface {
	Name() string
	Description() string
	Schema() ToolSchema
	Execute(ctx context.Context, params json.RawMessage) (*ToolResult, error)
}

// Verifier abstracts the remote fact-verification service for the tool layer.
type Verifier interface {
	// VerifyStream performs a streaming verification and reconstructs the
	// final outcome from the event stream.
	VerifyStream(ctx context.Context, req VerifyRequest) (*Outcome, error)
	// Verify performs a plain request/response verification.
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
	// Thread retrieves the result of a past verification session.
	Thread(ctx context.Context, id string) (*VerifyResult, error)
	// UploadDocument uploads a file and returns its document handle.
	UploadDocument(ctx context.Context, filename string, r io.Reader) (*Document, error)
}
