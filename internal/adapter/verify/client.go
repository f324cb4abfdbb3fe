// Package verify implements the client adapter for the remote
// fact-verification service: plain request/response calls, document upload,
// and the streaming call whose SSE event sequence is reconstructed into a
// single VerifyResult.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"factlens/internal/adapter/sse"
	"factlens/internal/domain"
	"factlens/internal/infra/config"
	"factlens/internal/infra/tracer"
)

// Client talks to the fact-verification service over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a client with pooled transport and configured timeouts.
func NewClient(cfg config.ServiceConfig, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.factlens.dev/v1"
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestBurst())
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  newHTTPClient(cfg),
		limiter: limiter,
		logger:  logger,
	}
}

// VerifyStream implements domain.Verifier. It performs the streaming
// verification call and reconstructs the final outcome from the ordered
// event sequence.
func (c *Client) VerifyStream(ctx context.Context, req domain.VerifyRequest) (*domain.Outcome, error) {
	reqID := ulid.Make().String()
	ctx, span := tracer.StartSpan(ctx, "verify.stream",
		trace.WithAttributes(tracer.StringAttr("verify.request_id", reqID)),
	)
	defer span.End()

	if err := c.wait(ctx); err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpResp, err := doStreamRequest(ctx, c.client, c.baseURL+"/verify", body, c.headers(reqID))
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	// Fresh decoder/parser state per call; ReadFrames owns the body and
	// releases it on every exit path.
	var events []domain.ParsedEvent
	for frame := range sse.ReadFrames(ctx, httpResp.Body) {
		events = append(events, domain.DecodeFrame(frame))
	}
	if err := ctx.Err(); err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	outcome := Reconstruct(events)
	span.SetAttributes(tracer.IntAttr("verify.events", len(events)))
	tracer.SetOK(span)
	c.logger.Debug("verification stream completed",
		"request_id", reqID,
		"events", len(events),
		"resolved", outcome.Kind != domain.OutcomeUnresolved,
	)

	return &outcome, nil
}

// Verify implements domain.Verifier. Plain request/response verification.
func (c *Client) Verify(ctx context.Context, req domain.VerifyRequest) (*domain.VerifyResult, error) {
	reqID := ulid.Make().String()
	ctx, span := tracer.StartSpan(ctx, "verify.call")
	defer span.End()

	if err := c.wait(ctx); err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	req.Stream = false
	body, err := json.Marshal(req)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := doJSONRequest(ctx, c.client, http.MethodPost, c.baseURL+"/verify", body, c.headers(reqID))
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	var result domain.VerifyResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		tracer.RecordError(span, err)
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	tracer.SetOK(span)
	return &result, nil
}

// Thread implements domain.Verifier. Retrieves a past verification session.
func (c *Client) Thread(ctx context.Context, id string) (*domain.VerifyResult, error) {
	reqID := ulid.Make().String()
	ctx, span := tracer.StartSpan(ctx, "verify.thread",
		trace.WithAttributes(tracer.StringAttr("verify.thread_id", id)),
	)
	defer span.End()

	if err := c.wait(ctx); err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	respBody, err := doJSONRequest(ctx, c.client, http.MethodGet, c.baseURL+"/threads/"+id, nil, c.headers(reqID))
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	var result domain.VerifyResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		tracer.RecordError(span, err)
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	tracer.SetOK(span)
	return &result, nil
}

// UploadDocument implements domain.Verifier. Uploads a file via multipart
// POST and returns its document handle for verification by reference.
func (c *Client) UploadDocument(ctx context.Context, filename string, r io.Reader) (*domain.Document, error) {
	reqID := ulid.Make().String()
	ctx, span := tracer.StartSpan(ctx, "verify.upload",
		trace.WithAttributes(tracer.StringAttr("verify.filename", filename)),
	)
	defer span.End()

	if err := c.wait(ctx); err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents", pr)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range c.headers(reqID) {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		tracer.RecordError(span, err)
		return nil, fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		err := mapHTTPError(httpResp.StatusCode, respBody)
		tracer.RecordError(span, err)
		return nil, err
	}

	var doc domain.Document
	if err := json.Unmarshal(respBody, &doc); err != nil {
		tracer.RecordError(span, err)
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	tracer.SetOK(span)
	c.logger.Debug("document uploaded", "request_id", reqID, "document_id", doc.ID)
	return &doc, nil
}

// wait blocks until the client-side rate limiter admits the request.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// headers returns the standard request headers for one call.
func (c *Client) headers(requestID string) map[string]string {
	h := map[string]string{"X-Request-ID": requestID}
	if c.apiKey != "" {
		h["Authorization"] = "Bearer " + c.apiKey
	}
	return h
}

// Default client timeouts and pool sizing for the verification API: one
// host, moderate concurrency, long-lived streaming responses.
const (
	defaultConnTimeout = 30 * time.Second
	defaultRespTimeout = 120 * time.Second

	defaultMaxIdleConns        = 20
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 20
	defaultIdleConnTimeout     = 120 * time.Second
)

// newHTTPClient creates an *http.Client with a pooled transport. The overall
// client timeout is left unset so streaming responses are not cut off; the
// transport-level timeouts bound connection setup and first-byte latency,
// and per-call deadlines belong to the caller's context.
func newHTTPClient(cfg config.ServiceConfig) *http.Client {
	connTimeout := cfg.ConnTimeout
	if connTimeout == 0 {
		connTimeout = defaultConnTimeout
	}
	respTimeout := cfg.RespTimeout
	if respTimeout == 0 {
		respTimeout = defaultRespTimeout
	}

	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   connTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: respTimeout,
			MaxIdleConns:          defaultMaxIdleConns,
			MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
			MaxConnsPerHost:       defaultMaxConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			ForceAttemptHTTP2:     true,
		},
	}
}

// Compile-time interface check.
var _ domain.Verifier = (*Client)(nil)
