package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"factlens/internal/domain"
	"factlens/internal/infra/config"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// BreakerVerifier wraps a Verifier with circuit breaker protection. When the
// service fails repeatedly the circuit opens and subsequent calls fail fast,
// preventing retry storms against an already-degraded upstream. Stream
// connection setup is protected; failures after the stream is established do
// not trip the breaker.
type BreakerVerifier struct {
	inner   domain.Verifier
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewBreakerVerifier wraps inner with a circuit breaker. Zero-valued config
// fields fall back to defaults.
func NewBreakerVerifier(inner domain.Verifier, cfg config.BreakerConfig, logger *slog.Logger) *BreakerVerifier {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "verify",
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			// Caller-side cancellation says nothing about service health.
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})

	return &BreakerVerifier{inner: inner, breaker: cb, logger: logger}
}

func (b *BreakerVerifier) execute(fn func() (any, error)) (any, error) {
	v, err := b.breaker.Execute(fn)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, fmt.Errorf("verification service circuit open: %w", err)
	}
	return v, err
}

// VerifyStream implements domain.Verifier.
func (b *BreakerVerifier) VerifyStream(ctx context.Context, req domain.VerifyRequest) (*domain.Outcome, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.VerifyStream(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Outcome), nil
}

// Verify implements domain.Verifier.
func (b *BreakerVerifier) Verify(ctx context.Context, req domain.VerifyRequest) (*domain.VerifyResult, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.Verify(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.VerifyResult), nil
}

// Thread implements domain.Verifier.
func (b *BreakerVerifier) Thread(ctx context.Context, id string) (*domain.VerifyResult, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.Thread(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.VerifyResult), nil
}

// UploadDocument implements domain.Verifier.
func (b *BreakerVerifier) UploadDocument(ctx context.Context, filename string, r io.Reader) (*domain.Document, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.UploadDocument(ctx, filename, r)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Document), nil
}

// State returns the current circuit breaker state for monitoring.
func (b *BreakerVerifier) State() gobreaker.State {
	return b.breaker.State()
}

// Compile-time interface check.
var _ domain.Verifier = (*BreakerVerifier)(nil)
