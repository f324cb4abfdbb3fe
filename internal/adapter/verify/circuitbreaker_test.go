package verify

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sony/gobreaker/v2"

	"factlens/internal/domain"
	"factlens/internal/infra/config"
)

// fakeVerifier returns canned values and counts calls.
type fakeVerifier struct {
	err   error
	calls int
}

func (f *fakeVerifier) VerifyStream(ctx context.Context, req domain.VerifyRequest) (*domain.Outcome, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Outcome{Kind: domain.OutcomeFinal, Result: &domain.VerifyResult{ThreadID: "t1"}}, nil
}

func (f *fakeVerifier) Verify(ctx context.Context, req domain.VerifyRequest) (*domain.VerifyResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.VerifyResult{ThreadID: "t1"}, nil
}

func (f *fakeVerifier) Thread(ctx context.Context, id string) (*domain.VerifyResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.VerifyResult{ThreadID: id}, nil
}

func (f *fakeVerifier) UploadDocument(ctx context.Context, filename string, r io.Reader) (*domain.Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Document{ID: "doc1", Filename: filename}, nil
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	fake := &fakeVerifier{}
	b := NewBreakerVerifier(fake, config.BreakerConfig{}, testLogger())

	outcome, err := b.VerifyStream(context.Background(), domain.VerifyRequest{Claim: "x"})
	if err != nil {
		t.Fatalf("VerifyStream: %v", err)
	}
	if outcome.Result.ThreadID != "t1" {
		t.Errorf("outcome = %+v", outcome)
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	fake := &fakeVerifier{err: domain.ErrServiceUnavailable}
	b := NewBreakerVerifier(fake, config.BreakerConfig{MaxFailures: 2}, testLogger())

	for i := 0; i < 2; i++ {
		if _, err := b.Verify(context.Background(), domain.VerifyRequest{Claim: "x"}); !errors.Is(err, domain.ErrServiceUnavailable) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open after %d failures", b.State(), 2)
	}

	callsBefore := fake.calls
	_, err := b.Verify(context.Background(), domain.VerifyRequest{Claim: "x"})
	if err == nil {
		t.Fatal("expected fail-fast error while open")
	}
	if !strings.Contains(err.Error(), "circuit open") {
		t.Errorf("err = %v, want circuit-open wrapper", err)
	}
	if fake.calls != callsBefore {
		t.Error("open breaker must not reach the service")
	}
}

func TestBreakerIgnoresCallerCancellation(t *testing.T) {
	fake := &fakeVerifier{err: context.Canceled}
	b := NewBreakerVerifier(fake, config.BreakerConfig{MaxFailures: 2}, testLogger())

	for i := 0; i < 5; i++ {
		b.Verify(context.Background(), domain.VerifyRequest{Claim: "x"})
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, cancellations must not trip the breaker", b.State())
	}
}

func TestBreakerCoversAllOperations(t *testing.T) {
	fake := &fakeVerifier{err: domain.ErrServiceUnavailable}
	b := NewBreakerVerifier(fake, config.BreakerConfig{MaxFailures: 4}, testLogger())

	ctx := context.Background()
	b.VerifyStream(ctx, domain.VerifyRequest{})
	b.Verify(ctx, domain.VerifyRequest{})
	b.Thread(ctx, "t1")
	b.UploadDocument(ctx, "f.txt", strings.NewReader(""))

	if b.State() != gobreaker.StateOpen {
		t.Errorf("state = %v, want open; all operations share one breaker", b.State())
	}
}
