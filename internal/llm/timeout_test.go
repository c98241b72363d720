package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "slow" }

func TestWithTimeout_DeadlineBecomesUnavailable(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 5*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	if time.Since(start) > time.Second {
		t.Fatal("timeout did not fire")
	}

	var unavail *ErrGenerationUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrGenerationUnavailable, got: %T (%v)", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded in chain, got: %v", err)
	}
	if p.ModelID() != "slow" {
		t.Fatalf("expected ModelID to delegate, got %q", p.ModelID())
	}
}

func TestWithTimeout_NonPositiveIsNoop(t *testing.T) {
	inner := NewMockProvider()
	if p := WithTimeout(inner, 0); p != Provider(inner) {
		t.Fatalf("expected unwrapped provider, got %T", p)
	}
}
