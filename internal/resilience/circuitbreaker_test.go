package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("llm", CircuitBreakerConfig{
		FailureThreshold: 5,
		OpenTimeout:      60 * time.Second,
		SuccessThreshold: 2,
	})

	failing := func(ctx context.Context) (any, error) { return nil, errors.New("boom") }

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(context.Background(), failing)
		require.Error(t, err)
		var openErr *CircuitBreakerOpenError
		assert.False(t, errors.As(err, &openErr))
	}

	start := time.Now()
	_, err := cb.Execute(context.Background(), failing)
	elapsed := time.Since(start)

	var openErr *CircuitBreakerOpenError
	require.ErrorAs(t, err, &openErr)
	assert.Less(t, elapsed, 10*time.Millisecond)
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker("llm", CircuitBreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      10 * time.Millisecond,
		SuccessThreshold: 2,
	})
	failing := func(ctx context.Context) (any, error) { return nil, errors.New("boom") }
	ok := func(ctx context.Context) (any, error) { return "ok", nil }

	_, _ = cb.Execute(context.Background(), failing)
	_, _ = cb.Execute(context.Background(), failing)
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(15 * time.Millisecond)

	_, err := cb.Execute(context.Background(), ok)
	require.NoError(t, err)
	assert.Equal(t, StateHalfOpen, cb.State())

	_, err = cb.Execute(context.Background(), ok)
	require.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("llm", CircuitBreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      5 * time.Millisecond,
		SuccessThreshold: 1,
	})
	failing := func(ctx context.Context) (any, error) { return nil, errors.New("boom") }

	_, _ = cb.Execute(context.Background(), failing)
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(10 * time.Millisecond)
	_, err := cb.Execute(context.Background(), failing)
	require.Error(t, err)
	assert.Equal(t, StateOpen, cb.State())
}
