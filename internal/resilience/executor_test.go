package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorRunsThroughAllLayers(t *testing.T) {
	exec := NewExecutor()
	val, err := exec.Run(context.Background(), ProfileDatabase, "catalog.find", func(ctx context.Context) (any, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

func TestExecutorMemoizesStateByName(t *testing.T) {
	exec := NewExecutor()
	profile := ProfileLLM
	profile.CircuitBreaker = &CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Hour, SuccessThreshold: 1}
	profile.Retry = RetryConfig{MaxAttempts: 1}

	failing := func(ctx context.Context) (any, error) { return nil, errors.New("down") }

	_, err := exec.Run(context.Background(), profile, "llm.extract", failing)
	require.Error(t, err)

	_, err = exec.Run(context.Background(), profile, "llm.extract", failing)
	var openErr *CircuitBreakerOpenError
	require.ErrorAs(t, err, &openErr)

	assert.True(t, exec.BreakerIsOpen("llm.extract"))
	summary := exec.GetHealthSummary()
	assert.False(t, summary.Healthy)
	assert.Contains(t, summary.OpenCircuits, "llm.extract")
}
