package parallel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig()
	assert.GreaterOrEqual(t, cfg.MaxWorkers, 2)
	assert.LessOrEqual(t, cfg.MaxWorkers, 8)
	assert.Equal(t, 3, cfg.WithWorkers(3).MaxWorkers)
}

func TestWorkerPool_ExecuteFuncKeepsOrder(t *testing.T) {
	pool := NewWorkerPool[int, int](DefaultPoolConfig().WithWorkers(4))
	inputs := []int{5, 4, 3, 2, 1, 0}

	results := pool.ExecuteFunc(context.Background(), inputs, func(ctx context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		if n == 2 {
			return 0, errors.New("boom")
		}
		return n * n, nil
	})

	require.Len(t, results, len(inputs))
	for i, r := range results {
		assert.Equal(t, inputs[i], r.Input)
		if inputs[i] == 2 {
			assert.EqualError(t, r.Error, "boom")
			continue
		}
		assert.NoError(t, r.Error)
		assert.Equal(t, inputs[i]*inputs[i], r.Result)
	}

	m := pool.Metrics()
	assert.Equal(t, int64(6), m.TotalTasks)
	assert.Equal(t, int64(1), m.FailedTasks)
	assert.Equal(t, int64(5), m.CompletedTasks)
	assert.Greater(t, m.TotalDuration, time.Duration(0))
}

func TestWorkerPool_MetricsAccumulate(t *testing.T) {
	pool := NewWorkerPool[int, int](PoolConfig{MaxWorkers: 2})
	square := func(ctx context.Context, n int) (int, error) { return n * n, nil }

	pool.ExecuteFunc(context.Background(), []int{1, 2}, square)
	pool.ExecuteFunc(context.Background(), []int{3}, square)

	m := pool.Metrics()
	assert.Equal(t, int64(3), m.TotalTasks)
	assert.Equal(t, int64(3), m.CompletedTasks)
}

func TestWorkerPool_Empty(t *testing.T) {
	pool := NewWorkerPool[int, int](PoolConfig{})
	assert.Nil(t, pool.ExecuteFunc(context.Background(), nil, func(ctx context.Context, n int) (int, error) {
		return n, nil
	}))
}

func TestWorkerPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewWorkerPool[int, int](PoolConfig{MaxWorkers: 1})
	results := pool.ExecuteFunc(ctx, []int{1, 2, 3}, func(ctx context.Context, n int) (int, error) {
		return n, ctx.Err()
	})

	require.Len(t, results, 3)
	for _, r := range results {
		assert.ErrorIs(t, r.Error, context.Canceled)
	}
}
