// Package parallel runs independent units of work, such as permutations,
// on a bounded pool of goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// PoolConfig configures the worker pool behavior.
type PoolConfig struct {
	// MaxWorkers is the maximum number of concurrent workers.
	// Default: NumCPU clamped to [2, 8]
	MaxWorkers int
}

// DefaultPoolConfig returns a default pool configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MaxWorkers: min(max(runtime.NumCPU(), 2), 8)}
}

// WithWorkers returns a new config with the specified number of workers.
func (c PoolConfig) WithWorkers(n int) PoolConfig {
	c.MaxWorkers = n
	return c
}

// PoolMetrics accumulates over every ExecuteFunc call of a pool.
type PoolMetrics struct {
	TotalTasks     int64
	CompletedTasks int64
	FailedTasks    int64
	// TotalDuration is wall time spent inside ExecuteFunc.
	TotalDuration time.Duration
}

// TaskResult holds the result of one input.
type TaskResult[T any, R any] struct {
	Input    T
	Result   R
	Error    error
	Duration time.Duration
}

// WorkerPool runs a function over a slice of inputs in parallel.
type WorkerPool[T any, R any] struct {
	workers int

	mu      sync.Mutex
	metrics PoolMetrics
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool[T any, R any](config PoolConfig) *WorkerPool[T, R] {
	workers := config.MaxWorkers
	if workers <= 0 {
		workers = DefaultPoolConfig().MaxWorkers
	}
	return &WorkerPool[T, R]{workers: workers}
}

// ExecuteFunc applies fn to every input. Results keep input order. Inputs
// not handed to a worker before ctx is done carry ctx's error and are not
// counted as tasks.
func (p *WorkerPool[T, R]) ExecuteFunc(ctx context.Context, inputs []T, fn func(ctx context.Context, input T) (R, error)) []TaskResult[T, R] {
	if len(inputs) == 0 {
		return nil
	}

	start := time.Now()
	results := make([]TaskResult[T, R], len(inputs))
	started := make([]bool, len(inputs))
	indexCh := make(chan int)

	var wg sync.WaitGroup
	for range min(p.workers, len(inputs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				taskStart := time.Now()
				result, err := fn(ctx, inputs[idx])
				results[idx] = TaskResult[T, R]{
					Input:    inputs[idx],
					Result:   result,
					Error:    err,
					Duration: time.Since(taskStart),
				}
				p.record(err)
			}
		}()
	}

submit:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break submit
		case indexCh <- i:
			started[i] = true
		}
	}
	close(indexCh)
	wg.Wait()

	for i, ok := range started {
		if !ok {
			results[i] = TaskResult[T, R]{Input: inputs[i], Error: ctx.Err()}
		}
	}

	p.mu.Lock()
	p.metrics.TotalDuration += time.Since(start)
	p.mu.Unlock()
	return results
}

func (p *WorkerPool[T, R]) record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.metrics.TotalTasks++
	if err != nil {
		p.metrics.FailedTasks++
	} else {
		p.metrics.CompletedTasks++
	}
}

// Metrics returns the current execution metrics.
func (p *WorkerPool[T, R]) Metrics() PoolMetrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metrics
}
