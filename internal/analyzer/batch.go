package analyzer

import (
	"context"
	"time"

	"github.com/compile-report/pkg/model"
	"github.com/compile-report/pkg/parallel"
	"github.com/compile-report/pkg/utils"
)

// BatchResult pairs one input with its analysis outcome.
type BatchResult struct {
	PermutationID int
	Result        *Result
	Err           error
	Duration      time.Duration
}

// BatchAnalyzer analyzes independent permutations in parallel. Each
// permutation owns its report; nothing mutable is shared between them.
type BatchAnalyzer struct {
	analyzer *PermutationAnalyzer
	pool     *parallel.WorkerPool[*model.PermutationInput, *Result]
	logger   utils.Logger
}

// NewBatchAnalyzer creates a batch analyzer running at most workers
// permutations at once. A non-positive workers uses the pool default.
func NewBatchAnalyzer(cfg *Config, workers int) *BatchAnalyzer {
	a := NewPermutationAnalyzer(cfg)
	poolCfg := parallel.DefaultPoolConfig()
	if workers > 0 {
		poolCfg = poolCfg.WithWorkers(workers)
	}
	return &BatchAnalyzer{
		analyzer: a,
		pool:     parallel.NewWorkerPool[*model.PermutationInput, *Result](poolCfg),
		logger:   a.logger,
	}
}

// AnalyzeAll analyzes every input. Results keep input order; one failing
// permutation does not stop the others.
func (b *BatchAnalyzer) AnalyzeAll(ctx context.Context, inputs []*model.PermutationInput) []BatchResult {
	tasks := b.pool.ExecuteFunc(ctx, inputs, b.analyzer.Analyze)

	out := make([]BatchResult, len(tasks))
	failed := 0
	for i, t := range tasks {
		id := -1
		if t.Input != nil {
			id = t.Input.PermutationID
		}
		out[i] = BatchResult{PermutationID: id, Result: t.Result, Err: t.Error, Duration: t.Duration}
		if t.Error != nil {
			failed++
			b.logger.Error("permutation %d failed: %v", id, t.Error)
		}
	}
	b.logger.Info("analyzed %d permutations, %d failed", len(inputs), failed)
	return out
}

// Metrics returns pool statistics accumulated over all AnalyzeAll calls.
func (b *BatchAnalyzer) Metrics() parallel.PoolMetrics {
	return b.pool.Metrics()
}
