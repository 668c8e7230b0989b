// Package analyzer runs the full analysis of compiler permutations:
// ingestion of the three report documents, the classification post-pass
// and partition verification.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/compile-report/internal/advisor"
	"github.com/compile-report/internal/callgraph"
	"github.com/compile-report/internal/classify"
	"github.com/compile-report/internal/parser"
	"github.com/compile-report/internal/parser/depgraph"
	"github.com/compile-report/internal/parser/sizemap"
	"github.com/compile-report/internal/parser/splitpoint"
	"github.com/compile-report/pkg/compression"
	"github.com/compile-report/pkg/config"
	apperrors "github.com/compile-report/pkg/errors"
	"github.com/compile-report/pkg/filter"
	"github.com/compile-report/pkg/model"
	"github.com/compile-report/pkg/telemetry"
	"github.com/compile-report/pkg/utils"
)

// Phase names, also used as span suffixes and timing keys.
const (
	PhaseSplitPoints  = "splitpoints"
	PhaseSizeMap      = "sizemap"
	PhaseHeuristics   = "heuristics"
	PhaseVerify       = "verify"
	PhaseDependencies = "dependencies"
)

// maxLoggedViolations caps the per-permutation partition warnings.
const maxLoggedViolations = 10

// Config holds configuration for the permutation analyzer.
type Config struct {
	// Filter decides inline categories. Defaults to filter.DefaultFilter.
	Filter *filter.CategoryFilter

	// MaxChainLength bounds dependency chains resolved from results.
	MaxChainLength int

	// Logger is used for progress and warnings. If nil, logs are suppressed.
	Logger utils.Logger

	// Verbose prints a phase timing summary per permutation.
	Verbose bool

	// Clock drives phase timing. Defaults to the real clock.
	Clock utils.Clock
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		Filter:         filter.DefaultFilter,
		MaxChainLength: callgraph.DefaultMaxChainLength,
	}
}

// ConfigFromApp derives analyzer configuration from the application config.
func ConfigFromApp(cfg *config.Config, logger utils.Logger) *Config {
	f := filter.NewCategoryFilter(filter.RulesFromConfig(cfg.Classify))
	if cfg.Classify.CacheSize > 0 {
		f.SetCacheSize(cfg.Classify.CacheSize)
	}
	return &Config{
		Filter:         f,
		MaxChainLength: cfg.Analysis.MaxChainLength,
		Logger:         logger,
	}
}

// Result is the outcome of analyzing one permutation.
type Result struct {
	Report *model.PermutationReport

	// Graphs holds the dependency graphs in document order, nil when the
	// input had no dependency document.
	Graphs *callgraph.Set

	// Violations lists classes that are not in exactly one category after
	// the classification pass.
	Violations []classify.Violation

	Stats   map[parser.DocumentKind]*parser.Stats
	Timings map[string]int64

	maxChainLength int
}

// Resolver returns a dependency chain resolver over the result's graphs.
// A result without a parsed Set falls back to the report's flattened
// graphs.
func (r *Result) Resolver() (*callgraph.Resolver, error) {
	graphs := r.Graphs
	if graphs == nil && r.Report != nil && r.Report.DependencyGraphs != nil {
		graphs = callgraph.SetFromMap(r.Report.DependencyGraphs)
	}
	if graphs == nil {
		return nil, apperrors.ReferenceErrorf("permutation %d has no dependency graphs", r.Report.PermutationID)
	}
	return callgraph.NewResolver(graphs, r.maxChainLength), nil
}

// Explain resolves why method is live in graph.
func (r *Result) Explain(graph, method string) (*callgraph.Chain, error) {
	resolver, err := r.Resolver()
	if err != nil {
		return nil, err
	}
	return resolver.Explain(graph, method)
}

// Summary digests the report for storage and display and attaches the
// size hints of the default advisor rules.
func (r *Result) Summary(topN int, analyzedAt time.Time) *model.ReportSummary {
	s := model.Summarize(r.Report, topN, analyzedAt)
	s.Suggestions = advisor.NewAdvisor().Advise(s)
	return s
}

// PermutationAnalyzer analyzes one permutation at a time. It holds no
// per-permutation state and may be shared by concurrent callers.
type PermutationAnalyzer struct {
	config      *Config
	logger      utils.Logger
	splitPoints *splitpoint.Parser
	sizeMap     *sizemap.Parser
	deps        *depgraph.Parser
}

// NewPermutationAnalyzer creates a new analyzer.
func NewPermutationAnalyzer(cfg *Config) *PermutationAnalyzer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := utils.OrNull(cfg.Logger)
	return &PermutationAnalyzer{
		config:      cfg,
		logger:      logger,
		splitPoints: splitpoint.NewParser(logger),
		sizeMap:     sizemap.NewParser(&sizemap.Options{Filter: cfg.Filter, Logger: logger}),
		deps:        depgraph.NewParser(logger),
	}
}

// Analyze ingests in and runs the classification pass. Split points are
// ingested before the size map because fragment numbers resolve against
// the number of split points. Every document may be plain, gzip or zstd
// compressed.
func (a *PermutationAnalyzer) Analyze(ctx context.Context, in *model.PermutationInput) (*Result, error) {
	if in == nil {
		return nil, ErrNilInput
	}
	if in.SizeMap == nil {
		return nil, fmt.Errorf("permutation %d: %w", in.PermutationID, ErrMissingSizeMap)
	}

	ctx, span := telemetry.StartSpan(ctx, "analyze.permutation", attribute.Int("permutation", in.PermutationID))
	result, err := a.analyze(ctx, in)
	telemetry.EndSpan(span, err)
	return result, err
}

func (a *PermutationAnalyzer) analyze(ctx context.Context, in *model.PermutationInput) (*Result, error) {
	logger := a.logger.WithField("permutation", in.PermutationID)
	opts := []utils.TimerOption{}
	if a.config.Verbose {
		opts = append(opts, utils.WithLogger(logger))
	}
	if a.config.Clock != nil {
		opts = append(opts, utils.WithClock(a.config.Clock))
	}
	timer := utils.NewTimer(fmt.Sprintf("permutation %d", in.PermutationID), opts...)

	report := model.NewPermutationReport(in.PermutationID)
	result := &Result{
		Report:         report,
		Stats:          make(map[parser.DocumentKind]*parser.Stats),
		maxChainLength: a.config.MaxChainLength,
	}

	run := func(name string, fn func(ctx context.Context) error) error {
		ctx, span := telemetry.StartSpan(ctx, "analyze."+name, attribute.Int("permutation", in.PermutationID))
		pt := timer.Start(name)
		err := fn(ctx)
		pt.Stop()
		telemetry.EndSpan(span, err)
		if err != nil {
			return fmt.Errorf("permutation %d: %s: %w", in.PermutationID, name, err)
		}
		return nil
	}

	if in.SplitPoints != nil {
		if err := run(PhaseSplitPoints, func(ctx context.Context) error {
			return a.ingest(ctx, a.splitPoints, in.SplitPoints, result)
		}); err != nil {
			return nil, err
		}
	}

	if err := run(PhaseSizeMap, func(ctx context.Context) error {
		return a.ingest(ctx, a.sizeMap, in.SizeMap, result)
	}); err != nil {
		return nil, err
	}

	_ = run(PhaseHeuristics, func(context.Context) error {
		classify.Apply(report)
		return nil
	})

	_ = run(PhaseVerify, func(context.Context) error {
		result.Violations = classify.Verify(report)
		for i, v := range result.Violations {
			if i == maxLoggedViolations {
				logger.Warn("%d more partition violations not shown", len(result.Violations)-i)
				break
			}
			logger.Warn("partition violation: %s", v)
		}
		return nil
	})

	if in.Dependencies != nil {
		if err := run(PhaseDependencies, func(ctx context.Context) error {
			return a.ingestDependencies(ctx, in.Dependencies, result)
		}); err != nil {
			return nil, err
		}
	}

	result.Timings = timer.ToMap()
	timer.PrintSummary()
	logger.Info("analyzed %d classes in %d packages, total size %d", len(report.ClassToPackage), len(report.PackageToClasses), report.Total().TotalSize)
	return result, nil
}

func (a *PermutationAnalyzer) ingest(ctx context.Context, ing parser.Ingestor, r io.Reader, result *Result) error {
	rc, err := open(r)
	if err != nil {
		return err
	}
	defer rc.Close()

	stats, err := ing.Ingest(ctx, rc, result.Report)
	if stats != nil {
		result.Stats[ing.Kind()] = stats
	}
	return err
}

func (a *PermutationAnalyzer) ingestDependencies(ctx context.Context, r io.Reader, result *Result) error {
	rc, err := open(r)
	if err != nil {
		return err
	}
	defer rc.Close()

	set, stats, err := a.deps.Parse(ctx, rc)
	result.Stats[parser.DocumentDependencies] = stats
	if err != nil {
		return err
	}
	result.Graphs = set
	result.Report.DependencyGraphs = set.ToMap()
	return nil
}

func open(r io.Reader) (io.ReadCloser, error) {
	rc, _, err := compression.NewReader(r)
	if err != nil {
		return nil, apperrors.WrapFormat(err, "unreadable document stream")
	}
	return rc, nil
}
