// Package service runs batch analyses: it fetches the report documents of
// every permutation of a build from storage, analyzes them in parallel and
// publishes the summaries to storage and the database.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/compile-report/internal/analyzer"
	"github.com/compile-report/internal/repository"
	"github.com/compile-report/internal/storage"
	"github.com/compile-report/pkg/config"
	"github.com/compile-report/pkg/model"
	"github.com/compile-report/pkg/utils"
)

// DefaultTopN is the number of packages and classes kept per breakdown.
const DefaultTopN = 20

// maxDiscoveredPermutations bounds permutation discovery.
const maxDiscoveredPermutations = 1024

// Options selects the build processed by Run.
type Options struct {
	// Prefix is the storage prefix holding the build's documents.
	Prefix string

	// Label names the build in the database.
	Label string

	// Permutations to process. Empty means every permutation found under
	// Prefix, counting up from 0.
	Permutations []int

	// TopN bounds the top package and class listings. Defaults to
	// DefaultTopN.
	TopN int
}

// Outcome is the result of one permutation.
type Outcome struct {
	PermutationID int                  `json:"permutation_id"`
	Summary       *model.ReportSummary `json:"-"`
	SummaryKey    string               `json:"summary_key,omitempty"`
	Violations    int                  `json:"violations"`
	Duration      time.Duration        `json:"duration"`
	Err           error                `json:"-"`
}

// RunReport is the result of one Run.
type RunReport struct {
	Label    string    `json:"label"`
	Outcomes []Outcome `json:"outcomes"`
	Failed   int       `json:"failed"`
}

// Service is the batch analysis service.
type Service struct {
	config    *config.Config
	logger    utils.Logger
	clock     utils.Clock
	tracing   bool
	storage   storage.Storage
	summaries repository.SummaryRepository
	db        *repository.Repositories
	batch     *analyzer.BatchAnalyzer
}

// Option customises a Service.
type Option func(*Service)

// WithStorage uses s instead of the configured storage.
func WithStorage(s storage.Storage) Option {
	return func(svc *Service) { svc.storage = s }
}

// WithSummaryRepository uses r instead of the configured database.
func WithSummaryRepository(r repository.SummaryRepository) Option {
	return func(svc *Service) { svc.summaries = r }
}

// WithClock sets the clock stamping summaries.
func WithClock(c utils.Clock) Option {
	return func(svc *Service) { svc.clock = c }
}

// WithTracing records database statements as spans.
func WithTracing(enabled bool) Option {
	return func(svc *Service) { svc.tracing = enabled }
}

// New creates a new Service instance.
func New(cfg *config.Config, logger utils.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	s := &Service{
		config: cfg,
		logger: logger,
		clock:  utils.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.batch = analyzer.NewBatchAnalyzer(analyzer.ConfigFromApp(cfg, logger), cfg.Analysis.MaxWorkers)
	return s, nil
}

// Initialize connects the storage and, when enabled, the database, unless
// they were injected.
func (s *Service) Initialize(ctx context.Context) error {
	if s.storage == nil {
		s.logger.Info("Initializing storage (%s)...", s.config.Storage.Type)
		store, err := storage.NewStorage(&s.config.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		s.storage = store
	}

	if s.summaries == nil && s.config.Database.Enabled {
		s.logger.Info("Connecting to database (%s)...", s.config.Database.Type)
		gormDB, err := repository.NewGormDB(&s.config.Database, s.tracing)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		s.db = repository.NewRepositories(gormDB)
		s.summaries = s.db.Summary
	}
	return nil
}

// Run analyzes the permutations selected by opts. Failures of single
// permutations are reported in the RunReport; the error is reserved for
// failures that stop the whole run.
func (s *Service) Run(ctx context.Context, opts Options) (*RunReport, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}

	ids := dedupe(opts.Permutations)
	if len(ids) == 0 {
		var err error
		if ids, err = s.DiscoverPermutations(ctx, opts.Prefix); err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("no permutations found under %q", opts.Prefix)
		}
	}
	s.logger.Info("Analyzing %d permutations of %q", len(ids), opts.Label)

	report := &RunReport{Label: opts.Label, Outcomes: make([]Outcome, len(ids))}
	var inputs []*model.PermutationInput
	position := make(map[int]int, len(ids))
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	for i, id := range ids {
		report.Outcomes[i].PermutationID = id
		in, opened, err := s.open(ctx, opts.Prefix, id)
		closers = append(closers, opened...)
		if err != nil {
			report.Outcomes[i].Err = err
			continue
		}
		position[id] = i
		inputs = append(inputs, in)
	}

	for _, br := range s.batch.AnalyzeAll(ctx, inputs) {
		out := &report.Outcomes[position[br.PermutationID]]
		out.Duration = br.Duration
		if br.Err != nil {
			out.Err = br.Err
			continue
		}
		out.Violations = len(br.Result.Violations)
		out.Summary = br.Result.Summary(opts.TopN, s.clock.Now())
		out.SummaryKey, out.Err = s.publish(ctx, opts, out.Summary)
	}

	for _, out := range report.Outcomes {
		if out.Err != nil {
			report.Failed++
			s.logger.Error("permutation %d: %v", out.PermutationID, out.Err)
		}
	}
	s.logger.Info("Finished %q: %d permutations, %d failed", opts.Label, len(ids), report.Failed)
	return report, nil
}

// DiscoverPermutations lists the permutations under prefix by probing for
// size maps from 0 up to the first gap.
func (s *Service) DiscoverPermutations(ctx context.Context, prefix string) ([]int, error) {
	var ids []int
	for id := 0; id < maxDiscoveredPermutations; id++ {
		ok, err := s.storage.Exists(ctx, storage.KeysFor(prefix, id).SizeMap)
		if err != nil {
			return nil, fmt.Errorf("failed to probe permutation %d: %w", id, err)
		}
		if !ok {
			break
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Summary loads a stored permutation summary from the database.
func (s *Service) Summary(ctx context.Context, label string, permutationID int) (*model.ReportSummary, error) {
	if s.summaries == nil {
		return nil, fmt.Errorf("database is not enabled")
	}
	return s.summaries.GetPermutation(ctx, label, permutationID)
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *Service) open(ctx context.Context, prefix string, id int) (*model.PermutationInput, []io.Closer, error) {
	keys := storage.KeysFor(prefix, id)
	var closers []io.Closer

	sizeMap, err := s.storage.Download(ctx, keys.SizeMap)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download size map: %w", err)
	}
	closers = append(closers, sizeMap)
	in := &model.PermutationInput{PermutationID: id, SizeMap: sizeMap}

	splitPoints, err := storage.OpenOptional(ctx, s.storage, keys.SplitPoints)
	if err != nil {
		return nil, closers, fmt.Errorf("failed to download split points: %w", err)
	}
	if splitPoints != nil {
		closers = append(closers, splitPoints)
		in.SplitPoints = splitPoints
	}

	deps, err := storage.OpenOptional(ctx, s.storage, keys.Dependencies)
	if err != nil {
		return nil, closers, fmt.Errorf("failed to download dependencies: %w", err)
	}
	if deps != nil {
		closers = append(closers, deps)
		in.Dependencies = deps
	}
	return in, closers, nil
}

func (s *Service) publish(ctx context.Context, opts Options, summary *model.ReportSummary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	key := storage.SummaryKey(opts.Prefix, summary.PermutationID)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to upload summary: %w", err)
	}

	if s.summaries != nil {
		if err := s.summaries.SaveReport(ctx, opts.Label, summary); err != nil {
			return key, fmt.Errorf("failed to save summary: %w", err)
		}
	}
	return key, nil
}

// Stop releases the database connection.
func (s *Service) Stop() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection: %v", err)
			return err
		}
	}
	return nil
}

// HealthCheck performs a health check on the service.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
	}
	return nil
}

// Stats returns pool statistics of the analyses run so far.
func (s *Service) Stats() ServiceStats {
	m := s.batch.Metrics()
	return ServiceStats{
		Analyzed: m.CompletedTasks,
		Failed:   m.FailedTasks,
		Elapsed:  m.TotalDuration,
	}
}

// ServiceStats holds service statistics.
type ServiceStats struct {
	Analyzed int64         `json:"analyzed"`
	Failed   int64         `json:"failed"`
	Elapsed  time.Duration `json:"elapsed"`
}
