// Package search implements the search ranking pipeline: query classification,
// source selection, intersection with backfill, detail hydration, scoring,
// pruning and pagination.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-cocktail-search/config"
	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/internal/metrics"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// Service runs the pipeline against a cocktail provider.
// It fulfills the services.Searcher interface.
type Service struct {
	provider services.CocktailProvider
	settings config.PipelineSettings
	generic  GenericWords
	hydrator *Hydrator
	starters []model.ScoredResult
	suggest  *Suggester
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

var _ services.Searcher = (*Service)(nil)

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) error {
		s.metrics = m
		return nil
	}
}

// NewService creates a new search Service. Zero-valued settings fields get
// their defaults before validation.
func NewService(provider services.CocktailProvider, settings config.PipelineSettings, opts ...Option) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("cocktail provider cannot be nil")
	}

	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, internalErrors.NewValidationError("pipeline", strings.Join(problems, "; "))
	}

	s := &Service{
		provider: provider,
		settings: settings,
		generic:  NewGenericWords(settings.GenericWords),
		starters: model.FromSummaries(settings.StarterSummaries()),
		logger:   zap.NewNop(),
	}
	s.suggest = NewSuggester(s.generic.Words(), starterNames(s.starters))
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	s.logger = s.logger.With(zap.String("module", "search"))

	hydrator, err := NewHydrator(provider, settings.HydrationWorkers, settings.DetailCacheTTL, s.logger, s.metrics)
	if err != nil {
		return nil, err
	}
	s.hydrator = hydrator

	return s, nil
}

// Close releases the hydration worker pool.
func (s *Service) Close() {
	s.hydrator.Release()
}

// Settings returns the effective pipeline settings.
func (s *Service) Settings() config.PipelineSettings {
	return s.settings
}

// GenericWords returns the generic word set in use.
func (s *Service) GenericWords() GenericWords {
	return s.generic
}

// Starters returns a copy of the curated starter list.
func (s *Service) Starters() []model.ScoredResult {
	out := make([]model.ScoredResult, len(s.starters))
	copy(out, s.starters)
	return out
}

// PageSize returns the number of items per page.
func (s *Service) PageSize() int {
	return s.settings.PageSize
}

// ResultCap returns the maximum number of ranked results.
func (s *Service) ResultCap() int {
	return s.settings.ResultCap
}

// Details returns the full details of one drink, sharing the hydration cache.
func (s *Service) Details(ctx context.Context, id string) (*model.CocktailDetailed, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, internalErrors.NewValidationError("id", "drink id cannot be empty")
	}
	return s.hydrator.Details(ctx, id)
}

// Plan classifies raw with the configured minimum length and generic words.
func (s *Service) Plan(raw string) services.QueryPlan {
	return Classify(raw, s.settings.MinQueryLength, s.generic)
}

// Search runs the whole pipeline for one raw query.
//
// Source failures never fail the search: the failing source counts as empty
// and the error is listed in SourceErrors. The only error returned is the
// context error when ctx is cancelled mid-run, in which case the outcome must
// be discarded.
func (s *Service) Search(ctx context.Context, raw string) (services.SearchOutcome, error) {
	start := time.Now()
	plan := s.Plan(raw)

	outcome := services.SearchOutcome{
		QueryID:        uuid.New().String(),
		Query:          plan.Trimmed,
		Classification: plan.Classification,
	}

	if plan.Classification == services.ClassificationShort {
		outcome.Results = s.Starters()
		outcome.Starters = true
		return s.finish(outcome, "starters", start), nil
	}

	fetched := s.Fetch(ctx, plan)
	outcome.SourceErrors = fetched.Errors
	if err := ctx.Err(); err != nil {
		return s.cancelled(outcome, start, err)
	}

	if fetched.Empty() {
		outcome.Results = s.Starters()
		outcome.Starters = true
		outcome.NotFoundBanner = NotFoundBanner(plan.Trimmed)
		outcome.Suggestions = s.suggest.Suggest(plan.Joined())
		return s.finish(outcome, "not_found", start), nil
	}

	var candidates []model.CocktailSummary
	if plan.Classification == services.ClassificationSingleSpecific {
		candidates = Combine(fetched.Name, fetched.Ingredient, s.settings.MinIntersection, s.settings.MaxCandidates)
	} else {
		candidates = dedupe(fetched.Name)
	}

	hydrated := s.hydrator.Hydrate(ctx, candidates, s.settings.HydrationLimit)
	if err := ctx.Err(); err != nil {
		return s.cancelled(outcome, start, err)
	}

	ranked := Rank(hydrated, plan, s.settings.Weights)
	outcome.Results = Prune(ranked, s.settings.ResultCap)

	return s.finish(outcome, "results", start), nil
}

func starterNames(starters []model.ScoredResult) []string {
	names := make([]string, len(starters))
	for i, r := range starters {
		names[i] = r.Name
	}
	return names
}

// NotFoundBanner returns the banner text shown when every source is empty.
func NotFoundBanner(query string) string {
	return "“" + query + "” not found"
}

func (s *Service) finish(outcome services.SearchOutcome, label string, start time.Time) services.SearchOutcome {
	outcome.Took = time.Since(start)
	s.metrics.RecordSearch(string(outcome.Classification), label, len(outcome.Results), outcome.Took)
	s.logger.Debug("search finished",
		zap.String("query_id", outcome.QueryID),
		zap.String("query", outcome.Query),
		zap.String("classification", string(outcome.Classification)),
		zap.String("outcome", label),
		zap.Int("results", len(outcome.Results)),
		zap.Int("source_errors", len(outcome.SourceErrors)),
		zap.Duration("took", outcome.Took),
	)
	return outcome
}

func (s *Service) cancelled(outcome services.SearchOutcome, start time.Time, err error) (services.SearchOutcome, error) {
	outcome.Took = time.Since(start)
	s.metrics.RecordSearch(string(outcome.Classification), "cancelled", 0, outcome.Took)
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("search timed out", zap.String("query", outcome.Query), zap.Duration("took", outcome.Took))
	}
	return outcome, err
}

// PageOf builds the visible page for an outcome.
func PageOf(outcome services.SearchOutcome, pager *Pager) services.ResultPage {
	page := services.ResultPage{
		Query:          outcome.Query,
		Classification: outcome.Classification,
		Visible:        pager.Visible(),
		Total:          pager.Total(),
		Pages:          pager.Pages(),
		PageSize:       pager.PageSize(),
		CanLoadMore:    pager.CanLoadMore(),
		Starters:       outcome.Starters,
		NotFoundBanner: outcome.NotFoundBanner,
		Suggestions:    outcome.Suggestions,
		QueryID:        outcome.QueryID,
	}
	if len(outcome.SourceErrors) > 0 {
		page.Error = errors.Join(outcome.SourceErrors...).Error()
	}
	return page
}
