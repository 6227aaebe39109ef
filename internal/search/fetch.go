package search

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// FetchResult holds what each source returned for one plan.
// A failed source contributes an empty slice and an entry in Errors.
type FetchResult struct {
	Name       []model.CocktailSummary
	Ingredient []model.CocktailSummary
	Errors     []error
}

// Empty reports whether every source came back empty.
func (r FetchResult) Empty() bool {
	return len(r.Name) == 0 && len(r.Ingredient) == 0
}

// Fetch calls the lookups the plan's classification asks for.
// Multi-token and generic queries use name search only. Specific single tokens
// run name search and ingredient filter concurrently with the same token.
// Short queries make no calls.
func (s *Service) Fetch(ctx context.Context, plan services.QueryPlan) FetchResult {
	result := FetchResult{
		Name:       []model.CocktailSummary{},
		Ingredient: []model.CocktailSummary{},
	}
	if plan.Classification == services.ClassificationShort {
		return result
	}

	query := plan.Joined()
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.provider.SearchByName(gctx, query)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			result.Errors = append(result.Errors, s.sourceFailed(internalErrors.SourceName, query, err))
			return nil
		}
		result.Name = nonNil(items)
		return nil
	})

	if plan.Classification == services.ClassificationSingleSpecific {
		g.Go(func() error {
			items, err := s.provider.FilterByIngredient(gctx, query)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, s.sourceFailed(internalErrors.SourceIngredient, query, err))
				return nil
			}
			result.Ingredient = nonNil(items)
			return nil
		})
	}

	// Lookups never return errors to the group, failures are recorded instead
	_ = g.Wait()
	return result
}

func (s *Service) sourceFailed(source internalErrors.Source, query string, err error) error {
	fetchErr := internalErrors.NewFetchError(source, query, err)
	s.metrics.RecordSourceFailure(string(source), failureKind(err))
	s.logger.Warn("source lookup failed, using empty result",
		zap.String("source", string(source)),
		zap.String("query", query),
		zap.Error(err),
	)
	return fetchErr
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, internalErrors.ErrParseFailure):
		return "parse"
	case errors.Is(err, internalErrors.ErrNetworkFailure):
		return "network"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}

func nonNil(items []model.CocktailSummary) []model.CocktailSummary {
	if items == nil {
		return []model.CocktailSummary{}
	}
	return items
}
