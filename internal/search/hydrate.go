package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/internal/metrics"
	"github.com/gcbaptista/go-cocktail-search/internal/normalize"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// Hydrator attaches full drink details to a bounded prefix of candidates.
// Lookups run on a worker pool and successful ones are cached for a TTL.
type Hydrator struct {
	provider services.CocktailProvider
	pool     *ants.Pool
	cache    *cache.Cache
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewHydrator creates a hydrator with the given pool size and cache TTL.
// Call Release when done.
func NewHydrator(provider services.CocktailProvider, workers int, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) (*Hydrator, error) {
	if provider == nil {
		return nil, fmt.Errorf("cocktail provider cannot be nil")
	}
	if workers <= 0 {
		return nil, fmt.Errorf("hydration workers must be positive, got %d", workers)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create hydration pool: %w", err)
	}

	return &Hydrator{
		provider: provider,
		pool:     pool,
		cache:    cache.New(ttl, 2*ttl),
		logger:   logger,
		metrics:  m,
	}, nil
}

// Release stops the worker pool.
func (h *Hydrator) Release() {
	h.pool.Release()
}

// Hydrate returns the candidates as unscored results, in the same order.
// The first limit candidates get ingredients and, when missing, a thumbnail
// from their details. A failed lookup leaves that item with an empty
// ingredient list and does not affect the others.
func (h *Hydrator) Hydrate(ctx context.Context, candidates []model.CocktailSummary, limit int) []model.ScoredResult {
	out := model.FromSummaries(candidates)
	if limit > len(out) {
		limit = len(out)
	}

	var wg sync.WaitGroup
	for i := 0; i < limit; i++ {
		i := i
		wg.Add(1)
		err := h.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			details, err := h.Details(ctx, out[i].ID)
			if err != nil {
				h.logger.Debug("hydration lookup failed",
					zap.String("drink_id", out[i].ID),
					zap.Error(err),
				)
				return
			}
			attach(&out[i], details)
		})
		if err != nil {
			wg.Done()
			h.logger.Warn("failed to submit hydration task", zap.String("drink_id", out[i].ID), zap.Error(err))
		}
	}
	wg.Wait()

	return out
}

// Details returns the full details of one drink, from cache when possible.
func (h *Hydrator) Details(ctx context.Context, id string) (*model.CocktailDetailed, error) {
	if cached, ok := h.cache.Get(id); ok {
		h.metrics.RecordHydration("hit")
		return cached.(*model.CocktailDetailed), nil
	}

	details, err := h.provider.GetDetailsByID(ctx, id)
	if err != nil {
		h.metrics.RecordHydration("error")
		if errors.Is(err, internalErrors.ErrNotFound) {
			return nil, err
		}
		return nil, internalErrors.NewFetchError(internalErrors.SourceDetails, id, err)
	}
	if details == nil {
		h.metrics.RecordHydration("error")
		return nil, internalErrors.NewDrinkNotFoundError(id)
	}

	h.metrics.RecordHydration("miss")
	if len(details.NormalizedIngredients) == 0 && len(details.Ingredients) > 0 {
		details.NormalizedIngredients = normalize.List(details.IngredientNames())
	}
	h.cache.SetDefault(id, details)
	return details, nil
}

// attach copies detail data onto a result, keeping its identity and name.
func attach(result *model.ScoredResult, details *model.CocktailDetailed) {
	result.NormalizedIngredients = append([]string{}, details.NormalizedIngredients...)
	result.Ingredients = append([]model.Ingredient{}, details.Ingredients...)
	result.Category = details.Category
	result.Instructions = details.Instructions
	if !result.HasThumbnail() && details.HasThumbnail() {
		result.ThumbnailURL = details.ThumbnailURL
	}
}
