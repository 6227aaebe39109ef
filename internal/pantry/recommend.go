package pantry

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/internal/normalize"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// Recommendation limits.
const (
	DefaultLimit = 20
	MaxLimit     = 50
	maxSamples   = 50
	sampleLimit  = 8 // Concurrent random lookups
)

// MatchScore describes how much of a drink the cabinet covers.
type MatchScore struct {
	Matched    int     `json:"matched"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"` // 0-100
}

// Recommendation is one sampled drink scored against the cabinet.
type Recommendation struct {
	model.CocktailDetailed
	FullyMakeable      bool       `json:"fully_makeable"`
	MissingIngredients []string   `json:"missing_ingredients"`
	MatchScore         MatchScore `json:"match_score"`
}

// Request holds recommendation options.
type Request struct {
	Cabinet           []string `json:"cabinet"`
	Limit             int      `json:"limit"` // 1..50, zero means DefaultLimit
	FullyMakeableOnly bool     `json:"fully_makeable_only"`
}

// Response is the ranked recommendation list.
type Response struct {
	Cocktails          []Recommendation `json:"cocktails"`
	TotalFound         int              `json:"total_found"`
	FullyMakeableCount int              `json:"fully_makeable_count"`
}

// Recommender samples random drinks and ranks them by cabinet coverage.
type Recommender struct {
	provider services.RandomProvider
	logger   *zap.Logger
}

// NewRecommender creates a recommender. A nil logger disables logging.
func NewRecommender(provider services.RandomProvider, logger *zap.Logger) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommender{provider: provider, logger: logger.With(zap.String("module", "pantry"))}
}

// Score computes the match score of raw ingredient names against a normalized cabinet.
func Score(ingredients []string, cabinet map[string]struct{}) MatchScore {
	if len(ingredients) == 0 {
		return MatchScore{}
	}
	matched := 0
	for _, ing := range ingredients {
		if _, ok := cabinet[normalize.Ingredient(ing)]; ok {
			matched++
		}
	}
	return MatchScore{
		Matched:    matched,
		Total:      len(ingredients),
		Percentage: float64(matched) / float64(len(ingredients)) * 100,
	}
}

// missingFrom returns ingredients whose normalized key is absent from the cabinet.
// Ingredients that normalize to nothing are never reported missing.
func missingFrom(ingredients []string, cabinet map[string]struct{}) []string {
	missing := make([]string, 0)
	for _, ing := range ingredients {
		k := normalize.Ingredient(ing)
		if k == "" {
			continue
		}
		if _, ok := cabinet[k]; !ok {
			missing = append(missing, ing)
		}
	}
	return missing
}

// Recommend samples up to min(2*limit, 50) random drinks and returns those ranked
// fully makeable first, then by match percentage. Individual lookup failures are skipped;
// an error is returned only when the context ends or every lookup failed.
func (r *Recommender) Recommend(ctx context.Context, req Request) (Response, error) {
	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return Response{}, internalErrors.NewValidationError("limit", "must be between 1 and 50")
	}

	empty := Response{Cocktails: []Recommendation{}}
	cabinet := normalize.Set(req.Cabinet)
	if len(cabinet) == 0 {
		return empty, nil
	}

	samples := limit * 2
	if samples > maxSamples {
		samples = maxSamples
	}

	var (
		mu       sync.Mutex
		drinks   = make([]*model.CocktailDetailed, 0, samples)
		seen     = make(map[string]struct{}, samples)
		failures []error
	)
	g := new(errgroup.Group)
	g.SetLimit(sampleLimit)
	for i := 0; i < samples; i++ {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			drink, err := r.provider.RandomDrink(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if !errors.Is(err, internalErrors.ErrNotFound) {
					failures = append(failures, err)
				}
				return nil
			}
			if _, dup := seen[drink.ID]; dup {
				return nil
			}
			seen[drink.ID] = struct{}{}
			drinks = append(drinks, drink)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if len(drinks) == 0 && len(failures) > 0 {
		r.logger.Warn("every random lookup failed", zap.Int("failures", len(failures)))
		return Response{}, internalErrors.NewFetchError(internalErrors.SourceRandom, "", failures[0])
	}
	if len(failures) > 0 {
		r.logger.Debug("skipped failed random lookups", zap.Int("failures", len(failures)))
	}

	results := make([]Recommendation, 0, len(drinks))
	for _, d := range drinks {
		names := d.IngredientNames()
		if len(names) == 0 {
			continue
		}
		missing := missingFrom(names, cabinet)
		rec := Recommendation{
			CocktailDetailed:   *d,
			FullyMakeable:      len(missing) == 0,
			MissingIngredients: missing,
			MatchScore:         Score(names, cabinet),
		}
		if req.FullyMakeableOnly && !rec.FullyMakeable {
			continue
		}
		results = append(results, rec)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FullyMakeable != results[j].FullyMakeable {
			return results[i].FullyMakeable
		}
		if results[i].MatchScore.Percentage != results[j].MatchScore.Percentage {
			return results[i].MatchScore.Percentage > results[j].MatchScore.Percentage
		}
		// Samples arrive in completion order
		return results[i].Name < results[j].Name
	})
	if len(results) > limit {
		results = results[:limit]
	}

	resp := Response{Cocktails: results, TotalFound: len(results)}
	for _, rec := range results {
		if rec.FullyMakeable {
			resp.FullyMakeableCount++
		}
	}
	return resp, nil
}
