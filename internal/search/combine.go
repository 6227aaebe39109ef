package search

import "github.com/gcbaptista/go-cocktail-search/model"

// Combine merges name and ingredient results for a specific single-token query.
//
// The candidates are the drinks present in both lists, in name order. When that
// intersection has fewer than minIntersection items, the remaining name results
// are appended in name order until maxCandidates is reached. Ingredient-only
// drinks are never backfilled.
//
// The rules above apply whenever name search returned something. The one
// exception is an empty name result: the ingredient results are then used as
// they are, so a working ingredient lookup is not reported as not found.
//
// The output has no duplicate ids and at most maxCandidates items when maxCandidates > 0.
func Combine(nameResults, ingredientResults []model.CocktailSummary, minIntersection, maxCandidates int) []model.CocktailSummary {
	names := dedupe(nameResults)
	if len(names) == 0 {
		return truncate(dedupe(ingredientResults), maxCandidates)
	}

	inIngredients := make(map[string]struct{}, len(ingredientResults))
	for _, item := range ingredientResults {
		inIngredients[item.ID] = struct{}{}
	}

	candidates := make([]model.CocktailSummary, 0, len(names))
	included := make(map[string]struct{}, len(names))
	for _, item := range names {
		if _, ok := inIngredients[item.ID]; ok {
			candidates = append(candidates, item)
			included[item.ID] = struct{}{}
		}
	}

	if len(candidates) < minIntersection {
		for _, item := range names {
			if maxCandidates > 0 && len(candidates) >= maxCandidates {
				break
			}
			if _, ok := included[item.ID]; ok {
				continue
			}
			candidates = append(candidates, item)
			included[item.ID] = struct{}{}
		}
	}

	return truncate(candidates, maxCandidates)
}

// dedupe drops repeated ids, keeping the first occurrence.
func dedupe(items []model.CocktailSummary) []model.CocktailSummary {
	seen := make(map[string]struct{}, len(items))
	out := make([]model.CocktailSummary, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

func truncate(items []model.CocktailSummary, limit int) []model.CocktailSummary {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
