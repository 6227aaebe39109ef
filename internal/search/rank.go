package search

import (
	"sort"
	"strings"

	"github.com/gcbaptista/go-cocktail-search/config"
	"github.com/gcbaptista/go-cocktail-search/internal/normalize"
	"github.com/gcbaptista/go-cocktail-search/internal/tokenizer"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// Weights are the ranking signal weights. Tests should rely on their order,
// not on the exact values.
type Weights = config.ScoringWeights

// DefaultWeights returns the default ranking weights.
func DefaultWeights() Weights {
	return Weights{
		ExactName:     config.DefaultWeightExactName,
		PrefixName:    config.DefaultWeightPrefixName,
		NameSubstring: config.DefaultWeightNameSubstring,
		Ingredient:    config.DefaultWeightIngredient,
	}
}

// Rank scores every candidate and sorts by score, highest first.
// The sort is stable, so equal scores keep their candidate order.
// The input slice is not modified.
func Rank(candidates []model.ScoredResult, plan services.QueryPlan, w Weights) []model.ScoredResult {
	ranked := make([]model.ScoredResult, len(candidates))
	copy(ranked, candidates)

	query := strings.ToLower(plan.Joined())
	tokens := make([]string, len(plan.Tokens))
	for i, t := range plan.Tokens {
		tokens[i] = strings.ToLower(t)
	}
	useIngredients := plan.Classification.IsSingle()

	for i := range ranked {
		ranked[i].Score = Score(ranked[i].CocktailDetailed, query, tokens, useIngredients, w)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Score computes the relevance of one drink. query and tokens must be lowercased.
//
//   - name equals the query: ExactName, else name starts with the query: PrefixName
//   - each token found inside the name: NameSubstring
//   - each token found among the ingredients: Ingredient (only when useIngredients)
//
// An ingredient matches either through its normalized key or through any word
// of its published name, so "rum" matches "Light rum" although the key is "light".
func Score(drink model.CocktailDetailed, query string, tokens []string, useIngredients bool, w Weights) float64 {
	name := strings.ToLower(strings.TrimSpace(drink.Name))
	var score float64

	if query != "" {
		if name == query {
			score += w.ExactName
		} else if strings.HasPrefix(name, query) {
			score += w.PrefixName
		}
	}

	for _, token := range tokens {
		if token != "" && strings.Contains(name, token) {
			score += w.NameSubstring
		}
	}

	if useIngredients {
		for _, token := range tokens {
			if hasIngredient(drink.NormalizedIngredients, token) || hasIngredientWord(drink.Ingredients, token) {
				score += w.Ingredient
			}
		}
	}

	return score
}

// hasIngredient matches a query token against normalized ingredients, either
// as the token's canonical ingredient or as one word of an ingredient.
func hasIngredient(ingredients []string, token string) bool {
	if token == "" || len(ingredients) == 0 {
		return false
	}
	canonical := normalize.Ingredient(token)
	for _, ing := range ingredients {
		if ing == token || (canonical != "" && ing == canonical) {
			return true
		}
		for _, word := range tokenizer.Tokenize(ing) {
			if word == token {
				return true
			}
		}
	}
	return false
}

// hasIngredientWord matches a query token against the words of the published
// ingredient names, folding simple plurals on both sides.
func hasIngredientWord(ingredients []model.Ingredient, token string) bool {
	if token == "" {
		return false
	}
	singular := singularize(token)
	for _, ing := range ingredients {
		for _, word := range tokenizer.Tokenize(ing.Name) {
			if word == token || singularize(word) == singular {
				return true
			}
		}
	}
	return false
}

func singularize(word string) string {
	switch {
	case len(word) > 3 && strings.HasSuffix(word, "ies"):
		return word[:len(word)-3] + "y"
	case len(word) > 3 && strings.HasSuffix(word, "s"):
		return word[:len(word)-1]
	}
	return word
}
