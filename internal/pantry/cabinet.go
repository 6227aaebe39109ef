// Package pantry matches drinks against the ingredients a user has at home.
package pantry

import (
	"strings"

	"github.com/gcbaptista/go-cocktail-search/model"
)

// Recipe is the ingredient view of a drink used by cabinet matching.
type Recipe struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"` // e.g. ["Vodka", "Lime Juice", "Simple Syrup"]
}

// RecipeFrom builds a recipe from drink details using the raw ingredient names.
func RecipeFrom(d model.CocktailDetailed) Recipe {
	return Recipe{ID: d.ID, Name: d.Name, Ingredients: d.IngredientNames()}
}

// key lowercases, trims and collapses inner whitespace.
func key(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func keySet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[key(item)] = struct{}{}
	}
	return set
}

// Missing returns the recipe ingredients not present in available, in recipe order.
func Missing(recipe Recipe, available []string) []string {
	have := keySet(available)
	missing := make([]string, 0)
	for _, ing := range recipe.Ingredients {
		if _, ok := have[key(ing)]; !ok {
			missing = append(missing, ing)
		}
	}
	return missing
}

// CanMake reports whether every recipe ingredient is available.
// Comparison ignores case and surrounding or repeated whitespace.
func CanMake(recipe Recipe, available []string) bool {
	return len(Missing(recipe, available)) == 0
}

// NeedsOneMore reports whether exactly one ingredient is missing.
func NeedsOneMore(recipe Recipe, available []string) bool {
	return len(Missing(recipe, available)) == 1
}

// ExcludeBy drops recipes that contain any excluded ingredient.
// With no exclusions the input is returned unchanged.
func ExcludeBy(recipes []Recipe, exclusions []string) []Recipe {
	if len(exclusions) == 0 {
		return recipes
	}
	ban := keySet(exclusions)
	kept := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		allowed := true
		for _, ing := range r.Ingredients {
			if _, banned := ban[key(ing)]; banned {
				allowed = false
				break
			}
		}
		if allowed {
			kept = append(kept, r)
		}
	}
	return kept
}
