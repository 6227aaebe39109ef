package model

// CocktailSummary is the minimal shape returned by name search and ingredient filter lookups.
// Identity is the ID; it is unique within the underlying data source.
type CocktailSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"` // Empty when the source did not provide one
}

// HasThumbnail reports whether a thumbnail URL is present.
func (c CocktailSummary) HasThumbnail() bool {
	return c.ThumbnailURL != ""
}

// Ingredient is a single ingredient line of a drink as published by the source.
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

// CocktailDetailed is a summary enriched by hydration.
// NormalizedIngredients is empty for candidates that were not hydrated.
type CocktailDetailed struct {
	CocktailSummary
	NormalizedIngredients []string     `json:"normalized_ingredients"`
	Ingredients           []Ingredient `json:"ingredients,omitempty"`
	Category              string       `json:"category,omitempty"`
	Instructions          string       `json:"instructions,omitempty"`
}

// IngredientNames returns the raw ingredient names in source order.
func (d CocktailDetailed) IngredientNames() []string {
	names := make([]string, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// ScoredResult is a ranked pipeline result.
type ScoredResult struct {
	CocktailDetailed
	Score float64 `json:"score"`
}

// FromSummaries wraps summaries as unscored results with no ingredient signal.
func FromSummaries(items []CocktailSummary) []ScoredResult {
	out := make([]ScoredResult, len(items))
	for i, item := range items {
		out[i] = ScoredResult{CocktailDetailed: CocktailDetailed{
			CocktailSummary:       item,
			NormalizedIngredients: []string{},
		}}
	}
	return out
}
