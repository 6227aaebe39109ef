package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-cocktail-search/internal/normalize"
	testutil "github.com/gcbaptista/go-cocktail-search/internal/testing"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

func scored(details ...*model.CocktailDetailed) []model.ScoredResult {
	out := make([]model.ScoredResult, len(details))
	for i, d := range details {
		out[i] = model.ScoredResult{CocktailDetailed: *d}
	}
	return out
}

func names(results []model.ScoredResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

func TestDefaultWeightsOrder(t *testing.T) {
	w := DefaultWeights()
	assert.GreaterOrEqual(t, w.ExactName, w.PrefixName)
	assert.Greater(t, w.PrefixName, w.NameSubstring)
	assert.Greater(t, w.NameSubstring, w.Ingredient)
	assert.Greater(t, w.Ingredient, 0.0)
}

func TestRank_SignalOrder(t *testing.T) {
	candidates := scored(
		testutil.Detailed("1", "Gimlet", "gin", "lime juice"), // ingredient only
		testutil.Detailed("2", "Key Lime", "rum"),             // substring
		testutil.Detailed("3", "Lime Rickey", "gin"),          // prefix
		testutil.Detailed("4", "Lime", "lime juice"),          // exact
	)
	plan := services.QueryPlan{Tokens: []string{"lime"}, Classification: services.ClassificationSingleSpecific}

	ranked := Rank(candidates, plan, DefaultWeights())

	assert.Equal(t, []string{"Lime", "Lime Rickey", "Key Lime", "Gimlet"}, names(ranked))
}

func TestRank_StableForEqualScores(t *testing.T) {
	candidates := scored(
		testutil.Detailed("1", "Alpha Sour"),
		testutil.Detailed("2", "Beta Sour"),
		testutil.Detailed("3", "Sour Gamma"),
		testutil.Detailed("4", "Delta Sour"),
	)
	plan := services.QueryPlan{Tokens: []string{"sour"}, Classification: services.ClassificationSingleSpecific}

	ranked := Rank(candidates, plan, DefaultWeights())

	require.Len(t, ranked, 4)
	assert.Equal(t, "Sour Gamma", ranked[0].Name)
	assert.Equal(t, []string{"Alpha Sour", "Beta Sour", "Delta Sour"}, names(ranked[1:]), "ties keep candidate order")
	assert.Equal(t, ranked[1].Score, ranked[3].Score)
}

func TestRank_IsReproducible(t *testing.T) {
	candidates := scored(
		testutil.Detailed("1", "X"), testutil.Detailed("2", "Y"), testutil.Detailed("3", "Z"),
	)
	plan := services.QueryPlan{Tokens: []string{"gin"}, Classification: services.ClassificationSingleGeneric}

	first := Rank(candidates, plan, DefaultWeights())
	second := Rank(candidates, plan, DefaultWeights())

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"X", "Y", "Z"}, names(first))
}

func TestRank_IngredientSignalOnlyForSingleTokens(t *testing.T) {
	candidates := scored(
		testutil.Detailed("1", "Daiquiri", "rum", "lime juice"),
		testutil.Detailed("2", "Martini", "gin", "dry vermouth"),
	)

	generic := services.QueryPlan{Tokens: []string{"gin"}, Classification: services.ClassificationSingleGeneric}
	ranked := Rank(candidates, generic, DefaultWeights())
	assert.Equal(t, "Martini", ranked[0].Name, "generic searches prefer drinks that contain the spirit")

	multi := services.QueryPlan{Tokens: []string{"gin", "vermouth"}, Classification: services.ClassificationMulti}
	ranked = Rank(candidates, multi, DefaultWeights())
	assert.Equal(t, []string{"Daiquiri", "Martini"}, names(ranked))
	assert.Zero(t, ranked[0].Score)
	assert.Zero(t, ranked[1].Score)
}

func TestRank_DoesNotModifyInput(t *testing.T) {
	candidates := scored(testutil.Detailed("1", "Boring"), testutil.Detailed("2", "Negroni"))
	plan := services.QueryPlan{Tokens: []string{"negroni"}, Classification: services.ClassificationSingleSpecific}

	Rank(candidates, plan, DefaultWeights())

	assert.Equal(t, "Boring", candidates[0].Name)
	assert.Zero(t, candidates[1].Score)
}

func TestScore(t *testing.T) {
	w := DefaultWeights()
	tests := []struct {
		name           string
		drink          *model.CocktailDetailed
		query          string
		tokens         []string
		useIngredients bool
		want           float64
	}{
		{"exact name", testutil.Detailed("1", "Negroni"), "negroni", []string{"negroni"}, false, w.ExactName + w.NameSubstring},
		{"exact ignores case", testutil.Detailed("1", "NEGRONI"), "negroni", []string{"negroni"}, false, w.ExactName + w.NameSubstring},
		{"prefix", testutil.Detailed("1", "Negroni Sbagliato"), "negroni", []string{"negroni"}, false, w.PrefixName + w.NameSubstring},
		{"multi token substring", testutil.Detailed("1", "The Tom Collins"), "tom collins", []string{"tom", "collins"}, false, 2 * w.NameSubstring},
		{"ingredient canonical", testutil.Detailed("1", "Margarita", "triple sec"), "cointreau", []string{"cointreau"}, true, w.Ingredient},
		{"ingredient word", testutil.Detailed("1", "Gimlet", "lime juice"), "lime", []string{"lime"}, true, w.Ingredient},
		{"ingredient is not a substring match", testutil.Detailed("1", "Moscow Mule", "ginger beer"), "gin", []string{"gin"}, true, 0},
		{"ingredients ignored when disabled", testutil.Detailed("1", "Gimlet", "gin"), "gin", []string{"gin"}, false, 0},
		{"no signal", testutil.Detailed("1", "Mojito"), "zzz", []string{"zzz"}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(*tt.drink, tt.query, tt.tokens, tt.useIngredients, w)
			if got != tt.want {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.drink.Name, tt.query, got, tt.want)
			}
		})
	}
}

// published builds drink details the way the hydrator does, from raw ingredient names.
func published(id, name string, raw ...string) *model.CocktailDetailed {
	lines := make([]model.Ingredient, len(raw))
	for i, r := range raw {
		lines[i] = model.Ingredient{Name: r}
	}
	return &model.CocktailDetailed{
		CocktailSummary:       testutil.Summary(id, name),
		NormalizedIngredients: normalize.List(raw),
		Ingredients:           lines,
	}
}

func TestScore_SpiritVariants(t *testing.T) {
	w := DefaultWeights()
	tests := []struct {
		query      string
		ingredient string
		want       float64
	}{
		{"rum", "Light rum", w.Ingredient},
		{"rum", "Dark rum", w.Ingredient},
		{"rum", "Spiced Rum", w.Ingredient},
		{"whiskey", "Irish whiskey", w.Ingredient},
		{"whiskey", "Blended whiskey", w.Ingredient},
		{"vermouth", "Sweet Vermouth", w.Ingredient},
		{"vermouth", "Dry Vermouth", w.Ingredient},
		{"bitter", "Orange Bitters", w.Ingredient},
		{"gin", "Ginger Beer", 0},
		{"rum", "Drambuie", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query+"_"+tt.ingredient, func(t *testing.T) {
			drink := published("1", "Zombie Punch", tt.ingredient, "Lime juice")
			got := Score(*drink, tt.query, []string{tt.query}, true, w)
			if got != tt.want {
				t.Errorf("Score(%q, ingredient %q) = %v, want %v (normalized %v)", tt.query, tt.ingredient, got, tt.want, drink.NormalizedIngredients)
			}
		})
	}
}

func TestRank_GenericSpiritPrefersDrinksContainingIt(t *testing.T) {
	candidates := scored(
		published("1", "Screwdriver", "Vodka", "Orange juice"),
		published("2", "Cuba Libre", "Light rum", "Coca-Cola", "Lime"),
		published("3", "Manhattan", "Sweet Vermouth", "Bourbon", "Angostura bitters"),
	)

	rum := services.QueryPlan{Tokens: []string{"rum"}, Classification: services.ClassificationSingleGeneric}
	assert.Equal(t, "Cuba Libre", Rank(candidates, rum, DefaultWeights())[0].Name)

	vermouth := services.QueryPlan{Tokens: []string{"vermouth"}, Classification: services.ClassificationSingleGeneric}
	ranked := Rank(candidates, vermouth, DefaultWeights())
	assert.Equal(t, "Manhattan", ranked[0].Name)
	assert.Equal(t, DefaultWeights().Ingredient, ranked[0].Score)
}
