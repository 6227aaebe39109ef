package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	testutil "github.com/gcbaptista/go-cocktail-search/internal/testing"
	"github.com/gcbaptista/go-cocktail-search/model"
)

func newTestHydrator(t *testing.T, provider *testutil.FakeProvider) *Hydrator {
	t.Helper()
	h, err := NewHydrator(provider, 4, time.Minute, nil, nil)
	require.NoError(t, err)
	t.Cleanup(h.Release)
	return h
}

func TestNewHydrator_Errors(t *testing.T) {
	_, err := NewHydrator(nil, 4, time.Minute, nil, nil)
	assert.Error(t, err)

	_, err = NewHydrator(testutil.NewFakeProvider(), 0, time.Minute, nil, nil)
	assert.Error(t, err)
}

func TestHydrate_KeepsOrderAndBoundsLookups(t *testing.T) {
	provider := testutil.NewFakeProvider()
	candidates := testutil.Summaries(50, "Drink", 1)
	for _, c := range candidates {
		provider.AddDetails(testutil.Detailed(c.ID, c.Name, "gin"))
	}
	provider.Delay = time.Millisecond
	h := newTestHydrator(t, provider)

	out := h.Hydrate(context.Background(), candidates, 40)

	require.Len(t, out, 50)
	for i := range out {
		assert.Equal(t, candidates[i].ID, out[i].ID, "hydration never reorders")
	}
	assert.Len(t, provider.CallsTo(testutil.MethodGetDetailsByID), 40)
	assert.Equal(t, []string{"gin"}, out[39].NormalizedIngredients)
	assert.NotNil(t, out[40].NormalizedIngredients)
	assert.Empty(t, out[40].NormalizedIngredients, "items past the prefix keep an empty ingredient signal")
}

func TestHydrate_ToleratesFailures(t *testing.T) {
	provider := testutil.NewFakeProvider()
	candidates := testutil.Summaries(3, "Drink", 1)
	provider.AddDetails(testutil.Detailed("1", "Drink 0", "rum"), testutil.Detailed("3", "Drink 2", "gin"))
	h := newTestHydrator(t, provider)

	out := h.Hydrate(context.Background(), candidates, 40)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"rum"}, out[0].NormalizedIngredients)
	assert.Empty(t, out[1].NormalizedIngredients, "missing details leave the item unhydrated")
	assert.Equal(t, []string{"gin"}, out[2].NormalizedIngredients)
}

func TestHydrate_FillsMissingThumbnails(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.AddDetails(testutil.Detailed("1", "Negroni", "gin", "campari"))
	h := newTestHydrator(t, provider)

	candidates := []model.CocktailSummary{{ID: "1", Name: "Negroni"}}
	out := h.Hydrate(context.Background(), candidates, 40)

	assert.Equal(t, "https://example.test/1.jpg", out[0].ThumbnailURL)
	assert.Equal(t, "Cocktail", out[0].Category)
}

func TestHydrate_KeepsExistingThumbnail(t *testing.T) {
	provider := testutil.NewFakeProvider()
	details := testutil.Detailed("1", "Negroni")
	details.ThumbnailURL = "https://example.test/other.jpg"
	provider.AddDetails(details)
	h := newTestHydrator(t, provider)

	out := h.Hydrate(context.Background(), []model.CocktailSummary{testutil.Summary("1", "Negroni")}, 40)

	assert.Equal(t, "https://example.test/1.jpg", out[0].ThumbnailURL)
}

func TestHydrate_CachesDetails(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.AddDetails(testutil.Detailed("1", "Negroni", "gin"))
	h := newTestHydrator(t, provider)
	candidates := []model.CocktailSummary{testutil.Summary("1", "Negroni")}

	h.Hydrate(context.Background(), candidates, 40)
	out := h.Hydrate(context.Background(), candidates, 40)

	assert.Len(t, provider.CallsTo(testutil.MethodGetDetailsByID), 1)
	assert.Equal(t, []string{"gin"}, out[0].NormalizedIngredients)
}

func TestHydrate_CancelledContext(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.AddDetails(testutil.Detailed("1", "Negroni", "gin"))
	h := newTestHydrator(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := h.Hydrate(ctx, []model.CocktailSummary{testutil.Summary("1", "Negroni")}, 40)

	require.Len(t, out, 1)
	assert.Empty(t, out[0].NormalizedIngredients)
	assert.Empty(t, provider.CallsTo(testutil.MethodGetDetailsByID))
}

func TestDetails_Errors(t *testing.T) {
	provider := testutil.NewFakeProvider()
	h := newTestHydrator(t, provider)

	_, err := h.Details(context.Background(), "404")
	assert.ErrorIs(t, err, internalErrors.ErrNotFound)

	provider.DetailsErr = internalErrors.NewNetworkError("lookup.php", 502, nil)
	_, err = h.Details(context.Background(), "1")
	assert.ErrorIs(t, err, internalErrors.ErrNetworkFailure)

	var fetchErr *internalErrors.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, internalErrors.SourceDetails, fetchErr.Source)
}

func TestDetails_NormalizesRawIngredients(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.AddDetails(&model.CocktailDetailed{
		CocktailSummary: testutil.Summary("1", "Margarita"),
		Ingredients:     []model.Ingredient{{Name: "Tequila"}, {Name: "Cointreau"}, {Name: "Fresh Lime Juice"}},
	})
	h := newTestHydrator(t, provider)

	details, err := h.Details(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tequila", "triple sec", "lime juice"}, details.NormalizedIngredients)
}
