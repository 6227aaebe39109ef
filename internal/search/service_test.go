package search

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-cocktail-search/config"
	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/internal/metrics"
	testutil "github.com/gcbaptista/go-cocktail-search/internal/testing"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// --- Test Helpers ---

func setupTestService(t *testing.T, provider *testutil.FakeProvider, mutate func(*config.PipelineSettings)) *Service {
	t.Helper()
	settings := config.PipelineSettings{}
	settings.ApplyDefaults()
	if mutate != nil {
		mutate(&settings)
	}

	svc, err := NewService(provider, settings, WithMetrics(metrics.New()))
	require.NoError(t, err, "Failed to create search service")
	t.Cleanup(svc.Close)
	return svc
}

func resultIDs(results []model.ScoredResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

// --- Test Cases ---

func TestNewService(t *testing.T) {
	t.Run("nil provider", func(t *testing.T) {
		_, err := NewService(nil, config.PipelineSettings{})
		assert.Error(t, err)
	})

	t.Run("invalid settings", func(t *testing.T) {
		_, err := NewService(testutil.NewFakeProvider(), config.PipelineSettings{PageSize: -1})
		assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)
	})

	t.Run("nil logger option", func(t *testing.T) {
		_, err := NewService(testutil.NewFakeProvider(), config.PipelineSettings{}, WithLogger(nil))
		assert.Error(t, err)
	})

	t.Run("zero settings get defaults", func(t *testing.T) {
		svc, err := NewService(testutil.NewFakeProvider(), config.PipelineSettings{})
		require.NoError(t, err)
		defer svc.Close()
		assert.Equal(t, config.DefaultPageSize, svc.PageSize())
		assert.Equal(t, config.DefaultResultCap, svc.ResultCap())
		assert.Len(t, svc.Starters(), len(config.DefaultStarters))
	})
}

func TestSearch_ShortQueryShowsStartersWithoutLookups(t *testing.T) {
	provider := testutil.NewFakeProvider()
	svc := setupTestService(t, provider, nil)

	for _, raw := range []string{"", " ", "g", "  m  "} {
		outcome, err := svc.Search(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, services.ClassificationShort, outcome.Classification, "query %q", raw)
		assert.True(t, outcome.Starters)
		assert.Empty(t, outcome.NotFoundBanner)
		assert.Equal(t, svc.Starters(), outcome.Results, "query %q", raw)
	}
	testutil.AssertNoLookups(t, provider)
}

func TestSearch_MultiTokenUsesNameSearchOnce(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.ByName["Tom Collins"] = []model.CocktailSummary{testutil.Summary("10", "Tom Collins")}
	svc := setupTestService(t, provider, nil)

	outcome, err := svc.Search(context.Background(), "  Tom   Collins ")
	require.NoError(t, err)

	assert.Equal(t, services.ClassificationMulti, outcome.Classification)
	assert.Equal(t, []string{"Tom Collins"}, provider.CallsTo(testutil.MethodSearchByName))
	assert.Empty(t, provider.CallsTo(testutil.MethodFilterByIngredient))
	assert.Equal(t, []string{"10"}, resultIDs(outcome.Results))
}

func TestSearch_GenericWordSkipsIngredientFilter(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.ByName["gin"] = []model.CocktailSummary{
		testutil.Summary("1", "Daiquiri Twist"),
		testutil.Summary("2", "Gin Fizz"),
	}
	svc := setupTestService(t, provider, nil)

	outcome, err := svc.Search(context.Background(), "gin")
	require.NoError(t, err)

	assert.Equal(t, services.ClassificationSingleGeneric, outcome.Classification)
	assert.Equal(t, []string{"gin"}, provider.CallsTo(testutil.MethodSearchByName))
	assert.Empty(t, provider.CallsTo(testutil.MethodFilterByIngredient))
	assert.Equal(t, []string{"2", "1"}, resultIDs(outcome.Results))
}

func TestSearch_SpecificWordIntersectsWithBackfill(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.ByName["collins"] = []model.CocktailSummary{
		testutil.Summary("10", "Tom Collins"),
		testutil.Summary("11", "Collins Variation"),
		testutil.Summary("12", "Random Collins"),
	}
	provider.ByIngredient["collins"] = []model.CocktailSummary{
		testutil.Summary("10", "Tom Collins"),
		testutil.Summary("99", "Not really related"),
	}
	svc := setupTestService(t, provider, nil)

	outcome, err := svc.Search(context.Background(), "collins")
	require.NoError(t, err)

	assert.Equal(t, services.ClassificationSingleSpecific, outcome.Classification)
	assert.Equal(t, []string{"collins"}, provider.CallsTo(testutil.MethodSearchByName))
	assert.Equal(t, []string{"collins"}, provider.CallsTo(testutil.MethodFilterByIngredient))
	assert.ElementsMatch(t, []string{"10", "11", "12"}, resultIDs(outcome.Results))
	assert.Equal(t, "11", outcome.Results[0].ID, "prefix match ranks first")
}

func TestSearch_ResultCap(t *testing.T) {
	for _, total := range []int{120, 200} {
		t.Run(fmt.Sprintf("%d items", total), func(t *testing.T) {
			provider := testutil.NewFakeProvider()
			items := make([]model.CocktailSummary, 0, total)
			for i := 0; i < total; i++ {
				if i%2 == 0 {
					items = append(items, testutil.Summary(fmt.Sprintf("%d", i), fmt.Sprintf("Gin Thing %d", i)))
				} else {
					items = append(items, testutil.Summary(fmt.Sprintf("%d", i), fmt.Sprintf("Whatever %d", i)))
				}
			}
			provider.ByName["gin"] = items
			svc := setupTestService(t, provider, nil)

			outcome, err := svc.Search(context.Background(), "gin")
			require.NoError(t, err)

			assert.Len(t, outcome.Results, 60)
			for _, r := range outcome.Results {
				assert.True(t, strings.HasPrefix(r.Name, "Gin Thing"), "stronger gin signals rank first, got %s", r.Name)
			}
			assert.Len(t, provider.CallsTo(testutil.MethodGetDetailsByID), 40, "hydration is bounded")

			page := PageOf(outcome, NewPager(outcome.Results, svc.PageSize()))
			assert.LessOrEqual(t, len(page.Visible), 60)
		})
	}
}

func TestSearch_Pagination(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.ByName["ginger"] = testutil.Summaries(35, "Result", 2000)
	svc := setupTestService(t, provider, nil)

	outcome, err := svc.Search(context.Background(), "ginger")
	require.NoError(t, err)
	require.Len(t, outcome.Results, 35)

	pager := NewPager(outcome.Results, svc.PageSize())
	first := PageOf(outcome, pager)
	require.Len(t, first.Visible, 20)
	assert.Equal(t, "Result 0", first.Visible[0].Name)
	assert.Equal(t, "Result 19", first.Visible[19].Name)
	assert.True(t, first.CanLoadMore)

	pager.LoadMore()
	second := PageOf(outcome, pager)
	require.Len(t, second.Visible, 35)
	assert.Equal(t, "Result 34", second.Visible[34].Name)
	assert.False(t, second.CanLoadMore)
	assert.Len(t, provider.CallsTo(testutil.MethodSearchByName), 1, "load more does not re-fetch")
}

func TestSearch_NotFound(t *testing.T) {
	provider := testutil.NewFakeProvider()
	svc := setupTestService(t, provider, nil)

	outcome, err := svc.Search(context.Background(), "zzzxxyy")
	require.NoError(t, err)

	assert.True(t, outcome.NotFound())
	assert.Contains(t, outcome.NotFoundBanner, "zzzxxyy")
	assert.Equal(t, "“zzzxxyy” not found", outcome.NotFoundBanner)
	assert.True(t, outcome.Starters)
	assert.Equal(t, svc.Starters(), outcome.Results)
	assert.Empty(t, outcome.Suggestions)
	assert.Len(t, provider.CallsTo(testutil.MethodSearchByName), 1)
	assert.Len(t, provider.CallsTo(testutil.MethodFilterByIngredient), 1)
}

func TestSearch_NotFoundSuggestions(t *testing.T) {
	svc := setupTestService(t, testutil.NewFakeProvider(), nil)

	outcome, err := svc.Search(context.Background(), "Margerita")
	require.NoError(t, err)
	assert.True(t, outcome.NotFound())
	assert.Equal(t, []string{"margarita"}, outcome.Suggestions)

	outcome, err = svc.Search(context.Background(), "vodak  martini")
	require.NoError(t, err)
	assert.Equal(t, []string{"vodka martini"}, outcome.Suggestions)

	page := PageOf(outcome, NewPager(outcome.Results, svc.PageSize()))
	assert.Equal(t, outcome.Suggestions, page.Suggestions)
}

func TestSearch_SourceFailuresAreNonFatal(t *testing.T) {
	t.Run("name search fails", func(t *testing.T) {
		provider := testutil.NewFakeProvider()
		provider.NameErr = internalErrors.NewNetworkError("search.php", 503, nil)
		provider.ByIngredient["campari"] = []model.CocktailSummary{testutil.Summary("1", "Negroni")}
		svc := setupTestService(t, provider, nil)

		outcome, err := svc.Search(context.Background(), "campari")
		require.NoError(t, err)

		assert.Equal(t, []string{"1"}, resultIDs(outcome.Results))
		require.Len(t, outcome.SourceErrors, 1)
		assert.ErrorIs(t, outcome.SourceErrors[0], internalErrors.ErrNetworkFailure)

		page := PageOf(outcome, NewPager(outcome.Results, svc.PageSize()))
		assert.NotEmpty(t, page.Error)
	})

	t.Run("ingredient filter fails", func(t *testing.T) {
		provider := testutil.NewFakeProvider()
		provider.IngredientErr = internalErrors.NewParseError("filter.php", fmt.Errorf("bad json"))
		provider.ByName["negroni"] = []model.CocktailSummary{testutil.Summary("1", "Negroni")}
		svc := setupTestService(t, provider, nil)

		outcome, err := svc.Search(context.Background(), "negroni")
		require.NoError(t, err)

		assert.Equal(t, []string{"1"}, resultIDs(outcome.Results))
		require.Len(t, outcome.SourceErrors, 1)
		assert.ErrorIs(t, outcome.SourceErrors[0], internalErrors.ErrParseFailure)
	})

	t.Run("every source fails", func(t *testing.T) {
		provider := testutil.NewFakeProvider()
		provider.NameErr = internalErrors.NewNetworkError("search.php", 0, fmt.Errorf("connection refused"))
		provider.IngredientErr = internalErrors.NewNetworkError("filter.php", 0, fmt.Errorf("connection refused"))
		svc := setupTestService(t, provider, nil)

		outcome, err := svc.Search(context.Background(), "negroni")
		require.NoError(t, err)

		assert.True(t, outcome.NotFound())
		assert.True(t, outcome.Starters)
		assert.Len(t, outcome.SourceErrors, 2)
	})
}

func TestSearch_NoRetries(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.NameErr = internalErrors.NewNetworkError("search.php", 500, nil)
	svc := setupTestService(t, provider, nil)

	_, err := svc.Search(context.Background(), "gin")
	require.NoError(t, err)
	assert.Len(t, provider.Calls(), 1)
}

func TestSearch_IngredientSignalForGenericWord(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.ByName["rum"] = []model.CocktailSummary{
		testutil.Summary("1", "Clover Club"),
		testutil.Summary("2", "Daiquiri"),
	}
	provider.AddDetails(
		testutil.Detailed("1", "Clover Club", "gin", "raspberry syrup"),
		testutil.Detailed("2", "Daiquiri", "rum", "lime juice"),
	)
	svc := setupTestService(t, provider, nil)

	outcome, err := svc.Search(context.Background(), "rum")
	require.NoError(t, err)

	assert.Equal(t, []string{"2", "1"}, resultIDs(outcome.Results))
	assert.Equal(t, []string{"rum", "lime juice"}, outcome.Results[0].NormalizedIngredients)
}

func TestSearch_UniqueIDs(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.ByName["sour"] = []model.CocktailSummary{
		testutil.Summary("1", "Whiskey Sour"),
		testutil.Summary("1", "Whiskey Sour"),
		testutil.Summary("2", "Pisco Sour"),
	}
	provider.ByIngredient["sour"] = []model.CocktailSummary{testutil.Summary("2", "Pisco Sour")}
	svc := setupTestService(t, provider, nil)

	outcome, err := svc.Search(context.Background(), "sour")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2"}, resultIDs(outcome.Results))
}

func TestSearch_CancelledContext(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.ByName["negroni"] = []model.CocktailSummary{testutil.Summary("1", "Negroni")}
	svc := setupTestService(t, provider, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, "negroni")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_CustomSettings(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.ByName["absinthe"] = testutil.Summaries(30, "Absinthe Drip", 1)
	svc := setupTestService(t, provider, func(p *config.PipelineSettings) {
		p.GenericWords = []string{"absinthe"}
		p.ResultCap = 25
		p.MaxCandidates = 25
		p.HydrationLimit = 5
	})

	outcome, err := svc.Search(context.Background(), "absinthe")
	require.NoError(t, err)

	assert.Equal(t, services.ClassificationSingleGeneric, outcome.Classification)
	assert.Empty(t, provider.CallsTo(testutil.MethodFilterByIngredient))
	assert.Len(t, outcome.Results, 25)
	assert.Len(t, provider.CallsTo(testutil.MethodGetDetailsByID), 5)
}

func TestSearch_OutcomeMetadata(t *testing.T) {
	provider := testutil.NewFakeProvider()
	svc := setupTestService(t, provider, nil)

	first, err := svc.Search(context.Background(), "mojito")
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), "mojito")
	require.NoError(t, err)

	assert.NotEmpty(t, first.QueryID)
	assert.NotEqual(t, first.QueryID, second.QueryID)
	assert.Equal(t, "mojito", first.Query)
}

func TestDetailsLookup(t *testing.T) {
	provider := testutil.NewFakeProvider()
	provider.AddDetails(testutil.Detailed("11007", "Margarita", "tequila", "triple sec", "lime juice"))
	svc := setupTestService(t, provider, nil)

	details, err := svc.Details(context.Background(), " 11007 ")
	require.NoError(t, err)
	assert.Equal(t, "Margarita", details.Name)

	_, err = svc.Details(context.Background(), "  ")
	assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)

	_, err = svc.Details(context.Background(), "1")
	assert.ErrorIs(t, err, internalErrors.ErrNotFound)
}
