// Package testing provides fakes and data generators for testing the search pipeline.
package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// Lookup method names recorded by FakeProvider.
const (
	MethodSearchByName       = "SearchByName"
	MethodFilterByIngredient = "FilterByIngredient"
	MethodGetDetailsByID     = "GetDetailsByID"
	MethodRandomDrink        = "RandomDrink"
)

// Call is one recorded provider call.
type Call struct {
	Method string
	Arg    string
}

// FakeProvider is an in-memory cocktail provider that records every call.
// Unknown queries return an empty list. Set the *Err fields to make a lookup fail.
type FakeProvider struct {
	mu sync.Mutex

	ByName       map[string][]model.CocktailSummary
	ByIngredient map[string][]model.CocktailSummary
	Details      map[string]*model.CocktailDetailed
	RandomDrinks []*model.CocktailDetailed

	NameErr       error
	IngredientErr error
	DetailsErr    error

	// Delay is applied to every lookup. A cancelled context ends the wait early.
	Delay time.Duration

	calls      []Call
	randomNext int
}

var (
	_ services.CocktailProvider = (*FakeProvider)(nil)
	_ services.RandomProvider   = (*FakeProvider)(nil)
)

// NewFakeProvider creates an empty fake provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		ByName:       make(map[string][]model.CocktailSummary),
		ByIngredient: make(map[string][]model.CocktailSummary),
		Details:      make(map[string]*model.CocktailDetailed),
	}
}

// AddDetails registers details for GetDetailsByID.
func (f *FakeProvider) AddDetails(details ...*model.CocktailDetailed) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range details {
		f.Details[d.ID] = d
	}
	return f
}

// SearchByName implements services.CocktailProvider.
func (f *FakeProvider) SearchByName(ctx context.Context, query string) ([]model.CocktailSummary, error) {
	if err := f.record(ctx, MethodSearchByName, query); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NameErr != nil {
		return nil, f.NameErr
	}
	return copySummaries(f.ByName[query]), nil
}

// FilterByIngredient implements services.CocktailProvider.
func (f *FakeProvider) FilterByIngredient(ctx context.Context, ingredient string) ([]model.CocktailSummary, error) {
	if err := f.record(ctx, MethodFilterByIngredient, ingredient); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.IngredientErr != nil {
		return nil, f.IngredientErr
	}
	return copySummaries(f.ByIngredient[ingredient]), nil
}

// GetDetailsByID implements services.CocktailProvider.
func (f *FakeProvider) GetDetailsByID(ctx context.Context, id string) (*model.CocktailDetailed, error) {
	if err := f.record(ctx, MethodGetDetailsByID, id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DetailsErr != nil {
		return nil, f.DetailsErr
	}
	d, ok := f.Details[id]
	if !ok {
		return nil, internalErrors.NewDrinkNotFoundError(id)
	}
	clone := *d
	return &clone, nil
}

// RandomDrink implements services.RandomProvider by cycling through RandomDrinks.
func (f *FakeProvider) RandomDrink(ctx context.Context) (*model.CocktailDetailed, error) {
	if err := f.record(ctx, MethodRandomDrink, ""); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.RandomDrinks) == 0 {
		return nil, internalErrors.NewDrinkNotFoundError("random")
	}
	d := f.RandomDrinks[f.randomNext%len(f.RandomDrinks)]
	f.randomNext++
	clone := *d
	return &clone, nil
}

// Calls returns every recorded call in order.
func (f *FakeProvider) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call{}, f.calls...)
}

// CallsTo returns the arguments of every call to method.
func (f *FakeProvider) CallsTo(method string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	args := make([]string, 0)
	for _, c := range f.calls {
		if c.Method == method {
			args = append(args, c.Arg)
		}
	}
	return args
}

// Reset forgets recorded calls.
func (f *FakeProvider) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeProvider) record(ctx context.Context, method, arg string) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Arg: arg})
	delay := f.Delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return internalErrors.NewNetworkError(method, 0, ctx.Err())
		}
	}
	return nil
}

// AssertNoLookups fails the test if the provider saw any call.
func AssertNoLookups(t *testing.T, f *FakeProvider) {
	t.Helper()
	assert.Empty(t, f.Calls(), "expected no provider calls")
}

// Summaries generates n synthetic drinks named "<prefix> <i>" with ids starting at firstID.
func Summaries(n int, prefix string, firstID int) []model.CocktailSummary {
	out := make([]model.CocktailSummary, n)
	for i := 0; i < n; i++ {
		out[i] = Summary(fmt.Sprintf("%d", firstID+i), fmt.Sprintf("%s %d", prefix, i))
	}
	return out
}

// Summary builds one drink summary with a thumbnail.
func Summary(id, name string) model.CocktailSummary {
	return model.CocktailSummary{
		ID:           id,
		Name:         name,
		ThumbnailURL: "https://example.test/" + id + ".jpg",
	}
}

// Detailed builds drink details with the given, already normalized, ingredients.
func Detailed(id, name string, ingredients ...string) *model.CocktailDetailed {
	lines := make([]model.Ingredient, len(ingredients))
	for i, ing := range ingredients {
		lines[i] = model.Ingredient{Name: ing}
	}
	return &model.CocktailDetailed{
		CocktailSummary:       Summary(id, name),
		NormalizedIngredients: append([]string{}, ingredients...),
		Ingredients:           lines,
		Category:              "Cocktail",
	}
}

func copySummaries(items []model.CocktailSummary) []model.CocktailSummary {
	out := make([]model.CocktailSummary, len(items))
	copy(out, items)
	return out
}
