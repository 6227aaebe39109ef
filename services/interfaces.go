package services

import (
	"context"
	"strings"
	"time"

	"github.com/gcbaptista/go-cocktail-search/model"
)

// Classification is the outcome of query classification.
type Classification string

const (
	ClassificationShort          Classification = "short"           // Trimmed query shorter than the minimum length
	ClassificationSingleGeneric  Classification = "single_generic"  // One token naming a broad spirit/category
	ClassificationSingleSpecific Classification = "single_specific" // One token that is not generic
	ClassificationMulti          Classification = "multi"           // More than one token
)

// IsSingle reports whether the classification covers exactly one token.
func (c Classification) IsSingle() bool {
	return c == ClassificationSingleGeneric || c == ClassificationSingleSpecific
}

// QueryPlan is a classified, normalized query.
type QueryPlan struct {
	Raw            string         `json:"raw"`
	Trimmed        string         `json:"trimmed"`
	Tokens         []string       `json:"tokens"` // Whitespace fields of Trimmed, original case
	Classification Classification `json:"classification"`
}

// Joined returns the tokens joined by a single space.
func (p QueryPlan) Joined() string {
	return strings.Join(p.Tokens, " ")
}

// SearchOutcome is the full, ranked and pruned result of one pipeline run.
type SearchOutcome struct {
	QueryID        string               `json:"query_id"`
	Query          string               `json:"query"`
	Classification Classification       `json:"classification"`
	Results        []model.ScoredResult `json:"results"`                    // Ranked and pruned, or the starter list
	Starters       bool                 `json:"starters"`                   // Results are the curated starter list
	NotFoundBanner string               `json:"not_found_banner,omitempty"` // Set when every source came back empty
	Suggestions    []string             `json:"suggestions,omitempty"`      // Close spellings, only when not found
	SourceErrors   []error              `json:"-"`                          // Non-fatal fetch failures
	Took           time.Duration        `json:"took"`
}

// NotFound reports whether the outcome is the not-found terminal state.
func (o SearchOutcome) NotFound() bool {
	return o.NotFoundBanner != ""
}

// ResultPage is the currently visible window of a search outcome.
type ResultPage struct {
	Query          string               `json:"query"`
	Classification Classification       `json:"classification"`
	Visible        []model.ScoredResult `json:"visible_results"`
	Total          int                  `json:"total"`
	Pages          int                  `json:"pages"`
	PageSize       int                  `json:"page_size"`
	CanLoadMore    bool                 `json:"can_load_more"`
	Starters       bool                 `json:"starters"`
	NotFoundBanner string               `json:"not_found_banner,omitempty"`
	Suggestions    []string             `json:"suggestions,omitempty"`
	Loading        bool                 `json:"loading"`
	Error          string               `json:"error,omitempty"` // Non-fatal source failure indicator
	QueryID        string               `json:"query_id,omitempty"`
	Generation     uint64               `json:"generation"`
}

// CocktailProvider is the external cocktail data source the pipeline depends on.
// Implementations return an error on network or parse failure.
type CocktailProvider interface {
	SearchByName(ctx context.Context, query string) ([]model.CocktailSummary, error)
	FilterByIngredient(ctx context.Context, ingredient string) ([]model.CocktailSummary, error)
	// GetDetailsByID returns an error matching errors.ErrNotFound when the id is unknown.
	GetDetailsByID(ctx context.Context, id string) (*model.CocktailDetailed, error)
}

// RandomProvider returns a random drink with full details.
type RandomProvider interface {
	RandomDrink(ctx context.Context) (*model.CocktailDetailed, error)
}

// Searcher runs the search ranking pipeline for a raw query.
type Searcher interface {
	// Plan classifies a raw query without fetching anything.
	Plan(raw string) QueryPlan
	Search(ctx context.Context, raw string) (SearchOutcome, error)
	Starters() []model.ScoredResult
	PageSize() int
	ResultCap() int
}
