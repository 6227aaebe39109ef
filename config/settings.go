// Package config provides configuration structures for the cocktail search service.
// It defines pipeline tunables, scoring weights, the generic word set, starter drinks
// and server options.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gcbaptista/go-cocktail-search/model"
)

// Scoring weight defaults. Only their relative order is a contract:
// name exact/prefix > name substring > ingredient presence.
const (
	DefaultWeightExactName     = 100.0
	DefaultWeightPrefixName    = 80.0
	DefaultWeightNameSubstring = 40.0
	DefaultWeightIngredient    = 25.0
)

// Pipeline defaults.
const (
	DefaultResultCap        = 60
	DefaultPageSize         = 20
	DefaultHydrationLimit   = 40
	DefaultMinIntersection  = 10
	DefaultMaxCandidates    = 200
	DefaultMinQueryLength   = 2
	DefaultDebounceMs       = 350
	DefaultHydrationWorkers = 8
	DefaultDetailCacheTTL   = 10 * time.Minute
)

// DefaultGenericWords are broad spirit/category names for which ingredient filtering would flood results.
var DefaultGenericWords = []string{
	"gin", "vodka", "rum", "tequila", "whiskey", "whisky", "bourbon", "scotch",
	"brandy", "cognac", "mezcal", "vermouth", "liqueur", "wine", "beer", "champagne",
}

// DefaultStarters is the curated list shown for short queries and as the not-found fallback.
var DefaultStarters = []Starter{
	{ID: "11007", Name: "Margarita", ThumbnailURL: "https://www.thecocktaildb.com/images/media/drink/5noda61589575158.jpg"},
	{ID: "11000", Name: "Mojito", ThumbnailURL: "https://www.thecocktaildb.com/images/media/drink/metwgh1606770327.jpg"},
	{ID: "11001", Name: "Old Fashioned", ThumbnailURL: "https://www.thecocktaildb.com/images/media/drink/vrwquq1478252802.jpg"},
	{ID: "11008", Name: "Manhattan"},
	{ID: "14167", Name: "Vodka Martini"},
	{ID: "11009", Name: "Moscow Mule"},
}

// ScoringWeights are the ranking signal weights.
type ScoringWeights struct {
	ExactName     float64 `json:"exact_name" mapstructure:"exact_name"`         // Name equals the query
	PrefixName    float64 `json:"prefix_name" mapstructure:"prefix_name"`       // Name starts with the query
	NameSubstring float64 `json:"name_substring" mapstructure:"name_substring"` // Per query token found inside the name
	Ingredient    float64 `json:"ingredient" mapstructure:"ingredient"`         // Per query token found in normalized ingredients (single-token queries)
}

// Starter is a curated drink entry.
type Starter struct {
	ID           string `json:"id" mapstructure:"id"`
	Name         string `json:"name" mapstructure:"name"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" mapstructure:"thumbnail_url"`
}

// PipelineSettings contains all tunables of the search ranking pipeline.
type PipelineSettings struct {
	ResultCap        int            `json:"result_cap" mapstructure:"result_cap"`               // Maximum ranked results kept after pruning
	PageSize         int            `json:"page_size" mapstructure:"page_size"`                 // Items added per "load more"
	HydrationLimit   int            `json:"hydration_limit" mapstructure:"hydration_limit"`     // Candidates hydrated with details, counted from the front
	MinIntersection  int            `json:"min_intersection" mapstructure:"min_intersection"`   // Intersections smaller than this are backfilled from name results
	MaxCandidates    int            `json:"max_candidates" mapstructure:"max_candidates"`       // Backfill stops at this many candidates
	MinQueryLength   int            `json:"min_query_length" mapstructure:"min_query_length"`   // Shorter trimmed queries show starters
	DebounceMs       int            `json:"debounce_ms" mapstructure:"debounce_ms"`             // Session debounce window
	HydrationWorkers int            `json:"hydration_workers" mapstructure:"hydration_workers"` // Concurrent detail lookups
	DetailCacheTTL   time.Duration  `json:"detail_cache_ttl" mapstructure:"detail_cache_ttl"`   // How long hydrated details are reused
	GenericWords     []string       `json:"generic_words" mapstructure:"generic_words"`
	Starters         []Starter      `json:"starters" mapstructure:"starters"`
	Weights          ScoringWeights `json:"weights" mapstructure:"weights"`
}

// DebounceDuration returns the debounce window as time.Duration
func (p PipelineSettings) DebounceDuration() time.Duration {
	return time.Duration(p.DebounceMs) * time.Millisecond
}

// StarterSummaries returns the starters as cocktail summaries.
func (p PipelineSettings) StarterSummaries() []model.CocktailSummary {
	out := make([]model.CocktailSummary, len(p.Starters))
	for i, s := range p.Starters {
		out[i] = model.CocktailSummary{ID: s.ID, Name: s.Name, ThumbnailURL: s.ThumbnailURL}
	}
	return out
}

// ApplyDefaults applies default values to the pipeline settings
func (p *PipelineSettings) ApplyDefaults() {
	if p.ResultCap == 0 {
		p.ResultCap = DefaultResultCap
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.HydrationLimit == 0 {
		p.HydrationLimit = DefaultHydrationLimit
	}
	if p.MinIntersection == 0 {
		p.MinIntersection = DefaultMinIntersection
	}
	if p.MaxCandidates == 0 {
		p.MaxCandidates = DefaultMaxCandidates
	}
	if p.MinQueryLength == 0 {
		p.MinQueryLength = DefaultMinQueryLength
	}
	if p.DebounceMs == 0 {
		p.DebounceMs = DefaultDebounceMs
	}
	if p.HydrationWorkers == 0 {
		p.HydrationWorkers = DefaultHydrationWorkers
	}
	if p.DetailCacheTTL == 0 {
		p.DetailCacheTTL = DefaultDetailCacheTTL
	}

	// Copy so callers never share the package-level slices
	if p.GenericWords == nil {
		p.GenericWords = append([]string{}, DefaultGenericWords...)
	}
	if p.Starters == nil {
		p.Starters = append([]Starter{}, DefaultStarters...)
	}

	if p.Weights == (ScoringWeights{}) {
		p.Weights = ScoringWeights{
			ExactName:     DefaultWeightExactName,
			PrefixName:    DefaultWeightPrefixName,
			NameSubstring: DefaultWeightNameSubstring,
			Ingredient:    DefaultWeightIngredient,
		}
	}
}

// Validate checks the pipeline settings and returns a list of problems.
func (p *PipelineSettings) Validate() []string {
	var problems []string

	positive := []struct {
		name  string
		value int
	}{
		{"result_cap", p.ResultCap},
		{"page_size", p.PageSize},
		{"hydration_workers", p.HydrationWorkers},
		{"min_query_length", p.MinQueryLength},
	}
	for _, f := range positive {
		if f.value <= 0 {
			problems = append(problems, fmt.Sprintf("Field '%s' must be greater than zero", f.name))
		}
	}

	if p.HydrationLimit < 0 {
		problems = append(problems, "Field 'hydration_limit' cannot be negative")
	}
	if p.MinIntersection < 0 {
		problems = append(problems, "Field 'min_intersection' cannot be negative")
	}
	if p.MaxCandidates < p.ResultCap {
		problems = append(problems, fmt.Sprintf("Field 'max_candidates' (%d) must be at least result_cap (%d)", p.MaxCandidates, p.ResultCap))
	}
	if p.DebounceMs < 0 {
		problems = append(problems, "Field 'debounce_ms' cannot be negative")
	}

	w := p.Weights
	if !(w.ExactName >= w.PrefixName && w.PrefixName > w.NameSubstring && w.NameSubstring > w.Ingredient && w.Ingredient >= 0) {
		problems = append(problems, "Weights must satisfy exact_name >= prefix_name > name_substring > ingredient >= 0")
	}

	problems = append(problems, checkDuplicates("generic_words", lowerAll(p.GenericWords))...)
	for _, word := range p.GenericWords {
		if strings.TrimSpace(word) == "" {
			problems = append(problems, "Generic word cannot be empty or whitespace-only")
		} else if len(strings.Fields(word)) > 1 {
			problems = append(problems, "Generic word '"+word+"' must be a single token")
		}
	}

	starterIDs := make([]string, 0, len(p.Starters))
	for _, s := range p.Starters {
		if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.Name) == "" {
			problems = append(problems, "Starter entries need both id and name")
		}
		starterIDs = append(starterIDs, s.ID)
	}
	problems = append(problems, checkDuplicates("starters", starterIDs)...)

	return problems
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, values []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, v := range values {
		if seen[v] {
			errors = append(errors, "Duplicate value '"+v+"' found in "+fieldName)
		}
		seen[v] = true
	}

	return errors
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}
