package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-cocktail-search/internal/tokenizer"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// GenericWords is the set of broad spirit/category words for which ingredient
// filtering is skipped. Membership is case-insensitive.
type GenericWords struct {
	words map[string]struct{}
}

// NewGenericWords builds a set from configuration. Blank entries are ignored.
func NewGenericWords(words []string) GenericWords {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return GenericWords{words: set}
}

// Contains reports whether token is a generic word.
func (g GenericWords) Contains(token string) bool {
	_, ok := g.words[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

// Words returns the set members in sorted order.
func (g GenericWords) Words() []string {
	out := make([]string, 0, len(g.words))
	for w := range g.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of words in the set.
func (g GenericWords) Len() int {
	return len(g.words)
}

// Classify trims raw, splits it on whitespace and assigns a classification.
// Length is counted in characters, not bytes.
func Classify(raw string, minLength int, generic GenericWords) services.QueryPlan {
	trimmed := strings.TrimSpace(raw)
	plan := services.QueryPlan{
		Raw:     raw,
		Trimmed: trimmed,
		Tokens:  tokenizer.SplitQuery(trimmed),
	}

	switch {
	case len(plan.Tokens) == 0, utf8.RuneCountInString(trimmed) < minLength:
		plan.Classification = services.ClassificationShort
	case len(plan.Tokens) > 1:
		plan.Classification = services.ClassificationMulti
	case generic.Contains(plan.Tokens[0]):
		plan.Classification = services.ClassificationSingleGeneric
	default:
		plan.Classification = services.ClassificationSingleSpecific
	}
	return plan
}
