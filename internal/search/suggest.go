package search

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const maxSuggestions = 3

// Suggester proposes close spellings for queries that found nothing.
type Suggester struct {
	vocabulary []string // Lowercased, unique
}

// NewSuggester builds a suggester over the given words and names.
func NewSuggester(words ...[]string) *Suggester {
	seen := make(map[string]struct{})
	vocabulary := make([]string, 0)
	for _, list := range words {
		for _, w := range list {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			vocabulary = append(vocabulary, w)
		}
	}
	sort.Strings(vocabulary)
	return &Suggester{vocabulary: vocabulary}
}

// maxDistanceFor allows one edit for short queries and two otherwise.
func maxDistanceFor(query string) int {
	n := utf8.RuneCountInString(query)
	switch {
	case n < 3:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}

// Suggest returns up to three vocabulary entries close to query, closest first.
// Exact matches are not suggestions.
func (s *Suggester) Suggest(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	limit := maxDistanceFor(query)
	if limit == 0 {
		return []string{}
	}

	type candidate struct {
		word     string
		distance int
	}
	q := []rune(query)
	found := make([]candidate, 0)
	for _, word := range s.vocabulary {
		d := boundedDistance(q, []rune(word), limit)
		if d > 0 && d <= limit {
			found = append(found, candidate{word: word, distance: d})
		}
	}

	// Vocabulary is sorted, so equal distances stay alphabetical
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].distance < found[j].distance
	})

	out := make([]string, 0, maxSuggestions)
	for i := 0; i < len(found) && i < maxSuggestions; i++ {
		out = append(out, found[i].word)
	}
	return out
}

// boundedDistance computes the Damerau-Levenshtein distance (adjacent
// transpositions count as one edit) between a and b. It returns limit+1 as soon
// as the distance is known to exceed limit.
func boundedDistance(a, b []rune, limit int) int {
	if abs(len(a)-len(b)) > limit {
		return limit + 1
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Three rolling rows: two back, previous, current
	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				curr[j] = min(curr[j], prev2[j-2]+1)
			}
			rowMin = min(rowMin, curr[j])
		}
		if rowMin > limit {
			return limit + 1
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[len(b)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
