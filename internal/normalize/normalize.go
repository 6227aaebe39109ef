// Package normalize folds free-form ingredient names into comparable keys.
// "Fresh Lime Juice (2 oz)" and "lime juice" must compare equal, as must
// "London Dry Gin" and "gin".
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// aliases maps normalized spellings to a canonical ingredient.
// Keys are diacritic-free and lowercase.
var aliases = map[string]string{
	"london dry gin":    "gin",
	"dry gin":           "gin",
	"blanco tequila":    "tequila",
	"white rum":         "rum",
	"gold rum":          "rum",
	"cointreau":         "triple sec",
	"curacao":           "triple sec",
	"angostura bitters": "aromatic bitters",
	"angostura bitter":  "aromatic bitters",
	"bitters":           "aromatic bitters",
	"bitter":            "aromatic bitters",
	"aromatic bitter":   "aromatic bitters",
	"simple syrup":      "sugar syrup",
	"fresh lime juice":  "lime juice",
	"fresh lemon juice": "lemon juice",
	"club soda":         "soda water",
	"soda":              "soda water",
}

// canonical holds every alias target; these are returned as-is.
var canonical = func() map[string]struct{} {
	set := make(map[string]struct{}, len(aliases))
	for _, v := range aliases {
		set[v] = struct{}{}
	}
	return set
}()

var (
	stripRegex  = regexp.MustCompile(`[()\[\]{}:,_\-–—]`)
	spaceRegex  = regexp.MustCompile(`\s+`)
	fillerRegex = regexp.MustCompile(`\b(fresh|house|homemade|of|the|and|a)\b`)
	unitRegex   = regexp.MustCompile(`\b(ml|oz|ounce|ounces|tsp|tbsp|dash|dashes)\b`)
	numberRegex = regexp.MustCompile(`\b\d+([./]\d+)?\b`)
	lowerCaser  = cases.Lower(language.Und)
)

// fold lowercases s and removes diacritics ("Curaçao" -> "curacao").
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return lowerCaser.String(out)
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

// Ingredient returns the canonical key for a raw ingredient name.
// Empty input yields an empty key.
func Ingredient(raw string) string {
	s := collapse(fold(raw))
	if s == "" {
		return ""
	}

	// Remove punctuation, then filler words and units
	s = collapse(stripRegex.ReplaceAllString(s, " "))
	s = fillerRegex.ReplaceAllString(s, "")
	s = unitRegex.ReplaceAllString(s, "")
	s = collapse(numberRegex.ReplaceAllString(s, ""))
	if s == "" {
		return ""
	}

	// Cheap plural -> singular
	if strings.HasSuffix(s, "ies") && len(s) > 3 {
		s = s[:len(s)-3] + "y"
	} else if strings.HasSuffix(s, "s") && len(s) > 3 {
		s = s[:len(s)-1]
	}

	if alias, ok := aliases[s]; ok {
		return alias
	}
	if _, ok := canonical[s]; ok {
		return s
	}

	// Fall back to the first word ("gin london dry" -> "gin")
	head := strings.SplitN(s, " ", 2)[0]
	if alias, ok := aliases[head]; ok {
		return alias
	}
	return head
}

// List normalizes every name, dropping empty keys and duplicates while keeping first-seen order.
func List(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		key := Ingredient(name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// Set normalizes every name into a lookup set.
func Set(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, key := range List(names) {
		set[key] = struct{}{}
	}
	return set
}
