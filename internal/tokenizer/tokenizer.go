package tokenizer

import (
	"regexp"
	"strings"
)

// nonAlphanumericRegex matches sequences of characters that are neither letters nor digits.
var nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// SplitQuery trims the raw query and splits it on whitespace, keeping the original case.
func SplitQuery(raw string) []string {
	fields := strings.Fields(raw)
	if fields == nil {
		return make([]string, 0)
	}
	return fields
}

// Tokenize lowercases text and splits it on anything that is not a letter or digit.
// "Ramos Gin-Fizz" becomes ["ramos", "gin", "fizz"].
func Tokenize(text string) []string {
	split := nonAlphanumericRegex.Split(strings.ToLower(text), -1)

	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}
