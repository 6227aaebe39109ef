package search

import (
	"reflect"
	"testing"

	"github.com/gcbaptista/go-cocktail-search/config"
	"github.com/gcbaptista/go-cocktail-search/services"
)

func TestClassify(t *testing.T) {
	generic := NewGenericWords(config.DefaultGenericWords)

	tests := []struct {
		name               string
		raw                string
		wantClassification services.Classification
		wantTokens         []string
	}{
		{"empty", "", services.ClassificationShort, []string{}},
		{"whitespace only", "   ", services.ClassificationShort, []string{}},
		{"one character", "g", services.ClassificationShort, []string{"g"}},
		{"one character padded", "  g  ", services.ClassificationShort, []string{"g"}},
		{"one multibyte character", "é", services.ClassificationShort, []string{"é"}},
		{"two characters", "gi", services.ClassificationSingleSpecific, []string{"gi"}},
		{"generic word", "gin", services.ClassificationSingleGeneric, []string{"gin"}},
		{"generic word any case", "  Vodka ", services.ClassificationSingleGeneric, []string{"Vodka"}},
		{"specific word", "collins", services.ClassificationSingleSpecific, []string{"collins"}},
		{"two words", "Tom Collins", services.ClassificationMulti, []string{"Tom", "Collins"}},
		{"generic word in multi", "gin fizz", services.ClassificationMulti, []string{"gin", "fizz"}},
		{"extra inner whitespace", " old   fashioned ", services.ClassificationMulti, []string{"old", "fashioned"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Classify(tt.raw, config.DefaultMinQueryLength, generic)
			if plan.Classification != tt.wantClassification {
				t.Errorf("Classify(%q) classification = %s, want %s", tt.raw, plan.Classification, tt.wantClassification)
			}
			if !reflect.DeepEqual(plan.Tokens, tt.wantTokens) {
				t.Errorf("Classify(%q) tokens = %v, want %v", tt.raw, plan.Tokens, tt.wantTokens)
			}
			if plan.Raw != tt.raw {
				t.Errorf("Classify(%q) raw = %q, want the input unchanged", tt.raw, plan.Raw)
			}
		})
	}
}

func TestClassify_JoinedQuery(t *testing.T) {
	plan := Classify("  Tom \t Collins ", 2, NewGenericWords(nil))
	if got := plan.Joined(); got != "Tom Collins" {
		t.Errorf("Joined() = %q, want %q", got, "Tom Collins")
	}
	if plan.Trimmed != "Tom \t Collins" {
		t.Errorf("Trimmed = %q", plan.Trimmed)
	}
}

func TestClassify_GenericSetIsConfiguration(t *testing.T) {
	// The same token changes class when the configured set changes
	withAbsinthe := NewGenericWords([]string{"absinthe"})
	if got := Classify("absinthe", 2, withAbsinthe).Classification; got != services.ClassificationSingleGeneric {
		t.Errorf("absinthe with custom set = %s, want single_generic", got)
	}
	if got := Classify("gin", 2, withAbsinthe).Classification; got != services.ClassificationSingleSpecific {
		t.Errorf("gin without gin in set = %s, want single_specific", got)
	}
}

func TestGenericWords(t *testing.T) {
	words := NewGenericWords([]string{"Rum", " gin ", "", "  ", "rum"})

	if words.Len() != 2 {
		t.Errorf("Len() = %d, want 2", words.Len())
	}
	if !reflect.DeepEqual(words.Words(), []string{"gin", "rum"}) {
		t.Errorf("Words() = %v, want [gin rum]", words.Words())
	}
	for _, token := range []string{"gin", "GIN", " Rum "} {
		if !words.Contains(token) {
			t.Errorf("Contains(%q) = false, want true", token)
		}
	}
	if words.Contains("vodka") {
		t.Error("Contains(vodka) = true, want false")
	}
}
