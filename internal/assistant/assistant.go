// Package assistant answers chat messages with keyword rules.
package assistant

import (
	"strings"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/internal/tokenizer"
)

// Intent is the rule a message matched.
type Intent string

const (
	IntentGreeting   Intent = "greeting"
	IntentRecipe     Intent = "recipe"
	IntentIngredient Intent = "ingredient"
	IntentRecommend  Intent = "recommend"
	IntentHowTo      Intent = "how_to"
	IntentDefault    Intent = "default"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest holds the user message and optional prior turns.
type ChatRequest struct {
	Message string    `json:"message"`
	History []Message `json:"history,omitempty"`
}

// ChatResponse is the assistant reply.
type ChatResponse struct {
	Message string `json:"message"`
	Intent  Intent `json:"intent"`
	Success bool   `json:"success"`
}

type rule struct {
	intent  Intent
	words   []string // Any of these tokens matches
	phrases []string // Any of these substrings matches
	reply   string
}

// Rules are checked in order; the first match wins.
var rules = []rule{
	{
		intent: IntentGreeting,
		words:  []string{"hello", "hi", "hey"},
		reply:  "Hello! I'm your cocktail assistant. How can I help you today?",
	},
	{
		intent: IntentRecipe,
		words:  []string{"recipe", "recipes", "drink", "drinks", "cocktail", "cocktails"},
		reply:  "I'd be happy to help you find a cocktail recipe! What ingredients do you have on hand, or what type of drink are you in the mood for?",
	},
	{
		intent:  IntentIngredient,
		words:   []string{"ingredient", "ingredients"},
		phrases: []string{"what can i make"},
		reply:   "Tell me what ingredients you have, and I can suggest some great cocktails you can make with them!",
	},
	{
		intent: IntentRecommend,
		words:  []string{"recommend", "recommendation", "recommendations", "suggestion", "suggestions"},
		reply:  "I'd love to recommend a cocktail! What's your preference: something sweet, sour, strong, or refreshing?",
	},
}

const (
	howToReply   = "I can walk you through making a cocktail step by step! Which cocktail would you like to learn how to make?"
	defaultReply = "That's interesting! I'm here to help with cocktail recipes, ingredient suggestions, and drink recommendations. What would you like to know?"
)

// Reply picks the canned answer for a message.
// Blank messages are rejected with a validation error.
func Reply(req ChatRequest) (ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ChatResponse{}, internalErrors.NewValidationError("message", "Message cannot be empty")
	}

	intent, text := classify(message)
	return ChatResponse{Message: text, Intent: intent, Success: true}, nil
}

func classify(message string) (Intent, string) {
	lower := strings.ToLower(message)
	tokens := make(map[string]struct{})
	for _, tok := range tokenizer.Tokenize(message) {
		tokens[tok] = struct{}{}
	}

	for _, r := range rules {
		for _, w := range r.words {
			if _, ok := tokens[w]; ok {
				return r.intent, r.reply
			}
		}
		for _, p := range r.phrases {
			if strings.Contains(lower, p) {
				return r.intent, r.reply
			}
		}
	}

	_, how := tokens["how"]
	_, makeWord := tokens["make"]
	if how && makeWord {
		return IntentHowTo, howToReply
	}
	return IntentDefault, defaultReply
}
