package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the search pipeline failure taxonomy
var (
	// ErrNetworkFailure is returned when a cocktail source could not be reached or answered with a bad status
	ErrNetworkFailure = errors.New("network failure")

	// ErrParseFailure is returned when a cocktail source answered with a body that could not be decoded
	ErrParseFailure = errors.New("parse failure")

	// ErrNotFound is returned when a drink lookup has no match
	ErrNotFound = errors.New("not found")

	// ErrStaleResponse is returned when a response belongs to a superseded query
	ErrStaleResponse = errors.New("stale response")

	// ErrSessionNotFound is returned when a search session is not found
	ErrSessionNotFound = errors.New("session not found")

	// ErrCabinetItemNotFound is returned when a stored cabinet ingredient is not found
	ErrCabinetItemNotFound = errors.New("cabinet item not found")

	// ErrFavoriteNotFound is returned when a drink is not among the favorites
	ErrFavoriteNotFound = errors.New("favorite not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// Source names a cocktail lookup capability.
type Source string

const (
	SourceName       Source = "name"
	SourceIngredient Source = "ingredient"
	SourceDetails    Source = "details"
	SourceRandom     Source = "random"
)

// FetchError wraps a failure from one cocktail source.
// It matches ErrNetworkFailure or ErrParseFailure through the wrapped cause.
type FetchError struct {
	Source Source
	Query  string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s lookup for '%s' failed: %v", e.Source, e.Query, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(source Source, query string, err error) *FetchError {
	return &FetchError{Source: source, Query: query, Err: err}
}

// NetworkError represents a transport failure or an unexpected HTTP status
type NetworkError struct {
	URL        string
	StatusCode int // Zero when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to '%s' returned HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to '%s' failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetworkFailure
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(url string, statusCode int, err error) *NetworkError {
	return &NetworkError{URL: url, StatusCode: statusCode, Err: err}
}

// ParseError represents an undecodable response body
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not decode response from '%s': %v", e.URL, e.Err)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailure
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(url string, err error) *ParseError {
	return &ParseError{URL: url, Err: err}
}

// DrinkNotFoundError represents a drink lookup with no match
type DrinkNotFoundError struct {
	DrinkID string
}

func (e *DrinkNotFoundError) Error() string {
	return fmt.Sprintf("drink with ID '%s' not found", e.DrinkID)
}

func (e *DrinkNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewDrinkNotFoundError creates a new DrinkNotFoundError
func NewDrinkNotFoundError(drinkID string) *DrinkNotFoundError {
	return &DrinkNotFoundError{DrinkID: drinkID}
}

// StaleResponseError represents a pipeline result that arrived for a superseded query
type StaleResponseError struct {
	Generation uint64
	Latest     uint64
}

func (e *StaleResponseError) Error() string {
	return fmt.Sprintf("response for generation %d discarded, latest is %d", e.Generation, e.Latest)
}

func (e *StaleResponseError) Is(target error) bool {
	return target == ErrStaleResponse
}

// NewStaleResponseError creates a new StaleResponseError
func NewStaleResponseError(generation, latest uint64) *StaleResponseError {
	return &StaleResponseError{Generation: generation, Latest: latest}
}

// SessionNotFoundError represents a session not found error with context
type SessionNotFoundError struct {
	SessionID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session with ID '%s' not found", e.SessionID)
}

func (e *SessionNotFoundError) Is(target error) bool {
	return target == ErrSessionNotFound
}

// NewSessionNotFoundError creates a new SessionNotFoundError
func NewSessionNotFoundError(sessionID string) *SessionNotFoundError {
	return &SessionNotFoundError{SessionID: sessionID}
}

// CabinetItemNotFoundError represents a missing cabinet ingredient
type CabinetItemNotFoundError struct {
	ItemID int
}

func (e *CabinetItemNotFoundError) Error() string {
	return fmt.Sprintf("cabinet item with ID '%d' not found", e.ItemID)
}

func (e *CabinetItemNotFoundError) Is(target error) bool {
	return target == ErrCabinetItemNotFound
}

// NewCabinetItemNotFoundError creates a new CabinetItemNotFoundError
func NewCabinetItemNotFoundError(itemID int) *CabinetItemNotFoundError {
	return &CabinetItemNotFoundError{ItemID: itemID}
}

// FavoriteNotFoundError represents a drink that is not a favorite
type FavoriteNotFoundError struct {
	DrinkID string
}

func (e *FavoriteNotFoundError) Error() string {
	return fmt.Sprintf("favorite with drink ID '%s' not found", e.DrinkID)
}

func (e *FavoriteNotFoundError) Is(target error) bool {
	return target == ErrFavoriteNotFound
}

// NewFavoriteNotFoundError creates a new FavoriteNotFoundError
func NewFavoriteNotFoundError(drinkID string) *FavoriteNotFoundError {
	return &FavoriteNotFoundError{DrinkID: drinkID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
