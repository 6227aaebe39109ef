// Package api provides the HTTP surface of the cocktail search service.
package api

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gcbaptista/go-cocktail-search/internal/pantry"
)

// Request size limits.
const (
	MaxQueryLength   = 200 // Raw query accepted by search endpoints, in characters
	MaxABVComponents = 30  // Pours accepted by the alcohol calculator
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateDrinkID validates a drink id path parameter
func ValidateDrinkID(drinkID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if drinkID == "" {
		result.AddError("id", "Drink ID is required")
		return result
	}

	if strings.TrimSpace(drinkID) != drinkID {
		result.AddError("id", "Drink ID cannot have leading or trailing whitespace")
		return result
	}

	if _, err := strconv.ParseUint(drinkID, 10, 64); err != nil {
		result.AddError("id", "Drink ID must be numeric")
	}

	return result
}

// ValidateSessionID validates a session id path parameter
func ValidateSessionID(sessionID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if sessionID == "" {
		result.AddError("id", "Session ID is required")
		return result
	}

	if _, err := uuid.Parse(sessionID); err != nil {
		result.AddError("id", "Session ID must be a UUID")
	}

	return result
}

// ValidateQuery validates a raw search query. Empty queries are allowed and show starters.
func ValidateQuery(query string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if utf8.RuneCountInString(query) > MaxQueryLength {
		result.AddError("q", "Query cannot be longer than "+strconv.Itoa(MaxQueryLength)+" characters")
	}

	return result
}

// ValidatePages parses the number of pages to reveal. An empty value means one page.
// Values above maxPages are clamped.
func ValidatePages(raw string, maxPages int) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if raw == "" {
		return 1, result
	}

	pages, err := strconv.Atoi(raw)
	if err != nil {
		result.AddError("pages", "Pages must be an integer")
		return 0, result
	}
	if pages < 1 {
		result.AddError("pages", "Pages must be greater than 0")
		return 0, result
	}

	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}
	return pages, result
}

// ValidateRecommendationRequest validates a recommendation request
func ValidateRecommendationRequest(req *pantry.Request) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req == nil {
		result.AddError("request_body", "Recommendation request is required")
		return result
	}

	if req.Limit < 0 || req.Limit > pantry.MaxLimit {
		result.AddError("limit", "Limit must be between 1 and "+strconv.Itoa(pantry.MaxLimit))
	}

	for _, item := range req.Cabinet {
		if strings.TrimSpace(item) == "" {
			result.AddError("cabinet", "Cabinet entries cannot be empty or whitespace-only")
			break
		}
	}

	return result
}

// ValidateRecommendationQuery parses the query parameters of a stored-cabinet
// recommendation request.
func ValidateRecommendationQuery(rawLimit, rawMakeableOnly string) (pantry.Request, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	req := pantry.Request{Limit: pantry.DefaultLimit}

	if rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 1 || limit > pantry.MaxLimit {
			result.AddError("limit", "Limit must be between 1 and "+strconv.Itoa(pantry.MaxLimit))
		} else {
			req.Limit = limit
		}
	}

	if rawMakeableOnly != "" {
		makeableOnly, err := strconv.ParseBool(rawMakeableOnly)
		if err != nil {
			result.AddError("fully_makeable_only", "fully_makeable_only must be true or false")
		} else {
			req.FullyMakeableOnly = makeableOnly
		}
	}

	return req, result
}

// ValidateCabinetItemID parses a cabinet item id path parameter.
func ValidateCabinetItemID(raw string) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		result.AddError("id", "Cabinet item ID must be a positive integer")
		return 0, result
	}
	return id, result
}

// ValidateABVRequest checks the calculator input size.
func ValidateABVRequest(req *ABVRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req == nil || len(req.Components) == 0 {
		result.AddError("components", "At least one component is required")
		return result
	}
	if len(req.Components) > MaxABVComponents {
		result.AddError("components", "No more than "+strconv.Itoa(MaxABVComponents)+" components are allowed")
	}
	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}
