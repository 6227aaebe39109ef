package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeDrinkNotFound    ErrorCode = "DRINK_NOT_FOUND"
	ErrorCodeSessionNotFound  ErrorCode = "SESSION_NOT_FOUND"
	ErrorCodeCabinetNotFound  ErrorCode = "CABINET_ITEM_NOT_FOUND"
	ErrorCodeFavoriteNotFound ErrorCode = "FAVORITE_NOT_FOUND"
	ErrorCodeRouteNotFound    ErrorCode = "ROUTE_NOT_FOUND"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeRequestCancelled ErrorCode = "REQUEST_CANCELLED"

	// Server Error Codes (5xx)
	ErrorCodeInternalError   ErrorCode = "INTERNAL_ERROR"
	ErrorCodeUpstreamFailed  ErrorCode = "UPSTREAM_FAILED"
	ErrorCodeUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	// Add request ID if available
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendDrinkNotFoundError sends a standardized drink not found error
func SendDrinkNotFoundError(c *gin.Context, drinkID string) {
	SendError(c, http.StatusNotFound, ErrorCodeDrinkNotFound,
		"Drink '"+drinkID+"' not found")
}

// SendSessionNotFoundError sends a standardized session not found error
func SendSessionNotFoundError(c *gin.Context, sessionID string) {
	SendError(c, http.StatusNotFound, ErrorCodeSessionNotFound,
		"Session '"+sessionID+"' not found")
}

// SendCabinetItemNotFoundError sends a standardized cabinet item not found error
func SendCabinetItemNotFoundError(c *gin.Context, itemID int) {
	SendError(c, http.StatusNotFound, ErrorCodeCabinetNotFound,
		"Ingredient "+strconv.Itoa(itemID)+" not found in cabinet")
}

// SendFavoriteNotFoundError sends a standardized favorite not found error
func SendFavoriteNotFoundError(c *gin.Context, drinkID string) {
	SendError(c, http.StatusNotFound, ErrorCodeFavoriteNotFound,
		"Drink '"+drinkID+"' is not a favorite")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendOperationError maps an error from the pipeline or its collaborators
// to the matching status code and error code.
func SendOperationError(c *gin.Context, operation string, err error) {
	var validationErr *internalErrors.ValidationError
	var drinkErr *internalErrors.DrinkNotFoundError
	var sessionErr *internalErrors.SessionNotFoundError
	var cabinetErr *internalErrors.CabinetItemNotFoundError
	var favoriteErr *internalErrors.FavoriteNotFoundError

	switch {
	case errors.As(err, &validationErr):
		result := &ValidationResult{Valid: true}
		result.AddError(validationErr.Field, validationErr.Message)
		SendStructuredValidationError(c, result)
	case errors.As(err, &drinkErr):
		SendDrinkNotFoundError(c, drinkErr.DrinkID)
	case errors.As(err, &sessionErr):
		SendSessionNotFoundError(c, sessionErr.SessionID)
	case errors.As(err, &cabinetErr):
		SendCabinetItemNotFoundError(c, cabinetErr.ItemID)
	case errors.As(err, &favoriteErr):
		SendFavoriteNotFoundError(c, favoriteErr.DrinkID)
	case errors.Is(err, context.DeadlineExceeded):
		SendError(c, http.StatusGatewayTimeout, ErrorCodeUpstreamTimeout,
			"Timed out during "+operation)
	case errors.Is(err, context.Canceled):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeRequestCancelled,
			"Request cancelled during "+operation)
	case errors.Is(err, internalErrors.ErrNetworkFailure), errors.Is(err, internalErrors.ErrParseFailure):
		SendError(c, http.StatusBadGateway, ErrorCodeUpstreamFailed,
			"Cocktail database unavailable during "+operation+": "+err.Error())
	default:
		SendInternalError(c, operation, err)
	}
}
