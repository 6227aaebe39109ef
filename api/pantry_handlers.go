package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-cocktail-search/internal/assistant"
	"github.com/gcbaptista/go-cocktail-search/internal/pantry"
)

// RecommendationsHandler ranks sampled drinks against the posted cabinet.
// Request Body: pantry.Request
func (api *API) RecommendationsHandler(c *gin.Context) {
	var req pantry.Request
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateRecommendationRequest(&req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	resp, err := api.recommender.Recommend(c.Request.Context(), req)
	if err != nil {
		SendOperationError(c, "recommendations", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// StoredRecommendationsHandler ranks sampled drinks against the stored cabinet.
// Query parameters: limit (1..50, default 20), fully_makeable_only (bool).
func (api *API) StoredRecommendationsHandler(c *gin.Context) {
	req, result := ValidateRecommendationQuery(c.Query("limit"), c.Query("fully_makeable_only"))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	req.Cabinet = api.cabinet.Names()

	resp, err := api.recommender.Recommend(c.Request.Context(), req)
	if err != nil {
		SendOperationError(c, "recommendations", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChatHandler answers one assistant message.
// Request Body: assistant.ChatRequest
func (api *API) ChatHandler(c *gin.Context) {
	var req assistant.ChatRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	resp, err := assistant.Reply(req)
	if err != nil {
		SendOperationError(c, "assistant chat", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
