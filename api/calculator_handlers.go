package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-cocktail-search/internal/alcohol"
)

// ABVRequest lists the pours of a drink.
type ABVRequest struct {
	Components []alcohol.Component `json:"components"`
}

// ABVHandler computes the strength of a mixed drink. Invalid pours are
// skipped and counted, not rejected.
// Request Body: ABVRequest
func (api *API) ABVHandler(c *gin.Context) {
	var req ABVRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateABVRequest(&req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	c.JSON(http.StatusOK, alcohol.Calculate(req.Components))
}
