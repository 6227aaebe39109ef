package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-cocktail-search/internal/pantry"
)

// CabinetAddRequest stores an ingredient. Quantity defaults to a full bottle.
type CabinetAddRequest struct {
	IngredientName string   `json:"ingredient_name"`
	Quantity       *float64 `json:"quantity,omitempty"` // 0..1
}

// CabinetUpdateRequest changes the quantity of a stored ingredient.
type CabinetUpdateRequest struct {
	Quantity *float64 `json:"quantity"`
}

// ListCabinetHandler returns the stored ingredients.
func (api *API) ListCabinetHandler(c *gin.Context) {
	items := api.cabinet.List()
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// AddCabinetItemHandler stores an ingredient, or updates its quantity when it
// is already stored.
// Request Body: CabinetAddRequest
func (api *API) AddCabinetItemHandler(c *gin.Context) {
	var req CabinetAddRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	quantity := pantry.FullQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, created, err := api.cabinet.Add(req.IngredientName, quantity)
	if err != nil {
		SendOperationError(c, "add cabinet item", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		api.logger.Debug("cabinet item added", zap.Int("id", item.ID), zap.String("name", item.Name))
	}
	c.JSON(status, item)
}

// UpdateCabinetItemHandler changes the quantity of a stored ingredient.
// Request Body: CabinetUpdateRequest
func (api *API) UpdateCabinetItemHandler(c *gin.Context) {
	id, result := ValidateCabinetItemID(c.Param("id"))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	var req CabinetUpdateRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if req.Quantity == nil {
		result := &ValidationResult{Valid: true}
		result.AddError("quantity", "Quantity is required")
		SendValidationError(c, result)
		return
	}

	item, err := api.cabinet.Update(id, *req.Quantity)
	if err != nil {
		SendOperationError(c, "update cabinet item", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteCabinetItemHandler removes a stored ingredient.
func (api *API) DeleteCabinetItemHandler(c *gin.Context) {
	id, result := ValidateCabinetItemID(c.Param("id"))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.cabinet.Remove(id); err != nil {
		SendOperationError(c, "delete cabinet item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ingredient " + strconv.Itoa(id) + " removed from cabinet"})
}
