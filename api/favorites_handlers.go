package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-cocktail-search/model"
)

// FavoriteStatus tells whether a drink is a favorite.
type FavoriteStatus struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

// ListFavoritesHandler returns the favorites, most recently added first.
func (api *API) ListFavoritesHandler(c *gin.Context) {
	list := api.favorites.List()
	c.JSON(http.StatusOK, gin.H{
		"favorites": list,
		"count":     len(list),
	})
}

// AddFavoriteHandler saves a drink as favorite.
// Request Body: model.CocktailSummary
func (api *API) AddFavoriteHandler(c *gin.Context) {
	var drink model.CocktailSummary
	if result := ValidateJSONBinding(c, &drink); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	f, err := api.favorites.Add(drink)
	if err != nil {
		SendOperationError(c, "add favorite", err)
		return
	}

	c.JSON(http.StatusCreated, f)
}

// ToggleFavoriteHandler flips the favorite state of a drink and returns the new state.
// Request Body: model.CocktailSummary
func (api *API) ToggleFavoriteHandler(c *gin.Context) {
	var drink model.CocktailSummary
	if result := ValidateJSONBinding(c, &drink); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	on, err := api.favorites.Toggle(drink)
	if err != nil {
		SendOperationError(c, "toggle favorite", err)
		return
	}

	c.JSON(http.StatusOK, FavoriteStatus{ID: drink.ID, Favorite: on})
}

// GetFavoriteHandler tells whether a drink is a favorite.
func (api *API) GetFavoriteHandler(c *gin.Context) {
	drinkID := c.Param("id")
	if result := ValidateDrinkID(drinkID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	c.JSON(http.StatusOK, FavoriteStatus{ID: drinkID, Favorite: api.favorites.IsFavorite(drinkID)})
}

// DeleteFavoriteHandler removes a drink from the favorites.
func (api *API) DeleteFavoriteHandler(c *gin.Context) {
	drinkID := c.Param("id")
	if result := ValidateDrinkID(drinkID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.favorites.Remove(drinkID); err != nil {
		SendOperationError(c, "delete favorite", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Drink '" + drinkID + "' removed from favorites"})
}
