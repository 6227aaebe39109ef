package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-cocktail-search/model"
)

// GetAnalyticsHandler handles the request to get analytics data
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	if api.analytics == nil {
		c.JSON(http.StatusOK, model.AnalyticsDashboard{})
		return
	}
	c.JSON(http.StatusOK, api.analytics.GetDashboardData())
}
