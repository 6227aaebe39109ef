package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-cocktail-search/internal/analytics"
	"github.com/gcbaptista/go-cocktail-search/internal/favorites"
	"github.com/gcbaptista/go-cocktail-search/internal/metrics"
	"github.com/gcbaptista/go-cocktail-search/internal/pantry"
	"github.com/gcbaptista/go-cocktail-search/internal/session"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// MaxRequestBodySize bounds JSON request bodies.
const MaxRequestBodySize = 1 << 20

// Searcher is the pipeline surface the handlers need.
type Searcher interface {
	services.Searcher
	Details(ctx context.Context, id string) (*model.CocktailDetailed, error)
}

// Dependencies are the collaborators the HTTP surface is built from.
// Analytics, Metrics and Logger are optional. Without Cabinet or Favorites
// the API keeps them in memory.
type Dependencies struct {
	Search      Searcher
	Sessions    *session.Manager
	Recommender *pantry.Recommender
	Cabinet     *pantry.Cabinet
	Favorites   *favorites.Store
	Analytics   *analytics.Service
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

// API holds dependencies for API handlers.
type API struct {
	search      Searcher
	sessions    *session.Manager
	recommender *pantry.Recommender
	cabinet     *pantry.Cabinet
	favorites   *favorites.Store
	analytics   *analytics.Service
	metrics     *metrics.Metrics
	logger      *zap.Logger
	started     time.Time
}

// NewAPI creates a new API handler structure.
func NewAPI(deps Dependencies) *API {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cabinet := deps.Cabinet
	if cabinet == nil {
		cabinet = pantry.NewCabinet("", logger)
	}
	favs := deps.Favorites
	if favs == nil {
		favs = favorites.NewStore("", favorites.WithLogger(logger))
	}
	return &API{
		search:      deps.Search,
		sessions:    deps.Sessions,
		recommender: deps.Recommender,
		cabinet:     cabinet,
		favorites:   favs,
		analytics:   deps.Analytics,
		metrics:     deps.Metrics,
		logger:      logger.With(zap.String("module", "api")),
		started:     time.Now(),
	}
}

// SetupRoutes defines all the API routes of the cocktail search service.
func SetupRoutes(router *gin.Engine, deps Dependencies) *API {
	apiHandler := NewAPI(deps)

	router.Use(RequestIDMiddleware(), CORSMiddleware(), RequestSizeLimitMiddleware(MaxRequestBodySize))
	if deps.Metrics != nil {
		router.Use(MetricsMiddleware(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	router.Use(LoggerMiddleware(apiHandler.logger))

	router.NoRoute(func(c *gin.Context) {
		SendError(c, http.StatusNotFound, ErrorCodeRouteNotFound, "Route '"+c.Request.URL.Path+"' not found")
	})

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	// One-shot search
	router.GET("/starters", apiHandler.StartersHandler)
	router.GET("/search", apiHandler.SearchHandler)
	router.GET("/drinks/:id", apiHandler.GetDrinkHandler)

	// Interactive search sessions
	sessionRoutes := router.Group("/sessions")
	{
		sessionRoutes.POST("", apiHandler.CreateSessionHandler)            // Open a session
		sessionRoutes.GET("/:id", apiHandler.GetSessionHandler)            // Current page
		sessionRoutes.PUT("/:id/query", apiHandler.SetSessionQueryHandler) // Replace the query (debounced)
		sessionRoutes.POST("/:id/more", apiHandler.LoadMoreHandler)        // Reveal the next page
		sessionRoutes.DELETE("/:id", apiHandler.DeleteSessionHandler)      // Close a session
	}

	// Stored ingredient cabinet
	cabinetRoutes := router.Group("/cabinet")
	{
		cabinetRoutes.GET("", apiHandler.ListCabinetHandler)
		cabinetRoutes.POST("", apiHandler.AddCabinetItemHandler)
		cabinetRoutes.PUT("/:id", apiHandler.UpdateCabinetItemHandler)
		cabinetRoutes.DELETE("/:id", apiHandler.DeleteCabinetItemHandler)
	}

	// Favorite drinks
	favoriteRoutes := router.Group("/favorites")
	{
		favoriteRoutes.GET("", apiHandler.ListFavoritesHandler)
		favoriteRoutes.POST("", apiHandler.AddFavoriteHandler)
		favoriteRoutes.POST("/toggle", apiHandler.ToggleFavoriteHandler)
		favoriteRoutes.GET("/:id", apiHandler.GetFavoriteHandler)
		favoriteRoutes.DELETE("/:id", apiHandler.DeleteFavoriteHandler)
	}

	router.GET("/recommendations", apiHandler.StoredRecommendationsHandler) // Uses the stored cabinet
	router.POST("/recommendations", apiHandler.RecommendationsHandler)     // Uses the posted cabinet
	router.POST("/assistant/chat", apiHandler.ChatHandler)
	router.POST("/calculator/abv", apiHandler.ABVHandler)

	return apiHandler
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	sessions := 0
	if api.sessions != nil {
		sessions = api.sessions.Len()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"service":         "go-cocktail-search",
		"timestamp":       fmt.Sprintf("%d", time.Now().Unix()),
		"uptime_seconds":  int64(time.Since(api.started).Seconds()),
		"active_sessions": sessions,
	})
}

// StartersHandler returns the curated starter drinks.
func (api *API) StartersHandler(c *gin.Context) {
	starters := api.search.Starters()
	c.JSON(http.StatusOK, gin.H{
		"starters": starters,
		"count":    len(starters),
	})
}

// GetDrinkHandler returns full details of one drink.
func (api *API) GetDrinkHandler(c *gin.Context) {
	drinkID := c.Param("id")
	if result := ValidateDrinkID(drinkID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	drink, err := api.search.Details(c.Request.Context(), drinkID)
	if err != nil {
		SendOperationError(c, "drink lookup", err)
		return
	}

	c.JSON(http.StatusOK, drink)
}
