package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-cocktail-search/internal/search"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// SessionQueryRequest replaces the query of a search session.
type SessionQueryRequest struct {
	Query string `json:"query"`
	Wait  bool   `json:"wait,omitempty"` // Block until the debounced run settles
}

// SessionResponse is the state of one search session.
type SessionResponse struct {
	SessionID  string              `json:"session_id"`
	Generation uint64              `json:"generation"`
	State      services.ResultPage `json:"state"`
	Loaded     *bool               `json:"loaded,omitempty"` // Set by load more
}

// SearchHandler runs the pipeline once and returns the first pages of results.
// Query parameters: q (raw query), pages (number of pages to reveal, default 1).
func (api *API) SearchHandler(c *gin.Context) {
	query := c.Query("q")
	result := ValidateQuery(query)
	pageSize := api.search.PageSize()
	maxPages := (api.search.ResultCap() + pageSize - 1) / pageSize
	pages, pagesResult := ValidatePages(c.Query("pages"), maxPages)
	result.Errors = append(result.Errors, pagesResult.Errors...)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	outcome, err := api.search.Search(c.Request.Context(), query)
	if err != nil {
		SendOperationError(c, "search", err)
		return
	}
	if api.analytics != nil {
		api.analytics.TrackOutcome(outcome)
	}

	pager := search.NewPager(outcome.Results, pageSize)
	for i := 1; i < pages; i++ {
		if !pager.LoadMore() {
			break
		}
	}

	c.JSON(http.StatusOK, search.PageOf(outcome, pager))
}

// CreateSessionHandler opens a new search session showing the starters.
func (api *API) CreateSessionHandler(c *gin.Context) {
	s := api.sessions.Create()
	api.logger.Debug("session created", zap.String("session_id", s.ID()))

	c.JSON(http.StatusCreated, SessionResponse{
		SessionID: s.ID(),
		State:     s.State(),
	})
}

// GetSessionHandler returns the current page of a session.
func (api *API) GetSessionHandler(c *gin.Context) {
	sessionID := c.Param("id")
	if result := ValidateSessionID(sessionID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	s, err := api.sessions.Get(sessionID)
	if err != nil {
		SendOperationError(c, "get session", err)
		return
	}

	state := s.State()
	c.JSON(http.StatusOK, SessionResponse{SessionID: s.ID(), Generation: state.Generation, State: state})
}

// SetSessionQueryHandler replaces the query of a session. Without wait the
// response carries the loading state and the run completes in the background.
func (api *API) SetSessionQueryHandler(c *gin.Context) {
	sessionID := c.Param("id")
	if result := ValidateSessionID(sessionID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	var req SessionQueryRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateQuery(req.Query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	s, err := api.sessions.Get(sessionID)
	if err != nil {
		SendOperationError(c, "set session query", err)
		return
	}

	generation := s.SetQuery(req.Query)
	state := s.State()
	if req.Wait {
		state, err = s.Wait(c.Request.Context())
		if err != nil {
			SendOperationError(c, "wait for session results", err)
			return
		}
	}

	status := http.StatusOK
	if state.Loading {
		status = http.StatusAccepted
	}
	c.JSON(status, SessionResponse{SessionID: s.ID(), Generation: generation, State: state})
}

// LoadMoreHandler reveals the next page of a session's results.
func (api *API) LoadMoreHandler(c *gin.Context) {
	sessionID := c.Param("id")
	if result := ValidateSessionID(sessionID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	s, err := api.sessions.Get(sessionID)
	if err != nil {
		SendOperationError(c, "load more", err)
		return
	}

	state, loaded := s.LoadMore()
	c.JSON(http.StatusOK, SessionResponse{
		SessionID:  s.ID(),
		Generation: state.Generation,
		State:      state,
		Loaded:     &loaded,
	})
}

// DeleteSessionHandler closes a session and cancels its pending run.
func (api *API) DeleteSessionHandler(c *gin.Context) {
	sessionID := c.Param("id")
	if result := ValidateSessionID(sessionID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.sessions.Delete(sessionID); err != nil {
		SendOperationError(c, "delete session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session '" + sessionID + "' deleted successfully"})
}
