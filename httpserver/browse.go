package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"moviefinder/browse"
	"moviefinder/errs"
)

// SessionResponse is a browse snapshot plus its derived loading flags.
type SessionResponse struct {
	ID string `json:"id"`
	browse.State
	IsLoading     bool `json:"isLoading"`
	IsLoadingMore bool `json:"isLoadingMore"`
}

func newSessionResponse(id string, st browse.State) SessionResponse {
	return SessionResponse{
		ID:            id,
		State:         st,
		IsLoading:     st.IsLoading(),
		IsLoadingMore: st.IsLoadingMore(),
	}
}

func (s *Server) RegisterBrowseRoutes(g *echo.Group) {
	g.POST("", s.handleCreateSession)
	g.GET("/:id", s.handleGetSession)
	g.PUT("/:id/term", s.handleSetTerm)
	g.POST("/:id/search", s.handleSubmitSearch)
	g.PUT("/:id/filters", s.handleSetFilter)
	g.POST("/:id/more", s.handleLoadMore)
	g.POST("/:id/retry", s.handleRetry)
	g.DELETE("/:id", s.handleCloseSession)
}

func (s *Server) session(c echo.Context) (*browse.Controller, error) {
	if s.Sessions == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "browse sessions not configured")
	}
	return s.Sessions.Get(c.Param("id"))
}

// handleCreateSession godoc
// @Summary Open Browse Session
// @Description Creates a session and starts loading the popular listing, genres, trending and top searches
// @Tags browse
// @Produce json
// @Success 201 {object} APIResponse
// @Router /api/browse/sessions [post]
func (s *Server) handleCreateSession(c echo.Context) error {
	if s.Sessions == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "browse sessions not configured")
	}
	id, ctrl := s.Sessions.Create()
	st := ctrl.Mount(c.Request().Context())
	return writeSuccess(c, http.StatusCreated, newSessionResponse(id, st))
}

// handleGetSession godoc
// @Summary Browse Session State
// @Tags browse
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/browse/sessions/{id} [get]
func (s *Server) handleGetSession(c echo.Context) error {
	ctrl, err := s.session(c)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, newSessionResponse(c.Param("id"), ctrl.State()))
}

// handleSetTerm godoc
// @Summary Update Search Term
// @Description Stores the raw term; the search runs once typing settles
// @Tags browse
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body SetTermRequest true "Term"
// @Success 202 {object} APIResponse
// @Router /api/browse/sessions/{id}/term [put]
func (s *Server) handleSetTerm(c echo.Context) error {
	ctrl, err := s.session(c)
	if err != nil {
		return err
	}
	var req SetTermRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return writeSuccess(c, http.StatusAccepted, newSessionResponse(c.Param("id"), ctrl.SetTerm(req.Term)))
}

// handleSubmitSearch godoc
// @Summary Submit Search
// @Description Runs the current term immediately, skipping the debounce
// @Tags browse
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} APIResponse
// @Router /api/browse/sessions/{id}/search [post]
func (s *Server) handleSubmitSearch(c echo.Context) error {
	ctrl, err := s.session(c)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, newSessionResponse(c.Param("id"), ctrl.Submit(c.Request().Context())))
}

// handleSetFilter godoc
// @Summary Apply Filters
// @Description An active filter takes precedence over the search term
// @Tags browse
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body SetFilterRequest true "Filter"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /api/browse/sessions/{id}/filters [put]
func (s *Server) handleSetFilter(c echo.Context) error {
	ctrl, err := s.session(c)
	if err != nil {
		return err
	}
	var req SetFilterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	st, err := ctrl.SetFilter(c.Request().Context(), req.ToFilter())
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, newSessionResponse(c.Param("id"), st))
}

// handleLoadMore godoc
// @Summary Load Next Page
// @Tags browse
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} APIResponse
// @Router /api/browse/sessions/{id}/more [post]
func (s *Server) handleLoadMore(c echo.Context) error {
	ctrl, err := s.session(c)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, newSessionResponse(c.Param("id"), ctrl.LoadMore(c.Request().Context())))
}

// handleRetry godoc
// @Summary Retry Failed Load
// @Tags browse
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} APIResponse
// @Router /api/browse/sessions/{id}/retry [post]
func (s *Server) handleRetry(c echo.Context) error {
	ctrl, err := s.session(c)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, newSessionResponse(c.Param("id"), ctrl.Retry(c.Request().Context())))
}

// handleCloseSession godoc
// @Summary Close Browse Session
// @Tags browse
// @Param id path string true "Session id"
// @Success 204
// @Failure 404 {object} APIResponse
// @Router /api/browse/sessions/{id} [delete]
func (s *Server) handleCloseSession(c echo.Context) error {
	if s.Sessions == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "browse sessions not configured")
	}
	if err := s.Sessions.Delete(c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
