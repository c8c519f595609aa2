package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"moviefinder/errs"
)

func (s *Server) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/trending", s.handleTopSearches)
}

// handleTopSearches godoc
// @Summary Most Searched
// @Description Search terms ranked by how often they were searched
// @Tags searches
// @Produce json
// @Param limit query int false "Max entries, default 5"
// @Success 200 {object} APIResponse
// @Router /api/searches/trending [get]
func (s *Server) handleTopSearches(c echo.Context) error {
	if s.SearchService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "search tracking not configured")
	}
	var q TopSearchesQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	return writeList(c, http.StatusOK, s.SearchService.ListTopSearched(c.Request().Context(), q.Limit))
}
