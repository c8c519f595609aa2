package httpserver

import (
	"net/http"

	gojwt "github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"moviefinder/errs"
	appjwt "moviefinder/pkg/jwt"
	"moviefinder/watchlist"
)

// requireSession rejects requests without a valid bearer token. The
// parsed token is stored under the "user" context key.
func (s *Server) requireSession() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(_ echo.Context, auth string) (interface{}, error) {
			return s.Verifier.ParseToken(auth)
		},
		ErrorHandler: func(_ echo.Context, _ error) error {
			return watchlist.ErrNotSignedIn
		},
	})
}

func currentUser(c echo.Context) (string, error) {
	token, ok := c.Get("user").(*gojwt.Token)
	if !ok {
		return "", watchlist.ErrNotSignedIn
	}
	id, err := appjwt.UserID(token)
	if err != nil {
		return "", watchlist.ErrNotSignedIn
	}
	return id, nil
}

func (s *Server) RegisterWatchlistRoutes(g *echo.Group) {
	g.GET("", s.handleListWatchlist)
	g.POST("", s.handleAddToWatchlist)
	g.GET("/:movieId", s.handleWatchlistStatus)
	g.DELETE("/:movieId", s.handleRemoveFromWatchlist)
}

func (s *Server) watchlistService() (watchlist.Service, error) {
	if s.WatchlistService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "watchlist not configured")
	}
	return s.WatchlistService, nil
}

// handleListWatchlist godoc
// @Summary My Watchlist
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /api/watchlist [get]
func (s *Server) handleListWatchlist(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return err
	}
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := svc.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return writeList(c, http.StatusOK, items)
}

// handleAddToWatchlist godoc
// @Summary Add To Watchlist
// @Tags watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddWatchlistRequest true "Movie"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /api/watchlist [post]
func (s *Server) handleAddToWatchlist(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return err
	}
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req AddWatchlistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := svc.Add(c.Request().Context(), userID, req.ToSummary())
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusCreated, item)
}

// handleWatchlistStatus godoc
// @Summary Watchlist Membership
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Param movieId path int true "Movie id"
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /api/watchlist/{movieId} [get]
func (s *Server) handleWatchlistStatus(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return err
	}
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	movieID, err := movieIDParam(c, "movieId")
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, map[string]interface{}{
		"movieId":     movieID,
		"inWatchlist": svc.IsIn(c.Request().Context(), userID, movieID),
	})
}

// handleRemoveFromWatchlist godoc
// @Summary Remove From Watchlist
// @Tags watchlist
// @Security BearerAuth
// @Param movieId path int true "Movie id"
// @Success 204
// @Failure 401 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/watchlist/{movieId} [delete]
func (s *Server) handleRemoveFromWatchlist(c echo.Context) error {
	svc, err := s.watchlistService()
	if err != nil {
		return err
	}
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	movieID, err := movieIDParam(c, "movieId")
	if err != nil {
		return err
	}

	if err := svc.Remove(c.Request().Context(), userID, movieID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
