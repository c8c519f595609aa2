package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"moviefinder/errs"
	"moviefinder/movie"
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.GET("/popular", s.handlePopularMovies)
	g.GET("/search", s.handleSearchMovies)
	g.GET("/discover", s.handleDiscoverMovies)
	g.GET("/genres", s.handleListGenres)
	g.GET("/trending", s.handleTrendingMovies)
	g.GET("/:id", s.handleMovieDetails)
}

func (s *Server) movieService() (movie.Service, error) {
	if s.MovieService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}
	return s.MovieService, nil
}

// handlePopularMovies godoc
// @Summary Popular Movies
// @Description One page of the catalog's popularity listing
// @Tags movies
// @Produce json
// @Param page query int false "Page number, default 1"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/movies/popular [get]
func (s *Server) handlePopularMovies(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}
	var q PageQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	p, err := svc.Popular(c.Request().Context(), q.page())
	if err != nil {
		return err
	}
	return writePage(c, p)
}

// handleSearchMovies godoc
// @Summary Search Movies
// @Description Free-text title search
// @Tags movies
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number, default 1"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/movies/search [get]
func (s *Server) handleSearchMovies(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}
	var q SearchQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	p, err := svc.Search(c.Request().Context(), q.Q, q.page())
	if err != nil {
		return err
	}
	return writePage(c, p)
}

// handleDiscoverMovies godoc
// @Summary Discover Movies
// @Description Catalog listing narrowed by genre, release year and minimum rating
// @Tags movies
// @Produce json
// @Param genre query int false "Genre id"
// @Param year query int false "Primary release year"
// @Param rating query number false "Minimum vote average (0-10)"
// @Param page query int false "Page number, default 1"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/movies/discover [get]
func (s *Server) handleDiscoverMovies(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}
	var q DiscoverQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	p, err := svc.Discover(c.Request().Context(), q.ToFilter(), q.page())
	if err != nil {
		return err
	}
	return writePage(c, p)
}

// handleListGenres godoc
// @Summary Genres
// @Tags movies
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/movies/genres [get]
func (s *Server) handleListGenres(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}
	genres, err := svc.Genres(c.Request().Context())
	if err != nil {
		return err
	}
	return writeList(c, http.StatusOK, genres)
}

// handleTrendingMovies godoc
// @Summary Trending Today
// @Tags movies
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/movies/trending [get]
func (s *Server) handleTrendingMovies(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}
	trending, err := svc.Trending(c.Request().Context())
	if err != nil {
		return err
	}
	return writeList(c, http.StatusOK, trending)
}

// handleMovieDetails godoc
// @Summary Movie Details
// @Description Full record with cast; the visit is logged
// @Tags movies
// @Produce json
// @Param id path int true "Movie id"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id} [get]
func (s *Server) handleMovieDetails(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}
	id, err := movieIDParam(c, "id")
	if err != nil {
		return err
	}

	d, err := svc.Details(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, d)
}

func movieIDParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, movie.ErrInvalidMovieID
	}
	return id, nil
}
