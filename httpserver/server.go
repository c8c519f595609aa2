package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"moviefinder/auth"
	"moviefinder/browse"
	"moviefinder/errs"
	"moviefinder/movie"
	"moviefinder/pkg/config"
	appjwt "moviefinder/pkg/jwt"
	"moviefinder/pkg/logger"
	"moviefinder/pkg/sentry"
	"moviefinder/searches"
	"moviefinder/watchlist"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	Config *config.Config
	Logger *zap.SugaredLogger

	MovieService     movie.Service
	SearchService    searches.Service
	WatchlistService watchlist.Service

	// Sessions holds the live browse controllers.
	Sessions *browse.Registry

	// Verifier checks the session tokens of the private routes.
	Verifier *appjwt.Verifier
}

func New(options ...Options) (*Server, error) {
	s := Server{
		Router: echo.New(),
		Config: config.Empty,
		Logger: logger.NOOPLogger,
	}

	for _, fn := range options {
		if err := fn(&s); err != nil {
			return nil, err
		}
	}

	s.Addr = ":8080"
	if s.Config.Port != 0 {
		s.Addr = fmt.Sprintf(":%d", s.Config.Port)
	}
	s.AllowOrigins = []string{"*"}
	if s.Config.AllowOrigins != "" {
		s.AllowOrigins = strings.Split(s.Config.AllowOrigins, ",")
	}
	if s.Verifier == nil {
		s.Verifier = appjwt.NewVerifier(s.Config.Auth.JWTSecret)
	}

	s.Router.HTTPErrorHandler = s.handleHTTPError
	s.Router.Validator = NewValidator()
	s.RegisterGlobalMiddlewares()

	api := s.Router.Group("/api")

	// PUBLIC
	s.RegisterMovieRoutes(api.Group("/movies"))
	s.RegisterSearchRoutes(api.Group("/searches"))
	s.RegisterBrowseRoutes(api.Group("/browse/sessions"))

	// PRIVATE
	s.RegisterWatchlistRoutes(api.Group("/watchlist", s.requireSession()))

	s.RegisterHealthRoutes()
	s.RegisterSwaggerRoutes()
	return &s, nil
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// handleHTTPError maps application errors to HTTP status codes and writes
// the error envelope. Server-side failures are logged and reported.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(he.Code)
		}
	} else {
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			code = http.StatusBadRequest
			message = errs.ErrorMessage(err)
		case errs.ENOTFOUND:
			code = http.StatusNotFound
			message = errs.ErrorMessage(err)
		case errs.ECONFLICT:
			code = http.StatusConflict
			message = errs.ErrorMessage(err)
		case errs.EUNAUTHORIZED:
			code = http.StatusUnauthorized
			message = auth.Describe(err)
		case errs.ENOTIMPLEMENTED:
			code = http.StatusNotImplemented
			message = errs.ErrorMessage(err)
		case errs.EUNAVAILABLE:
			code = http.StatusBadGateway
			message = errs.ErrorMessage(err)
		}
	}

	if code >= http.StatusInternalServerError {
		s.Logger.Errorw(err.Error(),
			"request_id", s.requestID(c),
			"path", c.Path(),
			"status", code,
		)
		sentry.WithContext(c).Error(err)
	}

	// Don't write response if already committed
	if !c.Response().Committed {
		if werr := writeError(c, code, message, "", err); werr != nil {
			s.Logger.Errorw("cannot write error response", "request_id", s.requestID(c), "error", werr)
		}
	}
}

func (s *Server) requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
