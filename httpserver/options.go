package httpserver

import (
	"errors"

	"go.uber.org/zap"

	"moviefinder/browse"
	"moviefinder/movie"
	"moviefinder/pkg/config"
	appjwt "moviefinder/pkg/jwt"
	"moviefinder/searches"
	"moviefinder/watchlist"
)

type Options func(s *Server) error

func WithConfig(cfg *config.Config) Options {
	return func(s *Server) error {
		if cfg == nil {
			return errors.New("httpserver: nil config")
		}
		s.Config = cfg
		return nil
	}
}

func WithLogger(l *zap.SugaredLogger) Options {
	return func(s *Server) error {
		s.Logger = l
		return nil
	}
}

func WithMovieService(svc movie.Service) Options {
	return func(s *Server) error {
		s.MovieService = svc
		return nil
	}
}

func WithSearchService(svc searches.Service) Options {
	return func(s *Server) error {
		s.SearchService = svc
		return nil
	}
}

func WithWatchlistService(svc watchlist.Service) Options {
	return func(s *Server) error {
		s.WatchlistService = svc
		return nil
	}
}

func WithSessions(r *browse.Registry) Options {
	return func(s *Server) error {
		s.Sessions = r
		return nil
	}
}

func WithVerifier(v *appjwt.Verifier) Options {
	return func(s *Server) error {
		s.Verifier = v
		return nil
	}
}
