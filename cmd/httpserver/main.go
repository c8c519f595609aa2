package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"moviefinder/browse"
	"moviefinder/dynamodb"
	"moviefinder/events"
	"moviefinder/httpserver"
	"moviefinder/movie"
	"moviefinder/pkg/config"
	appjwt "moviefinder/pkg/jwt"
	"moviefinder/pkg/logger"
	"moviefinder/pkg/sentry"
	"moviefinder/postgres"
	"moviefinder/redis"
	"moviefinder/searches"
	"moviefinder/tmdb"
	"moviefinder/watchlist"
)

const sweepInterval = time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		os.Exit(fail(log, err))
	}
}

// fail reports err and flushes the logger, since os.Exit skips deferred calls.
func fail(log *zap.SugaredLogger, err error) int {
	log.Errorw("server stopped with error", "error", err)
	sentry.Fatal(err)
	_ = log.Sync()
	return 1
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	err := sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := tmdb.New(tmdb.Options{
		APIKey:    cfg.TMDB.APIKey,
		ReadToken: cfg.TMDB.ReadToken,
		BaseURL:   cfg.TMDB.BaseURL,
		Language:  cfg.TMDB.Language,
	})
	if err != nil {
		return err
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		return fmt.Errorf("open postgres connection: %w", err)
	}

	searchRepo, closeStore, err := newSearchRepository(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStore()
	log.Infow("search tracking store ready", "store", cfg.SearchStore)

	movieService := movie.NewUsecase(catalog, postgres.NewMovieViewRepository(db), log.Named("movie"))
	searchService := searches.NewUsecase(searchRepo, log.Named("searches"))
	watchlistService := watchlist.NewUsecase(postgres.NewWatchlistRepository(db), log.Named("watchlist"))

	bus := events.NewBus()
	browse.SubscribeRecorder(bus, searchService)

	browseLog := log.Named("browse")
	sessions := browse.NewRegistry(cfg.SessionTTL(), func() *browse.Controller {
		return browse.NewController(catalog, searchService, browse.Options{
			Debounce:      cfg.DebounceDelay(),
			TrendingLimit: cfg.Browse.TrendingLimit,
			Events:        bus,
			Logger:        browseLog,
		})
	}, browseLog)
	go sessions.Run(ctx, sweepInterval)

	server, err := httpserver.New(
		httpserver.WithConfig(cfg),
		httpserver.WithLogger(log.Named("http")),
		httpserver.WithMovieService(movieService),
		httpserver.WithSearchService(searchService),
		httpserver.WithWatchlistService(watchlistService),
		httpserver.WithSessions(sessions),
		httpserver.WithVerifier(appjwt.NewVerifier(cfg.Auth.JWTSecret)),
	)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server started", "addr", server.Addr)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Infow("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	// let pending search recordings finish
	bus.Wait()
	return nil
}

// newSearchRepository builds the usage-tracking store selected by SEARCH_STORE.
func newSearchRepository(ctx context.Context, cfg *config.Config, db *gorm.DB) (searches.Repository, func(), error) {
	switch cfg.SearchStore {
	case "", "postgres":
		return postgres.NewSearchRepository(db), func() {}, nil
	case "redis":
		client, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redis.NewSearchRepository(client), func() { _ = client.Close() }, nil
	case "dynamodb":
		client, err := dynamodb.NewClient(ctx, dynamodb.Options{
			Region:       cfg.DynamoDB.Region,
			Endpoint:     cfg.DynamoDB.Endpoint,
			AccessKey:    cfg.DynamoDB.AccessKey,
			SecretKey:    cfg.DynamoDB.SecretKey,
			SessionToken: cfg.DynamoDB.SessionToken,
		})
		if err != nil {
			return nil, nil, err
		}
		if cfg.DynamoDB.CreateTable {
			if err := dynamodb.EnsureSearchTable(ctx, client, cfg.DynamoDB.SearchesTable); err != nil {
				return nil, nil, err
			}
		}
		return dynamodb.NewSearchRepository(client, cfg.DynamoDB.SearchesTable), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown search store %q", cfg.SearchStore)
	}
}
