package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var Empty = new(Config)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV" default:"local"`
	Port         int    `envconfig:"PORT" default:"8080"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS"`

	// SearchStore selects the usage-tracking backend: postgres, redis or dynamodb.
	SearchStore string `envconfig:"SEARCH_STORE" default:"postgres"`

	DB struct {
		Driver    string `envconfig:"DB_DRIVER" default:"postgres"`
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT" default:"5432"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB"`
	}
	DynamoDB struct {
		Region        string `envconfig:"DDB_REGION"`
		Endpoint      string `envconfig:"DDB_ENDPOINT"`
		AccessKey     string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey     string `envconfig:"DDB_SECRET_KEY"`
		SessionToken  string `envconfig:"DDB_SESSION_TOKEN"`
		SearchesTable string `envconfig:"DDB_SEARCHES_TABLE" default:"searches"`
		CreateTable   bool   `envconfig:"DDB_CREATE_TABLE"`
	}
	TMDB struct {
		APIKey    string `envconfig:"TMDB_API_KEY"`
		ReadToken string `envconfig:"TMDB_READ_TOKEN"`
		BaseURL   string `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
		Language  string `envconfig:"TMDB_LANGUAGE" default:"en-US"`
	}
	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}
	Browse struct {
		DebounceMS        int `envconfig:"BROWSE_DEBOUNCE_MS" default:"500"`
		SessionTTLMinutes int `envconfig:"BROWSE_SESSION_TTL_MINUTES" default:"30"`
		TrendingLimit     int `envconfig:"TRENDING_LIMIT" default:"5"`
	}
}

func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.Browse.DebounceMS) * time.Millisecond
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Browse.SessionTTLMinutes) * time.Minute
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}
