package postgres_test

import (
	"context"
	"testing"
	"time"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"moviefinder/postgres"
)

func TestConnection(t *testing.T) {
	dbName, dbUser, dbPass := "moviefinder", "movies", "123456"
	db := CreateConnection(t, dbName, dbUser, dbPass)
	MigrateTestDatabase(t, db, "../migrations")

	var currentUser string
	require.NoError(t, db.Raw("SELECT current_user").Scan(&currentUser).Error)
	assert.Equal(t, dbUser, currentUser)

	t.Run("searches are unique per term and ranked by count", func(t *testing.T) {
		m := db.Migrator()
		for _, col := range []string{"search_term", "title", "poster_url", "count", "movie_id", "created_at", "updated_at"} {
			assert.True(t, m.HasColumn("searches", col), col)
		}
		assert.True(t, m.HasIndex("searches", "idx_searches_search_term"))
		assert.True(t, m.HasIndex("searches", "idx_searches_count"))
	})

	t.Run("watchlist holds one row per user and movie", func(t *testing.T) {
		m := db.Migrator()
		var unique int64
		require.NoError(t, db.Raw(
			"SELECT COUNT(*) FROM information_schema.table_constraints WHERE table_name = ? AND constraint_name = ? AND constraint_type = 'UNIQUE'",
			"watchlist", "watchlist_user_movie",
		).Scan(&unique).Error)
		assert.Equal(t, int64(1), unique)
		assert.True(t, m.HasIndex("watchlist", "idx_watchlist_user_created"))
		for _, col := range []string{"poster_path", "release_year", "vote_average"} {
			assert.True(t, m.HasColumn("watchlist", col), col)
		}
	})

	t.Run("movie views are indexed by movie", func(t *testing.T) {
		assert.True(t, db.Migrator().HasIndex("movie_views", "idx_movie_views_movie_id"))
	})

	t.Run("rolling back drops every table", func(t *testing.T) {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		source := &migrate.FileMigrationSource{Dir: "../migrations"}

		n, err := migrate.Exec(sqlDB, "postgres", source, migrate.Down)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		for _, table := range []string{"searches", "watchlist", "movie_views"} {
			assert.False(t, db.Migrator().HasTable(table), table)
		}

		_, err = migrate.Exec(sqlDB, "postgres", source, migrate.Up)
		require.NoError(t, err)
		assert.True(t, db.Migrator().HasTable("watchlist"))
	})
}

func TestNewConnectionUnreachableHost(t *testing.T) {
	_, err := postgres.NewConnection(postgres.Options{
		DBName:   "moviefinder",
		DBUser:   "movies",
		Password: "wrong",
		Host:     "db.invalid",
		Port:     "5432",
		SSLMode:  true,
	})

	assert.Error(t, err)
}

func MigrateTestDatabase(t testing.TB, db *gorm.DB, migrationPath string) {
	t.Helper()

	migrations := &migrate.FileMigrationSource{
		Dir: migrationPath,
	}

	sqlDB, err := db.DB()
	assert.NoError(t, err)

	_, err = migrate.Exec(sqlDB, "postgres", migrations, migrate.Up)
	assert.NoError(t, err)
}

func CreateConnection(t testing.TB, dbName string, dbUser string, dbPass string) *gorm.DB {
	cont := SetupPostgresContainer(t, dbName, dbUser, dbPass)
	host, _ := cont.Host(context.Background())
	port, _ := cont.MappedPort(context.Background(), "5432")

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   dbName,
		DBUser:   dbUser,
		Password: dbPass,
		Host:     host,
		Port:     port.Port(),
	})
	assert.NoError(t, err)

	return db
}

func SetupPostgresContainer(t testing.TB, dbname, user, password string) testcontainers.Container {
	ctx := context.Background()
	postgre, err := pgcontainer.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		pgcontainer.WithDatabase(dbname),
		pgcontainer.WithUsername(user),
		pgcontainer.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Second)),
	)
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, postgre.Terminate(ctx))
	})

	return postgre
}
