package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/arisros/one-time-message/internal/config"
	"github.com/arisros/one-time-message/internal/migrations"
	"github.com/arisros/one-time-message/internal/repositories"
	"github.com/arisros/one-time-message/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

// App owns the storage backend chosen from DATABASE_URL:
//
//	postgres:// or postgresql://  → pgx pool, goose migrations at startup
//	memory                        → in-memory store (tests, throwaway runs)
//	anything else                 → path of a single-file sqlite store
type App struct {
	Config      *config.Config
	MessageRepo repositories.MessageRepository

	pool     *pgxpool.Pool
	sqliteDB *sql.DB
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	switch {
	case strings.HasPrefix(cfg.DatabaseURL, "postgres://"),
		strings.HasPrefix(cfg.DatabaseURL, "postgresql://"):
		if err := a.initPostgres(cfg.DatabaseURL); err != nil {
			return nil, err
		}
	case cfg.DatabaseURL == "memory":
		utils.Logger.Info("Using in-memory message store; nothing survives a restart")
		a.MessageRepo = repositories.NewMemoryMessageRepository()
	default:
		db, err := repositories.OpenSQLite(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		utils.Logger.Infof("Using sqlite message store at %s", cfg.DatabaseURL)
		a.sqliteDB = db
		a.MessageRepo = repositories.NewSQLiteMessageRepository(db)
	}

	return a, nil
}

func (a *App) initPostgres(databaseURL string) error {
	if err := runMigrations(databaseURL); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	var (
		pool    *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		pool, err = newDBPool(ctx, databaseURL)
		cancel()
		if err == nil {
			utils.Logger.Infof("Successfully connected to database on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed to connect to database on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
		}

		time.Sleep(backoff)
		backoff *= 2
	}

	a.pool = pool
	a.MessageRepo = repositories.NewPostgresMessageRepository(pool)
	return nil
}

// runMigrations applies the embedded goose migrations over a short-lived
// database/sql connection; the pgx pool used for serving traffic is opened
// afterwards.
func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		utils.Logger.Info("Database connection closed.")
	}
	if a.sqliteDB != nil {
		if err := a.sqliteDB.Close(); err != nil {
			utils.Logger.WithError(err).Warn("Failed to close sqlite store")
		} else {
			utils.Logger.Info("SQLite store closed.")
		}
	}
}

// newDBPool constructs the pgx pool with production-safe settings.
func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	return pgxpool.ConnectConfig(ctx, cfg)
}
