// Package storage opens the todo store selected by STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/config"
	boltInfra "github.com/fastygo/todo/internal/infrastructure/bolt"
	pgInfra "github.com/fastygo/todo/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/todo/internal/infrastructure/redis"
	sqliteInfra "github.com/fastygo/todo/internal/infrastructure/sqlite"
	"github.com/fastygo/todo/internal/services/lifecycle"
	"github.com/fastygo/todo/repository"
	boltRepo "github.com/fastygo/todo/repository/bolt"
	"github.com/fastygo/todo/repository/memory"
	pgRepo "github.com/fastygo/todo/repository/postgres"
	redisRepo "github.com/fastygo/todo/repository/redis"
	sqliteRepo "github.com/fastygo/todo/repository/sqlite"
)

// Store is an opened todo collection and the hook that releases it.
type Store struct {
	Driver string
	Todos  repository.TodoRepository
	Close  lifecycle.ShutdownFunc
}

// Open connects the configured driver. Postgres schema migrations run first
// when enabled.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("driver", cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: cfg.Storage.Driver,
			Todos:  pgRepo.NewTodoRepository(pool),
			Close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: cfg.Storage.Driver,
			Todos:  redisRepo.NewTodoRepository(client, cfg.Redis.KeyPrefix),
			Close:  func(context.Context) error { return client.Close() },
		}, nil

	case config.DriverBolt:
		db, err := boltInfra.Open(cfg.Bolt.Path, boltRepo.Buckets(), logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: cfg.Storage.Driver,
			Todos:  boltRepo.NewTodoRepository(db),
			Close:  func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverSQLite:
		db, err := sqliteInfra.Open(cfg.SQLite.DSN, logger, &sqliteRepo.Todo{})
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver: cfg.Storage.Driver,
			Todos:  sqliteRepo.NewTodoRepository(db),
			Close:  func(context.Context) error { return sqliteInfra.Close(db) },
		}, nil

	case config.DriverMemory:
		logger.Warn("todos are kept in memory and lost on restart")
		return &Store{
			Driver: cfg.Storage.Driver,
			Todos:  memory.NewTodoRepository(),
			Close:  func(context.Context) error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
