package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/config"
	"github.com/crucial707/dosasset/internal/repo"
)

// OpenStore connects the KV backend selected by cfg.StoreDriver. Postgres
// migrations are applied before the store is returned.
func OpenStore(ctx context.Context, cfg config.Config, log *zap.Logger) (repo.KV, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite, "":
		conn, err := ConnectSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		store, err := repo.NewSQLStore(ctx, conn, repo.SQLite)
		if err != nil {
			conn.Close()
			return nil, err
		}
		log.Info("store ready", zap.String("driver", "sqlite"), zap.String("path", cfg.SQLitePath))
		return store, nil

	case config.DriverPostgres:
		if err := Migrate(PostgresURL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
			return nil, err
		}
		conn, err := Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store, err := repo.NewSQLStore(ctx, conn, repo.Postgres)
		if err != nil {
			conn.Close()
			return nil, err
		}
		log.Info("store ready", zap.String("driver", "postgres"), zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
		return store, nil

	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		log.Info("store ready", zap.String("driver", "redis"), zap.String("addr", cfg.RedisAddr))
		return repo.NewRedisStore(rdb, cfg.RedisPrefix), nil

	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on exit")
		return repo.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
