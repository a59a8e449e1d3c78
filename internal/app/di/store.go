package di

import (
	"context"
	"log/slog"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	tickadapters "tick_backend/internal/feature/ticks/adapters"
	"tick_backend/internal/platform/cache"
	"tick_backend/internal/platform/config"
	"tick_backend/internal/platform/db"
	infraredis "tick_backend/internal/platform/redis"
)

// OpenDB connects to the configured database and runs the migrations when enabled.
func OpenDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	d := cfg.Database
	gdb, err := db.Open(ctx, db.Config{
		Driver:       d.Driver,
		Host:         d.Host,
		Port:         d.Port,
		Name:         d.Name,
		User:         d.User,
		Password:     d.Password,
		SSLMode:      d.SSLMode,
		Path:         d.Path,
		MaxOpenConns: d.MaxOpenConns,
		MaxIdleConns: d.MaxIdleConns,
	}, d.ConnectTimeout, logger)
	if err != nil {
		return nil, err
	}
	if d.Migrate {
		if err := db.Migrate(gdb, d.UniqueTimeIndex); err != nil {
			return nil, err
		}
		logger.Info("database migrated", "unique_time_index", d.UniqueTimeIndex)
	}
	return gdb, nil
}

// NewRedis returns nil when the cache is disabled or unreachable; callers then run without cache.
func NewRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) *redisv9.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without cache", "error", err)
		return nil
	}
	return rdb
}

// NewTickRepository wraps the gorm tick store with the Redis read cache.
// With a nil client the cache layer passes every call through.
func NewTickRepository(gdb *gorm.DB, rdb *redisv9.Client, cfg *config.Config, logger *slog.Logger) cache.TickRepository {
	repo := tickadapters.NewTickRepository(gdb)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingTickRepository(rdb, cfg.Redis.TTL, repo, "ticks", logger)
}
