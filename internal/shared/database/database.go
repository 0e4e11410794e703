package database

import (
	"context"
	"fmt"
	"time"

	"mergington/internal/shared/config"
	"mergington/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// DB holds external store connections. Activity state itself lives in
// process memory; Redis only backs rate limiting.
type DB struct {
	Redis *redis.Client

	// redisErr is set when Redis was enabled but the connection failed
	redisErr error
}

// InitDB opens the configured connections. A disabled store leaves its field nil.
// When Redis is enabled but unreachable the returned DB is still usable and its
// HealthCheck keeps reporting the failure.
func InitDB(cfg *config.Config) (*DB, error) {
	db := &DB{}
	if !cfg.Redis.Enabled {
		return db, nil
	}

	rdb, err := initRedis(cfg)
	if err != nil {
		db.redisErr = fmt.Errorf("failed to initialize Redis: %w", err)
		return db, db.redisErr
	}
	db.Redis = rdb

	return db, nil
}

// initRedis initializes Redis connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,

		// Connection pool settings
		PoolSize:     10,
		MinIdleConns: 2,

		// Timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
	}

	logger.GetDefault().Info("✅ Redis connected successfully")
	return rdb, nil
}

// Close closes all connections
func (db *DB) Close() error {
	if db == nil || db.Redis == nil {
		return nil
	}

	if err := db.Redis.Close(); err != nil {
		return fmt.Errorf("failed to close Redis: %w", err)
	}

	logger.GetDefault().Info("✅ All connections closed")
	return nil
}

// HealthCheck pings every open connection
func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil {
		return nil
	}
	if db.redisErr != nil {
		return db.redisErr
	}
	if db.Redis == nil {
		return nil
	}

	if err := db.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

// GetRedis returns the Redis client, nil when Redis is disabled
func (db *DB) GetRedis() *redis.Client {
	if db == nil {
		return nil
	}
	return db.Redis
}
