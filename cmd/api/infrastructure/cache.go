package infrastructure

import (
	"fmt"

	"go.uber.org/zap"

	"book-catalog/internal/config"
	redisclient "book-catalog/pkg/redis"
)

// NewRedisClient connects to Redis when it is enabled. It returns a nil
// client and no error when REDIS_ENABLED is false.
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	if !cfg.Redis.Enabled {
		l.Warn("Redis disabled: user cache and rate limiting are off, session revocation is in-process only")
		return nil, nil
	}

	rdb, err := redisclient.NewClient(redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Host, err)
	}

	return rdb, nil
}
