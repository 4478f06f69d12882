package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "book-catalog/internal/domain/user"
)

// UserCache defines the interface for user caching operations.
// Entries are keyed by normalized email and never carry the password hash.
type UserCache interface {
	// Get retrieves a user from cache by email.
	// Returns nil if user is not found in cache.
	Get(ctx context.Context, email string) (*domain.User, error)

	// Set stores a user in cache with the configured TTL.
	Set(ctx context.Context, user *domain.User) error
}

// RedisUserCache implements UserCache using Redis as the backing store.
type RedisUserCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache creates a new Redis-backed user cache.
func NewRedisUserCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserCache {
	return &RedisUserCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cachedUser is the JSON shape stored in Redis.
type cachedUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// cacheKey generates a Redis key for an email.
func cacheKey(email string) string {
	return fmt.Sprintf("user:email:%s", email)
}

// Get retrieves a user from Redis cache.
func (c *RedisUserCache) Get(ctx context.Context, email string) (*domain.User, error) {
	data, err := c.client.Get(ctx, cacheKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.String("email", email))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	var cu cachedUser
	if err := json.Unmarshal(data, &cu); err != nil {
		c.log.Error("failed to unmarshal cached user", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.String("email", email))
	return &domain.User{
		ID:        cu.ID,
		Name:      cu.Name,
		Email:     cu.Email,
		CreatedAt: cu.CreatedAt,
	}, nil
}

// Set stores a user in Redis cache with TTL.
func (c *RedisUserCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil {
		return fmt.Errorf("cannot cache nil user")
	}

	data, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		c.log.Error("failed to marshal user for cache", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, cacheKey(user.Email), data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached user", zap.String("user_id", user.ID), zap.Duration("ttl", c.ttl))
	return nil
}
