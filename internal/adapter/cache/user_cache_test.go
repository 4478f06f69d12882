package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "book-catalog/internal/domain/user"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func testUser() *domain.User {
	return &domain.User{
		ID:           "user-1",
		Name:         "Ann",
		Email:        "a@x.com",
		PasswordHash: "$2a$12$secret",
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRedisUserCache_Set_OmitsPasswordHash(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	require.NoError(t, cache.Set(context.Background(), testUser()))

	data, err := client.Get(context.Background(), "user:email:a@x.com").Bytes()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	var stored map[string]any
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "user-1", stored["id"])
	assert.Equal(t, "Ann", stored["name"])
}

func TestRedisUserCache_Set_NilUser(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	err := cache.Set(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cache nil user")
}

func TestRedisUserCache_Get_Hit(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))
	u := testUser()
	require.NoError(t, cache.Set(context.Background(), u))

	cached, err := cache.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, cached)

	assert.Equal(t, u.ID, cached.ID)
	assert.Equal(t, u.Name, cached.Name)
	assert.Equal(t, u.Email, cached.Email)
	assert.True(t, u.CreatedAt.Equal(cached.CreatedAt))
	assert.Empty(t, cached.PasswordHash)
}

func TestRedisUserCache_Get_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))

	cached, err := cache.Get(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserCache_Get_CorruptEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t))
	require.NoError(t, mr.Set("user:email:a@x.com", "{not json"))

	cached, err := cache.Get(context.Background(), "a@x.com")
	assert.Error(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserCache_TTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))
	require.NoError(t, cache.Set(context.Background(), testUser()))

	assert.Equal(t, time.Minute, mr.TTL("user:email:a@x.com"))

	mr.FastForward(2 * time.Minute)
	cached, err := cache.Get(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserCache_Get_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserCache(client, time.Minute, zaptest.NewLogger(t))
	mr.Close()

	cached, err := cache.Get(context.Background(), "a@x.com")
	assert.Error(t, err)
	assert.Nil(t, cached)
}
