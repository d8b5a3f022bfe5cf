package cache

import (
	"context"
	"time"

	"groupmeet-api/core/config"
	"groupmeet-api/core/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ICache is the subset of redis the services use. The skip operator takes
// per-series locks through it; everything else is plain get/set.
type ICache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// TryLock attempts to take a lock with SET NX. It returns a release
	// token on success and ok=false when somebody else holds the lock.
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Unlock releases a lock only if it still holds the given token, so an
	// expired-and-reacquired lock is never released by the old owner.
	Unlock(ctx context.Context, key string, token string) error
}

type Cache struct {
	client *redis.Client
}

var instance *Cache

func GetCache() *Cache {
	return instance
}

func InitCache(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		return nil, err
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr, "db", cfg.DB)

	instance = &Cache{client: client}
	return instance, nil
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (c *Cache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (c *Cache) Unlock(ctx context.Context, key string, token string) error {
	return unlockScript.Run(ctx, c.client, []string{key}, token).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
