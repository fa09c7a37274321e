package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLSession    = 30 * time.Minute // operator dashboard session
	TTLReviews    = 30 * time.Second // public review listing (refreshed often)
	TTLResetToken = 15 * time.Minute // password reset token
	TTLDefault    = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixSession = "session:"
	PrefixReviews = "reviews:"
	PrefixReset   = "pwreset:"
)

// Service Redis-backed cache. All operations are no-ops when Redis is absent
// so the API keeps working without it.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetSession(ctx context.Context, sessionID string) ([]byte, error)
	SetSession(ctx context.Context, sessionID string, data interface{}) error
	DeleteSession(ctx context.Context, sessionID string) error
	ExtendSession(ctx context.Context, sessionID string) error

	GetPublicReviews(ctx context.Context) ([]byte, error)
	SetPublicReviews(ctx context.Context, data interface{}) error
	InvalidatePublicReviews(ctx context.Context) error

	SetResetToken(ctx context.Context, token, email string) error
	GetResetToken(ctx context.Context, token string) (string, error)

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates the cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// ========================================
// Sessions
// ========================================

func (c *redisCache) sessionKey(sessionID string) string {
	return PrefixSession + sessionID
}

func (c *redisCache) GetSession(ctx context.Context, sessionID string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.sessionKey(sessionID)).Bytes()
}

func (c *redisCache) SetSession(ctx context.Context, sessionID string, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.sessionKey(sessionID), jsonData, TTLSession).Err()
}

func (c *redisCache) DeleteSession(ctx context.Context, sessionID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.sessionKey(sessionID)).Err()
}

func (c *redisCache) ExtendSession(ctx context.Context, sessionID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Expire(ctx, c.sessionKey(sessionID), TTLSession).Err()
}

// ========================================
// Public review listing
// ========================================

func (c *redisCache) GetPublicReviews(ctx context.Context) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, PrefixReviews+"public").Bytes()
}

func (c *redisCache) SetPublicReviews(ctx context.Context, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, PrefixReviews+"public", jsonData, TTLReviews).Err()
}

func (c *redisCache) InvalidatePublicReviews(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, PrefixReviews+"public").Err()
}

// ========================================
// Password reset tokens
// ========================================

func (c *redisCache) SetResetToken(ctx context.Context, token, email string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, PrefixReset+token, email, TTLResetToken).Err()
}

func (c *redisCache) GetResetToken(ctx context.Context, token string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, PrefixReset+token).Result()
}
