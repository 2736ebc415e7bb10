package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

func (c *Cache) GetSessionStatus(ctx context.Context, id uuid.UUID) ([]byte, error) {
	val, err := c.client.Get(ctx, statusKey(id.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *Cache) SetSessionStatus(ctx context.Context, id uuid.UUID, data []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, statusKey(id.String()), data, ttl).Err(); err != nil {
		log.Printf("failed caching status for session #%s: %v", id, err)
	}
}

func (c *Cache) DeleteSessionStatus(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, statusKey(id.String())).Err()
}

func statusKey(id string) string {
	return "session_status:" + id
}
