package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

var ErrCacheMiss = errors.New("cart not in cache")

// Cache is a read-through cache for cart listings. Every cart write must
// invalidate the entry, otherwise checkout could total a stale cart.
type Cache interface {
	Get(ctx context.Context, cartID string) ([]domain.CartItem, error)
	Set(ctx context.Context, cartID string, items []domain.CartItem) error
	Invalidate(ctx context.Context, cartID string) error
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (c *RedisCache) Get(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	data, err := c.client.Get(ctx, cacheKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cached cart: %w", err)
	}
	return items, nil
}

func (c *RedisCache) Set(ctx context.Context, cartID string, items []domain.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	// jitter spreads expirations so a burst of carts does not expire at once
	ttl := c.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := c.client.Set(ctx, cacheKey(cartID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, cartID string) error {
	if err := c.client.Del(ctx, cacheKey(cartID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(cartID string) string {
	return "cart:" + cartID
}
