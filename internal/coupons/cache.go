package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/redis"
)

// Cache is a read-through store for coupon records on the apply path. The
// expiry check always runs against the current clock, so caching the record
// is safe.
type Cache interface {
	Get(ctx context.Context, name string) (*models.Coupon, bool)
	Set(ctx context.Context, coupon *models.Coupon)
	Invalidate(ctx context.Context, name string)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache builds a coupon cache backed by the shared redis client.
func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, name string) (*models.Coupon, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.client.CouponKey(name))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// cache misses and transport errors both fall back to the repository
			return nil, false
		}
		return nil, false
	}
	var coupon models.Coupon
	if err := json.Unmarshal([]byte(raw), &coupon); err != nil {
		return nil, false
	}
	return &coupon, true
}

func (c *redisCache) Set(ctx context.Context, coupon *models.Coupon) {
	if c.client == nil || coupon == nil {
		return
	}
	raw, err := json.Marshal(coupon)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.client.CouponKey(coupon.Name), raw, c.ttl)
}

func (c *redisCache) Invalidate(ctx context.Context, name string) {
	if c.client == nil {
		return
	}
	_ = c.client.Del(ctx, c.client.CouponKey(name))
}

// noopCache is used when redis is not configured.
type noopCache struct{}

func (noopCache) Get(context.Context, string) (*models.Coupon, bool) { return nil, false }
func (noopCache) Set(context.Context, *models.Coupon)                {}
func (noopCache) Invalidate(context.Context, string)                 {}
