package catalog

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orderdesk/orderdesk/internal/domain"
)

// ProductCache is an optional read-through cache for single-product
// lookups. Products are immutable once created, so entries only expire,
// they are never invalidated.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(addr string, ttl time.Duration) *ProductCache {
	return &ProductCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (c *ProductCache) Get(ctx context.Context, id int64) (*domain.Product, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	product := &domain.Product{}
	if err := json.Unmarshal([]byte(data), product); err != nil {
		return nil, err
	}

	return product, nil
}

func (c *ProductCache) Set(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(product.ID), data, c.ttl).Err()
}

func (c *ProductCache) Close() error {
	return c.client.Close()
}

func (c *ProductCache) key(id int64) string {
	return "catalog:product:" + strconv.FormatInt(id, 10)
}
