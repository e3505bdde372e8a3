package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	keyPrefix  = "inventory:product:"
	DefaultTTL = 30 * time.Second
)

type snapshotRecord struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// RedisProductCache stores product snapshots as JSON strings with a TTL.
type RedisProductCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ interfaces.IProductCache = (*RedisProductCache)(nil)

func NewRedisProductCache(client redis.UniversalClient, ttl time.Duration) *RedisProductCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisProductCache{client: client, ttl: ttl}
}

func productKey(id string) string {
	return keyPrefix + id
}

func (c *RedisProductCache) Get(ctx context.Context, ids []string) (map[string]entities.ProductSnapshot, error) {
	out := make(map[string]entities.ProductSnapshot, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("mget products: %w", err)
	}

	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var rec snapshotRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			log.Printf("[product][cache] dropping corrupt entry key=%s err=%v", keys[i], err)
			continue
		}
		out[ids[i]] = entities.ProductSnapshot{ProductID: rec.ProductID, Name: rec.Name, Price: rec.Price}
	}
	return out, nil
}

func (c *RedisProductCache) Set(ctx context.Context, snapshots []entities.ProductSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, s := range snapshots {
			b, err := json.Marshal(snapshotRecord{ProductID: s.ProductID, Name: s.Name, Price: s.Price})
			if err != nil {
				return err
			}
			p.Set(ctx, productKey(s.ProductID), b, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set products: %w", err)
	}
	return nil
}
