package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL bounds how long a cached item survives without invalidation.
	ItemCacheTTL = 10 * time.Minute

	itemCacheKeyPrefix = "item"
)

// ErrMiss is returned by ItemCache.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// CachedItem is the read model stored per item, as a Redis hash.
type CachedItem struct {
	ID          int64
	Name        string
	Description string
	Item        string
	Price       float64
	Quantity    int
	Category    string
	DateAdded   string
}

// ItemCache reads and writes single items. Key format: "item:{id}".
type ItemCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewItemCache returns an ItemCache using ItemCacheTTL.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r, ttl: ItemCacheTTL}
}

// Get returns the cached item or ErrMiss.
func (c *ItemCache) Get(ctx context.Context, id int64) (*CachedItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, itemKey(id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, ErrMiss
	}
	return fromHash(vals)
}

// Set stores item and its TTL in one pipeline round trip.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	key := itemKey(item.ID)
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, toHash(item)...)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete drops the entry for id. Deleting a missing key is not an error.
func (c *ItemCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Client().Del(ctx, itemKey(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func itemKey(id int64) string {
	return itemCacheKeyPrefix + ":" + strconv.FormatInt(id, 10)
}

func toHash(item *CachedItem) []any {
	return []any{
		"id", strconv.FormatInt(item.ID, 10),
		"name", item.Name,
		"description", item.Description,
		"item", item.Item,
		"price", strconv.FormatFloat(item.Price, 'g', -1, 64),
		"quantity", strconv.Itoa(item.Quantity),
		"category", item.Category,
		"date_added", item.DateAdded,
	}
}

func fromHash(vals map[string]string) (*CachedItem, error) {
	id, err := strconv.ParseInt(vals["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	price, err := strconv.ParseFloat(vals["price"], 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse price: %w", err)
	}
	quantity, err := strconv.Atoi(vals["quantity"])
	if err != nil {
		return nil, fmt.Errorf("cache parse quantity: %w", err)
	}

	return &CachedItem{
		ID:          id,
		Name:        vals["name"],
		Description: vals["description"],
		Item:        vals["item"],
		Price:       price,
		Quantity:    quantity,
		Category:    vals["category"],
		DateAdded:   vals["date_added"],
	}, nil
}
