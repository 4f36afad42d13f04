package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"invtrack/internal/model"
)

const (
	itemKeyPrefix = "inventory_item:"
	// maxWatchRetries bounds SetItem when concurrent writers touch the key.
	maxWatchRetries = 3
)

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// A nil *Client is valid and behaves as an always-empty cache.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
	return &Client{client: redis.NewClient(opts)}
}

// ItemKey returns the cache key of an inventory item.
func ItemKey(id uuid.UUID) string {
	return itemKeyPrefix + id.String()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil or unreachable: behave like a cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete removes keys, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	_ = c.client.Del(ctx, keys...).Err()
	return nil
}

// GetJSON decodes a cached value into dest. It reports false on a miss or
// when the cached bytes do not decode.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, _ := c.Get(ctx, key)
	if raw == nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON encodes value and caches it with TTL.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, raw, ttl)
}

// GetItem returns the cached copy of an item.
func (c *Client) GetItem(ctx context.Context, id uuid.UUID) (*model.Item, bool) {
	var item model.Item
	if !c.GetJSON(ctx, ItemKey(id), &item) {
		return nil, false
	}
	return &item, true
}

// SetItem caches item for ttl unless the cached copy has a later UpdatedAt.
// The compare and set runs under WATCH, so a reader that loaded the row
// before a write committed cannot replace the state that write cached.
func (c *Client) SetItem(ctx context.Context, item *model.Item, ttl time.Duration) {
	if c == nil || c.client == nil || item == nil {
		return
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return
	}
	key := ItemKey(item.ID)

	setIfNewer := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			var cached model.Item
			if json.Unmarshal(current, &cached) == nil && cached.UpdatedAt.After(item.UpdatedAt) {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		if err := c.client.Watch(ctx, setIfNewer, key); !errors.Is(err, redis.TxFailedErr) {
			return
		}
	}
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
