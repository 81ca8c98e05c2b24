package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gosuda/schooldocs/internal/domain"
)

var errStale = errors.New("cache entry invalidated")

// Client is the template cache and the tenant event publisher, sharing one
// connection.
type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("redis.Client.Close: %w", err)
	}
	return nil
}

// Ping reports whether redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := c.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.Client.Publish: %w", err)
	}
	return nil
}

// Get returns the cached template and the entry's current generation. A miss
// is (nil, gen, nil); gen is what a later Set must present.
func (c *Client) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.Template, int64, error) {
	key := TemplateKey(tenantID, id)
	vals, err := c.client.MGet(ctx, key, GenerationKey(tenantID, id)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis.Client.Get: %w", err)
	}

	var gen int64
	if s, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(s, 10, 64); err != nil {
			return nil, 0, fmt.Errorf("redis.Client.Get: generation: %w", err)
		}
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}

	var t domain.Template
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		// A payload from an older layout is treated as a miss.
		_ = c.client.Del(ctx, key).Err()
		return nil, gen, nil
	}

	return &t, gen, nil
}

// Set caches t unless its entry was invalidated since the Get that returned
// gen.
func (c *Client) Set(ctx context.Context, t *domain.Template, gen int64) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("redis.Client.Set: marshal: %w", err)
	}

	genKey := GenerationKey(t.TenantID, t.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, TemplateKey(t.TenantID, t.ID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil, errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		// A concurrent Delete won; the next Get reloads from the database.
		return nil
	default:
		return fmt.Errorf("redis.Client.Set: %w", err)
	}
}

// Delete drops the cached entry and bumps its generation so that reads
// already in flight cannot put the old copy back. Generations never expire.
func (c *Client) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey(tenantID, id))
		pipe.Del(ctx, TemplateKey(tenantID, id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis.Client.Delete: %w", err)
	}
	return nil
}

// TemplateKey returns the cache key of a template.
func TemplateKey(tenantID, id uuid.UUID) string {
	return "template:" + tenantID.String() + ":" + id.String()
}

// GenerationKey returns the key counting invalidations of a template's cache
// entry.
func GenerationKey(tenantID, id uuid.UUID) string {
	return "template-gen:" + tenantID.String() + ":" + id.String()
}
