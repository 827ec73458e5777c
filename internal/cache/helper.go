package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"promptvault/internal/middleware"
	"promptvault/internal/observability"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

var group singleflight.Group

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	b, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside serves key from Redis and falls back to fetch, which must populate
// dest. Concurrent misses for the same key share one fetch. Cache failures
// never fail the read; without Redis every call goes straight to fetch.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client == nil {
		observability.CacheLookups.WithLabelValues("bypass").Inc()
		return fetch()
	}

	found, err := GetJSON(ctx, key, dest)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed, using source",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	if found {
		observability.CacheLookups.WithLabelValues("hit").Inc()
		return nil
	}
	observability.CacheLookups.WithLabelValues("miss").Inc()

	ran := false
	v, err, _ := group.Do(key, func() (any, error) {
		ran = true
		if err := fetch(); err != nil {
			return nil, err
		}
		b, err := json.Marshal(dest)
		if err != nil {
			return nil, err
		}
		if client != nil {
			if err := client.Set(ctx, key, b, ttl).Err(); err != nil {
				middleware.Logger.WarnContext(ctx, "cache write failed",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
		}
		return b, nil
	})
	if err != nil {
		return err
	}
	if ran {
		return nil
	}
	// Another caller fetched on our behalf.
	return json.Unmarshal(v.([]byte), dest)
}
