package cache

import (
	"context"
	"log/slog"
	"time"

	"promptvault/internal/middleware"
)

// Key layout.
const (
	PromptsListKey   = "prompts:list"
	SettingsAllKey   = "settings:all"
	SettingKeyPrefix = "setting:"
)

// Default lifetimes.
const (
	PromptsListTTL = 30 * time.Second
	SettingTTL     = 10 * time.Minute
)

// SettingKey is the cache key for one system setting.
func SettingKey(key string) string {
	return SettingKeyPrefix + key
}

// Invalidate deletes keys, logging (not returning) failures.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
	}
}

// InvalidatePrompts drops the cached feed.
func InvalidatePrompts(ctx context.Context) {
	Invalidate(ctx, PromptsListKey)
}

// InvalidateSetting drops one setting and the settings map.
func InvalidateSetting(ctx context.Context, key string) {
	Invalidate(ctx, SettingKey(key), SettingsAllKey)
}
