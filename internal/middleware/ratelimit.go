package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"promptvault/internal/models"
	"promptvault/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var errNoRedis = errors.New("redis client is nil")

// rateLimitBypassed reports whether APP_ENV disables throttling.
// Development, test and stress runs are never throttled.
func rateLimitBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// CheckRateLimit counts one hit for (resource, id) in a fixed window.
// Returns true if allowed, false if the limit is exceeded.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rateLimitBypassed() {
		return true, nil
	}
	if rdb == nil {
		return false, errNoRedis
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("ratelimit").Inc()
		return false, err
	}
	// The first hit opens the window.
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			observability.RedisErrorRate.WithLabelValues("ratelimit").Inc()
		}
	}
	return cnt <= int64(limit), nil
}

// RateLimit returns a Fiber middleware enforcing `limit` requests per `window`.
// It keys by the authenticated user when there is one, otherwise by remote IP.
// When redis is missing or failing the request is let through.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := "ip:" + c.IP()
		if uid, ok := UserID(c); ok {
			id = "user:" + uid
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			Logger.WarnContext(c.UserContext(), "rate limit store unavailable, allowing request",
				slog.String("resource", resource),
				slog.String("error", err.Error()),
			)
			return c.Next()
		}

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(window.Seconds())))
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				&models.AppError{Code: "RATE_LIMITED", Message: "Too many requests, please try again later"})
		}
		return c.Next()
	}
}
