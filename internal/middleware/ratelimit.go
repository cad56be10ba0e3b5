package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisRateLimiterStore is a fixed window counter shared by every API
// instance. It fails open when redis is unreachable.
type RedisRateLimiterStore struct {
	client  redis.Cmdable
	limit   int
	window  time.Duration
	prefix  string
	timeout time.Duration
	log     zerolog.Logger
}

func NewRedisRateLimiterStore(client redis.Cmdable, limit int, window time.Duration, log zerolog.Logger) *RedisRateLimiterStore {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisRateLimiterStore{
		client:  client,
		limit:   limit,
		window:  window,
		prefix:  "contactbook:ratelimit:",
		timeout: 250 * time.Millisecond,
		log:     log,
	}
}

func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	if s.limit <= 0 {
		return true, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.prefix + identifier
	counter, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.log.Error().Err(err).Str("op", "incr").Msg("redis rate limiter error")
		return true, nil
	}
	if counter == 1 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			s.log.Error().Err(err).Str("op", "expire").Msg("redis rate limiter error")
		}
	}
	return int(counter) <= s.limit, nil
}

// RateLimit limits requests per client IP using store.
func RateLimit(store echomw.RateLimiterStore) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"message": "Too many requests"})
		},
	})
}
