package cache

import (
	"context"
	"delivery-cost-service/internal/domain"
	"delivery-cost-service/internal/platform/obs"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// RedisQuoteCache stores quotes in Redis with native key expiry.
//
// Calls go through a circuit breaker that opens after five consecutive
// failures. Misses do not count as failures.
type RedisQuoteCache struct {
	rdb     *redis.Client
	breaker *gobreaker.CircuitBreaker
}

func NewRedisQuoteCache(rdb *redis.Client, logger *slog.Logger) *RedisQuoteCache {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "quote-cache-redis",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &RedisQuoteCache{
		rdb:     rdb,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// NewRedisQuoteCacheFromURL connects using a redis:// URL.
func NewRedisQuoteCacheFromURL(url string, logger *slog.Logger) (*RedisQuoteCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis quote cache: parse url: %w", err)
	}
	return NewRedisQuoteCache(redis.NewClient(opt), logger), nil
}

// Ping verifies the connection.
func (c *RedisQuoteCache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis quote cache: ping: %w", err)
	}
	return nil
}

func (c *RedisQuoteCache) Get(ctx context.Context, key string) (_ *domain.Quote, _ bool, err error) {
	defer obs.Time(ctx, "quote.cache.redis.Get")(&err)

	out, err := c.breaker.Execute(func() (interface{}, error) {
		b, err := c.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return nil, false, fmt.Errorf("get quote cache: %w", err)
	}

	b, _ := out.([]byte)
	if b == nil {
		return nil, false, nil
	}

	quote, err := decodeQuote(b)
	if err != nil {
		return nil, false, fmt.Errorf("get quote cache: %w", err)
	}
	return quote, true, nil
}

// Store a quote. A ttl <= 0 keeps the key until evicted.
func (c *RedisQuoteCache) Put(ctx context.Context, key string, quote *domain.Quote, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "quote.cache.redis.Put")(&err)

	payload, err := encodeQuote(quote)
	if err != nil {
		return fmt.Errorf("insert quote cache: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.rdb.Set(ctx, key, payload, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("insert quote cache key=%q: %w", key, err)
	}
	return nil
}

func (c *RedisQuoteCache) Close() error {
	return c.rdb.Close()
}
