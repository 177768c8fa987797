// Package rediscache keeps a short-lived JSON copy of cached words in Redis
// in front of the relational store. The cache is advisory: every operation
// degrades to a miss on error, and a nil client disables it entirely.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/milonlex/milon-api/internal/domain"
)

// ErrMiss is returned when the key is absent or the cache is disabled.
var ErrMiss = errors.New("rediscache: miss")

// Cache is the advisory word cache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to Redis and verifies the connection. An empty URL returns a
// disabled cache and no error.
func New(ctx context.Context, redisURL string, ttl time.Duration, log *slog.Logger) (*Cache, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "rediscache"))

	if redisURL == "" {
		log.Info("redis cache disabled")
		return &Cache{logger: log}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = time.Hour
	}
	log.Info("redis cache connected", slog.Duration("ttl", ttl))
	return &Cache{client: client, ttl: ttl, logger: log}, nil
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Key builds the cache key for a normalized form and part of speech.
func Key(normalized string, pos domain.PartOfSpeech) string {
	return "word:" + normalized + ":" + string(pos)
}

// GetWord returns the cached word for the key, or ErrMiss.
func (c *Cache) GetWord(ctx context.Context, key string) (*domain.Word, error) {
	if !c.Enabled() {
		return nil, ErrMiss
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, ErrMiss
	}

	var word domain.Word
	if err := json.Unmarshal(raw, &word); err != nil {
		c.logger.Warn("dropping undecodable cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		_ = c.client.Del(ctx, key).Err()
		return nil, ErrMiss
	}
	return &word, nil
}

// SetWord stores the word under the key for the configured TTL. Failures
// are logged and swallowed.
func (c *Cache) SetWord(ctx context.Context, key string, word *domain.Word) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(word)
	if err != nil {
		c.logger.Warn("failed to encode word for cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// Invalidate drops the keys after a write to the backing store.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("redis del failed",
			slog.String("error", err.Error()))
	}
}

// Close releases the connection. Safe on a disabled cache.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
