// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	postKeyPrefix = "post:%d"
	postsListKey  = "posts:list"

	// DefaultPostTTL bounds how stale a cached post detail may get when no
	// TTL is configured.
	DefaultPostTTL = 30 * time.Minute
)

// PostKey returns the cache key for a single post.
func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// metricsHook counts command errors into the Prometheus counter.
type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// Store is an explicitly constructed cache handle passed down to the layers
// that need it. A Store with a nil client is valid and degrades to a no-op,
// so the service keeps working when Redis is unreachable.
type Store struct {
	client  *redis.Client
	postTTL time.Duration
}

// New connects to Redis at addr (host:port or redis:// URL) and returns a
// Store caching entries for ttl (DefaultPostTTL when ttl is not positive).
// Connection failures are logged and produce a no-op Store.
func New(addr string, ttl time.Duration) *Store {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("invalid REDIS_URL, continuing without cache",
				"addr", addr, "error", err.Error())
			return &Store{postTTL: ttl}
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("redis unreachable, continuing without cache",
			"addr", addr, "error", err.Error())
		return &Store{postTTL: ttl}
	}

	middleware.Logger.Info("Redis connected successfully")
	return &Store{client: client, postTTL: ttl}
}

// NewWithClient wraps an existing Redis client, mainly for tests.
func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, postTTL: ttl}
}

// TTL returns the configured entry lifetime, falling back to DefaultPostTTL.
func (s *Store) TTL() time.Duration {
	if s == nil || s.postTTL <= 0 {
		return DefaultPostTTL
	}
	return s.postTTL
}

// Client exposes the underlying Redis client (nil when caching is disabled).
func (s *Store) Client() *redis.Client {
	if s == nil {
		return nil
	}
	return s.client
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest),
// then stores the result with ttl. Cache write failures are best-effort.
func (s *Store) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := s.GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = s.SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes a single key.
func (s *Store) Invalidate(ctx context.Context, key string) {
	if s == nil || s.client == nil {
		return
	}
	s.client.Del(ctx, key)
}

// InvalidatePost drops the cached detail for one post.
func (s *Store) InvalidatePost(ctx context.Context, postID uint) {
	s.Invalidate(ctx, PostKey(postID))
}

// InvalidatePostsList drops the cached list aggregate.
func (s *Store) InvalidatePostsList(ctx context.Context) {
	s.Invalidate(ctx, postsListKey)
}

// Close releases the underlying client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
