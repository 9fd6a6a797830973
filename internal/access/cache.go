package access

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

func cacheKey(userID string) string {
	return "moderation/ban/" + userID
}

// RedisStatusCache shares ban status between API instances through Redis,
// fronted by a small per-process TinyLFU.
type RedisStatusCache struct {
	Data *cache.Cache
	TTL  time.Duration

	rdb *redis.Client
}

var _ StatusCache = (*RedisStatusCache)(nil)

// localTTL bounds how long one instance can serve a status another instance
// has already purged. Negative entries are also held in Redis no longer than
// this, since a peer's purge cannot stop this instance from writing one.
const localTTL = 5 * time.Second

func (s *RedisStatusCache) ttlFor(e Entry) time.Duration {
	if !e.Found {
		return min(s.TTL, localTTL)
	}
	return s.TTL
}

// NewRedisStatusCache connects to redisURL and verifies the connection.
func NewRedisStatusCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStatusCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	return &RedisStatusCache{
		Data: cache.New(&cache.Options{
			Redis:      rdb,
			LocalCache: cache.NewTinyLFU(10_000, min(ttl, localTTL)),
		}),
		TTL: ttl,
		rdb: rdb,
	}, nil
}

// Ping checks the Redis connection.
func (s *RedisStatusCache) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStatusCache) Close() error {
	return s.rdb.Close()
}

// Get implements StatusCache.
func (s *RedisStatusCache) Get(ctx context.Context, userID string) (*Entry, error) {
	var e Entry
	err := s.Data.Get(ctx, cacheKey(userID), &e)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Set implements StatusCache.
func (s *RedisStatusCache) Set(ctx context.Context, userID string, e Entry) error {
	return s.Data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   cacheKey(userID),
		Value: e,
		TTL:   s.ttlFor(e),
	})
}

// Purge implements StatusCache.
func (s *RedisStatusCache) Purge(ctx context.Context, userID string) error {
	err := s.Data.Delete(ctx, cacheKey(userID))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}

// MemStatusCache is a process-local StatusCache for single-instance
// deployments and tests.
type MemStatusCache struct {
	Data *expirable.LRU[string, Entry]
}

var _ StatusCache = MemStatusCache{}

// NewMemStatusCache creates a MemStatusCache.
func NewMemStatusCache(capacity int, ttl time.Duration) MemStatusCache {
	return MemStatusCache{Data: expirable.NewLRU[string, Entry](capacity, nil, ttl)}
}

// Get implements StatusCache.
func (s MemStatusCache) Get(_ context.Context, userID string) (*Entry, error) {
	e, ok := s.Data.Get(cacheKey(userID))
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// Set implements StatusCache.
func (s MemStatusCache) Set(_ context.Context, userID string, e Entry) error {
	s.Data.Add(cacheKey(userID), e)
	return nil
}

// Purge implements StatusCache.
func (s MemStatusCache) Purge(_ context.Context, userID string) error {
	s.Data.Remove(cacheKey(userID))
	return nil
}
