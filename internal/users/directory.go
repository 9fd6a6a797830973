package users

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Directory resolves user ids to profiles.
type Directory interface {
	Profile(ctx context.Context, id string) (*Profile, error)
}

// CachedDirectory fronts a Directory with a bounded, expiring LRU. Only
// successful lookups are cached.
type CachedDirectory struct {
	next  Directory
	cache *expirable.LRU[string, *Profile]
}

// NewCachedDirectory wraps next with a cache of the given size and TTL.
func NewCachedDirectory(next Directory, size int, ttl time.Duration) *CachedDirectory {
	if size <= 0 {
		size = 10_000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedDirectory{
		next:  next,
		cache: expirable.NewLRU[string, *Profile](size, nil, ttl),
	}
}

// Profile implements Directory.
func (d *CachedDirectory) Profile(ctx context.Context, id string) (*Profile, error) {
	if p, ok := d.cache.Get(id); ok {
		return p, nil
	}
	p, err := d.next.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	d.cache.Add(id, p)
	return p, nil
}

// MapDirectory is a fixed in-memory Directory.
type MapDirectory map[string]*Profile

// Profile implements Directory.
func (m MapDirectory) Profile(_ context.Context, id string) (*Profile, error) {
	p, ok := m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}
