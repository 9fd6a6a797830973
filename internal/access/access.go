// Package access answers "is this user banned right now?" for every other
// part of the platform, and exposes the readiness signal that moderation
// routes wait on before serving.
package access

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// BanLookup reads a single ban row. It returns model.ErrNotFound when the
// user has none.
type BanLookup interface {
	Get(ctx context.Context, userID string) (*model.BannedUser, error)
}

// Entry is the cached form of a user's ban row. Expiry is evaluated when the
// entry is read, so a cached ban lapses on time without invalidation.
type Entry struct {
	Found     bool       `msgpack:"f"`
	Until     *time.Time `msgpack:"u"`
	Permanent bool       `msgpack:"p"`
	Reason    string     `msgpack:"r"`
}

func entryOf(b *model.BannedUser) Entry {
	if b == nil {
		return Entry{}
	}
	return Entry{Found: true, Until: b.BannedUntil, Permanent: b.IsPermanent, Reason: b.Reason}
}

// StatusAt derives the ban status of the entry at t.
func (e Entry) StatusAt(t time.Time) model.BanStatus {
	if !e.Found {
		return model.BanStatus{}
	}
	return (&model.BannedUser{BannedUntil: e.Until, IsPermanent: e.Permanent, Reason: e.Reason}).StatusAt(t)
}

// StatusCache stores Entries by user id.
type StatusCache interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context, userID string) (*Entry, error)
	Set(ctx context.Context, userID string, e Entry) error
	Purge(ctx context.Context, userID string) error
}

// Gate is the read side of the ban registry.
type Gate struct {
	bans   BanLookup
	cache  StatusCache
	now    func() time.Time
	onHit  func(result string)
	logger *zap.Logger

	// epoch advances on every Purge. A lookup that started in an older
	// epoch may have read a row the purge was meant to replace, so its
	// result is not cached.
	epoch  atomic.Uint64
	fillMu sync.RWMutex
}

// NewGate creates a Gate. cache may be nil.
func NewGate(bans BanLookup, cache StatusCache, logger *zap.Logger) *Gate {
	return &Gate{bans: bans, cache: cache, now: time.Now, logger: logger}
}

// SetClock overrides the time source used to evaluate expiry.
func (g *Gate) SetClock(now func() time.Time) {
	g.now = now
}

// SetCheckHook registers a callback invoked once per check with "banned",
// "clear" or "error".
func (g *Gate) SetCheckHook(fn func(result string)) {
	g.onHit = fn
}

// IsBanned reports the user's ban status at the current time. A ban whose
// banned_until has passed reads as not banned even if the row still exists.
func (g *Gate) IsBanned(ctx context.Context, userID string) (model.BanStatus, error) {
	st, err := g.isBanned(ctx, userID)
	if g.onHit != nil {
		switch {
		case err != nil:
			g.onHit("error")
		case st.Banned:
			g.onHit("banned")
		default:
			g.onHit("clear")
		}
	}
	return st, err
}

func (g *Gate) isBanned(ctx context.Context, userID string) (model.BanStatus, error) {
	if g.cache != nil {
		e, err := g.cache.Get(ctx, userID)
		if err != nil {
			g.logger.Warn("ban cache get", zap.String("user_id", userID), zap.Error(err))
		} else if e != nil {
			return e.StatusAt(g.now()), nil
		}
	}

	start := g.epoch.Load()
	b, err := g.bans.Get(ctx, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return model.BanStatus{}, fmt.Errorf("look up ban: %w", err)
	}
	if err != nil {
		b = nil
	}

	if g.cache != nil {
		g.fill(ctx, userID, start, entryOf(b))
	}
	return b.StatusAt(g.now()), nil
}

// fill caches e unless a Purge has run since the lookup began. Purge waits
// for in-flight fills before advancing the epoch, so a fill either lands
// before the purge deletes the key or is skipped.
func (g *Gate) fill(ctx context.Context, userID string, start uint64, e Entry) {
	g.fillMu.RLock()
	defer g.fillMu.RUnlock()
	if g.epoch.Load() != start {
		g.logger.Debug("ban cache fill skipped after purge", zap.String("user_id", userID))
		return
	}
	if err := g.cache.Set(ctx, userID, e); err != nil {
		g.logger.Warn("ban cache set", zap.String("user_id", userID), zap.Error(err))
	}
}

// Purge drops cached status for the given users. Call it after a ban or
// unban commits.
func (g *Gate) Purge(ctx context.Context, userIDs ...string) {
	if g.cache == nil || len(userIDs) == 0 {
		return
	}
	g.fillMu.Lock()
	g.epoch.Add(1)
	g.fillMu.Unlock()

	for _, id := range userIDs {
		if err := g.cache.Purge(ctx, id); err != nil {
			g.logger.Warn("ban cache purge", zap.String("user_id", id), zap.Error(err))
		}
	}
}
