// Package reaper periodically deletes ban rows that have expired. Ban checks
// already treat expired rows as not banned, so the reaper only keeps the
// table small; nothing depends on it having run.
package reaper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSchedule runs the reaper every ten minutes.
const DefaultSchedule = "@every 10m"

// BanReaper deletes expired bans. *service.ModerationService satisfies it.
type BanReaper interface {
	ReapExpiredBans(ctx context.Context) (int, error)
}

// Reaper runs a BanReaper on a cron schedule.
type Reaper struct {
	cron    *cron.Cron
	bans    BanReaper
	timeout time.Duration
	onReap  func(n int)
	logger  *zap.Logger
}

// New creates a Reaper.
func New(bans BanReaper, logger *zap.Logger) *Reaper {
	return &Reaper{
		cron:    cron.New(),
		bans:    bans,
		timeout: time.Minute,
		logger:  logger,
	}
}

// SetReapHook registers a callback invoked with the number of rows deleted
// by each run.
func (r *Reaper) SetReapHook(fn func(n int)) {
	r.onReap = fn
}

// Schedule registers the job. spec is any robfig/cron spec, e.g. "@every 10m".
func (r *Reaper) Schedule(spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}
	_, err := r.cron.AddFunc(spec, func() { r.RunOnce(context.Background()) })
	return err
}

// Start starts the scheduler in its own goroutine.
func (r *Reaper) Start() {
	r.cron.Start()
	r.logger.Info("ban reaper started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (r *Reaper) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("ban reaper stopped")
}

// RunOnce reaps expired bans and returns how many rows were deleted.
func (r *Reaper) RunOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.bans.ReapExpiredBans(ctx)
	if err != nil {
		r.logger.Error("reap expired bans", zap.Error(err))
		return 0
	}
	if r.onReap != nil {
		r.onReap(n)
	}
	if n > 0 {
		r.logger.Info("reaped expired bans", zap.Int("count", n))
	}
	return n
}
