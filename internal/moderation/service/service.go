// Package service holds the moderation business logic: the report store,
// the decision engine that validates and dispatches actions, enforcement of
// their side effects, the ban registry write path and the enriched read
// models served to moderator tooling.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/store"
	"github.com/jmerrifield20/NexusTrustSafety/internal/triage"
	"github.com/jmerrifield20/NexusTrustSafety/internal/users"
)

// BanCache is notified after a ban or unban commits.
// *access.Gate satisfies this interface.
type BanCache interface {
	Purge(ctx context.Context, userIDs ...string)
}

// ModerationService contains the business logic of the moderation core.
type ModerationService struct {
	store  store.Store
	dir    users.Directory
	bans   BanCache      // nil = no cache to purge
	scorer triage.Scorer // nil = reports are not triaged
	now    func() time.Time

	onReport func(reason model.Reason)
	onAction func(action model.ActionType, result string)
	onLedger func()

	logger *zap.Logger
}

// NewModerationService creates a ModerationService. dir resolves display
// names for read models.
func NewModerationService(st store.Store, dir users.Directory, logger *zap.Logger) *ModerationService {
	return &ModerationService{
		store:  st,
		dir:    dir,
		now:    time.Now,
		logger: logger,
	}
}

// SetClock overrides the time source.
func (s *ModerationService) SetClock(now func() time.Time) {
	s.now = now
}

// SetBanCache configures the ban-status cache purged after ban writes.
func (s *ModerationService) SetBanCache(c BanCache) {
	s.bans = c
}

// SetTriage configures the scorer used to rank listed reports.
func (s *ModerationService) SetTriage(sc triage.Scorer) {
	s.scorer = sc
}

// SetReportHook registers a callback invoked after each report is filed.
func (s *ModerationService) SetReportHook(fn func(model.Reason)) {
	s.onReport = fn
}

// SetActionHook registers a callback invoked after each action dispatch
// with result "applied", "rejected" or "failed".
func (s *ModerationService) SetActionHook(fn func(model.ActionType, string)) {
	s.onAction = fn
}

// SetLedgerHook registers a callback invoked for each committed ledger entry.
func (s *ModerationService) SetLedgerHook(fn func()) {
	s.onLedger = fn
}

func (s *ModerationService) clock() time.Time {
	return s.now().UTC()
}

func (s *ModerationService) ledgerCommitted() {
	if s.onLedger != nil {
		s.onLedger()
	}
}

func (s *ModerationService) actionResult(a model.ActionType, err error) {
	if s.onAction == nil {
		return
	}
	switch {
	case err == nil:
		s.onAction(a, "applied")
	case errors.Is(err, model.ErrEnforcementFailure):
		s.onAction(a, "failed")
	default:
		s.onAction(a, "rejected")
	}
}

func (s *ModerationService) purgeBans(ctx context.Context, userIDs ...string) {
	if s.bans != nil && len(userIDs) > 0 {
		s.bans.Purge(ctx, userIDs...)
	}
}
