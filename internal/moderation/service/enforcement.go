package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/store"
)

// enforce applies the physical effect of a logged action. A content target
// that no longer exists is not an error.
func (s *ModerationService) enforce(ctx context.Context, r store.Repos, a *model.ModerationAction, wt model.WarningType) error {
	switch a.ActionType {
	case model.ActionHide:
		ref, _ := a.Ref()
		found, err := r.Content.Hide(ctx, ref, a.ModeratorID, a.Reason, a.CreatedAt)
		if err != nil {
			return err
		}
		s.missing(found, a)

	case model.ActionRestore:
		ref, _ := a.Ref()
		found, err := r.Content.Restore(ctx, ref)
		if err != nil {
			return err
		}
		s.missing(found, a)

	case model.ActionDelete:
		ref, _ := a.Ref()
		found, err := r.Content.Delete(ctx, ref)
		if err != nil {
			return err
		}
		s.missing(found, a)

	case model.ActionBanUser:
		return r.Bans.Upsert(ctx, banFor(a))

	case model.ActionWarnUser:
		if wt == "" {
			wt = model.WarningGeneral
		}
		return r.Warnings.Create(ctx, &model.Warning{
			UserID:      a.TargetUserID,
			ModeratorID: a.ModeratorID,
			WarningType: wt,
			Message:     a.Reason,
			CreatedAt:   a.CreatedAt,
		})

	default:
		return fmt.Errorf("no enforcement for %q", a.ActionType)
	}
	return nil
}

func (s *ModerationService) missing(found bool, a *model.ModerationAction) {
	if found {
		return
	}
	ref, _ := a.Ref()
	s.logger.Info("enforcement target no longer exists",
		zap.String("action_type", string(a.ActionType)),
		zap.String("content", ref.String()),
	)
}

// banFor derives the ban row of a ban_user action. No duration means
// permanent.
func banFor(a *model.ModerationAction) *model.BannedUser {
	b := &model.BannedUser{
		UserID:      a.TargetUserID,
		ModeratorID: a.ModeratorID,
		Reason:      a.Reason,
		BannedAt:    a.CreatedAt,
	}
	if a.DurationHours == nil {
		b.IsPermanent = true
		return b
	}
	until := a.CreatedAt.Add(time.Duration(*a.DurationHours) * time.Hour)
	b.BannedUntil = &until
	return b
}
