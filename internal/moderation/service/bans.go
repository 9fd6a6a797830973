package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/store"
)

// Unban removes a user's ban row. Unbanning a user who is not banned
// succeeds and reports false.
func (s *ModerationService) Unban(ctx context.Context, moderatorID, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if moderatorID == "" || userID == "" {
		return false, &model.ErrValidation{Msg: "moderator id and user id are required"}
	}

	var existed bool
	err := s.store.InTx(ctx, func(r store.Repos) error {
		var err error
		existed, err = r.Bans.Delete(ctx, userID)
		if err != nil {
			return err
		}
		if !existed {
			return nil
		}
		_, err = r.Ledger.Append(ctx, "user/"+userID, "unban", moderatorID, map[string]any{
			"user_id":     userID,
			"unbanned_at": s.clock(),
		})
		return err
	})
	if err != nil {
		return false, fmt.Errorf("unban %s: %w", userID, err)
	}

	s.purgeBans(ctx, userID)
	if existed {
		s.ledgerCommitted()
		s.logger.Info("user unbanned", zap.String("user_id", userID), zap.String("moderator_id", moderatorID))
	}
	return existed, nil
}

// ReapExpiredBans deletes ban rows whose banned_until has passed. Expired
// bans already read as not banned, so this only reclaims rows.
func (s *ModerationService) ReapExpiredBans(ctx context.Context) (int, error) {
	var reaped []string
	err := s.store.InTx(ctx, func(r store.Repos) error {
		var err error
		reaped, err = r.Bans.DeleteExpired(ctx, s.clock())
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("reap expired bans: %w", err)
	}
	s.purgeBans(ctx, reaped...)
	return len(reaped), nil
}

// SendWarning warns a user directly, outside of a report. The warning and
// its warn_user action are written together.
func (s *ModerationService) SendWarning(ctx context.Context, moderatorID string, req model.SendWarningRequest) (*model.Warning, error) {
	req.Message = strings.TrimSpace(req.Message)
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		req.Reason = req.Message
	}
	if req.Message == "" {
		req.Message = req.Reason
	}
	if req.WarningType == "" {
		req.WarningType = model.WarningGeneral
	}

	actionReq := model.CreateActionRequest{
		TargetUserID: req.UserID,
		ActionType:   model.ActionWarnUser,
		Reason:       req.Reason,
		WarningType:  req.WarningType,
	}
	if err := validateAction(moderatorID, &actionReq); err != nil {
		s.actionResult(model.ActionWarnUser, err)
		return nil, err
	}

	now := s.clock()
	w := &model.Warning{
		UserID:      actionReq.TargetUserID,
		ModeratorID: moderatorID,
		WarningType: req.WarningType,
		Message:     req.Message,
		CreatedAt:   now,
	}
	a := &model.ModerationAction{
		ModeratorID:  moderatorID,
		TargetUserID: actionReq.TargetUserID,
		ActionType:   model.ActionWarnUser,
		Reason:       actionReq.Reason,
		CreatedAt:    now,
	}
	err := s.store.InTx(ctx, func(r store.Repos) error {
		if err := r.Actions.Create(ctx, a); err != nil {
			return fmt.Errorf("log action: %w", err)
		}
		if err := r.Warnings.Create(ctx, w); err != nil {
			return &model.EnforcementError{Action: model.ActionWarnUser, Err: err}
		}
		_, err := r.Ledger.Append(ctx, actionSubject(a), string(a.ActionType), moderatorID, a)
		return err
	})
	s.actionResult(model.ActionWarnUser, err)
	if err != nil {
		return nil, err
	}
	s.ledgerCommitted()
	s.logger.Info("warning sent", zap.String("user_id", w.UserID), zap.String("moderator_id", moderatorID))
	return w, nil
}

// ListWarnings returns the warnings addressed to userID, newest first.
func (s *ModerationService) ListWarnings(ctx context.Context, userID string, limit, offset int) ([]*model.Warning, error) {
	ws, err := s.store.Read().Warnings.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warnings: %w", err)
	}
	if ws == nil {
		ws = []*model.Warning{}
	}
	return ws, nil
}

// MarkWarningRead flags one of userID's warnings as read.
func (s *ModerationService) MarkWarningRead(ctx context.Context, userID string, id uuid.UUID) error {
	return s.store.InTx(ctx, func(r store.Repos) error {
		return r.Warnings.MarkRead(ctx, id, userID)
	})
}
