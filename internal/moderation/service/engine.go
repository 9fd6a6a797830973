package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/store"
)

// Dispatch validates a proposed action and applies it atomically: the
// originating report is locked, the action is logged, enforcement runs, the
// report moves to resolved and a ledger entry is appended, all in one
// transaction. Any failure leaves no trace of the call.
func (s *ModerationService) Dispatch(ctx context.Context, moderatorID string, req model.CreateActionRequest) (*model.ModerationAction, error) {
	action, err := s.dispatch(ctx, moderatorID, req)
	s.actionResult(req.ActionType, err)
	if err != nil {
		return nil, err
	}
	s.ledgerCommitted()
	if action.ActionType == model.ActionBanUser {
		s.purgeBans(ctx, action.TargetUserID)
	}
	s.logger.Info("moderation action applied",
		zap.String("action_id", action.ID.String()),
		zap.String("action_type", string(action.ActionType)),
		zap.String("target_user_id", action.TargetUserID),
		zap.String("moderator_id", moderatorID),
	)
	return action, nil
}

func (s *ModerationService) dispatch(ctx context.Context, moderatorID string, req model.CreateActionRequest) (*model.ModerationAction, error) {
	if err := validateAction(moderatorID, &req); err != nil {
		return nil, err
	}

	var out *model.ModerationAction
	err := s.store.InTx(ctx, func(r store.Repos) error {
		if req.ReportID != nil {
			rpt, err := r.Reports.GetForUpdate(ctx, *req.ReportID)
			if err != nil {
				return fmt.Errorf("report %s: %w", req.ReportID, err)
			}
			if rpt.Status != model.ReportStatusPending {
				return model.ErrAlreadyResolved
			}
			defaultTargetFromReport(&req, rpt)
		}

		action, err := s.buildAction(ctx, r, moderatorID, req)
		if err != nil {
			return err
		}
		if err := r.Actions.Create(ctx, action); err != nil {
			return fmt.Errorf("log action: %w", err)
		}
		if err := s.enforce(ctx, r, action, req.WarningType); err != nil {
			return &model.EnforcementError{Action: action.ActionType, Err: err}
		}
		if req.ReportID != nil {
			if _, err := r.Reports.Resolve(ctx, *req.ReportID, model.ReportStatusResolved, moderatorID, action.Notes, action.CreatedAt); err != nil {
				return err
			}
		}
		if _, err := r.Ledger.Append(ctx, actionSubject(action), string(action.ActionType), moderatorID, action); err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
		out = action
		return nil
	})
	return out, err
}

// validateAction rejects malformed input before anything is read or written.
func validateAction(moderatorID string, req *model.CreateActionRequest) error {
	if moderatorID == "" {
		return &model.ErrValidation{Msg: "moderator id is required"}
	}
	if !req.ActionType.Valid() {
		return &model.ErrValidation{Msg: fmt.Sprintf("unknown action type %q", req.ActionType)}
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return model.ErrMissingReason
	}
	req.Notes = strings.TrimSpace(req.Notes)
	req.TargetUserID = strings.TrimSpace(req.TargetUserID)
	req.TargetContentID = strings.TrimSpace(req.TargetContentID)
	req.TargetContentType = content.Kind(strings.ToLower(string(req.TargetContentType)))

	if req.DurationHours != nil {
		if req.ActionType != model.ActionBanUser {
			return &model.ErrValidation{Msg: "duration_hours applies only to ban_user"}
		}
		if *req.DurationHours <= 0 {
			return &model.ErrValidation{Msg: "duration_hours must be positive"}
		}
		if *req.DurationHours > model.MaxBanHours {
			return &model.ErrValidation{Msg: fmt.Sprintf("duration_hours must not exceed %d; omit it for a permanent ban", model.MaxBanHours)}
		}
	}
	if req.WarningType != "" {
		if req.ActionType != model.ActionWarnUser {
			return &model.ErrValidation{Msg: "warning_type applies only to warn_user"}
		}
		if !req.WarningType.Valid() {
			return &model.ErrValidation{Msg: fmt.Sprintf("unknown warning type %q", req.WarningType)}
		}
	}
	if req.TargetContentType != "" && !req.TargetContentType.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnsupportedContentType, req.TargetContentType)
	}
	if req.ActionType.TargetsContent() && req.ReportID == nil {
		if err := checkContentTarget(req); err != nil {
			return err
		}
	}
	if !req.ActionType.TargetsContent() && req.ReportID == nil && req.TargetUserID == "" {
		return &model.ErrValidation{Msg: "target_user_id is required"}
	}
	return nil
}

func checkContentTarget(req *model.CreateActionRequest) error {
	if !req.TargetContentType.Moderatable() {
		return fmt.Errorf("%w: cannot %s %q", model.ErrUnsupportedContentType, req.ActionType, req.TargetContentType)
	}
	if req.TargetContentID == "" {
		return &model.ErrValidation{Msg: "target_content_id is required"}
	}
	return nil
}

// defaultTargetFromReport fills target fields the moderator left empty.
func defaultTargetFromReport(req *model.CreateActionRequest, rpt *model.Report) {
	if req.TargetContentType == "" && req.TargetContentID == "" {
		req.TargetContentType = rpt.ReportedContentType
		req.TargetContentID = rpt.ReportedContentID
	}
	if req.TargetUserID == "" {
		req.TargetUserID = rpt.ReportedUserID
	}
}

func (s *ModerationService) buildAction(ctx context.Context, r store.Repos, moderatorID string, req model.CreateActionRequest) (*model.ModerationAction, error) {
	a := &model.ModerationAction{
		ReportID:      req.ReportID,
		ModeratorID:   moderatorID,
		TargetUserID:  req.TargetUserID,
		ActionType:    req.ActionType,
		Reason:        req.Reason,
		Notes:         req.Notes,
		DurationHours: req.DurationHours,
		CreatedAt:     s.clock(),
	}

	if req.ActionType.TargetsContent() {
		if err := checkContentTarget(&req); err != nil {
			return nil, err
		}
		kind, id := req.TargetContentType, req.TargetContentID
		a.TargetContentType, a.TargetContentID = &kind, &id
		if a.TargetUserID == "" {
			author, err := r.Content.AuthorOf(ctx, content.Ref{Kind: kind, ID: id})
			if err == nil {
				a.TargetUserID = author
			}
		}
		return a, nil
	}

	if a.TargetUserID == "" {
		return nil, &model.ErrValidation{Msg: "target_user_id is required"}
	}
	if req.TargetContentType != "" && req.TargetContentID != "" {
		kind, id := req.TargetContentType, req.TargetContentID
		a.TargetContentType, a.TargetContentID = &kind, &id
	}
	return a, nil
}

func actionSubject(a *model.ModerationAction) string {
	if ref, ok := a.Ref(); ok && a.ActionType.TargetsContent() {
		return ref.String()
	}
	return "user/" + a.TargetUserID
}
