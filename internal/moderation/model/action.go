package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
)

// ActionType is the kind of decision a moderator applies.
type ActionType string

const (
	ActionHide     ActionType = "hide"
	ActionDelete   ActionType = "delete"
	ActionBanUser  ActionType = "ban_user"
	ActionWarnUser ActionType = "warn_user"
	ActionRestore  ActionType = "restore"
)

// ActionTypes lists every action type.
var ActionTypes = []ActionType{ActionHide, ActionDelete, ActionBanUser, ActionWarnUser, ActionRestore}

// Valid reports whether a is a known action type.
func (a ActionType) Valid() bool {
	for _, v := range ActionTypes {
		if a == v {
			return true
		}
	}
	return false
}

// TargetsContent reports whether the action mutates a content item rather
// than a user.
func (a ActionType) TargetsContent() bool {
	return a == ActionHide || a == ActionDelete || a == ActionRestore
}

// ModerationAction is an append-only audit record of a moderator decision.
// Rows are never updated or deleted.
type ModerationAction struct {
	ID                uuid.UUID     `json:"id"                            db:"id"`
	ReportID          *uuid.UUID    `json:"report_id,omitempty"           db:"report_id"`
	ModeratorID       string        `json:"moderator_id"                  db:"moderator_id"`
	TargetContentType *content.Kind `json:"target_content_type,omitempty" db:"target_content_type"`
	TargetContentID   *string       `json:"target_content_id,omitempty"   db:"target_content_id"`
	TargetUserID      string        `json:"target_user_id"                db:"target_user_id"`
	ActionType        ActionType    `json:"action_type"                   db:"action_type"`
	Reason            string        `json:"reason"                        db:"reason"`
	Notes             string        `json:"notes,omitempty"               db:"notes"`
	DurationHours     *int          `json:"duration_hours,omitempty"      db:"duration_hours"`
	CreatedAt         time.Time     `json:"created_at"                    db:"created_at"`
}

// Ref returns the content target of the action, if any.
func (a *ModerationAction) Ref() (content.Ref, bool) {
	if a.TargetContentType == nil || a.TargetContentID == nil {
		return content.Ref{}, false
	}
	return content.Ref{Kind: *a.TargetContentType, ID: *a.TargetContentID}, true
}

// CreateActionRequest is the payload for dispatching a moderation action.
type CreateActionRequest struct {
	ReportID          *uuid.UUID   `json:"report_id"`
	TargetContentType content.Kind `json:"target_content_type"`
	TargetContentID   string       `json:"target_content_id"`
	TargetUserID      string       `json:"target_user_id"`
	ActionType        ActionType   `json:"action_type"     binding:"required"`
	Reason            string       `json:"reason"`
	Notes             string       `json:"notes"`
	DurationHours     *int         `json:"duration_hours"`
	WarningType       WarningType  `json:"warning_type"`
}

// ActionFilter narrows ListModerationActions.
type ActionFilter struct {
	ModeratorID  string
	TargetUserID string
	ActionType   ActionType
	Limit        int
	Offset       int
}

// ActionView is a ModerationAction enriched with display names.
type ActionView struct {
	*ModerationAction
	ModeratorName  string `json:"moderator_name"`
	TargetUserName string `json:"target_user_name"`
}
