package model

import (
	"time"

	"github.com/google/uuid"
)

// WarningType classifies a warning. Warnings are informational and never gate
// access.
type WarningType string

const (
	WarningGeneral WarningType = "general"
	WarningFinal   WarningType = "final_warning"
	WarningNotice  WarningType = "notice"
)

// Valid reports whether w is a known warning type.
func (w WarningType) Valid() bool {
	switch w {
	case WarningGeneral, WarningFinal, WarningNotice:
		return true
	}
	return false
}

// Warning is a message delivered to a user by a moderator.
type Warning struct {
	ID          uuid.UUID   `json:"id"           db:"id"`
	UserID      string      `json:"user_id"      db:"user_id"`
	ModeratorID string      `json:"moderator_id" db:"moderator_id"`
	WarningType WarningType `json:"warning_type" db:"warning_type"`
	Message     string      `json:"message"      db:"message"`
	IsRead      bool        `json:"is_read"      db:"is_read"`
	CreatedAt   time.Time   `json:"created_at"   db:"created_at"`
}

// SendWarningRequest is the payload for warning a user directly, outside of
// a report.
type SendWarningRequest struct {
	UserID      string      `json:"user_id"      binding:"required"`
	WarningType WarningType `json:"warning_type"`
	Message     string      `json:"message"`
	Reason      string      `json:"reason"`
}
