package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
)

// ReportStatus represents the lifecycle state of a report.
// The only transitions are pending → resolved and pending → dismissed.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusResolved || s == ReportStatusDismissed
}

// Reason is why a reporter flagged the content.
type Reason string

const (
	ReasonSpam           Reason = "spam"
	ReasonHarassment     Reason = "harassment"
	ReasonHateSpeech     Reason = "hate_speech"
	ReasonViolence       Reason = "violence"
	ReasonInappropriate  Reason = "inappropriate"
	ReasonMisinformation Reason = "misinformation"
	ReasonCopyright      Reason = "copyright"
	ReasonFraud          Reason = "fraud"
	ReasonOther          Reason = "other"
)

// Reasons lists every accepted report reason.
var Reasons = []Reason{
	ReasonSpam, ReasonHarassment, ReasonHateSpeech, ReasonViolence,
	ReasonInappropriate, ReasonMisinformation, ReasonCopyright, ReasonFraud,
	ReasonOther,
}

// Valid reports whether r is in the enumerated set.
func (r Reason) Valid() bool {
	for _, v := range Reasons {
		if r == v {
			return true
		}
	}
	return false
}

// MaxDescriptionLen caps the free-text description of a report.
const MaxDescriptionLen = 2000

// Report is a user-submitted flag against content or another user.
type Report struct {
	ID                  uuid.UUID    `json:"id"                    db:"id"`
	ReporterID          string       `json:"reporter_id"           db:"reporter_id"`
	ReportedContentType content.Kind `json:"reported_content_type" db:"reported_content_type"`
	ReportedContentID   string       `json:"reported_content_id"   db:"reported_content_id"`
	ReportedUserID      string       `json:"reported_user_id"      db:"reported_user_id"`
	Reason              Reason       `json:"reason"                db:"reason"`
	Description         string       `json:"description,omitempty" db:"description"`
	Status              ReportStatus `json:"status"                db:"status"`
	ModeratorID         *string      `json:"moderator_id,omitempty" db:"moderator_id"`
	ModeratorNotes      string       `json:"moderator_notes,omitempty" db:"moderator_notes"`
	CreatedAt           time.Time    `json:"created_at"            db:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"            db:"updated_at"`
}

// Ref returns the content reference the report points at.
func (r *Report) Ref() content.Ref {
	return content.Ref{Kind: r.ReportedContentType, ID: r.ReportedContentID}
}

// CreateReportRequest is the payload for filing a report.
type CreateReportRequest struct {
	ContentType    content.Kind `json:"content_type"     binding:"required"`
	ContentID      string       `json:"content_id"       binding:"required"`
	ReportedUserID string       `json:"reported_user_id"`
	Reason         Reason       `json:"reason"           binding:"required"`
	Description    string       `json:"description"`
}

// ResolveReportRequest is the payload for resolving or dismissing a report.
type ResolveReportRequest struct {
	Outcome ReportStatus `json:"outcome" binding:"required"`
	Notes   string       `json:"notes"`
}

// ReportFilter narrows ListReports. Zero values mean "no constraint".
type ReportFilter struct {
	Status      ReportStatus
	ContentType content.Kind
	From        *time.Time
	To          *time.Time
	Search      string
	Limit       int
	Offset      int
}

// ReportView is a Report enriched for moderator tooling.
type ReportView struct {
	*Report
	ReporterName     string `json:"reporter_name"`
	ReportedUserName string `json:"reported_user_name"`
	ContentReports   int    `json:"content_report_count"`
	Severity         string `json:"severity"`
	SeverityScore    int    `json:"severity_score"`
}
