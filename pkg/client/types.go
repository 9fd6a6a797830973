package client

import "time"

// Report mirrors a moderation report as returned by the API.
type Report struct {
	ID                  string    `json:"id"`
	ReporterID          string    `json:"reporter_id"`
	ReportedContentType string    `json:"reported_content_type"`
	ReportedContentID   string    `json:"reported_content_id"`
	ReportedUserID      string    `json:"reported_user_id"`
	Reason              string    `json:"reason"`
	Description         string    `json:"description,omitempty"`
	Status              string    `json:"status"`
	ModeratorID         *string   `json:"moderator_id,omitempty"`
	ModeratorNotes      string    `json:"moderator_notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// Set on moderator listings only.
	ReporterName     string `json:"reporter_name,omitempty"`
	ReportedUserName string `json:"reported_user_name,omitempty"`
	ContentReports   int    `json:"content_report_count,omitempty"`
	Severity         string `json:"severity,omitempty"`
	SeverityScore    int    `json:"severity_score,omitempty"`
}

// CreateReportRequest is the payload for CreateReport.
type CreateReportRequest struct {
	ContentType    string `json:"content_type"`
	ContentID      string `json:"content_id"`
	ReportedUserID string `json:"reported_user_id,omitempty"`
	Reason         string `json:"reason"`
	Description    string `json:"description,omitempty"`
}

// ReportQuery narrows ListReports. Zero values are omitted.
type ReportQuery struct {
	Status      string
	ContentType string
	From        string // RFC3339 or YYYY-MM-DD
	To          string
	Search      string
	Limit       int
	Offset      int
}

// Action mirrors a moderation action log row.
type Action struct {
	ID                string    `json:"id"`
	ReportID          *string   `json:"report_id,omitempty"`
	ModeratorID       string    `json:"moderator_id"`
	TargetContentType *string   `json:"target_content_type,omitempty"`
	TargetContentID   *string   `json:"target_content_id,omitempty"`
	TargetUserID      string    `json:"target_user_id"`
	ActionType        string    `json:"action_type"`
	Reason            string    `json:"reason"`
	Notes             string    `json:"notes,omitempty"`
	DurationHours     *int      `json:"duration_hours,omitempty"`
	CreatedAt         time.Time `json:"created_at"`

	ModeratorName  string `json:"moderator_name,omitempty"`
	TargetUserName string `json:"target_user_name,omitempty"`
}

// ActionRequest is the payload for Dispatch.
type ActionRequest struct {
	ReportID          string `json:"report_id,omitempty"`
	TargetContentType string `json:"target_content_type,omitempty"`
	TargetContentID   string `json:"target_content_id,omitempty"`
	TargetUserID      string `json:"target_user_id,omitempty"`
	ActionType        string `json:"action_type"`
	Reason            string `json:"reason"`
	Notes             string `json:"notes,omitempty"`
	DurationHours     *int   `json:"duration_hours,omitempty"`
	WarningType       string `json:"warning_type,omitempty"`
}

// ActionQuery narrows ListActions.
type ActionQuery struct {
	ModeratorID  string
	TargetUserID string
	ActionType   string
	Limit        int
	Offset       int
}

// Ban mirrors a ban registry row.
type Ban struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	ModeratorID   string     `json:"moderator_id"`
	Reason        string     `json:"reason"`
	BannedAt      time.Time  `json:"banned_at"`
	BannedUntil   *time.Time `json:"banned_until,omitempty"`
	IsPermanent   bool       `json:"is_permanent"`
	UserName      string     `json:"user_name"`
	ModeratorName string     `json:"moderator_name"`
	Active        bool       `json:"active"`
}

// BanStatus is the answer to "is this user currently banned?".
type BanStatus struct {
	UserID    string     `json:"user_id"`
	Banned    bool       `json:"banned"`
	Until     *time.Time `json:"until,omitempty"`
	Permanent bool       `json:"permanent"`
	Reason    string     `json:"reason,omitempty"`
}

// Warning is a moderator message to a user.
type Warning struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ModeratorID string    `json:"moderator_id"`
	WarningType string    `json:"warning_type"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// WarningRequest is the payload for SendWarning.
type WarningRequest struct {
	UserID      string `json:"user_id"`
	WarningType string `json:"warning_type,omitempty"`
	Message     string `json:"message,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// HiddenContent is an item currently hidden by moderation.
type HiddenContent struct {
	Ref struct {
		ContentType string `json:"content_type"`
		ContentID   string `json:"content_id"`
	} `json:"ref"`
	AuthorID     string    `json:"author_id"`
	Summary      string    `json:"summary"`
	HiddenBy     string    `json:"hidden_by"`
	HiddenAt     time.Time `json:"hidden_at"`
	HiddenReason string    `json:"hidden_reason"`
	AuthorName   string    `json:"author_name"`
	HiddenByName string    `json:"hidden_by_name"`
}

// Stats is the moderation dashboard summary.
type Stats struct {
	ReportsByStatus      map[string]int `json:"reports_by_status"`
	ReportsByReason      map[string]int `json:"reports_by_reason"`
	ReportsByContentType map[string]int `json:"reports_by_content_type"`
	ActiveBans           int            `json:"active_bans"`
	HiddenContent        int            `json:"hidden_content"`
	RecentActions        map[string]int `json:"recent_actions"`
	RecentWindow         string         `json:"recent_window"`
	GeneratedAt          time.Time      `json:"generated_at"`
}

// LedgerOverview is the trust ledger length and root hash.
type LedgerOverview struct {
	Entries int    `json:"entries"`
	Root    string `json:"root"`
}
