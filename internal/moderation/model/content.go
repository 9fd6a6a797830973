package model

import (
	"time"

	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
)

// HiddenContent is a content item whose visibility flag is set.
type HiddenContent struct {
	Ref          content.Ref `json:"ref"`
	AuthorID     string      `json:"author_id"`
	Summary      string      `json:"summary"`
	HiddenBy     string      `json:"hidden_by"`
	HiddenAt     time.Time   `json:"hidden_at"`
	HiddenReason string      `json:"hidden_reason"`
}

// HiddenContentView is HiddenContent enriched with display names.
type HiddenContentView struct {
	*HiddenContent
	AuthorName   string `json:"author_name"`
	HiddenByName string `json:"hidden_by_name"`
}

// Stats aggregates moderation activity for the dashboard.
type Stats struct {
	ReportsByStatus      map[ReportStatus]int `json:"reports_by_status"`
	ReportsByReason      map[Reason]int       `json:"reports_by_reason"`
	ReportsByContentType map[content.Kind]int `json:"reports_by_content_type"`
	ActiveBans           int                  `json:"active_bans"`
	HiddenContent        int                  `json:"hidden_content"`
	RecentActions        map[ActionType]int   `json:"recent_actions"`
	RecentWindow         string               `json:"recent_window"`
	GeneratedAt          time.Time            `json:"generated_at"`
}
