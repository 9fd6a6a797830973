// Package triage ranks pending reports so moderators see the most urgent
// ones first. Scores are advisory: they never change a report's status and
// no action is taken automatically.
package triage

import (
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// Finding is a single rule match returned by the scorer.
type Finding struct {
	Rule        string  `json:"rule"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Assessment is the output of a triage run.
type Assessment struct {
	// Score is the aggregate urgency score (0–100).
	Score int `json:"score"`

	// Severity is a human-readable label derived from Score:
	//   0–14   → "none"
	//   15–34  → "low"
	//   35–64  → "medium"
	//   65–84  → "high"
	//   85–100 → "critical"
	Severity string `json:"severity"`

	Findings []Finding `json:"findings"`
}

// Signals are the inputs a scorer looks at.
type Signals struct {
	Reason      model.Reason
	Description string

	// ContentReports is the number of reports filed against the same item,
	// including this one.
	ContentReports int
}

// Scorer assesses a report.
type Scorer interface {
	Score(s Signals) Assessment
}

// severityLabel maps a 0–100 score to a severity string.
func severityLabel(score int) string {
	switch {
	case score >= 85:
		return "critical"
	case score >= 65:
		return "high"
	case score >= 35:
		return "medium"
	case score >= 15:
		return "low"
	default:
		return "none"
	}
}
