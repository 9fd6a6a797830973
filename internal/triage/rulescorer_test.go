package triage_test

import (
	"testing"

	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
	"github.com/jmerrifield20/NexusTrustSafety/internal/triage"
)

func TestRuleBasedScorer_reasonOnly(t *testing.T) {
	s := triage.NewRuleBasedScorer()
	got := s.Score(triage.Signals{Reason: model.ReasonSpam, ContentReports: 1})
	if got.Score != 10 {
		t.Errorf("Score = %d, want 10", got.Score)
	}
	if got.Severity != "none" {
		t.Errorf("Severity = %q, want none", got.Severity)
	}
	if len(got.Findings) != 1 || got.Findings[0].Rule != "reason" {
		t.Errorf("Findings = %+v", got.Findings)
	}
}

func TestRuleBasedScorer_volumeRaisesSeverity(t *testing.T) {
	s := triage.NewRuleBasedScorer()
	one := s.Score(triage.Signals{Reason: model.ReasonHarassment, ContentReports: 1})
	many := s.Score(triage.Signals{Reason: model.ReasonHarassment, ContentReports: 8})
	if many.Score <= one.Score {
		t.Errorf("8 reports scored %d, 1 report scored %d", many.Score, one.Score)
	}
	if many.Severity != "high" {
		t.Errorf("Severity = %q, want high (score %d)", many.Severity, many.Score)
	}
}

func TestRuleBasedScorer_capsAt100(t *testing.T) {
	s := triage.NewRuleBasedScorer()
	got := s.Score(triage.Signals{
		Reason:         model.ReasonViolence,
		Description:    "direct threat to kill, posted my address, blackmail",
		ContentReports: 50,
	})
	if got.Score != 100 {
		t.Errorf("Score = %d, want 100", got.Score)
	}
	if got.Severity != "critical" {
		t.Errorf("Severity = %q, want critical", got.Severity)
	}
}

func TestRuleBasedScorer_unknownReasonNoFindings(t *testing.T) {
	got := triage.NewRuleBasedScorer().Score(triage.Signals{Reason: "bogus"})
	if got.Score != 0 || got.Findings == nil || len(got.Findings) != 0 {
		t.Errorf("got %+v, want zero score and empty findings", got)
	}
}
