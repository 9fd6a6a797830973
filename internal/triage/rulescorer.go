package triage

import (
	"fmt"
	"strings"

	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

type ruleFunc func(s Signals) []Finding

// RuleBasedScorer is the default Scorer. It runs a fixed set of rules and
// accumulates a score.
type RuleBasedScorer struct {
	rules []ruleFunc
}

// NewRuleBasedScorer returns a RuleBasedScorer loaded with the default rules.
func NewRuleBasedScorer() *RuleBasedScorer {
	return &RuleBasedScorer{rules: []ruleFunc{
		ruleReasonWeight,
		ruleReportVolume,
		ruleDescriptionPhrases,
	}}
}

// Score implements Scorer.
func (s *RuleBasedScorer) Score(sig Signals) Assessment {
	var findings []Finding
	for _, r := range s.rules {
		findings = append(findings, r(sig)...)
	}

	total := 0
	for _, f := range findings {
		total += int(f.Confidence * 25)
	}
	if total > 100 {
		total = 100
	}
	if findings == nil {
		findings = []Finding{}
	}
	return Assessment{Score: total, Severity: severityLabel(total), Findings: findings}
}

// ── Rules ─────────────────────────────────────────────────────────────────────

var reasonConfidence = map[model.Reason]float64{
	model.ReasonViolence:       1.6,
	model.ReasonHateSpeech:     1.4,
	model.ReasonHarassment:     1.2,
	model.ReasonFraud:          1.2,
	model.ReasonMisinformation: 0.8,
	model.ReasonInappropriate:  0.8,
	model.ReasonCopyright:      0.6,
	model.ReasonSpam:           0.4,
	model.ReasonOther:          0.2,
}

func ruleReasonWeight(s Signals) []Finding {
	c, ok := reasonConfidence[s.Reason]
	if !ok {
		return nil
	}
	return []Finding{{
		Rule:        "reason",
		Description: "Reported for " + string(s.Reason),
		Confidence:  c,
	}}
}

// ruleReportVolume scales with the number of independent reports on the
// same item, capped at ten.
func ruleReportVolume(s Signals) []Finding {
	if s.ContentReports < 2 {
		return nil
	}
	n := s.ContentReports
	if n > 10 {
		n = 10
	}
	return []Finding{{
		Rule:        "report_volume",
		Description: fmt.Sprintf("Item has %d reports", s.ContentReports),
		Confidence:  0.2 * float64(n),
	}}
}

// urgentPhrases in a reporter's description suggest imminent harm.
var urgentPhrases = []string{
	"threat", "kill", "suicide", "self-harm", "dox", "address",
	"minor", "child", "blackmail", "scam",
}

func ruleDescriptionPhrases(s Signals) []Finding {
	var findings []Finding
	lower := strings.ToLower(s.Description)
	for _, phrase := range urgentPhrases {
		if strings.Contains(lower, phrase) {
			findings = append(findings, Finding{
				Rule:        "description_phrase",
				Description: "Description mentions: " + phrase,
				Confidence:  0.6,
			})
		}
	}
	return findings
}
