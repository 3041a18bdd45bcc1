package model

import "strings"

// ScoreBand buckets a score for display.
type ScoreBand string

const (
	ScoreBandHigh   ScoreBand = "high"
	ScoreBandMedium ScoreBand = "medium"
	ScoreBandLow    ScoreBand = "low"
)

// BandFor returns the display band for a score: high >= 7, medium >= 4.
func BandFor(score int) ScoreBand {
	switch {
	case score >= 7:
		return ScoreBandHigh
	case score >= 4:
		return ScoreBandMedium
	default:
		return ScoreBandLow
	}
}

// GeneratedContent holds the outreach material produced for an analysis.
// A field holds a human-readable failure message when its generation failed.
type GeneratedContent struct {
	LeadQualification string `json:"lead_qualification" yaml:"lead_qualification"`
	RebuildPrompt     string `json:"rebuild_prompt" yaml:"rebuild_prompt"`
	OutreachEmail     string `json:"outreach_email" yaml:"outreach_email"`
	OutreachDM        string `json:"outreach_dm" yaml:"outreach_dm"`
}

// Bundle is everything handed to the presentation layer for one analysis.
type Bundle struct {
	Analysis AnalysisResult    `json:"analysis" yaml:"analysis"`
	Content  *GeneratedContent `json:"content,omitempty" yaml:"content,omitempty"`
}

// IsGoodLead reports whether the qualification verdict reads as a yes.
func (b *Bundle) IsGoodLead() bool {
	if b.Content == nil {
		return false
	}
	return strings.Contains(strings.ToLower(b.Content.LeadQualification), "yes")
}

// ScoreBand returns the display band of the analysis score.
func (b *Bundle) ScoreBand() ScoreBand {
	return BandFor(b.Analysis.Score)
}
