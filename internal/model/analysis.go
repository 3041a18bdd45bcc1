package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckOutcome is the result of a single rubric check. Reason is empty
// iff Passed is true.
type CheckOutcome struct {
	Name   string `json:"name" yaml:"name"`
	Passed bool   `json:"passed" yaml:"passed"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Penalties holds the quality deductions applied on top of the check count.
type Penalties struct {
	BuilderBrand         int `json:"builder_brand" yaml:"builder_brand"`
	UnderConstruction    int `json:"under_construction" yaml:"under_construction"`
	ThinContent          int `json:"thin_content" yaml:"thin_content"`
	MissingBusinessWords int `json:"missing_business_words" yaml:"missing_business_words"`
	FewImages            int `json:"few_images" yaml:"few_images"`
}

// Total returns the sum of all deductions.
func (p Penalties) Total() int {
	return p.BuilderBrand + p.UnderConstruction + p.ThinContent +
		p.MissingBusinessWords + p.FewImages
}

// AnalysisResult is the scored outcome of one website analysis.
type AnalysisResult struct {
	ID           uuid.UUID      `json:"id" yaml:"id"`
	URL          string         `json:"url" yaml:"url"`
	Score        int            `json:"score" yaml:"score"`
	BaseScore    int            `json:"base_score" yaml:"base_score"`
	Penalties    Penalties      `json:"penalties" yaml:"penalties"`
	Report       string         `json:"report" yaml:"report"`
	BusinessName string         `json:"business_name" yaml:"business_name"`
	BusinessType string         `json:"business_type" yaml:"business_type"`
	PageText     string         `json:"page_text" yaml:"page_text"`
	LoadTime     float64        `json:"load_time" yaml:"load_time"`
	Checks       []CheckOutcome `json:"checks" yaml:"checks"`
	AnalyzedAt   time.Time      `json:"analyzed_at" yaml:"analyzed_at"`
}

// FailedChecks returns the checks that did not pass, in evaluation order.
func (r *AnalysisResult) FailedChecks() []CheckOutcome {
	var out []CheckOutcome
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// PassedCount returns the number of passing checks.
func (r *AnalysisResult) PassedCount() int {
	n := 0
	for _, c := range r.Checks {
		if c.Passed {
			n++
		}
	}
	return n
}
