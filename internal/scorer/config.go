// Package scorer implements the website audit rubric: ten pass/fail checks,
// quality penalties, and the clamped 1-10 score with its issue report.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Score bounds.
const (
	MinScore = 1
	MaxScore = 10
)

// Rules holds the tunable thresholds of the rubric. DefaultRules returns
// the values the rubric is calibrated against.
type Rules struct {
	SlowThresholdSecs   float64 `yaml:"slow_threshold_secs" mapstructure:"slow_threshold_secs"`
	MinTitleLength      int     `yaml:"min_title_length" mapstructure:"min_title_length"`
	ProfessionalMinHits int     `yaml:"professional_min_hits" mapstructure:"professional_min_hits"`
	MinImages           int     `yaml:"min_images" mapstructure:"min_images"`
	ThinContentRunes    int     `yaml:"thin_content_runes" mapstructure:"thin_content_runes"`
}

// DefaultRules returns the standard rubric thresholds.
func DefaultRules() Rules {
	return Rules{
		SlowThresholdSecs:   4.0,
		MinTitleLength:      6,
		ProfessionalMinHits: 4,
		MinImages:           2,
		ThinContentRunes:    500,
	}
}

// withDefaults fills zero values from DefaultRules.
func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.SlowThresholdSecs == 0 {
		r.SlowThresholdSecs = d.SlowThresholdSecs
	}
	if r.MinTitleLength == 0 {
		r.MinTitleLength = d.MinTitleLength
	}
	if r.ProfessionalMinHits == 0 {
		r.ProfessionalMinHits = d.ProfessionalMinHits
	}
	if r.MinImages == 0 {
		r.MinImages = d.MinImages
	}
	if r.ThinContentRunes == 0 {
		r.ThinContentRunes = d.ThinContentRunes
	}
	return r
}

// ValidateRules checks a fully specified Rules value. Every threshold must
// be positive, since New treats zero as "use the default".
func ValidateRules(r Rules) error {
	var errs []string

	if r.SlowThresholdSecs <= 0 {
		errs = append(errs, "slow_threshold_secs must be > 0")
	}
	if r.MinTitleLength <= 0 {
		errs = append(errs, "min_title_length must be > 0")
	}
	if r.ProfessionalMinHits <= 0 || r.ProfessionalMinHits > len(professionalTerms) {
		errs = append(errs, fmt.Sprintf("professional_min_hits must be between 1 and %d", len(professionalTerms)))
	}
	if r.MinImages <= 0 {
		errs = append(errs, "min_images must be > 0")
	}
	if r.ThinContentRunes <= 0 {
		errs = append(errs, "thin_content_runes must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: rules validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
