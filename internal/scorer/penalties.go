package scorer

import (
	"strings"
	"unicode/utf8"

	"github.com/sells-group/site-analyzer/internal/model"
	"github.com/sells-group/site-analyzer/internal/page"
)

// Penalty weights.
const (
	PenaltyBuilderBrand         = 2
	PenaltyUnderConstruction    = 3
	PenaltyThinContent          = 2
	PenaltyMissingBusinessWords = 2
	PenaltyFewImages            = 1
)

var (
	placeholderPhrases = []string{"under construction", "coming soon"}
	businessWords      = []string{"service", "about", "contact", "business", "company"}
)

// penalize evaluates each quality flag independently. Flags overlap with
// check failures on purpose (a builder site or a missing image costs twice).
func penalize(p *page.Page, r Rules) model.Penalties {
	var out model.Penalties

	if p.ContainsAny(builderBrands...) {
		out.BuilderBrand = PenaltyBuilderBrand
	}
	if p.ContainsAny(placeholderPhrases...) {
		out.UnderConstruction = PenaltyUnderConstruction
	}
	if utf8.RuneCountInString(strings.TrimSpace(p.Text)) < r.ThinContentRunes {
		out.ThinContent = PenaltyThinContent
	}
	if !p.ContainsAny(businessWords...) {
		out.MissingBusinessWords = PenaltyMissingBusinessWords
	}
	if p.ImagesWithSrc() < r.MinImages {
		out.FewImages = PenaltyFewImages
	}

	return out
}
