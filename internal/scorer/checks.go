package scorer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sells-group/site-analyzer/internal/page"
)

// Check names, in evaluation order.
const (
	CheckSSL          = "SSL Certificate"
	CheckMobile       = "Mobile Responsiveness"
	CheckSpeed        = "Page Speed"
	CheckTitle        = "Professional Title"
	CheckPhone        = "Phone Number"
	CheckContact      = "Contact Information"
	CheckProfessional = "Professional Content"
	CheckCTA          = "Call to Action"
	CheckSocialProof  = "Social Proof"
	CheckImages       = "Images/Media"
)

// Failure reasons.
const (
	ReasonNoSSL          = "No SSL (site not secure)."
	ReasonNoViewport     = "Missing mobile viewport meta tag (not mobile-friendly)."
	ReasonGenericTitle   = "Generic or missing page title (poor SEO)."
	ReasonNoPhone        = "No visible phone number found."
	ReasonNoContact      = "Limited contact information visible."
	ReasonBuilderSite    = "Built with DIY website builder (unprofessional appearance)."
	ReasonUnprofessional = "Content lacks sufficient professional business language."
	ReasonNoCTA          = "No clear call-to-action found."
	ReasonNoSocialProof  = "No social proof or testimonials visible."
	ReasonFewImages      = "Few or no images found (poor visual appeal)."
	reasonSlowPageFormat = "Page load time %.1fs (slower than %.1fs)."
)

// builderBrands are DIY site-builder names; any mention is treated as a
// template site.
var builderBrands = []string{"weebly", "wix", "squarespace", "godaddy"}

var (
	genericTitleTerms   = []string{"home", "index"}
	contactTerms        = []string{"contact", "phone", "call", "email", "@", "address"}
	professionalTerms   = []string{"services", "about", "experience", "professional", "licensed", "insured", "certified", "quality", "expert"}
	callToActionPhrases = []string{"call now", "contact us", "get quote", "free estimate", "schedule", "book", "hire", "order"}
	socialProofTerms    = []string{"review", "testimonial", "customer", "client", "star", "rating", "feedback", "recommend"}
)

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`), // (123) 456-7890
	regexp.MustCompile(`\d{3}-\d{3}-\d{4}`),       // 123-456-7890
	regexp.MustCompile(`\d{3}\.\d{3}\.\d{4}`),     // 123.456.7890
	regexp.MustCompile(`\d{10}`),                  // 1234567890
}

// Check is one rubric predicate. Eval returns an empty reason on pass.
type Check struct {
	Name string
	Eval func(p *page.Page) (bool, string)
}

// Checks returns the rubric in evaluation order.
func Checks(r Rules) []Check {
	r = r.withDefaults()
	return []Check{
		{Name: CheckSSL, Eval: checkSSL},
		{Name: CheckMobile, Eval: checkMobileMeta},
		{Name: CheckSpeed, Eval: func(p *page.Page) (bool, string) { return checkPageSpeed(p.LoadTime, r.SlowThresholdSecs) }},
		{Name: CheckTitle, Eval: func(p *page.Page) (bool, string) { return checkTitle(p, r.MinTitleLength) }},
		{Name: CheckPhone, Eval: checkPhoneNumber},
		{Name: CheckContact, Eval: checkContactInfo},
		{Name: CheckProfessional, Eval: func(p *page.Page) (bool, string) { return checkProfessionalContent(p, r.ProfessionalMinHits) }},
		{Name: CheckCTA, Eval: checkCallToAction},
		{Name: CheckSocialProof, Eval: checkSocialProof},
		{Name: CheckImages, Eval: func(p *page.Page) (bool, string) { return checkImages(p, r.MinImages) }},
	}
}

// checkSSL inspects the URL as supplied, not the normalized fetch URL.
func checkSSL(p *page.Page) (bool, string) {
	if strings.HasPrefix(strings.ToLower(p.URL), "https://") {
		return true, ""
	}
	return false, ReasonNoSSL
}

func checkMobileMeta(p *page.Page) (bool, string) {
	if p.HasViewport() {
		return true, ""
	}
	return false, ReasonNoViewport
}

func checkPageSpeed(loadTime, threshold float64) (bool, string) {
	if loadTime <= threshold {
		return true, ""
	}
	return false, fmt.Sprintf(reasonSlowPageFormat, loadTime, threshold)
}

func checkTitle(p *page.Page, minLength int) (bool, string) {
	title, ok := p.Title()
	if ok && title != "" &&
		!page.ContainsAny(strings.ToLower(title), genericTitleTerms...) &&
		len([]rune(strings.TrimSpace(title))) >= minLength {
		return true, ""
	}
	return false, ReasonGenericTitle
}

func checkPhoneNumber(p *page.Page) (bool, string) {
	for _, re := range phonePatterns {
		if re.MatchString(p.Text) {
			return true, ""
		}
	}
	return false, ReasonNoPhone
}

func checkContactInfo(p *page.Page) (bool, string) {
	if p.ContainsAny(contactTerms...) {
		return true, ""
	}
	return false, ReasonNoContact
}

// checkProfessionalContent auto-fails on a builder brand before counting
// professional vocabulary.
func checkProfessionalContent(p *page.Page, minHits int) (bool, string) {
	if p.ContainsAny(builderBrands...) {
		return false, ReasonBuilderSite
	}
	if page.CountContained(p.LowerText(), professionalTerms...) >= minHits {
		return true, ""
	}
	return false, ReasonUnprofessional
}

func checkCallToAction(p *page.Page) (bool, string) {
	if p.ContainsAny(callToActionPhrases...) {
		return true, ""
	}
	return false, ReasonNoCTA
}

func checkSocialProof(p *page.Page) (bool, string) {
	if p.ContainsAny(socialProofTerms...) {
		return true, ""
	}
	return false, ReasonNoSocialProof
}

func checkImages(p *page.Page, minImages int) (bool, string) {
	if p.ImageCount() >= minImages {
		return true, ""
	}
	return false, ReasonFewImages
}
