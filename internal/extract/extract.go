// Package extract derives the business descriptors used in outreach
// prompts from a parsed page.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/sells-group/site-analyzer/internal/page"
)

// Descriptor defaults.
const (
	NoTitleName     = "Business"
	GenericName     = "Local Business"
	DefaultType     = "Local Business"
	DefaultLocation = "Local Area"
	ExcerptRunes    = 2000
)

var genericTitleTerms = []string{"home", "index"}

// family maps keyword stems to a business type. Families are tried in
// order and the first hit wins.
type family struct {
	label    string
	keywords []string
}

var families = []family{
	{label: "Plumbing Company", keywords: []string{"plumb", "pipe", "drain", "water"}},
	{label: "Electrical Company", keywords: []string{"electric", "wire", "power"}},
	{label: "Roofing Company", keywords: []string{"roof", "gutter", "shingle"}},
	{label: "HVAC Company", keywords: []string{"hvac", "air", "heat", "cool"}},
	{label: "Landscaping Company", keywords: []string{"lawn", "landscape", "garden"}},
}

// Info is the set of descriptors extracted from one page.
type Info struct {
	BusinessName string
	BusinessType string
	Domain       string
	Location     string
	Excerpt      string
}

// FromPage extracts every descriptor. The business type is classified from
// the excerpt, not the full text.
func FromPage(p *page.Page) Info {
	title, ok := p.Title()
	excerpt := Excerpt(p.Text, ExcerptRunes)
	return Info{
		BusinessName: BusinessName(title, ok),
		BusinessType: BusinessType(excerpt),
		Domain:       Domain(p.URL),
		Location:     Location(),
		Excerpt:      excerpt,
	}
}

// BusinessName derives a display name from the page title. A missing or
// completely empty title yields NoTitleName; a title that trims to nothing
// or reads as generic yields GenericName.
func BusinessName(title string, hasTitle bool) string {
	if !hasTitle || title == "" {
		return NoTitleName
	}
	name := strings.TrimSpace(title)
	if name != "" && !page.ContainsAny(strings.ToLower(name), genericTitleTerms...) {
		return name
	}
	return GenericName
}

// BusinessType classifies text into a trade by keyword family.
func BusinessType(text string) string {
	lower := strings.ToLower(text)
	for _, f := range families {
		if page.ContainsAny(lower, f.keywords...) {
			return f.label
		}
	}
	return DefaultType
}

// Domain strips the scheme and anything after the first slash.
func Domain(rawURL string) string {
	d := strings.TrimPrefix(rawURL, "https://")
	d = strings.TrimPrefix(d, "http://")
	host, _, _ := strings.Cut(d, "/")
	return host
}

// Location is not inferred from the page.
func Location() string {
	return DefaultLocation
}

// Excerpt returns the first n runes of text.
func Excerpt(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
