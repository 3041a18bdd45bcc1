// Package page wraps a parsed HTML document with the derived values every
// rubric check reads.
package page

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// Page is a fetched, parsed document. URL is the address exactly as the
// caller supplied it, before scheme normalization.
type Page struct {
	URL      string
	Doc      *goquery.Document
	Text     string
	LoadTime float64

	lower string
}

// nonRendered matches elements whose text is never shown on the page.
const nonRendered = "script, style, template"

// Parse builds a Page from raw HTML. Text is the rendered text content of
// the document in document order: title text is included, script, style
// and template content is not. Doc keeps every element.
func Parse(rawURL string, body []byte, loadTime float64) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "page: parse html")
	}
	text := renderedText(doc)
	return &Page{
		URL:      rawURL,
		Doc:      doc,
		Text:     text,
		LoadTime: loadTime,
		lower:    strings.ToLower(text),
	}, nil
}

func renderedText(doc *goquery.Document) string {
	visible := doc.Selection.Clone()
	visible.Find(nonRendered).Remove()
	return visible.Text()
}

// LowerText returns the lowercased text content.
func (p *Page) LowerText() string {
	return p.lower
}

// Title returns the text of the first <title> element and whether one exists.
func (p *Page) Title() (string, bool) {
	sel := p.Doc.Find("title").First()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Text(), true
}

// HasViewport reports whether a <meta name="viewport"> element is present.
func (p *Page) HasViewport() bool {
	return p.Doc.Find(`meta[name="viewport"]`).Length() > 0
}

// ImageCount returns the number of <img> elements.
func (p *Page) ImageCount() int {
	return p.Doc.Find("img").Length()
}

// ImagesWithSrc returns the number of <img> elements with a non-empty src.
func (p *Page) ImagesWithSrc() int {
	n := 0
	p.Doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			n++
		}
	})
	return n
}

// ContainsAny reports whether the lowercased text contains any of the
// given lowercase substrings.
func (p *Page) ContainsAny(substrs ...string) bool {
	return ContainsAny(p.lower, substrs...)
}

// ContainsAny checks if s contains any of the given substrings.
func ContainsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// CountContained returns how many of substrs occur in s.
func CountContained(s string, substrs ...string) int {
	n := 0
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			n++
		}
	}
	return n
}
