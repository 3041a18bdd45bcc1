package scorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/site-analyzer/internal/page"
)

// professionalBody passes every content check and clears the 500-rune
// thin-content floor.
var professionalBody = strings.Repeat(`<p>Our licensed and insured team brings decades of experience and
quality workmanship to every job. Learn about our services, read customer reviews, and
contact us at (555) 123-4567 for a free estimate. Our company is proud to serve the area.</p>
`, 3)

const goodHead = `<head><title>Acme Plumbing &amp; Drain</title>
<meta name="viewport" content="width=device-width, initial-scale=1"></head>`

const goodImages = `<img src="/truck.jpg"><img src="/team.jpg">`

func goodHTML() string {
	return "<html>" + goodHead + "<body>" + professionalBody + goodImages + "</body></html>"
}

// emptyHTML fails every check: no title, viewport, phone, contact words,
// professional vocabulary, call to action, social proof or images.
const emptyHTML = `<html><body><p>Lorem ipsum dolor sit amet.</p></body></html>`

func mustPage(t *testing.T, rawURL, html string, loadTime float64) *page.Page {
	t.Helper()
	p, err := page.Parse(rawURL, []byte(html), loadTime)
	require.NoError(t, err)
	return p
}
