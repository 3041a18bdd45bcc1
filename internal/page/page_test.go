package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<html><head>
<title>Acme Plumbing</title>
<meta name="viewport" content="width=device-width">
<script>var tracking = "Wix";</script>
</head><body>
<h1>Welcome</h1>
<img src="/a.png"><img src=""><img>
<p>Call us today</p>
</body></html>`

func TestParse(t *testing.T) {
	p, err := Parse("acme.com", []byte(sampleHTML), 1.5)
	require.NoError(t, err)

	assert.Equal(t, "acme.com", p.URL)
	assert.InDelta(t, 1.5, p.LoadTime, 0.0001)
	assert.Contains(t, p.Text, "Welcome")
	assert.Contains(t, p.Text, "Acme Plumbing", "title text is part of the text content")
	assert.NotContains(t, p.Text, "Wix", "script text is not rendered")
	assert.Contains(t, p.LowerText(), "call us today")
}

func TestParse_SkipsNonRenderedText(t *testing.T) {
	html := `<html><head><title>Acme</title>
<style>@media (max-width: 600px) { body { color: red } }</style>
<script>var cdn = "static.wixstatic.com";</script>
</head><body><p>Hello world.</p>
<template><p>Hidden contact form</p></template>
<noscript>Enable JavaScript</noscript></body></html>`

	p, err := Parse("x", []byte(html), 0)
	require.NoError(t, err)

	assert.Contains(t, p.Text, "Acme")
	assert.Contains(t, p.Text, "Hello world.")
	assert.NotContains(t, p.LowerText(), "@media")
	assert.NotContains(t, p.LowerText(), "wixstatic")
	assert.NotContains(t, p.LowerText(), "hidden contact form")

	// The document itself is untouched for element queries.
	assert.Equal(t, 1, p.Doc.Find("script").Length())
	assert.Equal(t, 1, p.Doc.Find("style").Length())
	assert.Equal(t, 1, p.Doc.Find("template").Length())
}

func TestPage_Title(t *testing.T) {
	p, err := Parse("x", []byte(sampleHTML), 0)
	require.NoError(t, err)
	title, ok := p.Title()
	assert.True(t, ok)
	assert.Equal(t, "Acme Plumbing", title)

	p, err = Parse("x", []byte(`<html><body>no title</body></html>`), 0)
	require.NoError(t, err)
	_, ok = p.Title()
	assert.False(t, ok)
}

func TestPage_Elements(t *testing.T) {
	p, err := Parse("x", []byte(sampleHTML), 0)
	require.NoError(t, err)

	assert.True(t, p.HasViewport())
	assert.Equal(t, 3, p.ImageCount())
	assert.Equal(t, 1, p.ImagesWithSrc())

	bare, err := Parse("x", []byte(`<html><head><meta name="description" content="x"></head></html>`), 0)
	require.NoError(t, err)
	assert.False(t, bare.HasViewport())
	assert.Equal(t, 0, bare.ImageCount())
}

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("call now for a quote", "quote", "zzz"))
	assert.False(t, ContainsAny("nothing here", "quote"))
	assert.False(t, ContainsAny("anything"))
}

func TestCountContained(t *testing.T) {
	assert.Equal(t, 2, CountContained("licensed and insured", "licensed", "insured", "expert"))
	assert.Equal(t, 0, CountContained("", "a"))
}
