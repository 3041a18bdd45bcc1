package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sells-group/site-analyzer/internal/fetcher"
	"github.com/sells-group/site-analyzer/internal/generate"
)

const plumberHTML = `<html><head><title>Acme Plumbing</title>
<meta name="viewport" content="width=device-width"></head>
<body><p>Licensed and insured plumbing services with decades of experience and quality work.
Call now (555) 123-4567 or contact us for a free estimate. Read our customer reviews.</p>
<img src="/van.jpg"><img src="/crew.jpg"></body></html>`

// stubFetcher returns a canned page or a fixed error.
type stubFetcher struct {
	body string
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, rawURL string) (*fetcher.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &fetcher.Result{
		URL:        fetcher.NormalizeURL(rawURL),
		FinalURL:   fetcher.NormalizeURL(rawURL),
		StatusCode: http.StatusOK,
		Body:       []byte(s.body),
		LoadTime:   800 * time.Millisecond,
	}, nil
}

// stubCompleter answers every prompt with the same text.
type stubCompleter struct {
	text string
	err  error
}

func (s *stubCompleter) Complete(_ context.Context, _ string, _ int64) (*generate.Completion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &generate.Completion{Text: s.text, Provider: "openai", Model: "gpt-4o"}, nil
}

var errUpstream = errors.New("connection refused")
