package fetcher

import (
	"context"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sells-group/site-analyzer/internal/resilience"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 5 * 1024 * 1024
	defaultUserAgent    = "Mozilla/5.0 (compatible; SiteAnalyzer/1.0)"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
}

// HTTPFetcher implements Fetcher using net/http. One request per call.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: opts.Timeout,
		}).DialContext,
		TLSHandshakeTimeout: opts.Timeout,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts: opts,
	}
}

// Fetch downloads the page at rawURL and times the round trip, including
// reading the body.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	target := NormalizeURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{URL: target, Kind: resilience.KindUnknown, Err: eris.Wrap(err, "fetcher: create request")}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		kind := resilience.Classify(err)
		zap.L().Warn("fetcher: request failed",
			zap.String("url", target),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, &FetchError{URL: target, Kind: kind, Err: eris.Wrap(err, "fetcher: get")}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		return nil, &FetchError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Kind:       resilience.Classify(err),
			Err:        eris.Wrap(err, "fetcher: read body"),
		}
	}
	elapsed := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		block := DetectBlock(resp.StatusCode, resp.Header, body)
		zap.L().Warn("fetcher: unexpected status",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.String("block_type", string(block)),
		)
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode, BlockType: block}
	}

	result := &Result{
		URL:        target,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       toUTF8(body, resp.Header.Get("Content-Type")),
		LoadTime:   elapsed,
	}

	zap.L().Debug("fetcher: page fetched",
		zap.String("url", target),
		zap.String("final_url", result.FinalURL),
		zap.Int("bytes", len(body)),
		zap.Duration("load_time", elapsed),
	)

	return result, nil
}

// toUTF8 transcodes body from the charset named in contentType. A missing
// or unknown charset leaves body untouched.
func toUTF8(body []byte, contentType string) []byte {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}
	name := strings.TrimSpace(params["charset"])
	if name == "" {
		return body
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return body
	}
	if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
		return body
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		zap.L().Debug("fetcher: charset decode failed", zap.String("charset", name), zap.Error(err))
		return body
	}
	return out
}
