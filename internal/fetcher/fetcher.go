package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/site-analyzer/internal/resilience"
)

// Fetcher retrieves a single page for analysis.
type Fetcher interface {
	// Fetch performs one GET against the (scheme-normalized) URL and returns
	// the body with its wall-clock load time. It never retries.
	Fetch(ctx context.Context, rawURL string) (*Result, error)
}

// Result is the outcome of a successful fetch.
type Result struct {
	URL        string        `json:"url"`
	FinalURL   string        `json:"final_url"`
	StatusCode int           `json:"status_code"`
	Body       []byte        `json:"-"`
	LoadTime   time.Duration `json:"load_time"`
}

// LoadSeconds returns the load time in fractional seconds.
func (r *Result) LoadSeconds() float64 {
	return r.LoadTime.Seconds()
}

// FetchError reports a failed page fetch: transport failure, timeout or a
// non-success status.
type FetchError struct {
	URL        string
	StatusCode int
	Kind       resilience.FailureKind
	BlockType  BlockType
	Err        error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fetch %s", e.URL)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.BlockType != BlockNone {
		fmt.Fprintf(&b, " (blocked: %s)", e.BlockType)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure might clear up on its own. It is
// informational only; the fetcher never retries.
func (e *FetchError) Transient() bool {
	if e.StatusCode != 0 {
		return resilience.IsTransientHTTPStatus(e.StatusCode)
	}
	return resilience.IsTransient(e.Err)
}

// NormalizeURL trims the input and prepends https:// when no http(s)
// scheme is present.
func NormalizeURL(rawURL string) string {
	u := strings.TrimSpace(rawURL)
	if !strings.HasPrefix(strings.ToLower(u), "http") {
		u = "https://" + u
	}
	return u
}
