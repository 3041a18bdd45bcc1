package fetcher

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of anti-bot block behind a failed fetch.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
)

// DetectBlock inspects a non-success response for anti-bot protection so
// the failure can be reported accurately. Successful responses are never
// inspected: a 200 page is scored as-is, whatever it says.
func DetectBlock(statusCode int, header http.Header, body []byte) BlockType {
	if statusCode >= 200 && statusCode < 300 {
		return BlockNone
	}

	if statusCode == http.StatusForbidden || statusCode == http.StatusServiceUnavailable {
		if header.Get("cf-ray") != "" || header.Get("cf-cache-status") != "" ||
			strings.EqualFold(header.Get("server"), "cloudflare") {
			return BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))
	switch {
	case strings.Contains(lower, "checking your browser"),
		strings.Contains(lower, "cf-browser-verification"):
		return BlockCloudflare
	case strings.Contains(lower, "captcha"):
		return BlockCaptcha
	}

	return BlockNone
}
