package fetcher

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header http.Header
		body   string
		want   BlockType
	}{
		{"success never inspected", 200, http.Header{"Cf-Ray": {"x"}}, "please solve the captcha", BlockNone},
		{"cloudflare ray header", 403, http.Header{"Cf-Ray": {"abc"}}, "", BlockCloudflare},
		{"cloudflare server header", 503, http.Header{"Server": {"cloudflare"}}, "", BlockCloudflare},
		{"challenge page", 429, http.Header{}, "Checking your browser before accessing", BlockCloudflare},
		{"captcha page", 403, http.Header{}, "complete the reCAPTCHA", BlockCaptcha},
		{"plain 404", 404, http.Header{}, "not found", BlockNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectBlock(tt.status, tt.header, []byte(tt.body)))
		})
	}
}
