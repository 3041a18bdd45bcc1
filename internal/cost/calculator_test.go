package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"sonnet": {
				Input: 3.00, Output: 15.00,
				CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
		},
		OpenAI: map[string]ModelRate{
			"4o": {
				Input: 2.50, Output: 10.00,
				CacheReadMul: 0.5,
			},
		},
	}
}

func TestEstimate(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	tests := []struct {
		name     string
		provider string
		model    string
		usage    Usage
		want     float64
	}{
		{
			name:     "anthropic simple",
			provider: ProviderAnthropic,
			model:    "sonnet",
			usage:    Usage{InputTokens: 1000000, OutputTokens: 100000},
			want:     3.00 + 1.50,
		},
		{
			name:     "anthropic with cache",
			provider: ProviderAnthropic,
			model:    "sonnet",
			usage:    Usage{InputTokens: 500000, CacheWriteTokens: 200000, CacheReadTokens: 1000000},
			// in: 1.50, cw: 0.2 * 3.00 * 1.25 = 0.75, cr: 1.0 * 3.00 * 0.1 = 0.30
			want:     1.50 + 0.75 + 0.30,
		},
		{
			name:     "openai simple",
			provider: ProviderOpenAI,
			model:    "4o",
			usage:    Usage{InputTokens: 2000000, OutputTokens: 500000},
			want:     5.00 + 5.00,
		},
		{
			name:     "openai cached prompt tokens",
			provider: ProviderOpenAI,
			model:    "4o",
			usage:    Usage{CacheReadTokens: 1000000},
			want:     1.25,
		},
		{
			name:     "unknown model",
			provider: ProviderOpenAI,
			model:    "nope",
			usage:    Usage{InputTokens: 1000000},
			want:     0,
		},
		{
			name:     "unknown provider",
			provider: "mistral",
			model:    "4o",
			usage:    Usage{InputTokens: 1000000},
			want:     0,
		},
		{
			name:     "zero usage",
			provider: ProviderAnthropic,
			model:    "sonnet",
			usage:    Usage{},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, calc.Estimate(tt.provider, tt.model, tt.usage), 1e-9)
		})
	}
}

func TestLog_ReturnsEstimate(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	got := calc.Log(ProviderOpenAI, "4o", "outreach_email", Usage{InputTokens: 1000000})
	assert.InDelta(t, 2.50, got, 1e-9)
}

func TestDefaultRates(t *testing.T) {
	t.Parallel()
	rates := DefaultRates()

	assert.Contains(t, rates.Anthropic, "claude-sonnet-4-5-20250929")
	assert.Contains(t, rates.OpenAI, "gpt-4o")

	for name, r := range rates.Anthropic {
		assert.Greater(t, r.Input, 0.0, name)
		assert.Greater(t, r.Output, r.Input, name)
	}
	for name, r := range rates.OpenAI {
		assert.Greater(t, r.Input, 0.0, name)
		assert.Greater(t, r.Output, r.Input, name)
	}
}
