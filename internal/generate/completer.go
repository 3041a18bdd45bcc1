// Package generate produces outreach material for an analysis through a
// pluggable text-completion backend.
package generate

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/sells-group/site-analyzer/internal/cost"
	"github.com/sells-group/site-analyzer/pkg/anthropic"
	"github.com/sells-group/site-analyzer/pkg/openai"
)

// Completer sends one user prompt and returns the completion. Every call
// is attempted exactly once.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int64) (*Completion, error)
}

// Completion is the trimmed text of a response plus what it cost.
type Completion struct {
	Text     string
	Provider string
	Model    string
	Usage    cost.Usage
}

// ErrEmptyCompletion is returned when a backend answers with no text.
var ErrEmptyCompletion = eris.New("generate: empty completion")

// AnthropicCompleter completes prompts with the Claude Messages API.
type AnthropicCompleter struct {
	client anthropic.Client
	model  string
}

// NewAnthropicCompleter wraps an Anthropic client. An empty model selects
// anthropic.DefaultModel.
func NewAnthropicCompleter(client anthropic.Client, model string) *AnthropicCompleter {
	if model == "" {
		model = anthropic.DefaultModel
	}
	return &AnthropicCompleter{client: client, model: model}
}

// Complete implements Completer.
func (c *AnthropicCompleter) Complete(ctx context.Context, prompt string, maxTokens int64) (*Completion, error) {
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, ErrEmptyCompletion
	}
	return &Completion{
		Text:     text,
		Provider: cost.ProviderAnthropic,
		Model:    c.model,
		Usage: cost.Usage{
			InputTokens:      resp.Usage.InputTokens,
			OutputTokens:     resp.Usage.OutputTokens,
			CacheWriteTokens: resp.Usage.CacheCreationInputTokens,
			CacheReadTokens:  resp.Usage.CacheReadInputTokens,
		},
	}, nil
}

// OpenAICompleter completes prompts with an OpenAI-compatible chat API.
type OpenAICompleter struct {
	client openai.Client
	model  string
}

// NewOpenAICompleter wraps an OpenAI client. An empty model selects
// openai.DefaultModel.
func NewOpenAICompleter(client openai.Client, model string) *OpenAICompleter {
	if model == "" {
		model = openai.DefaultModel
	}
	return &OpenAICompleter{client: client, model: model}
}

// Complete implements Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string, maxTokens int64) (*Completion, error) {
	resp, err := c.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  []openai.Message{{Role: "user", Content: prompt}},
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(resp.Content())
	if text == "" {
		return nil, ErrEmptyCompletion
	}
	cached := resp.Usage.PromptTokensDetails.CachedTokens
	return &Completion{
		Text:     text,
		Provider: cost.ProviderOpenAI,
		Model:    c.model,
		Usage: cost.Usage{
			InputTokens:     resp.Usage.PromptTokens - cached,
			OutputTokens:    resp.Usage.CompletionTokens,
			CacheReadTokens: cached,
		},
	}, nil
}

// BackendConfig selects and configures a completion backend.
type BackendConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	// Timeout bounds each completion request. Zero keeps the client default.
	Timeout time.Duration
}

// NewCompleter builds the Completer for the configured provider.
func NewCompleter(cfg BackendConfig) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", cost.ProviderOpenAI:
		var opts []openai.Option
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}
		return NewOpenAICompleter(openai.NewClient(cfg.APIKey, opts...), cfg.Model), nil
	case cost.ProviderAnthropic:
		var opts []option.RequestOption
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
		}
		return NewAnthropicCompleter(anthropic.NewClient(cfg.APIKey, opts...), cfg.Model), nil
	default:
		return nil, eris.Errorf("generate: unknown provider %q", cfg.Provider)
	}
}
