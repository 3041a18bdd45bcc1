package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/site-analyzer/internal/cost"
	"github.com/sells-group/site-analyzer/pkg/anthropic"
	"github.com/sells-group/site-analyzer/pkg/openai"
)

func TestAnthropicCompleter(t *testing.T) {
	ctx := context.Background()
	client := new(mockAnthropicClient)
	client.On("CreateMessage", ctx, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == anthropic.DefaultModel &&
			req.MaxTokens == 150 &&
			len(req.Messages) == 1 &&
			req.Messages[0].Role == "user" &&
			req.Messages[0].Content == "prompt"
	})).Return(&anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: "  Yes, strong lead.\n"}},
		Usage:   anthropic.TokenUsage{InputTokens: 80, OutputTokens: 20, CacheReadInputTokens: 5},
	}, nil)

	c := NewAnthropicCompleter(client, "")
	got, err := c.Complete(ctx, "prompt", 150)
	require.NoError(t, err)
	assert.Equal(t, "Yes, strong lead.", got.Text)
	assert.Equal(t, cost.ProviderAnthropic, got.Provider)
	assert.Equal(t, anthropic.DefaultModel, got.Model)
	assert.Equal(t, cost.Usage{InputTokens: 80, OutputTokens: 20, CacheReadTokens: 5}, got.Usage)
	client.AssertExpectations(t)
}

func TestAnthropicCompleter_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("client error", func(t *testing.T) {
		client := new(mockAnthropicClient)
		client.On("CreateMessage", ctx, mock.Anything).Return(nil, errors.New("anthropic: create message: 401"))

		_, err := NewAnthropicCompleter(client, "claude-haiku-4-5-20251001").Complete(ctx, "p", 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("empty text", func(t *testing.T) {
		client := new(mockAnthropicClient)
		client.On("CreateMessage", ctx, mock.Anything).Return(&anthropic.MessageResponse{
			Content: []anthropic.ContentBlock{{Type: "text", Text: "   "}},
		}, nil)

		_, err := NewAnthropicCompleter(client, "").Complete(ctx, "p", 10)
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})
}

func TestOpenAICompleter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","choices":[{"index":0,"message":{"role":"assistant","content":"\nSubject: Hello\n\nBody\n"}}],
			"usage":{"prompt_tokens":100,"completion_tokens":30,"prompt_tokens_details":{"cached_tokens":20}}}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter(openai.NewClient("sk-test", openai.WithBaseURL(srv.URL)), "")
	got, err := c.Complete(context.Background(), "prompt", 300)
	require.NoError(t, err)
	assert.Equal(t, "Subject: Hello\n\nBody", got.Text)
	assert.Equal(t, cost.ProviderOpenAI, got.Provider)
	assert.Equal(t, openai.DefaultModel, got.Model)
	assert.Equal(t, cost.Usage{InputTokens: 80, OutputTokens: 30, CacheReadTokens: 20}, got.Usage)
}

func TestOpenAICompleter_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"c1","choices":[],"usage":{}}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter(openai.NewClient("sk-test", openai.WithBaseURL(srv.URL)), "gpt-4o")
	_, err := c.Complete(context.Background(), "prompt", 10)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestNewCompleter(t *testing.T) {
	c, err := NewCompleter(BackendConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	oc, ok := c.(*OpenAICompleter)
	require.True(t, ok)
	assert.Equal(t, openai.DefaultModel, oc.model)

	c, err = NewCompleter(BackendConfig{Provider: "Anthropic", APIKey: "key", Model: "claude-haiku-4-5-20251001", BaseURL: "http://localhost:1"})
	require.NoError(t, err)
	ac, ok := c.(*AnthropicCompleter)
	require.True(t, ok)
	assert.Equal(t, "claude-haiku-4-5-20251001", ac.model)

	_, err = NewCompleter(BackendConfig{Provider: "mistral"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "mistral"`)
}

func TestNewCompleter_OpenAIBackendConfig(t *testing.T) {
	tests := []struct {
		name    string
		delay   time.Duration
		timeout time.Duration
		wantErr bool
	}{
		{name: "within timeout", timeout: time.Second},
		{name: "no timeout", timeout: 0},
		{name: "exceeds timeout", delay: 300 * time.Millisecond, timeout: 50 * time.Millisecond, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req openai.ChatCompletionRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "gpt-4o-mini", req.Model)
				select {
				case <-time.After(tt.delay):
				case <-r.Context().Done():
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Yes."}}],"usage":{"prompt_tokens":10,"completion_tokens":2}}`))
			}))
			defer srv.Close()

			c, err := NewCompleter(BackendConfig{
				APIKey:  "sk-test-key-0123456789",
				Model:   "gpt-4o-mini",
				BaseURL: srv.URL,
				Timeout: tt.timeout,
			})
			require.NoError(t, err)

			got, err := c.Complete(context.Background(), "prompt", 10)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Yes.", got.Text)
			assert.Equal(t, "gpt-4o-mini", got.Model)
		})
	}
}
