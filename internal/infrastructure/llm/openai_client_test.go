package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jdmatch/internal/config"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewOpenAIClient(config.LLMConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		Model:       "openai/gpt-oss-120b",
		Temperature: 0.1,
		TopP:        0.9,
		MaxTokens:   4096,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got capturedRequest
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"matchScore\": 80}"},"finish_reason":"stop"}]}`))
	})

	out, err := c.Complete(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"matchScore": 80}` {
		t.Fatalf("unexpected content: %q", out)
	}
	if auth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", auth)
	}
	if got.Model != "openai/gpt-oss-120b" || got.MaxTokens != 4096 || got.Temperature != 0.1 || got.TopP != 0.9 {
		t.Fatalf("unexpected request parameters: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "user text" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}

func TestOpenAIClient_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	})

	if _, err := c.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatalf("expected error on 401")
	}
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	})

	if _, err := c.Complete(context.Background(), "s", "u"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		if _, err := NewOpenAIClient(config.LLMConfig{APIKey: key}); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("key %q: expected ErrNotConfigured, got %v", key, err)
		}
	}
}

func TestOpenAIClient_Probe(t *testing.T) {
	var got capturedRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"{\"status\": \"connected\"}"}}]}`))
	})

	out, err := c.Probe(context.Background(), "ping")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"status": "connected"}` {
		t.Fatalf("unexpected content: %q", out)
	}
	if got.MaxTokens != probeMaxTokens || len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("unexpected probe request: %+v", got)
	}
}
