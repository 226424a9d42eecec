package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteRoundTrip(t *testing.T) {
	var gotReq chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("auth header = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		io.WriteString(w, `{
			"model": "test-model",
			"choices": [{"message": {"content": "YES"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 1, "total_tokens": 13}
		}`)
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{
		Provider: "custom",
		Model:    "test-model",
		BaseURL:  srv.URL,
		APIKey:   "sk-test",
	})

	resp, err := p.Complete(context.Background(), CompleteRequest{
		Prompt:      "are these related?",
		System:      "answer yes or no",
		Temperature: 0,
		MaxTokens:   10,
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if resp.Content != "YES" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.TotalTokens != 13 {
		t.Errorf("total tokens = %d", resp.TotalTokens)
	}

	if len(gotReq.Messages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("roles = %q, %q", gotReq.Messages[0].Role, gotReq.Messages[1].Role)
	}
	if gotReq.MaxTokens != 10 {
		t.Errorf("max tokens = %d", gotReq.MaxTokens)
	}
}

func TestEmbedOrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Return data out of order; the client must reorder by index.
		io.WriteString(w, `{
			"data": [
				{"index": 1, "embedding": [2.0]},
				{"index": 0, "embedding": [1.0]}
			]
		}`)
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{Provider: "custom", Model: "m", BaseURL: srv.URL})
	embs, err := p.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if len(embs) != 2 || embs[0][0] != 1.0 || embs[1][0] != 2.0 {
		t.Errorf("embeddings = %v", embs)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices": []}`)
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{Provider: "custom", Model: "m", BaseURL: srv.URL})
	if _, err := p.Complete(context.Background(), CompleteRequest{Prompt: "q"}); err == nil {
		t.Fatal("expected error for empty choices, got nil")
	}
}
