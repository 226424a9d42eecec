// Package llm provides the text-completion capability consumed by the
// classifier adapter and the document generators. Providers speak the
// OpenAI-compatible HTTP API (or a native variant); all of them are selected
// once at process start and injected — there is no package-level client.
package llm

import (
	"context"
	"fmt"
)

// Provider is the completion capability: given a prompt and sampling
// parameters, return text. Embed supports the optional vector index over
// stored knowledge bases; providers without an embedding model may return an
// error from it.
type Provider interface {
	// Complete sends a single-prompt completion request.
	Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error)

	// Embed generates embeddings for a batch of texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// CompleteRequest is a single-prompt completion request.
type CompleteRequest struct {
	Model       string  `json:"model,omitempty"`
	Prompt      string  `json:"prompt"`
	System      string  `json:"system,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// CompleteResponse is the result of a completion request.
type CompleteResponse struct {
	Content          string `json:"content"`
	Model            string `json:"model"`
	FinishReason     string `json:"finish_reason"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
}

// Config configures an LLM provider endpoint.
type Config struct {
	Provider string `json:"provider"` // ollama, lmstudio, openrouter, openai, groq, custom
	Model    string `json:"model"`
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"api_key"`
}

// NewProvider creates an LLM provider from configuration.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllama(cfg), nil
	case "lmstudio":
		return NewLMStudio(cfg), nil
	case "openrouter":
		return NewOpenRouter(cfg), nil
	case "openai":
		return NewOpenAI(cfg), nil
	case "groq":
		return NewGroq(cfg), nil
	case "custom":
		return NewOpenAICompat(cfg), nil
	case "":
		return nil, fmt.Errorf("llm provider not specified")
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
