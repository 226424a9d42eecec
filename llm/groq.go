package llm

import "os"

// NewGroq creates a provider for Groq's OpenAI-compatible API.
func NewGroq(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai"
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GROQ_API_KEY")
	}
	return &openAICompatProvider{base: newOpenAICompatClient(cfg)}
}
