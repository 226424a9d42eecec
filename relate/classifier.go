package relate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tracekb/llm"
)

// Classifier answers a single binary question: are these two entity
// summaries related under the described relation? Implementations must be
// safe for concurrent use; each call is independent and stateless.
type Classifier interface {
	Related(ctx context.Context, section1, section2, relationType, expectedRelation string) bool
}

// relatedPrompt frames the pairwise question. The response contract is a
// single YES/NO token; anything else is treated as NO.
const relatedPrompt = `You are analyzing relationships between sections in a software project knowledge base.

Relationship Type: %s
Expected Relationship: %s

Section 1:
%s

Section 2:
%s

Based on the content and context of these two sections, determine if they are related in the context of the expected relationship.

Respond with ONLY one word: "YES" if they are related, or "NO" if they are not related.
Do not provide any explanation, just "YES" or "NO".`

// ClassifierConfig holds the sampling parameters for classification calls.
type ClassifierConfig struct {
	Temperature float64
	MaxTokens   int
}

// LLMClassifier asks the completion capability whether two sections are
// related. Any provider error or non-YES response resolves to false: an
// uncertain or broken classification must never fabricate a relationship.
type LLMClassifier struct {
	provider llm.Provider
	cfg      ClassifierConfig
}

// NewLLMClassifier creates a classifier over the given provider.
func NewLLMClassifier(provider llm.Provider, cfg ClassifierConfig) *LLMClassifier {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 10
	}
	return &LLMClassifier{provider: provider, cfg: cfg}
}

// Related issues one completion call and interprets the trimmed,
// case-normalized response as true only if it begins with "YES".
func (c *LLMClassifier) Related(ctx context.Context, section1, section2, relationType, expectedRelation string) bool {
	prompt := fmt.Sprintf(relatedPrompt, relationType, expectedRelation, section1, section2)

	resp, err := c.provider.Complete(ctx, llm.CompleteRequest{
		Prompt:      prompt,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		slog.Warn("relate: classifier call failed, treating as unrelated",
			"relation", relationType, "error", err)
		return false
	}

	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(resp.Content)), "YES")
}
