package gendoc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tracekb/kb"
	"tracekb/llm"
	"tracekb/textparse"
)

const requirementsPrompt = `You are a Business Analyst. Based on the following Technical Design Document and code, create a comprehensive Business Requirement Document.

Background: %s
Executive Summary: %s

Technical Design:
%s

Code Implementation:
%s

Please generate a Business Requirement Document with:

FUNCTIONAL REQUIREMENTS (FR):
- List each functional requirement as FR1, FR2, FR3, etc.
- Each FR should describe what the system should do
- Include acceptance criteria

NON-FUNCTIONAL REQUIREMENTS (NFR):
- List each non-functional requirement as NFR1, NFR2, NFR3, etc.
- Include performance, security, scalability, maintainability, etc.

For each requirement, provide:
- ID (FR1, FR2, NFR1, etc.)
- Title
- Description
- Priority
- Acceptance Criteria

Format the response clearly with FR and NFR sections.`

// designSummaryLen caps each section description in the design summary.
const designSummaryLen = 200

// RequirementsGenerator produces a business requirements document from a
// design document and parsed code.
type RequirementsGenerator struct {
	provider llm.Provider
}

// NewRequirementsGenerator creates a requirements-document generator over
// the given provider.
func NewRequirementsGenerator(provider llm.Provider) *RequirementsGenerator {
	return &RequirementsGenerator{provider: provider}
}

// Generate prompts the completion capability and parses the response into
// FR/NFR records. A structureless response becomes one synthetic FR1.
func (g *RequirementsGenerator) Generate(ctx context.Context, design *textparse.DesignDoc, code kb.CodeMap, meta Meta) (*textparse.RequirementsDoc, error) {
	prompt := fmt.Sprintf(requirementsPrompt,
		meta.Background, meta.ExecutiveSummary,
		summarizeDesign(design), summarizeCode(code))

	start := time.Now()
	resp, err := g.provider.Complete(ctx, llm.CompleteRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("generating requirements document: %w", err)
	}

	doc := textparse.ParseRequirements(resp.Content)
	slog.Info("gendoc: requirements document generated",
		"fr", len(doc.Functional), "nfr", len(doc.NonFunctional),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return doc, nil
}

// summarizeDesign renders the design document as prompt-sized text: each
// section title followed by a truncated description.
func summarizeDesign(design *textparse.DesignDoc) string {
	if design == nil {
		return ""
	}
	var b strings.Builder
	for _, s := range design.Sections {
		b.WriteString("\n")
		b.WriteString(s.Title)
		b.WriteString("\n")
		b.WriteString(truncate(s.Description, designSummaryLen))
	}
	return b.String()
}
