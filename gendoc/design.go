package gendoc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tracekb/kb"
	"tracekb/llm"
	"tracekb/textparse"
)

const designPrompt = `You are a technical architect. Analyze the following code and create a comprehensive Technical Design Document.

Background: %s
Executive Summary: %s
Project Type: %s

Code Structure:
%s

Breakdown Strategy:
%s

Please generate a Technical Design Document with the following structure:
1. Architecture Overview
2. System Components (break down by the strategy provided)
3. Data Flow
4. Interfaces and APIs
5. Technology Stack
6. Design Patterns Used

For each component/section, provide:
- Purpose and responsibility
- Inputs and outputs
- Dependencies
- Implementation details

Format the response as a structured document with clear sections.`

// DesignGenerator produces a technical design document from parsed code.
type DesignGenerator struct {
	provider llm.Provider
}

// NewDesignGenerator creates a design-document generator over the given
// provider.
func NewDesignGenerator(provider llm.Provider) *DesignGenerator {
	return &DesignGenerator{provider: provider}
}

// Generate prompts the completion capability with a code summary and parses
// the response into design sections. The parse never returns an empty
// document; a structureless response becomes one synthetic section.
func (g *DesignGenerator) Generate(ctx context.Context, code kb.CodeMap, meta Meta) (*textparse.DesignDoc, error) {
	prompt := fmt.Sprintf(designPrompt,
		meta.Background, meta.ExecutiveSummary, meta.ProjectType,
		summarizeCode(code), meta.BreakdownStrategy)

	start := time.Now()
	resp, err := g.provider.Complete(ctx, llm.CompleteRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("generating design document: %w", err)
	}

	doc := textparse.ParseDesign(resp.Content)
	slog.Info("gendoc: design document generated",
		"sections", len(doc.Sections), "elapsed", time.Since(start).Round(time.Millisecond))
	return doc, nil
}
