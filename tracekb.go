// Package tracekb builds traceability knowledge bases for software
// projects: it turns code descriptors plus design, requirement, and
// test-case documents into a typed entity graph with five relationship
// categories, optionally generating the documents themselves from code.
package tracekb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tracekb/gendoc"
	"tracekb/kb"
	"tracekb/llm"
	"tracekb/relate"
	"tracekb/store"
	"tracekb/textparse"
)

// BuildInput carries the raw material for one knowledge base build.
// Documents may be pre-parsed by the caller or produced by the generation
// pipeline; missing pieces simply yield empty entity groups.
type BuildInput struct {
	// Name labels the run when persistence is enabled. Defaults to a
	// timestamp.
	Name string

	Context      kb.Context
	Requirements *textparse.RequirementsDoc
	Design       *textparse.DesignDoc
	Code         kb.CodeMap
	TestCases    map[string][]textparse.TestCase
}

// Engine is the main entry point for knowledge base construction.
type Engine struct {
	cfg      Config
	chatLLM  llm.Provider
	embedLLM llm.Provider
	store    *store.Store
	relater  *relate.Engine

	designGen *gendoc.DesignGenerator
	reqGen    *gendoc.RequirementsGenerator
	tcGen     *gendoc.TestCaseGenerator
}

// New creates an engine with the given configuration. A missing chat
// provider is allowed: relationship inference then falls back to the
// rule-based heuristic, and document generation is unavailable.
func New(cfg Config) (*Engine, error) {
	if cfg.RelationshipConcurrency < 0 || cfg.MaxTotalTestCases < 0 {
		return nil, ErrInvalidConfig
	}
	if cfg.EmbeddingDim == 0 {
		cfg.EmbeddingDim = 768
	}

	e := &Engine{cfg: cfg}

	if cfg.Chat.Provider != "" {
		chatLLM, err := llm.NewProvider(llm.Config{
			Provider: cfg.Chat.Provider,
			Model:    cfg.Chat.Model,
			BaseURL:  cfg.Chat.BaseURL,
			APIKey:   cfg.Chat.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("creating chat provider: %w", err)
		}
		e.chatLLM = chatLLM
	}

	if cfg.Embedding.Provider != "" {
		embedLLM, err := llm.NewProvider(llm.Config{
			Provider: cfg.Embedding.Provider,
			Model:    cfg.Embedding.Model,
			BaseURL:  cfg.Embedding.BaseURL,
			APIKey:   cfg.Embedding.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("creating embedding provider: %w", err)
		}
		e.embedLLM = embedLLM
	}

	var classifier relate.Classifier
	if e.chatLLM != nil {
		classifier = relate.NewLLMClassifier(e.chatLLM, relate.ClassifierConfig{
			Temperature: cfg.RelationshipTemperature,
			MaxTokens:   cfg.RelationshipMaxTokens,
		})
		e.designGen = gendoc.NewDesignGenerator(e.chatLLM)
		e.reqGen = gendoc.NewRequirementsGenerator(e.chatLLM)
		e.tcGen = gendoc.NewTestCaseGenerator(e.chatLLM, gendoc.Limits{
			MaxTotal:    cfg.MaxTotalTestCases,
			PerFunction: cfg.MaxTestCasesPerFunction,
			PerClass:    cfg.MaxTestCasesPerClass,
		})
	}
	e.relater = relate.NewEngine(classifier, relate.Config{
		Concurrency: cfg.RelationshipConcurrency,
	})

	if cfg.Persist {
		s, err := store.New(cfg.resolveDBPath(), cfg.EmbeddingDim)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		e.store = s
	}

	return e, nil
}

// Build assembles a knowledge base from the given input: entity sections
// per category, then relationship inference, then optional persistence.
// Persistence failures are logged, never fatal; the in-memory knowledge
// base is the primary artifact.
func (e *Engine) Build(ctx context.Context, in BuildInput) (*kb.KnowledgeBase, error) {
	start := time.Now()

	base := &kb.KnowledgeBase{}
	base.Context.Sections = kb.BuildContextSections(in.Context)
	if in.Requirements != nil {
		base.Requirements.FR = kb.BuildFRSections(in.Requirements.Functional)
		base.Requirements.NFR = kb.BuildNFRSections(in.Requirements.NonFunctional)
	}
	if in.Design != nil {
		base.Design.Sections = kb.BuildDesignSections(in.Design.Sections)
	}
	base.Code.Sections = kb.BuildCodeSections(in.Code)
	base.TestCases.Sections = kb.BuildTestCaseSections(in.TestCases)

	total := len(base.Context.Sections) + len(base.Requirements.FR) + len(base.Requirements.NFR) +
		len(base.Design.Sections) + len(base.Code.Sections) + len(base.TestCases.Sections)
	if total == 0 {
		return nil, ErrEmptyInput
	}

	slog.Info("tracekb: entities built",
		"context", len(base.Context.Sections),
		"fr", len(base.Requirements.FR), "nfr", len(base.Requirements.NFR),
		"design", len(base.Design.Sections), "code", len(base.Code.Sections),
		"test_cases", len(base.TestCases.Sections))

	base.Relationships = e.relater.Infer(ctx, relate.EntitySets{
		FRs:       base.Requirements.FR,
		NFRs:      base.Requirements.NFR,
		Designs:   base.Design.Sections,
		Codes:     base.Code.Sections,
		TestCases: base.TestCases.Sections,
	})

	if e.store != nil {
		name := in.Name
		if name == "" {
			name = "kb-" + time.Now().Format("20060102-150405")
		}
		runID, err := e.store.SaveKnowledgeBase(ctx, name, base)
		if err != nil {
			slog.Warn("tracekb: persisting knowledge base failed", "error", err)
		} else {
			slog.Info("tracekb: knowledge base persisted", "run_id", runID, "name", name)
			e.embedSections(ctx, base)
		}
	}

	slog.Info("tracekb: build complete",
		"entities", total, "edges", base.Relationships.Total(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return base, nil
}

// BuildFromCode runs the full generation pipeline: design document from
// code, requirements from the design, test cases per component, then the
// regular build over the generated documents.
func (e *Engine) BuildFromCode(ctx context.Context, code kb.CodeMap, meta gendoc.Meta) (*kb.KnowledgeBase, error) {
	if e.chatLLM == nil {
		return nil, ErrProviderRequired
	}
	if len(code) == 0 {
		return nil, ErrNoCode
	}

	design, err := e.designGen.Generate(ctx, code, meta)
	if err != nil {
		return nil, err
	}
	reqs, err := e.reqGen.Generate(ctx, design, code, meta)
	if err != nil {
		return nil, err
	}
	tests, err := e.tcGen.Generate(ctx, code)
	if err != nil {
		return nil, err
	}

	return e.Build(ctx, BuildInput{
		Context: kb.Context{
			Background:       meta.Background,
			ExecutiveSummary: meta.ExecutiveSummary,
			ProjectType:      meta.ProjectType,
		},
		Requirements: reqs,
		Design:       design,
		Code:         code,
		TestCases:    tests,
	})
}

// embedSections computes and stores embeddings for every persisted entity
// that has content. Embedding is best-effort; failures are logged and the
// knowledge base stays valid without vectors.
func (e *Engine) embedSections(ctx context.Context, base *kb.KnowledgeBase) {
	if e.embedLLM == nil {
		return
	}

	var uuids []string
	var texts []string
	add := func(uuid, text string) {
		if text == "" {
			return
		}
		uuids = append(uuids, uuid)
		texts = append(texts, text)
	}
	for _, c := range base.Context.Sections {
		add(c.ID, c.Content)
	}
	for _, fr := range base.Requirements.FR {
		add(fr.ID, fr.Content)
	}
	for _, nfr := range base.Requirements.NFR {
		add(nfr.ID, nfr.Content)
	}
	for _, d := range base.Design.Sections {
		add(d.ID, d.Content)
	}
	for _, c := range base.Code.Sections {
		add(c.ID, c.Content)
	}
	for _, tc := range base.TestCases.Sections {
		add(tc.ID, tc.Content)
	}
	if len(texts) == 0 {
		return
	}

	embeddings, err := e.embedLLM.Embed(ctx, texts)
	if err != nil {
		slog.Warn("tracekb: embedding sections failed", "error", err)
		return
	}

	stored := 0
	for i, emb := range embeddings {
		sectionID, err := e.store.SectionIDByUUID(ctx, uuids[i])
		if err != nil {
			slog.Warn("tracekb: resolving section for embedding failed", "uuid", uuids[i], "error", err)
			continue
		}
		if err := e.store.InsertSectionEmbedding(ctx, sectionID, emb); err != nil {
			slog.Warn("tracekb: storing embedding failed", "uuid", uuids[i], "error", err)
			continue
		}
		stored++
	}
	slog.Info("tracekb: embeddings stored", "count", stored)
}

// Search queries persisted sections. With an embedding provider the query
// is vector-matched against section embeddings; otherwise it falls back to
// full-text search. Returns ErrStoreDisabled when persistence is off.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error) {
	if e.store == nil {
		return nil, ErrStoreDisabled
	}
	if limit <= 0 {
		limit = 10
	}

	if e.embedLLM != nil {
		embeddings, err := e.embedLLM.Embed(ctx, []string{query})
		if err != nil || len(embeddings) == 0 {
			slog.Warn("tracekb: embedding query failed, using text search", "error", err)
		} else {
			return e.store.SearchSimilar(ctx, embeddings[0], limit)
		}
	}
	return e.store.SearchText(ctx, query, limit)
}

// Store returns the underlying store, or nil when persistence is disabled.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Close releases engine resources.
func (e *Engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}
