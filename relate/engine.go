package relate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tracekb/kb"
)

// defaultConcurrency bounds parallel classifier calls. The relationship
// phase is a quadratic number of independent calls, so the pool size is the
// lever for respecting provider rate limits.
const defaultConcurrency = 8

// Config controls inference behaviour.
type Config struct {
	// Concurrency is the maximum number of in-flight classifier calls.
	Concurrency int
}

// EntitySets carries the five entity lists relationship inference runs over.
type EntitySets struct {
	FRs       []kb.FunctionalRequirement
	NFRs      []kb.NonFunctionalRequirement
	Designs   []kb.DesignSection
	Codes     []kb.CodeSection
	TestCases []kb.TestCaseSection
}

// Engine enumerates candidate entity pairs per relationship category and
// asks the classifier about each one. A nil classifier switches the engine
// to the rule-based fallback heuristic.
type Engine struct {
	classifier  Classifier
	concurrency int
}

// NewEngine creates an inference engine. classifier may be nil, in which
// case Infer uses the fallback heuristic.
func NewEngine(classifier Classifier, cfg Config) *Engine {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Engine{classifier: classifier, concurrency: cfg.Concurrency}
}

// pairQuery is one candidate pair plus its relation description. a and b
// index the source and target entity lists of the current category.
type pairQuery struct {
	a, b              int
	s1, s2            string
	relType, expected string
}

// crossPairs enumerates the full cross product of two summary lists under
// one relation description. Enumeration order is source-major, which fixes
// the order edges are appended in.
func crossPairs(aSums, bSums []string, relType, expected string) []pairQuery {
	pairs := make([]pairQuery, 0, len(aSums)*len(bSums))
	for a, s1 := range aSums {
		for b, s2 := range bSums {
			pairs = append(pairs, pairQuery{a: a, b: b, s1: s1, s2: s2, relType: relType, expected: expected})
		}
	}
	return pairs
}

// classifyAll resolves the pair queries through the classifier with a
// bounded worker pool. Results come back indexed by input position so the
// caller appends edges in enumeration order regardless of completion order.
// No call's outcome influences another's prompt, and a call cut off by
// context cancellation stays false (fail-closed).
func (e *Engine) classifyAll(ctx context.Context, pairs []pairQuery) []bool {
	results := make([]bool, len(pairs))
	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for i := range pairs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			p := pairs[i]
			results[i] = e.classifier.Related(ctx, p.s1, p.s2, p.relType, p.expected)
		}(i)
	}

	wg.Wait()
	return results
}

// linkableCodes returns the function/class code sections with their
// summaries. File-level sections never participate as edge endpoints.
func linkableCodes(codes []kb.CodeSection) ([]kb.CodeSection, []string) {
	var kept []kb.CodeSection
	var sums []string
	for _, c := range codes {
		if !c.Linkable() {
			continue
		}
		kept = append(kept, c)
		sums = append(sums, summarizeCode(c))
	}
	return kept, sums
}

// Infer produces the five edge lists for the given entity sets. With a
// classifier configured it walks the full cross product per category; with
// none it applies the fallback heuristic.
func (e *Engine) Infer(ctx context.Context, sets EntitySets) kb.RelationshipSet {
	if e.classifier == nil {
		slog.Warn("relate: no classifier configured, using fallback heuristics")
		return fallbackRelationships(sets)
	}

	start := time.Now()
	rels := kb.NewRelationshipSet()

	frSums := make([]string, len(sets.FRs))
	for i, fr := range sets.FRs {
		frSums[i] = summarizeFR(fr)
	}
	nfrSums := make([]string, len(sets.NFRs))
	for i, nfr := range sets.NFRs {
		nfrSums[i] = summarizeNFR(nfr)
	}
	desSums := make([]string, len(sets.Designs))
	for i, d := range sets.Designs {
		desSums[i] = summarizeDesign(d)
	}
	codes, codeSums := linkableCodes(sets.Codes)
	tcSums := make([]string, len(sets.TestCases))
	for i, tc := range sets.TestCases {
		tcSums[i] = summarizeTestCase(tc)
	}

	// Req2Des: FR implements, NFR constrains.
	slog.Info("relate: analyzing requirement-design links",
		"fr_pairs", len(frSums)*len(desSums), "nfr_pairs", len(nfrSums)*len(desSums))
	pairs := crossPairs(frSums, desSums, relTypeFRDesign, relDescFRDesign)
	for i, hit := range e.classifyAll(ctx, pairs) {
		if hit {
			rels.Req2Des = append(rels.Req2Des, kb.Req2Des{
				RequirementID:    sets.FRs[pairs[i].a].ID,
				RequirementType:  "FR",
				DesignID:         sets.Designs[pairs[i].b].ID,
				RelationshipType: kb.RelImplements,
			})
		}
	}
	pairs = crossPairs(nfrSums, desSums, relTypeNFRDesign, relDescNFRDesign)
	for i, hit := range e.classifyAll(ctx, pairs) {
		if hit {
			rels.Req2Des = append(rels.Req2Des, kb.Req2Des{
				RequirementID:    sets.NFRs[pairs[i].a].ID,
				RequirementType:  "NFR",
				DesignID:         sets.Designs[pairs[i].b].ID,
				RelationshipType: kb.RelConstrains,
			})
		}
	}

	// Req2Code: FR only, function/class sections only.
	slog.Info("relate: analyzing requirement-code links", "pairs", len(frSums)*len(codeSums))
	pairs = crossPairs(frSums, codeSums, relTypeFRCode, relDescFRCode)
	for i, hit := range e.classifyAll(ctx, pairs) {
		if hit {
			rels.Req2Code = append(rels.Req2Code, kb.Req2Code{
				RequirementID:    sets.FRs[pairs[i].a].ID,
				RequirementType:  "FR",
				CodeID:           codes[pairs[i].b].ID,
				RelationshipType: kb.RelImplements,
			})
		}
	}

	// Des2Code.
	slog.Info("relate: analyzing design-code links", "pairs", len(desSums)*len(codeSums))
	pairs = crossPairs(desSums, codeSums, relTypeDesignCode, relDescDesignCode)
	for i, hit := range e.classifyAll(ctx, pairs) {
		if hit {
			rels.Des2Code = append(rels.Des2Code, kb.Des2Code{
				DesignID:         sets.Designs[pairs[i].a].ID,
				CodeID:           codes[pairs[i].b].ID,
				RelationshipType: kb.RelRealizedBy,
			})
		}
	}

	// Code2TC.
	slog.Info("relate: analyzing code-test links", "pairs", len(codeSums)*len(tcSums))
	pairs = crossPairs(codeSums, tcSums, relTypeCodeTC, relDescCodeTC)
	for i, hit := range e.classifyAll(ctx, pairs) {
		if hit {
			rels.Code2TC = append(rels.Code2TC, kb.Code2TC{
				CodeID:           codes[pairs[i].a].ID,
				TestCaseID:       sets.TestCases[pairs[i].b].ID,
				RelationshipType: kb.RelTestedBy,
			})
		}
	}

	// Req2TC: FR only.
	slog.Info("relate: analyzing requirement-test links", "pairs", len(frSums)*len(tcSums))
	pairs = crossPairs(frSums, tcSums, relTypeFRTC, relDescFRTC)
	for i, hit := range e.classifyAll(ctx, pairs) {
		if hit {
			rels.Req2TC = append(rels.Req2TC, kb.Req2TC{
				RequirementID:    sets.FRs[pairs[i].a].ID,
				RequirementType:  "FR",
				TestCaseID:       sets.TestCases[pairs[i].b].ID,
				RelationshipType: kb.RelValidatedBy,
			})
		}
	}

	slog.Info("relate: inference complete",
		"edges", rels.Total(), "elapsed", time.Since(start).Round(time.Millisecond))
	return rels
}
