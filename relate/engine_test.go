package relate

import (
	"context"
	"strings"
	"sync"
	"testing"

	"tracekb/kb"
)

// stubClassifier answers from a fixed decision function. Calls arrive from
// the engine's worker pool, so the call counter is mutex-guarded.
type stubClassifier struct {
	decide func(s1, s2, relType string) bool

	mu    sync.Mutex
	calls int
}

func (c *stubClassifier) Related(_ context.Context, s1, s2, relType, _ string) bool {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.decide == nil {
		return false
	}
	return c.decide(s1, s2, relType)
}

func testSets() EntitySets {
	return EntitySets{
		FRs: []kb.FunctionalRequirement{
			{ID: "fr-1", FRID: "FR1", Title: "FR1: Login"},
		},
		NFRs: []kb.NonFunctionalRequirement{
			{ID: "nfr-1", NFRID: "NFR1", Title: "NFR1: Latency"},
		},
		Designs: []kb.DesignSection{
			{ID: "des-1", DesID: "DES1", Title: "Auth Design"},
		},
		Codes: []kb.CodeSection{
			{ID: "code-file", CodeID: "CODE1", Type: kb.CodeFile, FilePath: "auth.py"},
			{ID: "code-fn", CodeID: "CODE2", Type: kb.CodeFunction, Name: "login"},
		},
		TestCases: []kb.TestCaseSection{
			{ID: "tc-1", TCID: "TC1", Component: "LoginService", Name: "valid login"},
		},
	}
}

func TestInferAllYes(t *testing.T) {
	cls := &stubClassifier{decide: func(_, _, _ string) bool { return true }}
	eng := NewEngine(cls, Config{Concurrency: 2})

	rels := eng.Infer(context.Background(), testSets())

	// 1 FR x 1 design + 1 NFR x 1 design.
	if len(rels.Req2Des) != 2 {
		t.Fatalf("Req2Des = %d, want 2", len(rels.Req2Des))
	}
	if rels.Req2Des[0].RequirementType != "FR" || rels.Req2Des[0].RelationshipType != kb.RelImplements {
		t.Errorf("FR edge = %+v", rels.Req2Des[0])
	}
	if rels.Req2Des[1].RequirementType != "NFR" || rels.Req2Des[1].RelationshipType != kb.RelConstrains {
		t.Errorf("NFR edge = %+v", rels.Req2Des[1])
	}

	// Only the function section may appear as a code endpoint.
	if len(rels.Req2Code) != 1 || rels.Req2Code[0].CodeID != "code-fn" {
		t.Errorf("Req2Code = %+v", rels.Req2Code)
	}
	if len(rels.Des2Code) != 1 || rels.Des2Code[0].CodeID != "code-fn" {
		t.Errorf("Des2Code = %+v", rels.Des2Code)
	}
	if len(rels.Code2TC) != 1 || rels.Code2TC[0].CodeID != "code-fn" {
		t.Errorf("Code2TC = %+v", rels.Code2TC)
	}
	if len(rels.Req2TC) != 1 || rels.Req2TC[0].RelationshipType != kb.RelValidatedBy {
		t.Errorf("Req2TC = %+v", rels.Req2TC)
	}
	if rels.Total() != 6 {
		t.Errorf("total = %d, want 6", rels.Total())
	}
	// One classifier call per candidate pair, file section excluded.
	if cls.calls != 6 {
		t.Errorf("classifier calls = %d, want 6", cls.calls)
	}
}

func TestInferAllNo(t *testing.T) {
	cls := &stubClassifier{}
	eng := NewEngine(cls, Config{})

	rels := eng.Infer(context.Background(), testSets())
	if rels.Total() != 0 {
		t.Errorf("total = %d, want 0", rels.Total())
	}
	// Edge lists stay non-nil even when empty.
	if rels.Req2Des == nil || rels.Req2TC == nil {
		t.Error("edge lists must be non-nil")
	}
}

// NFRs participate only in Req2Des; they must never reach the classifier for
// code or test-case categories.
func TestInferNFRScope(t *testing.T) {
	cls := &stubClassifier{decide: func(s1, _, _ string) bool {
		return strings.Contains(s1, "NFR1")
	}}
	eng := NewEngine(cls, Config{Concurrency: 1})

	rels := eng.Infer(context.Background(), testSets())
	if len(rels.Req2Des) != 1 || rels.Req2Des[0].RequirementType != "NFR" {
		t.Fatalf("Req2Des = %+v", rels.Req2Des)
	}
	if len(rels.Req2Code) != 0 || len(rels.Req2TC) != 0 {
		t.Errorf("NFR leaked into Req2Code (%d) or Req2TC (%d)",
			len(rels.Req2Code), len(rels.Req2TC))
	}
}

func TestInferDeterministicOrder(t *testing.T) {
	sets := EntitySets{
		FRs: []kb.FunctionalRequirement{
			{ID: "fr-1", FRID: "FR1", Title: "FR1"},
			{ID: "fr-2", FRID: "FR2", Title: "FR2"},
		},
		Designs: []kb.DesignSection{
			{ID: "des-1", DesID: "DES1", Title: "D1"},
			{ID: "des-2", DesID: "DES2", Title: "D2"},
		},
	}

	cls := &stubClassifier{decide: func(_, _, _ string) bool { return true }}
	eng := NewEngine(cls, Config{Concurrency: 4})
	rels := eng.Infer(context.Background(), sets)

	want := [][2]string{
		{"fr-1", "des-1"}, {"fr-1", "des-2"},
		{"fr-2", "des-1"}, {"fr-2", "des-2"},
	}
	if len(rels.Req2Des) != len(want) {
		t.Fatalf("Req2Des = %d, want %d", len(rels.Req2Des), len(want))
	}
	for i, w := range want {
		got := rels.Req2Des[i]
		if got.RequirementID != w[0] || got.DesignID != w[1] {
			t.Errorf("edge %d = %s->%s, want %s->%s",
				i, got.RequirementID, got.DesignID, w[0], w[1])
		}
	}
}

func TestInferNilClassifierUsesFallback(t *testing.T) {
	eng := NewEngine(nil, Config{})
	rels := eng.Infer(context.Background(), testSets())

	// First FR to first design, plus the name-match Code2TC edge.
	if len(rels.Req2Des) != 1 {
		t.Fatalf("Req2Des = %+v", rels.Req2Des)
	}
	if rels.Req2Des[0].RequirementID != "fr-1" || rels.Req2Des[0].DesignID != "des-1" {
		t.Errorf("fallback edge = %+v", rels.Req2Des[0])
	}
	if len(rels.Code2TC) != 1 || rels.Code2TC[0].CodeID != "code-fn" || rels.Code2TC[0].TestCaseID != "tc-1" {
		t.Errorf("Code2TC = %+v", rels.Code2TC)
	}
	if len(rels.Req2Code) != 0 || len(rels.Des2Code) != 0 || len(rels.Req2TC) != 0 {
		t.Error("fallback must leave the remaining categories empty")
	}
}

func TestFallbackNoNameMatch(t *testing.T) {
	sets := testSets()
	sets.TestCases[0].Component = "BillingService"

	rels := fallbackRelationships(sets)
	if len(rels.Code2TC) != 0 {
		t.Errorf("Code2TC = %+v, want none", rels.Code2TC)
	}
}

func TestFallbackEmptySets(t *testing.T) {
	rels := fallbackRelationships(EntitySets{})
	if rels.Total() != 0 {
		t.Errorf("total = %d, want 0", rels.Total())
	}
	if rels.Req2Des == nil {
		t.Error("edge lists must be non-nil")
	}
}
