//go:build cgo

package store

import (
	"context"
	"path/filepath"
	"testing"

	"tracekb/kb"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath, 4) // dim=4 for test vectors
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleBase() *kb.KnowledgeBase {
	base := &kb.KnowledgeBase{}
	base.Requirements.FR = []kb.FunctionalRequirement{
		{ID: "fr-1", FRID: "FR1", Title: "FR1: Login", Content: "users authenticate with a password"},
	}
	base.Design.Sections = []kb.DesignSection{
		{ID: "des-1", DesID: "DES1", Title: "Auth Design", Content: "token based session handling"},
	}
	base.Code.Sections = []kb.CodeSection{
		{ID: "code-1", CodeID: "CODE1", Type: kb.CodeFunction, Name: "login", FilePath: "auth.py", Content: "return token"},
	}
	base.TestCases.Sections = []kb.TestCaseSection{
		{ID: "tc-1", TCID: "TC1", Component: "login", Name: "valid login", TestSteps: []string{}, Content: "TC1 valid login"},
	}
	base.Relationships = kb.NewRelationshipSet()
	base.Relationships.Req2Des = append(base.Relationships.Req2Des, kb.Req2Des{
		RequirementID: "fr-1", RequirementType: "FR", DesignID: "des-1", RelationshipType: kb.RelImplements,
	})
	base.Relationships.Code2TC = append(base.Relationships.Code2TC, kb.Code2TC{
		CodeID: "code-1", TestCaseID: "tc-1", RelationshipType: kb.RelTestedBy,
	})
	return base
}

func TestNew(t *testing.T) {
	s := newTestStore(t)
	if s.EmbeddingDim() != 4 {
		t.Fatalf("expected embedding dim 4, got %d", s.EmbeddingDim())
	}
	if s.DB() == nil {
		t.Fatal("expected non-nil *sql.DB")
	}
}

func TestNewCreatesParentDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sub", "dir", "test.db")
	s, err := New(dbPath, 4)
	if err != nil {
		t.Fatalf("creating store in nested dir: %v", err)
	}
	s.Close()
}

func TestSaveKnowledgeBase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	runID, err := s.SaveKnowledgeBase(ctx, "test-run", sampleBase())
	if err != nil {
		t.Fatalf("saving knowledge base: %v", err)
	}
	if runID == 0 {
		t.Fatal("expected non-zero run id")
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("listing runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Name != "test-run" {
		t.Fatalf("runs = %+v", runs)
	}

	stats, err := s.Stats(ctx, runID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Sections != 4 {
		t.Errorf("sections = %d, want 4", stats.Sections)
	}
	if stats.Relationships != 2 {
		t.Errorf("relationships = %d, want 2", stats.Relationships)
	}

	frs, err := s.SectionsByCategory(ctx, runID, CategoryFunctional)
	if err != nil {
		t.Fatalf("sections by category: %v", err)
	}
	if len(frs) != 1 || frs[0].UUID != "fr-1" || frs[0].RefID != "FR1" {
		t.Fatalf("functional sections = %+v", frs)
	}

	rels, err := s.RelationshipsByRun(ctx, runID)
	if err != nil {
		t.Fatalf("relationships: %v", err)
	}
	if len(rels) != 2 {
		t.Fatalf("relationships = %d, want 2", len(rels))
	}
	if rels[0].Category != "Req2Des" || rels[0].SourceUUID != "fr-1" || rels[0].TargetUUID != "des-1" {
		t.Errorf("first relationship = %+v", rels[0])
	}
}

func TestSectionIDByUUID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveKnowledgeBase(ctx, "r", sampleBase()); err != nil {
		t.Fatalf("saving: %v", err)
	}

	id, err := s.SectionIDByUUID(ctx, "des-1")
	if err != nil {
		t.Fatalf("resolving uuid: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero section id")
	}

	if _, err := s.SectionIDByUUID(ctx, "missing"); err == nil {
		t.Fatal("expected error for unknown uuid")
	}
}

func TestVectorSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	runID, err := s.SaveKnowledgeBase(ctx, "r", sampleBase())
	if err != nil {
		t.Fatalf("saving: %v", err)
	}

	frID, err := s.SectionIDByUUID(ctx, "fr-1")
	if err != nil {
		t.Fatalf("resolving: %v", err)
	}
	desID, err := s.SectionIDByUUID(ctx, "des-1")
	if err != nil {
		t.Fatalf("resolving: %v", err)
	}

	if err := s.InsertSectionEmbedding(ctx, frID, []float32{1, 0, 0, 0}); err != nil {
		t.Fatalf("inserting embedding: %v", err)
	}
	if err := s.InsertSectionEmbedding(ctx, desID, []float32{0, 1, 0, 0}); err != nil {
		t.Fatalf("inserting embedding: %v", err)
	}

	results, err := s.SearchSimilar(ctx, []float32{1, 0, 0, 0}, 2)
	if err != nil {
		t.Fatalf("vector search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].UUID != "fr-1" {
		t.Errorf("nearest = %q, want fr-1", results[0].UUID)
	}

	stats, err := s.Stats(ctx, runID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Embeddings != 2 {
		t.Errorf("embeddings = %d, want 2", stats.Embeddings)
	}
}

func TestTextSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveKnowledgeBase(ctx, "r", sampleBase()); err != nil {
		t.Fatalf("saving: %v", err)
	}

	results, err := s.SearchText(ctx, "authenticate", 10)
	if err != nil {
		t.Fatalf("text search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].UUID != "fr-1" {
		t.Errorf("match = %q, want fr-1", results[0].UUID)
	}
	if results[0].Score <= 0 {
		t.Errorf("score = %v, want positive", results[0].Score)
	}
}

func TestSerializeFloat32(t *testing.T) {
	got := serializeFloat32([]float32{1.0})
	// 1.0 as IEEE-754 little-endian: 00 00 80 3f
	want := []byte{0x00, 0x00, 0x80, 0x3f}
	if len(got) != 4 {
		t.Fatalf("length = %d, want 4", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bytes = %x, want %x", got, want)
		}
	}
}
