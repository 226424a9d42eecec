package textparse

import (
	"strings"
	"testing"
)

func TestParseDesignMarkdownHeaders(t *testing.T) {
	text := `# Architecture Overview
The system is a three-tier web application.
It separates presentation from storage.

## Data Flow
Requests pass through the API gateway.`

	doc := ParseDesign(text)
	if len(doc.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(doc.Sections))
	}

	first := doc.Sections[0]
	if first.Title != "Architecture Overview" {
		t.Errorf("title = %q, want %q", first.Title, "Architecture Overview")
	}
	wantBody := "The system is a three-tier web application.\nIt separates presentation from storage."
	if first.Description != wantBody {
		t.Errorf("description = %q, want %q", first.Description, wantBody)
	}
	if first.Content != first.Description {
		t.Errorf("content = %q, want same as description", first.Content)
	}

	if doc.Sections[1].Title != "Data Flow" {
		t.Errorf("second title = %q, want %q", doc.Sections[1].Title, "Data Flow")
	}
	if doc.RawText != text {
		t.Error("raw text not preserved")
	}
}

func TestParseDesignUpperCaseHeaders(t *testing.T) {
	text := `SYSTEM COMPONENTS
The parser and the builder.

2. TECHNOLOGY STACK
Go with SQLite.`

	doc := ParseDesign(text)
	if len(doc.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(doc.Sections))
	}
	if doc.Sections[0].Title != "SYSTEM COMPONENTS" {
		t.Errorf("title = %q", doc.Sections[0].Title)
	}
	if doc.Sections[1].Title != "2. TECHNOLOGY STACK" {
		t.Errorf("title = %q", doc.Sections[1].Title)
	}
	if doc.Sections[1].Content != "Go with SQLite." {
		t.Errorf("content = %q", doc.Sections[1].Content)
	}
}

func TestParseDesignIgnoresLongUpperLines(t *testing.T) {
	// An upper-case line at or past 100 chars is prose, not a header.
	long := strings.Repeat("A", 100)
	doc := ParseDesign("# Intro\n" + long + "\n")
	if len(doc.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(doc.Sections))
	}
	if doc.Sections[0].Content != long {
		t.Error("long upper-case line should stay in the open section body")
	}
}

func TestParseDesignFallback(t *testing.T) {
	text := "just a flat paragraph of prose with no structure at all."
	doc := ParseDesign(text)
	if len(doc.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(doc.Sections))
	}
	s := doc.Sections[0]
	if s.Title != "Technical Design" {
		t.Errorf("title = %q, want %q", s.Title, "Technical Design")
	}
	if s.Description != text {
		t.Errorf("description = %q", s.Description)
	}
	if s.Content != text {
		t.Errorf("content = %q", s.Content)
	}
}

func TestParseDesignFallbackTruncatesDescription(t *testing.T) {
	text := strings.Repeat("b", 600)
	doc := ParseDesign(text)
	if got := len(doc.Sections[0].Description); got != 500 {
		t.Errorf("description length = %d, want 500", got)
	}
	if doc.Sections[0].Content != text {
		t.Error("content should keep the full text")
	}
}

func TestParseDesignTextBeforeFirstHeader(t *testing.T) {
	// Prose before any header has no section to attach to and is dropped.
	doc := ParseDesign("preamble line\n# Real Section\nbody\n")
	if len(doc.Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(doc.Sections))
	}
	if doc.Sections[0].Title != "Real Section" {
		t.Errorf("title = %q", doc.Sections[0].Title)
	}
	if doc.Sections[0].Content != "body" {
		t.Errorf("content = %q", doc.Sections[0].Content)
	}
}
