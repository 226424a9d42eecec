package textparse

import "testing"

func TestParseRequirementsBasic(t *testing.T) {
	text := "FR1: Login\nUsers can log in.\nNFR1: Perf\nResponse under 200ms."

	doc := ParseRequirements(text)
	if len(doc.Functional) != 1 {
		t.Fatalf("functional = %d, want 1", len(doc.Functional))
	}
	if len(doc.NonFunctional) != 1 {
		t.Fatalf("non-functional = %d, want 1", len(doc.NonFunctional))
	}

	fr := doc.Functional[0]
	if fr.ID != "FR1" {
		t.Errorf("FR id = %q, want FR1", fr.ID)
	}
	if fr.Title != "FR1: Login" {
		t.Errorf("FR title = %q", fr.Title)
	}
	if fr.Description != "Users can log in." {
		t.Errorf("FR description = %q", fr.Description)
	}

	nfr := doc.NonFunctional[0]
	if nfr.ID != "NFR1" {
		t.Errorf("NFR id = %q, want NFR1", nfr.ID)
	}
	if nfr.Description != "Response under 200ms." {
		t.Errorf("NFR description = %q", nfr.Description)
	}
}

// A non-functional section heading must never be mistaken for a functional
// one even though it contains "FUNCTIONAL REQUIREMENT" as a substring.
func TestParseRequirementsNFRSectionHeading(t *testing.T) {
	text := `FUNCTIONAL REQUIREMENTS (FR):
FR1: Export
The system exports reports.

NON-FUNCTIONAL REQUIREMENTS (NFR):
NFR1: Security
All traffic is encrypted.
NFR2: Availability
Uptime of 99.9 percent.`

	doc := ParseRequirements(text)
	if len(doc.Functional) != 1 {
		t.Fatalf("functional = %d, want 1", len(doc.Functional))
	}
	if len(doc.NonFunctional) != 2 {
		t.Fatalf("non-functional = %d, want 2", len(doc.NonFunctional))
	}
	if doc.NonFunctional[0].ID != "NFR1" || doc.NonFunctional[1].ID != "NFR2" {
		t.Errorf("NFR ids = %q, %q", doc.NonFunctional[0].ID, doc.NonFunctional[1].ID)
	}
}

func TestParseRequirementsMultiLineContent(t *testing.T) {
	text := "FR2: Search\nUsers search the catalog.\nResults are ranked.\nPaging is supported."

	doc := ParseRequirements(text)
	if len(doc.Functional) != 1 {
		t.Fatalf("functional = %d, want 1", len(doc.Functional))
	}
	fr := doc.Functional[0]
	if fr.Description != "Users search the catalog." {
		t.Errorf("description = %q", fr.Description)
	}
	want := "Users search the catalog.\nResults are ranked.\nPaging is supported."
	if fr.Content != want {
		t.Errorf("content = %q, want %q", fr.Content, want)
	}
}

func TestParseRequirementsCaseInsensitiveIDs(t *testing.T) {
	doc := ParseRequirements("fr3: lowercase works\ndetail line\nnfr2: also lowercase\nmore detail")
	if len(doc.Functional) != 1 || doc.Functional[0].ID != "FR3" {
		t.Fatalf("functional = %+v", doc.Functional)
	}
	if len(doc.NonFunctional) != 1 || doc.NonFunctional[0].ID != "NFR2" {
		t.Fatalf("non-functional = %+v", doc.NonFunctional)
	}
}

func TestParseRequirementsFallback(t *testing.T) {
	text := "nothing here resembles a requirement listing"
	doc := ParseRequirements(text)
	if len(doc.NonFunctional) != 0 {
		t.Fatalf("non-functional = %d, want 0", len(doc.NonFunctional))
	}
	if len(doc.Functional) != 1 {
		t.Fatalf("functional = %d, want 1", len(doc.Functional))
	}
	fr := doc.Functional[0]
	if fr.ID != "FR1" {
		t.Errorf("id = %q, want FR1", fr.ID)
	}
	if fr.Title != "Functional Requirement 1" {
		t.Errorf("title = %q", fr.Title)
	}
	if fr.Description != text {
		t.Errorf("description = %q", fr.Description)
	}
	if fr.Content != text {
		t.Errorf("content = %q", fr.Content)
	}
}
