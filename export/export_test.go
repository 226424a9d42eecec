package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"tracekb/kb"
)

func sampleBase() *kb.KnowledgeBase {
	base := &kb.KnowledgeBase{}
	base.Requirements.FR = []kb.FunctionalRequirement{
		{ID: "fr-1", FRID: "FR1", Title: "FR1: Login", Description: "users log in", Priority: "High"},
	}
	base.Requirements.NFR = []kb.NonFunctionalRequirement{
		{ID: "nfr-1", NFRID: "NFR1", Title: "NFR1: Latency", Category: "Performance"},
	}
	base.Design.Sections = []kb.DesignSection{
		{ID: "des-1", DesID: "DES1", Title: "Auth Design"},
		{ID: "des-2", DesID: "DES2", Title: "Storage Design"},
	}
	base.Code.Sections = []kb.CodeSection{
		{ID: "code-1", CodeID: "CODE1", Type: kb.CodeFunction, Name: "login", FilePath: "auth.py"},
	}
	base.TestCases.Sections = []kb.TestCaseSection{
		{ID: "tc-1", TCID: "TC1", Component: "login", Name: "valid login",
			TestSteps: []string{"open page", "submit"}},
	}
	base.Relationships = kb.NewRelationshipSet()
	base.Relationships.Req2Des = append(base.Relationships.Req2Des, kb.Req2Des{
		RequirementID: "fr-1", RequirementType: "FR", DesignID: "des-2", RelationshipType: kb.RelImplements,
	})
	return base
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.xlsx")
	if err := WriteWorkbook(sampleBase(), path); err != nil {
		t.Fatalf("writing workbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	wantSheets := []string{sheetRequirements, sheetDesign, sheetCode, sheetTestCases, sheetMatrix}
	got := f.GetSheetList()
	if len(got) != len(wantSheets) {
		t.Fatalf("sheets = %v, want %v", got, wantSheets)
	}
	for i, want := range wantSheets {
		if got[i] != want {
			t.Errorf("sheet %d = %q, want %q", i, got[i], want)
		}
	}

	cell := func(sheet, ref string) string {
		t.Helper()
		v, err := f.GetCellValue(sheet, ref)
		if err != nil {
			t.Fatalf("reading %s!%s: %v", sheet, ref, err)
		}
		return v
	}

	if v := cell(sheetRequirements, "A2"); v != "FR1" {
		t.Errorf("requirements A2 = %q, want FR1", v)
	}
	if v := cell(sheetRequirements, "B3"); v != "NFR" {
		t.Errorf("requirements B3 = %q, want NFR", v)
	}
	if v := cell(sheetDesign, "B3"); v != "Storage Design" {
		t.Errorf("design B3 = %q", v)
	}
	if v := cell(sheetCode, "C2"); v != "login" {
		t.Errorf("code C2 = %q", v)
	}
	if v := cell(sheetTestCases, "G2"); v != "open page\nsubmit" {
		t.Errorf("test cases G2 = %q", v)
	}
}

func TestMatrixMarksLinkedPairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.xlsx")
	if err := WriteWorkbook(sampleBase(), path); err != nil {
		t.Fatalf("writing workbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()

	// Header row: Requirement, DES1, DES2. FR1 row: linked to DES2 only.
	if v, _ := f.GetCellValue(sheetMatrix, "C1"); v != "DES2" {
		t.Errorf("matrix C1 = %q, want DES2", v)
	}
	if v, _ := f.GetCellValue(sheetMatrix, "B2"); v != "" {
		t.Errorf("matrix B2 = %q, want empty", v)
	}
	if v, _ := f.GetCellValue(sheetMatrix, "C2"); v != "X" {
		t.Errorf("matrix C2 = %q, want X", v)
	}
	// NFR1 row has no links.
	if v, _ := f.GetCellValue(sheetMatrix, "C3"); v != "" {
		t.Errorf("matrix C3 = %q, want empty", v)
	}
}
