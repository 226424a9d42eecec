// Package kb defines the knowledge-base data model — five entity categories
// and five relationship categories — and builds entity sections from raw
// inputs. Every section carries a fresh UUID; sections and edges are
// immutable once built, and a knowledge base is assembled once per run.
package kb

// Context section kinds.
const (
	ContextBackground       = "background"
	ContextExecutiveSummary = "executive_summary"
	ContextProjectType      = "project_type"
)

// Code section kinds. Only functions and classes participate in
// relationship edges; file sections are catalog entries.
const (
	CodeFile     = "file"
	CodeFunction = "function"
	CodeClass    = "class"
)

// Context is the raw context bundle supplied by the caller.
type Context struct {
	Background       string `json:"background"`
	ExecutiveSummary string `json:"executive_summary"`
	ProjectType      string `json:"project_type"`
}

// ContextSection is a uniquely identified piece of project context.
type ContextSection struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// FunctionalRequirement is a uniquely identified FR entity.
type FunctionalRequirement struct {
	ID                 string `json:"id"`
	FRID               string `json:"fr_id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Content            string `json:"content"`
	Priority           string `json:"priority"`
	AcceptanceCriteria string `json:"acceptance_criteria"`
}

// NonFunctionalRequirement is a uniquely identified NFR entity. NFRs never
// appear in Req2Code or Req2TC edges; the separate type makes that
// structural rather than a runtime check.
type NonFunctionalRequirement struct {
	ID                 string `json:"id"`
	NFRID              string `json:"nfr_id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Content            string `json:"content"`
	Category           string `json:"category"`
	AcceptanceCriteria string `json:"acceptance_criteria"`
}

// DesignSection is a uniquely identified technical-design entity.
type DesignSection struct {
	ID          string `json:"id"`
	DesID       string `json:"des_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// CodeSection is a uniquely identified code entity: a file, function, or
// class. File sections carry a truncated source excerpt and line count;
// function and class sections carry the full body with line positions.
type CodeSection struct {
	ID        string   `json:"id"`
	CodeID    string   `json:"code_id"`
	FilePath  string   `json:"file_path"`
	Type      string   `json:"type"`
	Language  string   `json:"language,omitempty"`
	Name      string   `json:"name,omitempty"`
	Signature string   `json:"signature,omitempty"`
	Content   string   `json:"content"`
	StartLine int      `json:"start_line,omitempty"`
	EndLine   int      `json:"end_line,omitempty"`
	Docstring string   `json:"docstring,omitempty"`
	LineCount int      `json:"line_count,omitempty"`
	Methods   []string `json:"methods,omitempty"`
}

// Linkable reports whether the section may appear as a relationship
// endpoint. File-level sections never do.
func (c CodeSection) Linkable() bool {
	return c.Type == CodeFunction || c.Type == CodeClass
}

// TestCaseSection is a uniquely identified test-case entity.
type TestCaseSection struct {
	ID             string   `json:"id"`
	TCID           string   `json:"tc_id"`
	Component      string   `json:"component"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	InputData      string   `json:"input_data"`
	ExpectedOutput string   `json:"expected_output"`
	TestSteps      []string `json:"test_steps"`
	Content        string   `json:"content"`
	FilePath       string   `json:"file_path"`
}

// Relationship edge labels, one or two per category.
const (
	RelImplements  = "implements"
	RelConstrains  = "constrains"
	RelRealizedBy  = "realized_by"
	RelTestedBy    = "tested_by"
	RelValidatedBy = "validated_by"
)

// Req2Des links a requirement to a design section it is implemented by
// (FR) or constrains (NFR).
type Req2Des struct {
	RequirementID    string `json:"requirement_id"`
	RequirementType  string `json:"requirement_type"`
	DesignID         string `json:"design_id"`
	RelationshipType string `json:"relationship_type"`
}

// Req2Code links a functional requirement to the code section implementing it.
type Req2Code struct {
	RequirementID    string `json:"requirement_id"`
	RequirementType  string `json:"requirement_type"`
	CodeID           string `json:"code_id"`
	RelationshipType string `json:"relationship_type"`
}

// Des2Code links a design section to the code section realizing it.
type Des2Code struct {
	DesignID         string `json:"design_id"`
	CodeID           string `json:"code_id"`
	RelationshipType string `json:"relationship_type"`
}

// Code2TC links a code section to a test case exercising it.
type Code2TC struct {
	CodeID           string `json:"code_id"`
	TestCaseID       string `json:"test_case_id"`
	RelationshipType string `json:"relationship_type"`
}

// Req2TC links a functional requirement to a test case validating it.
type Req2TC struct {
	RequirementID    string `json:"requirement_id"`
	RequirementType  string `json:"requirement_type"`
	TestCaseID       string `json:"test_case_id"`
	RelationshipType string `json:"relationship_type"`
}

// RelationshipSet holds the five edge lists of a knowledge base.
type RelationshipSet struct {
	Req2Des  []Req2Des  `json:"Req2Des"`
	Req2Code []Req2Code `json:"Req2Code"`
	Des2Code []Des2Code `json:"Des2Code"`
	Code2TC  []Code2TC  `json:"Code2TC"`
	Req2TC   []Req2TC   `json:"Req2TC"`
}

// NewRelationshipSet returns a set with empty, non-nil edge lists so the
// serialized form always carries all five keys as arrays.
func NewRelationshipSet() RelationshipSet {
	return RelationshipSet{
		Req2Des:  []Req2Des{},
		Req2Code: []Req2Code{},
		Des2Code: []Des2Code{},
		Code2TC:  []Code2TC{},
		Req2TC:   []Req2TC{},
	}
}

// Total returns the number of edges across all categories.
func (r RelationshipSet) Total() int {
	return len(r.Req2Des) + len(r.Req2Code) + len(r.Des2Code) + len(r.Code2TC) + len(r.Req2TC)
}

// ContextGroup wraps the context sections under the fixed output shape.
type ContextGroup struct {
	Sections []ContextSection `json:"sections"`
}

// RequirementsGroup splits requirements by kind under the fixed output shape.
type RequirementsGroup struct {
	FR  []FunctionalRequirement    `json:"FR"`
	NFR []NonFunctionalRequirement `json:"NFR"`
}

// DesignGroup wraps the design sections under the fixed output shape.
type DesignGroup struct {
	Sections []DesignSection `json:"sections"`
}

// CodeGroup wraps the code sections under the fixed output shape.
type CodeGroup struct {
	Sections []CodeSection `json:"sections"`
}

// TestCaseGroup wraps the test-case sections under the fixed output shape.
type TestCaseGroup struct {
	Sections []TestCaseSection `json:"sections"`
}

// KnowledgeBase is the assembled hand-off artifact: all entity sections plus
// the relationship map, under the fixed top-level key shape.
type KnowledgeBase struct {
	Context       ContextGroup      `json:"Context"`
	Requirements  RequirementsGroup `json:"Requirements"`
	Design        DesignGroup       `json:"Design"`
	Code          CodeGroup         `json:"Code"`
	TestCases     TestCaseGroup     `json:"Test Case"`
	Relationships RelationshipSet   `json:"Relationship"`
}
