package kb

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"tracekb/textparse"
)

// fileExcerptLen is how much file source is kept on a file-level code
// section. The truncation is lossy by design — the full source stays on the
// originating descriptor, not on the entity.
const fileExcerptLen = 500

// Defaults applied to absent optional requirement fields.
const (
	DefaultPriority    = "Medium"
	DefaultNFRCategory = "Performance"
)

// newID returns a fresh random 128-bit identifier. Identifiers are unique
// per run; a rebuild mints new ones.
func newID() string {
	return uuid.NewString()
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// sortedPaths returns map keys in ascending order. Descriptor maps carry no
// order of their own in Go, so sorted paths stand in for the input's
// iteration order and keep sequential IDs and fallback picks deterministic.
func sortedPaths[V any](m map[string]V) []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// BuildContextSections builds context entities from the raw bundle. Absent
// fields produce no section; order is background, executive summary,
// project type.
func BuildContextSections(c Context) []ContextSection {
	sections := []ContextSection{}

	if c.Background != "" {
		sections = append(sections, ContextSection{
			ID:      newID(),
			Type:    ContextBackground,
			Title:   "Background",
			Content: c.Background,
		})
	}
	if c.ExecutiveSummary != "" {
		sections = append(sections, ContextSection{
			ID:      newID(),
			Type:    ContextExecutiveSummary,
			Title:   "Executive Summary",
			Content: c.ExecutiveSummary,
		})
	}
	if c.ProjectType != "" {
		sections = append(sections, ContextSection{
			ID:      newID(),
			Type:    ContextProjectType,
			Title:   "Project Type",
			Content: c.ProjectType,
		})
	}

	return sections
}

// BuildFRSections builds functional-requirement entities in input order,
// defaulting absent priorities to Medium.
func BuildFRSections(reqs []textparse.Requirement) []FunctionalRequirement {
	sections := make([]FunctionalRequirement, 0, len(reqs))
	for _, r := range reqs {
		priority := r.Priority
		if priority == "" {
			priority = DefaultPriority
		}
		sections = append(sections, FunctionalRequirement{
			ID:                 newID(),
			FRID:               r.ID,
			Title:              r.Title,
			Description:        r.Description,
			Content:            r.Content,
			Priority:           priority,
			AcceptanceCriteria: r.AcceptanceCriteria,
		})
	}
	return sections
}

// BuildNFRSections builds non-functional-requirement entities in input
// order, defaulting absent categories to Performance.
func BuildNFRSections(reqs []textparse.Requirement) []NonFunctionalRequirement {
	sections := make([]NonFunctionalRequirement, 0, len(reqs))
	for _, r := range reqs {
		category := r.Category
		if category == "" {
			category = DefaultNFRCategory
		}
		sections = append(sections, NonFunctionalRequirement{
			ID:                 newID(),
			NFRID:              r.ID,
			Title:              r.Title,
			Description:        r.Description,
			Content:            r.Content,
			Category:           category,
			AcceptanceCriteria: r.AcceptanceCriteria,
		})
	}
	return sections
}

// BuildDesignSections builds design entities in input order, assigning
// sequential DES identifiers and a positional default title.
func BuildDesignSections(secs []textparse.DesignSection) []DesignSection {
	sections := make([]DesignSection, 0, len(secs))
	for i, s := range secs {
		title := s.Title
		if title == "" {
			title = fmt.Sprintf("Design Section %d", i+1)
		}
		sections = append(sections, DesignSection{
			ID:          newID(),
			DesID:       fmt.Sprintf("DES%d", i+1),
			Title:       title,
			Description: s.Description,
			Content:     s.Content,
		})
	}
	return sections
}

// BuildCodeSections builds code entities from the descriptor map: one
// file-level section per file (source truncated to the excerpt limit),
// followed by its functions and classes. Files are walked in sorted-path
// order; CODE identifiers are sequential across the whole map.
func BuildCodeSections(code CodeMap) []CodeSection {
	sections := []CodeSection{}
	idx := 1

	for _, path := range sortedPaths(code) {
		info := code[path]

		language := info.Language
		if language == "" {
			language = "unknown"
		}
		sections = append(sections, CodeSection{
			ID:        newID(),
			CodeID:    fmt.Sprintf("CODE%d", idx),
			FilePath:  path,
			Type:      CodeFile,
			Language:  language,
			Content:   truncateRunes(info.SourceCode, fileExcerptLen),
			LineCount: info.LineCount,
		})
		idx++

		for _, fn := range info.Functions {
			sections = append(sections, CodeSection{
				ID:        newID(),
				CodeID:    fmt.Sprintf("CODE%d", idx),
				FilePath:  path,
				Type:      CodeFunction,
				Name:      fn.Name,
				Signature: fn.Signature,
				Content:   fn.Code,
				StartLine: fn.StartLine,
				EndLine:   fn.EndLine,
				Docstring: fn.Docstring,
			})
			idx++
		}

		for _, cls := range info.Classes {
			methods := make([]string, 0, len(cls.Methods))
			for _, m := range cls.Methods {
				methods = append(methods, m.Name)
			}
			sections = append(sections, CodeSection{
				ID:        newID(),
				CodeID:    fmt.Sprintf("CODE%d", idx),
				FilePath:  path,
				Type:      CodeClass,
				Name:      cls.Name,
				Content:   cls.Code,
				StartLine: cls.StartLine,
				EndLine:   cls.EndLine,
				Docstring: cls.Docstring,
				Methods:   methods,
			})
			idx++
		}
	}

	return sections
}

// BuildTestCaseSections builds test-case entities from the per-file map in
// sorted-path order, preserving each file's test order. Records without an
// external ID get a sequential TC identifier.
func BuildTestCaseSections(tests map[string][]textparse.TestCase) []TestCaseSection {
	sections := []TestCaseSection{}
	idx := 1

	for _, path := range sortedPaths(tests) {
		for _, tc := range tests[path] {
			tcID := tc.ID
			if tcID == "" {
				tcID = fmt.Sprintf("TC%d", idx)
			}
			steps := tc.TestSteps
			if steps == nil {
				steps = []string{}
			}
			sections = append(sections, TestCaseSection{
				ID:             newID(),
				TCID:           tcID,
				Component:      tc.Component,
				Name:           tc.Name,
				Description:    tc.Description,
				InputData:      tc.InputData,
				ExpectedOutput: tc.ExpectedOutput,
				TestSteps:      steps,
				Content:        tc.Content,
				FilePath:       path,
			})
			idx++
		}
	}

	return sections
}
