// Package textparse converts free-form LLM completion text into structured
// design sections, requirement records, and test cases. The upstream text has
// no fixed grammar, so every mode falls back to a single synthetic record
// rather than returning an empty result.
package textparse

import (
	"strings"
	"unicode"
)

// DesignSection is one titled section of a technical design document.
type DesignSection struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// DesignDoc is the parsed form of a technical design document.
type DesignDoc struct {
	Sections []DesignSection `json:"sections"`
	RawText  string          `json:"raw_text"`
}

// Requirement is a single functional or non-functional requirement record.
// Priority, Category and AcceptanceCriteria are only populated when the
// source text (or an upstream document) carries them; the knowledge-base
// builder applies defaults for absent values.
type Requirement struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Content            string `json:"content"`
	Priority           string `json:"priority,omitempty"`
	Category           string `json:"category,omitempty"`
	AcceptanceCriteria string `json:"acceptance_criteria,omitempty"`
}

// RequirementsDoc is the parsed form of a business requirements document.
type RequirementsDoc struct {
	Functional    []Requirement `json:"functional_requirements"`
	NonFunctional []Requirement `json:"non_functional_requirements"`
	RawText       string        `json:"raw_text"`
}

// TestCase is a single structured test case extracted from completion text.
type TestCase struct {
	ID             string   `json:"id"`
	Component      string   `json:"component"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	InputData      string   `json:"input_data"`
	ExpectedOutput string   `json:"expected_output"`
	TestSteps      []string `json:"test_steps"`
	Content        string   `json:"content"`
}

// excerpt returns the first n runes of s.
func excerpt(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// isAllUpper reports whether s contains at least one cased rune and every
// cased rune is upper case. Digits and punctuation are ignored, so section
// headers like "2. DATA FLOW" qualify.
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// splitLines splits text on newlines with surrounding whitespace trimmed from
// each line. Blank lines are preserved as empty strings so callers can skip
// them explicitly.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
