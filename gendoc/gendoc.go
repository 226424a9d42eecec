// Package gendoc generates design documents, requirement documents, and
// test cases from parsed code via the completion capability, then runs each
// response through the free-text parser. Generated documents feed the
// knowledge-base builder when no human-authored documents are supplied.
package gendoc

import (
	"fmt"
	"sort"
	"strings"

	"tracekb/kb"
)

// Meta carries the project context threaded into every generation prompt.
type Meta struct {
	Background        string
	ExecutiveSummary  string
	ProjectType       string
	BreakdownStrategy string
}

// maxSignaturesPerFile caps how many function signatures a code summary
// lists per file.
const maxSignaturesPerFile = 5

// summarizeCode renders the descriptor map as prompt-sized text: per file,
// the language, function/class counts, and the first few signatures. Files
// are walked in sorted-path order.
func summarizeCode(code kb.CodeMap) string {
	paths := make([]string, 0, len(code))
	for p := range code {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		info := code[path]
		language := info.Language
		if language == "" {
			language = "unknown"
		}
		fmt.Fprintf(&b, "\nFile: %s\n", path)
		fmt.Fprintf(&b, "Language: %s\n", language)
		fmt.Fprintf(&b, "Functions: %d\n", len(info.Functions))
		fmt.Fprintf(&b, "Classes: %d\n", len(info.Classes))

		for i, fn := range info.Functions {
			if i >= maxSignaturesPerFile {
				fmt.Fprintf(&b, "  ... and %d more functions\n", len(info.Functions)-maxSignaturesPerFile)
				break
			}
			sig := fn.Signature
			if sig == "" {
				sig = fn.Name
			}
			fmt.Fprintf(&b, "  - %s\n", sig)
		}
	}
	return b.String()
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
