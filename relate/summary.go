package relate

import (
	"strings"

	"tracekb/kb"
)

// Summary length bounds keep classification prompts a predictable size.
const (
	summaryDescLimit    = 500
	summaryContentLimit = 800
)

// summaryParts is the bounded textual view of an entity handed to the
// classifier: one title/name/ID line, truncated description and content, the
// signature when present, and a type tag.
type summaryParts struct {
	title       string
	name        string
	refID       string
	description string
	content     string
	signature   string
	kind        string
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func (p summaryParts) String() string {
	var lines []string

	switch {
	case p.title != "":
		lines = append(lines, "Title: "+p.title)
	case p.name != "":
		lines = append(lines, "Name: "+p.name)
	case p.refID != "":
		lines = append(lines, "ID: "+p.refID)
	}

	if p.description != "" {
		lines = append(lines, "Description: "+truncate(p.description, summaryDescLimit))
	}
	if p.content != "" {
		lines = append(lines, "Content: "+truncate(p.content, summaryContentLimit))
	}
	if p.signature != "" {
		lines = append(lines, "Signature: "+p.signature)
	}
	if p.kind != "" {
		lines = append(lines, "Type: "+p.kind)
	}

	return strings.Join(lines, "\n")
}

func summarizeFR(r kb.FunctionalRequirement) string {
	return summaryParts{
		title:       r.Title,
		refID:       r.FRID,
		description: r.Description,
		content:     r.Content,
	}.String()
}

func summarizeNFR(r kb.NonFunctionalRequirement) string {
	return summaryParts{
		title:       r.Title,
		refID:       r.NFRID,
		description: r.Description,
		content:     r.Content,
	}.String()
}

func summarizeDesign(d kb.DesignSection) string {
	return summaryParts{
		title:       d.Title,
		refID:       d.DesID,
		description: d.Description,
		content:     d.Content,
	}.String()
}

func summarizeCode(c kb.CodeSection) string {
	return summaryParts{
		name:      c.Name,
		refID:     c.CodeID,
		content:   c.Content,
		signature: c.Signature,
		kind:      c.Type,
	}.String()
}

func summarizeTestCase(t kb.TestCaseSection) string {
	return summaryParts{
		name:        t.Name,
		refID:       t.TCID,
		description: t.Description,
		content:     t.Content,
	}.String()
}
