package textparse

import "strings"

// designExcerptLen caps the synthetic section's description when no headers
// were recognized.
const designExcerptLen = 500

// designState is the line-fold state for design-mode parsing: the currently
// open section title and its accumulated body lines.
type designState struct {
	sections []DesignSection
	title    string
	open     bool
	body     []string
}

// isDesignHeader reports whether a trimmed, non-blank line opens a new
// section: a markdown hash heading, or a short fully upper-case line.
func isDesignHeader(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	return len(line) < 100 && isAllUpper(line)
}

// feed advances the state machine by one trimmed line.
func (st *designState) feed(line string) {
	if line == "" {
		return
	}
	if isDesignHeader(line) {
		st.close()
		st.title = strings.TrimSpace(strings.TrimLeft(line, "#"))
		st.open = true
		st.body = nil
		return
	}
	if st.open {
		st.body = append(st.body, line)
	}
}

// close emits the currently open section, if any. The joined body serves as
// both description and content, mirroring how downstream consumers treat
// design prose.
func (st *designState) close() {
	if !st.open {
		return
	}
	body := strings.Join(st.body, "\n")
	st.sections = append(st.sections, DesignSection{
		Title:       st.title,
		Description: body,
		Content:     body,
	})
	st.open = false
	st.body = nil
}

// ParseDesign scans completion text line by line and extracts titled design
// sections. If no section header is ever recognized, the whole text is
// wrapped in a single synthetic "Technical Design" section so the result is
// never empty.
func ParseDesign(text string) *DesignDoc {
	st := &designState{}
	for _, line := range splitLines(text) {
		st.feed(line)
	}
	st.close()

	if len(st.sections) == 0 {
		st.sections = []DesignSection{{
			Title:       "Technical Design",
			Description: excerpt(text, designExcerptLen),
			Content:     text,
		}}
	}

	return &DesignDoc{Sections: st.sections, RawText: text}
}
