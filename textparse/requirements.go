package textparse

import (
	"regexp"
	"strings"
)

// reqExcerptLen caps the synthetic requirement's description.
const reqExcerptLen = 200

var (
	reFRID  = regexp.MustCompile(`(?i)\bFR(\d+)`)
	reNFRID = regexp.MustCompile(`(?i)\bNFR(\d+)`)
)

type reqKind int

const (
	reqNone reqKind = iota
	reqFR
	reqNFR
)

// reqState is the line-fold state for requirement-mode parsing: the current
// FR/NFR section tag and the currently open record, which remembers its own
// kind so it always closes into the matching list.
type reqState struct {
	frs, nfrs []Requirement
	section   reqKind
	open      *Requirement
	openKind  reqKind
}

// feed advances the state machine by one trimmed, non-blank line.
//
// The NFR header test runs before the FR test: "NON-FUNCTIONAL REQUIREMENT"
// contains the substring "FUNCTIONAL REQUIREMENT", so the reverse ordering
// would tag NFR section headings as FR.
func (st *reqState) feed(line string) {
	upper := strings.ToUpper(line)

	switch {
	case strings.Contains(upper, "NON-FUNCTIONAL REQUIREMENT") || strings.HasPrefix(upper, "NFR"):
		st.section = reqNFR
		if m := reNFRID.FindStringSubmatch(line); m != nil {
			st.openRecord("NFR"+m[1], line, reqNFR)
		}
	case strings.Contains(upper, "FUNCTIONAL REQUIREMENT") || strings.HasPrefix(upper, "FR"):
		st.section = reqFR
		if m := reFRID.FindStringSubmatch(line); m != nil {
			st.openRecord("FR"+m[1], line, reqFR)
		}
	case st.open != nil:
		if st.open.Description == "" {
			st.open.Description = line
			st.open.Content = line
		} else {
			st.open.Content += "\n" + line
		}
	}
}

// openRecord closes any open record into its list and starts a new one with
// the header line as title.
func (st *reqState) openRecord(id, title string, kind reqKind) {
	st.close()
	st.open = &Requirement{ID: id, Title: title}
	st.openKind = kind
}

// close appends the open record to the list matching its kind.
func (st *reqState) close() {
	if st.open == nil {
		return
	}
	if st.openKind == reqNFR {
		st.nfrs = append(st.nfrs, *st.open)
	} else {
		st.frs = append(st.frs, *st.open)
	}
	st.open = nil
}

// ParseRequirements scans completion text line by line and extracts FR and
// NFR records. Lines between ID headers are absorbed as the open record's
// description (first line) and content (all lines). If no requirement is
// ever recognized, a single synthetic FR1 record wraps the whole text.
func ParseRequirements(text string) *RequirementsDoc {
	st := &reqState{}
	for _, line := range splitLines(text) {
		if line == "" {
			continue
		}
		st.feed(line)
	}
	st.close()

	if len(st.frs) == 0 && len(st.nfrs) == 0 {
		st.frs = []Requirement{{
			ID:          "FR1",
			Title:       "Functional Requirement 1",
			Description: excerpt(text, reqExcerptLen),
			Content:     text,
		}}
	}

	return &RequirementsDoc{
		Functional:    st.frs,
		NonFunctional: st.nfrs,
		RawText:       text,
	}
}
