package textparse

import (
	"regexp"
	"strings"
	"unicode"
)

// tcExcerptLen caps the synthetic test case's description.
const tcExcerptLen = 200

var reTCID = regexp.MustCompile(`(?i)TC(\d+)`)

// tcField identifies which test-case field subsequent lines accumulate into.
type tcField int

const (
	tcFieldNone tcField = iota
	tcFieldName
	tcFieldDescription
	tcFieldInput
	tcFieldExpected
	tcFieldSteps
)

// tcState is the line-fold state for test-case-mode parsing: the open record,
// the active field cursor, and a stop flag set once the record cap is hit at
// a would-be record open.
type tcState struct {
	done      []TestCase
	open      *TestCase
	field     tcField
	component string
	maxCases  int
	stopped   bool
}

// capReached reports whether the configured cap forbids opening more records.
// A non-positive cap disables the limit.
func (st *tcState) capReached() bool {
	return st.maxCases > 0 && len(st.done) >= st.maxCases
}

// feed advances the state machine by one trimmed, non-blank line.
func (st *tcState) feed(line string) {
	if st.stopped {
		return
	}

	if m := reTCID.FindStringSubmatch(line); m != nil {
		if st.capReached() {
			st.stopped = true
			return
		}
		st.close()
		st.open = &TestCase{
			ID:        "TC" + m[1],
			Component: st.component,
			Content:   line,
		}
		st.field = tcFieldNone
		return
	}

	if st.open == nil {
		return
	}

	lower := strings.ToLower(line)
	hasColon := strings.Contains(line, ":")

	// Field headers take precedence over step bullets so a labelled line
	// inside a step list still lands in the right field.
	switch {
	case strings.Contains(lower, "name") && hasColon:
		st.open.Name = afterColon(line)
		st.field = tcFieldName
	case strings.Contains(lower, "description") && hasColon:
		st.open.Description = afterColon(line)
		st.field = tcFieldDescription
	case strings.Contains(lower, "input") && hasColon:
		st.open.InputData = afterColon(line)
		st.field = tcFieldInput
	case strings.Contains(lower, "expected") && hasColon:
		st.open.ExpectedOutput = afterColon(line)
		st.field = tcFieldExpected
	case strings.Contains(lower, "step"):
		// The marker line itself is not stored.
		st.field = tcFieldSteps
	case st.field == tcFieldSteps && isStepBullet(line):
		st.open.TestSteps = append(st.open.TestSteps, stripStepMarker(line))
	case st.field == tcFieldName:
		st.open.Name += " " + line
	case st.field == tcFieldDescription:
		st.open.Description += " " + line
	case st.field == tcFieldInput:
		st.open.InputData += " " + line
	case st.field == tcFieldExpected:
		st.open.ExpectedOutput += " " + line
	case st.field == tcFieldNone:
		st.open.Content += "\n" + line
	}
}

// close appends the open record to the output list.
func (st *tcState) close() {
	if st.open == nil {
		return
	}
	st.done = append(st.done, *st.open)
	st.open = nil
}

// afterColon returns the trimmed text following the first colon.
func afterColon(line string) string {
	_, rest, _ := strings.Cut(line, ":")
	return strings.TrimSpace(rest)
}

// isStepBullet reports whether a line is a dash- or number-marked step.
func isStepBullet(line string) bool {
	if strings.HasPrefix(line, "-") {
		return true
	}
	r := []rune(line)
	return len(r) > 0 && unicode.IsDigit(r[0])
}

// stripStepMarker removes the leading bullet dash or step number from a line.
func stripStepMarker(line string) string {
	line = strings.TrimLeft(line, "- ")
	return strings.TrimLeft(line, "0123456789. ")
}

// ParseTestCases scans completion text line by line and extracts structured
// test cases for the named component. maxCases is enforced both when a new
// record would open (parsing stops outright) and by truncating the final
// list, so the output never exceeds the cap regardless of where in the
// stream it is reached. A non-positive maxCases disables the cap. If nothing
// is recognized, a single synthetic TC1 record wraps the whole text.
func ParseTestCases(text, component string, maxCases int) []TestCase {
	st := &tcState{component: component, maxCases: maxCases}
	for _, line := range splitLines(text) {
		if line == "" {
			continue
		}
		st.feed(line)
	}
	if !st.stopped && !st.capReached() {
		st.close()
	}

	if st.maxCases > 0 && len(st.done) > st.maxCases {
		st.done = st.done[:st.maxCases]
	}

	if len(st.done) == 0 {
		st.done = []TestCase{{
			ID:             "TC1",
			Component:      component,
			Name:           "Test " + component,
			Description:    excerpt(text, tcExcerptLen),
			InputData:      "N/A",
			ExpectedOutput: "N/A",
			TestSteps:      []string{},
			Content:        text,
		}}
	}

	return st.done
}
