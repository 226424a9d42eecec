// Package relate decides which directed semantic relationships hold between
// knowledge-base entities. Pairwise decisions come from a boolean classifier
// built on the completion capability; when no classifier is configured, a
// crude rule-based fallback stands in.
package relate

// Relation descriptions handed to the classifier, one type/expectation pair
// per category sub-case. The wording is a load-bearing contract input: the
// FR-implements vs NFR-constrains distinction exists only in these strings,
// so edits here change which edges get labelled.
const (
	relTypeFRDesign = "Requirement to Design"
	relDescFRDesign = "The requirement is implemented by this design section"

	relTypeNFRDesign = "Non-Functional Requirement to Design"
	relDescNFRDesign = "The NFR constrains or influences this design section"

	relTypeFRCode = "Requirement to Code"
	relDescFRCode = "The requirement is implemented by this code section"

	relTypeDesignCode = "Design to Code"
	relDescDesignCode = "The design section is realized by this code section"

	relTypeCodeTC = "Code to Test Case"
	relDescCodeTC = "The test case tests this code section"

	relTypeFRTC = "Requirement to Test Case"
	relDescFRTC = "The test case validates this requirement"
)
