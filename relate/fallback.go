package relate

import (
	"strings"

	"tracekb/kb"
)

// fallbackRelationships is the rule-based stand-in used when no classifier
// is configured. It emits at most one Req2Des edge — the first FR linked to
// the first design section, a crude placeholder rather than a semantic
// judgment — and matches code names against test-case component fields for
// Code2TC. Req2Code, Des2Code, and Req2TC stay empty.
func fallbackRelationships(sets EntitySets) kb.RelationshipSet {
	rels := kb.NewRelationshipSet()

	if len(sets.FRs) > 0 && len(sets.Designs) > 0 {
		rels.Req2Des = append(rels.Req2Des, kb.Req2Des{
			RequirementID:    sets.FRs[0].ID,
			RequirementType:  "FR",
			DesignID:         sets.Designs[0].ID,
			RelationshipType: kb.RelImplements,
		})
	}

	for _, code := range sets.Codes {
		if !code.Linkable() || code.Name == "" {
			continue
		}
		name := strings.ToLower(code.Name)
		for _, tc := range sets.TestCases {
			if strings.Contains(strings.ToLower(tc.Component), name) {
				rels.Code2TC = append(rels.Code2TC, kb.Code2TC{
					CodeID:           code.ID,
					TestCaseID:       tc.ID,
					RelationshipType: kb.RelTestedBy,
				})
			}
		}
	}

	return rels
}
