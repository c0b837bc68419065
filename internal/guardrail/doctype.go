package guardrail

import (
	"strings"

	"github.com/joseph-ayodele/tender-analyzer/constants"
)

// DetectArchetype runs a keyword-overlap scan over the full document text and
// returns the label of the first archetype with enough distinct keyword hits,
// or the generic label when nothing matches.
func DetectArchetype(text string) string {
	lower := strings.ToLower(text)
	for _, arch := range constants.DocArchetypes {
		hits := 0
		for _, kw := range arch.Keywords {
			if strings.Contains(lower, kw) {
				hits++
				if hits >= constants.ArchetypeMinHits {
					return arch.Label
				}
			}
		}
	}
	return constants.GenericDocLabel
}
