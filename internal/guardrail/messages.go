package guardrail

import (
	"fmt"
	"math/rand"
)

// Refusal templates are user-facing; the %s slot takes the detected archetype
// label. Variety is cosmetic, the information content is identical.
var refusalTemplates = []string{
	"This doesn't look like a government tender — it reads more like a %s. Please upload a tender document from GeM, CPPP, or a state procurement portal.",
	"Nice try, but that's a %s, not a tender. Upload an actual tender or RFP document to get a bid analysis.",
	"Our analysts took one look and agreed: this is a %s. We need a government tender, RFP, or RFQ document to work with.",
	"Error 404: Tender not found. What you uploaded appears to be a %s — resubmit with a real tender document.",
}

// RefusalMessage composes the user-facing rejection text for a detected
// document type. The template is picked at random; the detected type always
// appears verbatim in the message.
func RefusalMessage(detectedType string) string {
	tmpl := refusalTemplates[rand.Intn(len(refusalTemplates))]
	return fmt.Sprintf(tmpl, detectedType)
}
