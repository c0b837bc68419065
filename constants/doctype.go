package constants

// DocArchetype describes a document kind the guardrail can recognize when a
// rejected upload is clearly something other than a tender.
type DocArchetype struct {
	Label    string
	Keywords []string
}

// ArchetypeMinHits is how many distinct keywords must appear in the document
// text before an archetype claims the match.
const ArchetypeMinHits = 2

// GenericDocLabel is reported when no archetype reaches ArchetypeMinHits.
const GenericDocLabel = "non-tender document"

// DocArchetypes is checked in order; the first archetype with enough keyword
// hits wins.
var DocArchetypes = []DocArchetype{
	{
		Label: "resume / CV",
		Keywords: []string{
			"curriculum vitae", "education", "work experience", "internship",
			"intern", "cgpa", "career objective", "skills", "hobbies",
		},
	},
	{
		Label: "invoice",
		Keywords: []string{
			"invoice", "bill to", "amount due", "payment terms",
			"invoice number", "remit to",
		},
	},
	{
		Label: "purchase order",
		Keywords: []string{
			"purchase order", "po number", "ship to", "ordered by", "unit price",
		},
	},
	{
		Label: "research paper",
		Keywords: []string{
			"abstract", "methodology", "literature review", "references",
			"hypothesis", "et al",
		},
	},
	{
		Label: "legal contract / agreement",
		Keywords: []string{
			"whereas", "hereinafter", "witnesseth", "indemnify",
			"governing law", "party of the first part",
		},
	},
	{
		Label: "bank statement",
		Keywords: []string{
			"account number", "opening balance", "closing balance",
			"statement period", "withdrawal", "deposit",
		},
	},
	{
		Label: "marketing brochure",
		Keywords: []string{
			"limited offer", "contact us today", "why choose us",
			"our services", "testimonials",
		},
	},
}
