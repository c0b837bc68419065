package stage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/llm"
)

const extractionSystem = "You are a government tender analysis expert. " +
	"You extract structured requirements from tender documents and return ONLY valid JSON, no extra text."

// Extraction is stage 1: ingested document text -> requirement record.
type Extraction struct {
	provider llm.CompletionProvider
	logger   *slog.Logger
}

func NewExtraction(provider llm.CompletionProvider, logger *slog.Logger) *Extraction {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extraction{provider: provider, logger: logger}
}

func (s *Extraction) Run(ctx context.Context, docText string) (Record, error) {
	start := time.Now()

	reply, err := s.provider.Complete(ctx, extractionSystem, buildExtractionPrompt(docText))
	if err != nil {
		return nil, fmt.Errorf("extraction stage: %w", err)
	}

	fallback := map[string]any{
		"error":          "JSON parse failed",
		"raw_extraction": reply,
	}
	rec := Record(llm.Recover(reply, fallback, s.logger))
	validateAdvisory(s.logger, "extraction", llm.ExtractionSchema(), rec)

	s.logger.Info("stage.extraction.ok",
		"title", rec["tender_title"],
		"authority", rec["issuing_authority"],
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

func buildExtractionPrompt(docText string) string {
	return `Based on the following tender document, extract ALL key requirements in a structured format.

TENDER DOCUMENT:
` + clip(docText, constants.DocumentWindow) + `

Extract and return a JSON object with these exact keys:
{
  "tender_title": "...",
  "issuing_authority": "...",
  "tender_number": "...",
  "submission_deadline": "...",
  "estimated_value_inr": "...",
  "eligibility_criteria": {
    "min_turnover": "...",
    "years_of_experience": "...",
    "technical_qualifications": [],
    "certifications_required": [],
    "prior_experience": "..."
  },
  "scope_of_work": [],
  "technical_requirements": [],
  "financial_requirements": [],
  "evaluation_criteria": [],
  "key_dates": {},
  "special_conditions": []
}

If a field is not present in the document, use "N/A".
Return ONLY valid JSON, no extra text.`
}
