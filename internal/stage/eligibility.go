package stage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/internal/llm"
	"github.com/joseph-ayodele/tender-analyzer/internal/profile"
)

const eligibilitySystem = "You are a government procurement compliance expert. " +
	"You judge whether a company meets tender eligibility requirements and return ONLY valid JSON."

// Eligibility is stage 2: extraction record + company profile -> eligibility verdict.
type Eligibility struct {
	provider llm.CompletionProvider
	logger   *slog.Logger
}

func NewEligibility(provider llm.CompletionProvider, logger *slog.Logger) *Eligibility {
	if logger == nil {
		logger = slog.Default()
	}
	return &Eligibility{provider: provider, logger: logger}
}

// FallbackRecord is the schema-valid default substituted when the provider
// reply cannot be parsed: no eligibility claim survives a parse failure.
func (s *Eligibility) FallbackRecord() Record {
	return Record{
		"overall_eligible":  false,
		"eligibility_score": 0,
		"recommendation":    "DO NOT BID",
	}
}

func (s *Eligibility) Run(ctx context.Context, extraction Record, prof profile.CompanyProfile) (Record, error) {
	start := time.Now()

	reply, err := s.provider.Complete(ctx, eligibilitySystem, buildEligibilityPrompt(extraction, prof))
	if err != nil {
		return nil, fmt.Errorf("eligibility stage: %w", err)
	}

	rec := Record(llm.Recover(reply, s.FallbackRecord(), s.logger))
	validateAdvisory(s.logger, "eligibility", llm.EligibilitySchema(), rec)

	s.logger.Info("stage.eligibility.ok",
		"eligible", rec["overall_eligible"],
		"score", rec["eligibility_score"],
		"recommendation", rec["recommendation"],
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

func buildEligibilityPrompt(extraction Record, prof profile.CompanyProfile) string {
	return `Analyze whether the company meets the tender requirements.

TENDER REQUIREMENTS:
` + mustJSON(extraction) + `

COMPANY PROFILE:
` + mustJSON(prof) + `

Perform a thorough eligibility check and return a JSON object:
{
  "overall_eligible": true/false,
  "eligibility_score": 0-100,
  "criteria_analysis": [
    {
      "criterion": "...",
      "required": "...",
      "company_has": "...",
      "meets_requirement": true/false,
      "gap": "..."
    }
  ],
  "strengths": [],
  "disqualifiers": [],
  "conditional_eligibility": [],
  "recommendation": "PROCEED / PROCEED WITH CAUTION / DO NOT BID",
  "reasoning": "..."
}

Return ONLY valid JSON.`
}
