package stage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/internal/llm"
)

const strategySystem = "You are a senior bid strategy consultant specializing in Indian government tenders. " +
	"You synthesize analysis into a comprehensive, actionable bid strategy and return ONLY valid JSON."

// Strategy is stage 4: everything before it -> the master bid strategy report.
type Strategy struct {
	provider llm.CompletionProvider
	logger   *slog.Logger
}

func NewStrategy(provider llm.CompletionProvider, logger *slog.Logger) *Strategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Strategy{provider: provider, logger: logger}
}

func (s *Strategy) FallbackRecord() Record {
	return Record{
		"bid_decision":  "NO BID",
		"overall_score": 0,
	}
}

func (s *Strategy) Run(ctx context.Context, extraction, eligibility, market Record) (Record, error) {
	start := time.Now()

	reply, err := s.provider.Complete(ctx, strategySystem, buildStrategyPrompt(extraction, eligibility, market))
	if err != nil {
		return nil, fmt.Errorf("strategy stage: %w", err)
	}

	rec := Record(llm.Recover(reply, s.FallbackRecord(), s.logger))
	validateAdvisory(s.logger, "strategy", llm.StrategySchema(), rec)

	s.logger.Info("stage.strategy.ok",
		"bid_decision", rec["bid_decision"],
		"overall_score", rec["overall_score"],
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

func buildStrategyPrompt(extraction, eligibility, market Record) string {
	return `Synthesize all analysis into a comprehensive, actionable bid strategy.

TENDER REQUIREMENTS:
` + mustJSON(extraction) + `

ELIGIBILITY ASSESSMENT:
` + mustJSON(eligibility) + `

MARKET INTELLIGENCE:
` + mustJSON(market) + `

Create the master bid strategy report as JSON:
{
  "executive_summary": "...",
  "bid_decision": "BID / NO BID / CONDITIONAL BID",
  "bid_decision_rationale": "...",
  "win_strategy": {
    "primary_strategy": "...",
    "value_proposition": "...",
    "key_themes_for_proposal": [],
    "differentiators": []
  },
  "proposal_structure": [
    {
      "section": "...",
      "key_points": [],
      "tips": "..."
    }
  ],
  "pricing_recommendation": {
    "bid_amount_inr": "...",
    "justification": "...",
    "discount_strategy": "..."
  },
  "compliance_checklist": [
    {
      "item": "...",
      "status": "READY / NEEDS PREP / MISSING",
      "action_required": "..."
    }
  ],
  "action_plan": [
    {
      "priority": "HIGH/MEDIUM/LOW",
      "action": "...",
      "deadline": "...",
      "owner": "..."
    }
  ],
  "red_flags": [],
  "success_factors": [],
  "overall_score": 0-100
}

Return ONLY valid JSON.`
}
