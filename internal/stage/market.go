package stage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/internal/llm"
)

const marketSystem = "You are a market intelligence expert for Indian government procurement. " +
	"You analyze competitive landscape, pricing, and risks for government tenders. " +
	"Always respond with valid JSON only."

// Market is stage 3: extraction record + eligibility verdict -> market report.
type Market struct {
	provider llm.CompletionProvider
	logger   *slog.Logger
}

func NewMarket(provider llm.CompletionProvider, logger *slog.Logger) *Market {
	if logger == nil {
		logger = slog.Default()
	}
	return &Market{provider: provider, logger: logger}
}

// FallbackRecord pessimizes on parse failure: zero win probability, maximum
// risk, unknown competition.
func (s *Market) FallbackRecord() Record {
	return Record{
		"win_probability": 0,
		"risk_assessment": map[string]any{
			"overall_risk_score": 100,
			"risks":              []any{},
		},
		"market_analysis": map[string]any{
			"competitive_intensity": "UNKNOWN",
		},
	}
}

func (s *Market) Run(ctx context.Context, extraction, eligibility Record) (Record, error) {
	start := time.Now()

	reply, err := s.provider.Complete(ctx, marketSystem, buildMarketPrompt(extraction, eligibility))
	if err != nil {
		return nil, fmt.Errorf("market stage: %w", err)
	}

	rec := Record(llm.Recover(reply, s.FallbackRecord(), s.logger))
	validateAdvisory(s.logger, "market", llm.MarketSchema(), rec)

	s.logger.Info("stage.market.ok",
		"win_probability", rec["win_probability"],
		"opportunity_score", rec["opportunity_score"],
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

func buildMarketPrompt(extraction, eligibility Record) string {
	return `Analyze market intelligence for this government tender.

TENDER DETAILS:
` + mustJSON(extraction) + `

ELIGIBILITY STATUS:
` + mustJSON(eligibility) + `

Return a JSON object:
{
  "market_analysis": {
    "competitive_intensity": "LOW/MEDIUM/HIGH",
    "typical_competitors": [],
    "market_size_estimate": "...",
    "historical_bid_patterns": "..."
  },
  "pricing_intelligence": {
    "estimated_market_rate_inr": "...",
    "recommended_bid_price_inr": "...",
    "pricing_strategy": "...",
    "margin_estimate_percent": 0
  },
  "win_probability": 0-100,
  "risk_assessment": {
    "overall_risk_score": 0-100,
    "risks": [
      {
        "risk_type": "...",
        "severity": "LOW/MEDIUM/HIGH",
        "description": "...",
        "mitigation": "..."
      }
    ]
  },
  "opportunity_score": 0-100,
  "key_insights": []
}

Return ONLY valid JSON.`
}
