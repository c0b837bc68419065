package llm

// Advisory JSON-Schemas (draft 2020-12 subset) for the records each pipeline
// stage produces. The pipeline never enforces these (stage records are open
// mappings and later stages must tolerate missing fields) but validating and
// logging mismatches makes drift in provider output visible.

func ExtractionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tender_title":         map[string]any{"type": "string"},
			"issuing_authority":    map[string]any{"type": "string"},
			"tender_number":        map[string]any{"type": "string"},
			"submission_deadline":  map[string]any{"type": "string"},
			"estimated_value_inr":  map[string]any{"type": "string"},
			"eligibility_criteria": map[string]any{"type": "object"},
			"scope_of_work":        map[string]any{"type": "array"},
			"evaluation_criteria":  map[string]any{"type": "array"},
		},
	}
}

func EligibilitySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall_eligible":  map[string]any{"type": "boolean"},
			"eligibility_score": scoreProp(),
			"criteria_analysis": map[string]any{"type": "array"},
			"disqualifiers":     map[string]any{"type": "array"},
			"recommendation": map[string]any{
				"type": "string",
				"enum": []string{"PROCEED", "PROCEED WITH CAUTION", "DO NOT BID"},
			},
		},
	}
}

func MarketSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"market_analysis":      map[string]any{"type": "object"},
			"pricing_intelligence": map[string]any{"type": "object"},
			"win_probability":      scoreProp(),
			"risk_assessment":      map[string]any{"type": "object"},
			"opportunity_score":    scoreProp(),
		},
	}
}

func StrategySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"executive_summary": map[string]any{"type": "string"},
			"bid_decision": map[string]any{
				"type": "string",
				"enum": []string{"BID", "NO BID", "CONDITIONAL BID"},
			},
			"compliance_checklist": map[string]any{"type": "array"},
			"action_plan":          map[string]any{"type": "array"},
			"overall_score":        scoreProp(),
		},
	}
}

func scoreProp() map[string]any {
	return map[string]any{
		"type":    "number",
		"minimum": 0,
		"maximum": 100,
	}
}
