// Package stage holds the four ordered pipeline stages. Each stage is a pure
// mapping from prior-stage records to its own record: one completion-provider
// call, one extraction pass, a stage-specific fallback when the reply cannot
// be parsed. Stages never mutate job state and never retry the provider.
package stage

import (
	"encoding/json"
	"log/slog"

	"github.com/joseph-ayodele/tender-analyzer/internal/llm"
)

// Record is the structured object a stage produces. The schema is advisory,
// not enforced: absent or null fields are valid and downstream stages must
// tolerate them.
type Record map[string]any

// mustJSON renders a record for prompt embedding.
func mustJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// validateAdvisory checks a recovered record against the stage's advisory
// schema and logs mismatches. It never fails the stage.
func validateAdvisory(logger *slog.Logger, name string, schema map[string]any, rec Record) {
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := llm.ValidateAgainstSchema(schema, b); err != nil {
		logger.Warn("stage.schema.mismatch", "stage", name, "error", err)
	}
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
