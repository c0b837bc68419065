package llm

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// Recover pulls a structured record out of a free-form model reply. The span
// between the first '{' and the last '}' is parsed as JSON; this greedy
// outer-brace heuristic survives prose and markdown fences around the payload
// without needing a grammar. Multiple unrelated objects in one reply collapse
// into a single (unparseable) span and fall through to the fallback.
//
// Recover never fails: when no brace pair exists or the span does not parse,
// the caller's fallback is returned unmodified and the raw reply is logged so
// the miss stays diagnosable. Parse failure is recoverable data here, not a
// control-flow fault.
func Recover(raw string, fallback map[string]any, logger *slog.Logger) map[string]any {
	if logger == nil {
		logger = slog.Default()
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		logger.Warn("llm.recover.no_payload", "raw", snippet(raw))
		return fallback
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &m); err != nil {
		logger.Warn("llm.recover.parse_failed", "error", err, "raw", snippet(raw))
		return fallback
	}
	return m
}

func snippet(s string) string {
	const max = 300
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
