// Package guardrail decides whether ingested content is a government tender
// before the pipeline spends inference calls on it, and explains rejections
// with a best-guess at what the document actually is.
package guardrail

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/llm"
)

// Verdict is the guardrail's classification output.
type Verdict struct {
	IsValidDocument bool
	DetectedType    string // best-guess archetype label when rejected
}

const classifySystem = "You are a strict document classifier for government procurement. " +
	"Answer with a single word: YES if the text is from a government tender, RFP, " +
	"RFQ, or bid document, NO otherwise. No explanation."

// secondaryFields are the extraction keys inspected by the post-extraction
// check. A document that passed the classifier but yields mostly sentinels
// here is syntactically plausible yet semantically empty of tender structure.
var secondaryFields = [4]string{
	"issuing_authority",
	"tender_number",
	"estimated_value_inr",
	"submission_deadline",
}

type Checker struct {
	provider llm.CompletionProvider
	logger   *slog.Logger
}

func NewChecker(provider llm.CompletionProvider, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{provider: provider, logger: logger}
}

// CheckDocument is the primary, pre-pipeline check: a truncated excerpt goes
// to the completion provider with a yes/no instruction. A reply carrying an
// explicit negative token and no positive token rejects the document; any
// other reply accepts it, and so does a provider failure. The guardrail
// fails open so provider flakiness never blocks valid tenders.
func (c *Checker) CheckDocument(ctx context.Context, text string) Verdict {
	start := time.Now()
	excerpt := clip(clip(text, constants.DocumentWindow), constants.ClassifyExcerpt)

	reply, err := c.provider.Complete(ctx, classifySystem, "DOCUMENT EXCERPT:\n"+excerpt)
	if err != nil {
		c.logger.Warn("guardrail.primary.fail_open", "error", err)
		return Verdict{IsValidDocument: true}
	}

	negative, positive := scanTokens(reply)
	if !negative || positive {
		c.logger.Info("guardrail.primary.accepted",
			"reply", snippet(reply),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Verdict{IsValidDocument: true}
	}

	detected := DetectArchetype(text)
	c.logger.Info("guardrail.primary.rejected",
		"detected_type", detected,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Verdict{IsValidDocument: false, DetectedType: detected}
}

// CheckExtraction is the secondary, post-extraction check: when three or more
// of the required extraction fields are absent or hold a "not found" sentinel,
// the document is rejected even though the classifier passed it.
func (c *Checker) CheckExtraction(rec map[string]any, fullText string) Verdict {
	missing := 0
	for _, field := range secondaryFields {
		v, ok := rec[field]
		if !ok || v == nil {
			missing++
			continue
		}
		if s, isStr := v.(string); isStr && constants.IsNotFoundSentinel(s) {
			missing++
		}
	}
	if missing < 3 {
		return Verdict{IsValidDocument: true}
	}

	detected := DetectArchetype(fullText)
	c.logger.Info("guardrail.secondary.rejected",
		"missing_fields", missing,
		"detected_type", detected,
	)
	return Verdict{IsValidDocument: false, DetectedType: detected}
}

// scanTokens looks for explicit yes/no tokens in a classifier reply.
func scanTokens(reply string) (negative, positive bool) {
	for _, tok := range strings.Fields(strings.ToLower(reply)) {
		switch strings.Trim(tok, ".,!:;\"'") {
		case "no":
			negative = true
		case "yes":
			positive = true
		}
	}
	return negative, positive
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func snippet(s string) string {
	return clip(s, 120)
}
