package llm

import "context"

// CompletionProvider is the interface the pipeline depends on: an unreliable,
// latency-bearing, text-in/text-out inference service. Implementations must
// never be assumed to return structurally valid JSON.
type CompletionProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
