package llm

import (
	"context"
	"log/slog"
	"time"
)

// RetryConfig bounds the retry decorator.
type RetryConfig struct {
	Attempts  int           // total attempts, default 3
	BaseDelay time.Duration // first backoff, doubled per attempt, default 500ms
	MaxDelay  time.Duration // backoff ceiling, default 8s
}

type retryProvider struct {
	inner  CompletionProvider
	cfg    RetryConfig
	logger *slog.Logger
}

// WithRetry wraps a completion provider with bounded exponential-backoff
// retries on transport faults. Stages themselves never retry; this decorator
// is the single place retry policy lives.
func WithRetry(inner CompletionProvider, cfg RetryConfig, logger *slog.Logger) CompletionProvider {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 8 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &retryProvider{inner: inner, cfg: cfg, logger: logger}
}

func (p *retryProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var lastErr error
	delay := p.cfg.BaseDelay

	for attempt := 1; attempt <= p.cfg.Attempts; attempt++ {
		reply, err := p.inner.Complete(ctx, systemPrompt, userPrompt)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if attempt == p.cfg.Attempts {
			break
		}
		p.logger.Warn("llm.retry.backoff",
			"attempt", attempt,
			"attempts", p.cfg.Attempts,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > p.cfg.MaxDelay {
			delay = p.cfg.MaxDelay
		}
	}
	return "", lastErr
}
