package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/internal/async"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/export"
	"github.com/joseph-ayodele/tender-analyzer/internal/guardrail"
	"github.com/joseph-ayodele/tender-analyzer/internal/history"
	"github.com/joseph-ayodele/tender-analyzer/internal/ingest"
	"github.com/joseph-ayodele/tender-analyzer/internal/job"
	"github.com/joseph-ayodele/tender-analyzer/internal/llm"
	"github.com/joseph-ayodele/tender-analyzer/internal/llm/gemini"
	"github.com/joseph-ayodele/tender-analyzer/internal/pipeline"
	"github.com/joseph-ayodele/tender-analyzer/internal/server"
	"github.com/joseph-ayodele/tender-analyzer/internal/stage"
)

func main() {
	// Setup structured logger that outputs messages with variables but no time/level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; analysis requests will fail until configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Completion provider, with bounded retries around transport faults. The
	// four stages sample at different temperatures, sharing one transport.
	base := gemini.NewClient(gemini.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	retryCfg := llm.RetryConfig{
		Attempts:  cfg.LLM.RetryAttempts,
		BaseDelay: cfg.LLM.RetryBaseDelay,
	}
	wrap := func(t float32) llm.CompletionProvider {
		return llm.WithRetry(base.WithTemperature(t), retryCfg, logger)
	}

	guard := guardrail.NewChecker(wrap(0.0), logger)
	extraction := stage.NewExtraction(wrap(0.1), logger)
	eligibility := stage.NewEligibility(wrap(0.1), logger)
	market := stage.NewMarket(wrap(0.2), logger)
	strategy := stage.NewStrategy(wrap(0.4), logger)

	ingestor := ingest.NewPDFIngestor(ingest.Config{Pdftotext: cfg.Ingest.Pdftotext}, logger)

	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Error("failed to open history archive", "path", cfg.History.Path, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := hist.Close(); err != nil {
			logger.Warn("history close error", "error", err)
		}
	}()

	store := job.NewMemoryStore()
	seq := pipeline.NewSequencer(store, ingestor, guard, extraction, eligibility, market, strategy, hist, logger)

	queue := async.NewSequencerQueue(seq, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		async.WithJobTimeout(cfg.Pipeline.JobTimeout),
	)

	svc := server.NewAnalyzerService(store, queue, cfg.Server.UploadDir, cfg.Server.MaxUploadBytes, logger)
	exportSvc := export.NewService(store, logger)
	handler := server.NewHandler(svc, exportSvc, hist, cfg.LLM.APIKey != "")

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.Routes(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("tender-analyzer listening", "addr", cfg.Server.HTTPAddr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", "error", err)
	}
	queue.Shutdown(shutdownCtx)
}
