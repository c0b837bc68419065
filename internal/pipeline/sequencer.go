// Package pipeline runs the staged analysis for one job: ingest, guardrail,
// then the four inference stages in order, short-circuiting on rejection or
// hard failure. The sequencer is the sole writer of job state.
package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/guardrail"
	"github.com/joseph-ayodele/tender-analyzer/internal/history"
	"github.com/joseph-ayodele/tender-analyzer/internal/ingest"
	"github.com/joseph-ayodele/tender-analyzer/internal/job"
	"github.com/joseph-ayodele/tender-analyzer/internal/stage"
)

const msgNoReadableText = "This PDF appears to be image-based and contains no readable text. " +
	"Please upload a text-based tender PDF from GeM, CPPP, or NIC portals."

type Sequencer struct {
	store       job.Store
	ingestor    ingest.Ingestor
	guard       *guardrail.Checker
	extraction  *stage.Extraction
	eligibility *stage.Eligibility
	market      *stage.Market
	strategy    *stage.Strategy
	history     *history.Store // optional; nil disables archiving
	logger      *slog.Logger
}

func NewSequencer(
	store job.Store,
	ingestor ingest.Ingestor,
	guard *guardrail.Checker,
	extraction *stage.Extraction,
	eligibility *stage.Eligibility,
	market *stage.Market,
	strategy *stage.Strategy,
	hist *history.Store,
	logger *slog.Logger,
) *Sequencer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sequencer{
		store:       store,
		ingestor:    ingestor,
		guard:       guard,
		extraction:  extraction,
		eligibility: eligibility,
		market:      market,
		strategy:    strategy,
		history:     hist,
		logger:      logger,
	}
}

// Run advances one job from queued to a terminal state. The uploaded artifact
// is released exactly once on every exit path, and a terminal summary goes to
// the history archive regardless of outcome.
func (s *Sequencer) Run(ctx context.Context, jobID string) {
	jb, err := s.store.Get(jobID)
	if err != nil {
		s.logger.Error("sequencer.job_missing", "job_id", jobID, "error", err)
		return
	}
	start := time.Now()

	defer s.archive(jobID)
	defer s.releaseArtifact(jobID, jb.ArtifactPath)

	s.setStatus(jobID, constants.StatusIngesting)
	text, err := s.ingestor.Ingest(ctx, jb.ArtifactPath)
	if err != nil || len(strings.TrimSpace(text)) < constants.MinReadableText {
		if err != nil {
			s.logger.Warn("sequencer.ingest_failed", "job_id", jobID, "error", err)
		}
		s.fail(jobID, msgNoReadableText, true)
		return
	}

	if v := s.guard.CheckDocument(ctx, text); !v.IsValidDocument {
		s.fail(jobID, guardrail.RefusalMessage(v.DetectedType), true)
		return
	}

	s.setStatus(jobID, constants.StatusExtracting)
	extraction, err := s.extraction.Run(ctx, text)
	if err != nil {
		s.fail(jobID, err.Error(), false)
		return
	}
	if v := s.guard.CheckExtraction(extraction, text); !v.IsValidDocument {
		s.fail(jobID, guardrail.RefusalMessage(v.DetectedType), true)
		return
	}
	_ = s.store.Update(jobID, func(j *job.Job) {
		j.Extraction = extraction
		j.Status = constants.StatusEligibilityCheck
	})

	eligibility, err := s.eligibility.Run(ctx, extraction, jb.Profile)
	if err != nil {
		s.fail(jobID, err.Error(), false)
		return
	}
	_ = s.store.Update(jobID, func(j *job.Job) {
		j.Eligibility = eligibility
		j.Status = constants.StatusMarketIntelligence
	})

	market, err := s.market.Run(ctx, extraction, eligibility)
	if err != nil {
		s.fail(jobID, err.Error(), false)
		return
	}
	_ = s.store.Update(jobID, func(j *job.Job) {
		j.Market = market
		j.Status = constants.StatusStrategySynthesis
	})

	strategy, err := s.strategy.Run(ctx, extraction, eligibility, market)
	if err != nil {
		s.fail(jobID, err.Error(), false)
		return
	}
	_ = s.store.Update(jobID, func(j *job.Job) {
		j.Strategy = strategy
		j.Status = constants.StatusComplete
		j.Result = j.BuildResult()
	})

	s.logger.Info("sequencer.complete",
		"job_id", jobID,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

func (s *Sequencer) setStatus(jobID string, status constants.JobStatus) {
	_ = s.store.Update(jobID, func(j *job.Job) {
		j.Status = status
	})
	s.logger.Info("sequencer.stage", "job_id", jobID, "status", string(status))
}

func (s *Sequencer) fail(jobID, msg string, rejected bool) {
	_ = s.store.Update(jobID, func(j *job.Job) {
		j.Status = constants.StatusFailed
		j.Error = msg
		j.Rejected = rejected
	})
	s.logger.Warn("sequencer.failed", "job_id", jobID, "rejected", rejected, "error", msg)
}

func (s *Sequencer) releaseArtifact(jobID, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("sequencer.artifact_cleanup_failed", "job_id", jobID, "path", path, "error", err)
	}
}

func (s *Sequencer) archive(jobID string) {
	if s.history == nil {
		return
	}
	jb, err := s.store.Get(jobID)
	if err != nil || !jb.Status.Terminal() {
		return
	}
	entry := history.Entry{
		JobID:      jb.ID,
		Filename:   jb.Filename,
		Status:     string(jb.Status),
		Rejected:   jb.Rejected,
		Error:      jb.Error,
		FinishedAt: time.Now().UTC(),
	}
	if decision, ok := jb.Strategy["bid_decision"].(string); ok {
		entry.BidDecision = decision
	}
	if err := s.history.Record(context.Background(), entry); err != nil {
		s.logger.Warn("sequencer.archive_failed", "job_id", jobID, "error", err)
	}
}
