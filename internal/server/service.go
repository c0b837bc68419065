package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/async"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/job"
	"github.com/joseph-ayodele/tender-analyzer/internal/profile"
)

// Scheduler is the small scheduling port the service needs; satisfied by
// async.SequencerQueue.
type Scheduler interface {
	Enqueue(ctx context.Context, task async.Task) error
}

// AnalyzerService owns job identity: it validates submissions, persists the
// uploaded artifact, creates the job record, and hands the job to the
// scheduler. Status reads come straight from the store.
type AnalyzerService struct {
	store     job.Store
	scheduler Scheduler
	uploadDir string
	maxUpload int64
	logger    *slog.Logger
}

func NewAnalyzerService(store job.Store, scheduler Scheduler, uploadDir string, maxUpload int64, logger *slog.Logger) *AnalyzerService {
	if maxUpload <= 0 {
		maxUpload = constants.MaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzerService{
		store:     store,
		scheduler: scheduler,
		uploadDir: uploadDir,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// Submit validates the artifact, stores it, creates the job in queued, and
// schedules the sequencer. It returns the job id immediately; the pipeline
// runs independently of the calling request.
func (s *AnalyzerService) Submit(ctx context.Context, filename string, size int64, src io.Reader, prof profile.CompanyProfile) (string, error) {
	if !constants.IsAllowedExt(filepath.Ext(filename)) {
		return "", common.NewAppError("UNSUPPORTED_FILE", "only PDF files are accepted", common.ErrInvalidInput)
	}
	if size > s.maxUpload {
		return "", common.NewAppError("FILE_TOO_LARGE",
			fmt.Sprintf("file too large, limit is %d bytes", s.maxUpload), common.ErrInvalidInput)
	}

	id := uuid.NewString()
	path := filepath.Join(s.uploadDir, id+"_"+filepath.Base(filename))
	if err := s.writeArtifact(path, src); err != nil {
		return "", common.WrapError(err, "store upload")
	}

	jb := &job.Job{
		ID:           id,
		Filename:     filepath.Base(filename),
		ArtifactPath: path,
		Profile:      prof,
		Status:       constants.StatusQueued,
	}
	if err := s.store.Create(jb); err != nil {
		_ = os.Remove(path)
		return "", common.WrapError(err, "create job")
	}

	if err := s.scheduler.Enqueue(ctx, async.Task{JobID: id}); err != nil {
		return "", common.WrapError(err, "schedule job")
	}

	s.logger.Info("analyze.submitted", "job_id", id, "filename", jb.Filename, "size", size)
	return id, nil
}

// Status returns a snapshot of the job.
func (s *AnalyzerService) Status(jobID string) (job.Job, error) {
	return s.store.Get(jobID)
}

func (s *AnalyzerService) writeArtifact(path string, src io.Reader) error {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, io.LimitReader(src, s.maxUpload+1)); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return err
	}
	return dst.Close()
}
