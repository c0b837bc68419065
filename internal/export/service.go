package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/job"
	"github.com/joseph-ayodele/tender-analyzer/internal/stage"
)

// Service is a tiny façade over the job store that produces XLSX bytes for a
// completed analysis.
type Service struct {
	store  job.Store
	logger *slog.Logger
}

func NewService(store job.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// BuildReportXLSX returns an XLSX workbook (as bytes) summarizing a completed
// analysis: key tender facts, the eligibility verdict, market outlook, the
// bid decision, and the compliance checklist.
func (s *Service) BuildReportXLSX(jobID string) ([]byte, error) {
	start := time.Now()

	jb, err := s.store.Get(jobID)
	if err != nil {
		return nil, err
	}
	if jb.Status != constants.StatusComplete {
		return nil, common.NewAppError("REPORT_NOT_READY",
			fmt.Sprintf("analysis is %s, report needs a complete analysis", jb.Status),
			common.ErrInvalidInput)
	}

	f := excelize.NewFile()
	const sheet = "Bid Analysis"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultIndex, _ := f.GetSheetIndex("Sheet1"); defaultIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	row := 1
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	writePair := func(label string, v any) {
		write(1, label)
		write(2, v)
		row++
	}

	writePair("Job ID", jb.ID)
	writePair("Source File", jb.Filename)
	writePair("Tender Title", field(jb.Extraction, "tender_title"))
	writePair("Issuing Authority", field(jb.Extraction, "issuing_authority"))
	writePair("Tender Number", field(jb.Extraction, "tender_number"))
	writePair("Submission Deadline", field(jb.Extraction, "submission_deadline"))
	writePair("Estimated Value (INR)", field(jb.Extraction, "estimated_value_inr"))
	row++

	writePair("Eligible", field(jb.Eligibility, "overall_eligible"))
	writePair("Eligibility Score", field(jb.Eligibility, "eligibility_score"))
	writePair("Recommendation", field(jb.Eligibility, "recommendation"))
	writePair("Win Probability", field(jb.Market, "win_probability"))
	writePair("Bid Decision", field(jb.Strategy, "bid_decision"))
	writePair("Overall Score", field(jb.Strategy, "overall_score"))
	row++

	// Compliance checklist block, when the strategy stage produced one.
	if items, ok := jb.Strategy["compliance_checklist"].([]any); ok && len(items) > 0 {
		write(1, "Compliance Item")
		write(2, "Status")
		write(3, "Action Required")
		row++
		for _, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			write(1, field(item, "item"))
			write(2, field(item, "status"))
			write(3, field(item, "action_required"))
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 48)
	_ = f.SetColWidth(sheet, "C", "C", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"job_id", jobID,
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// field renders a record value for a cell; missing and nil both come out empty.
func field(rec stage.Record, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
