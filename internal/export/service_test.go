package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/job"
)

func completedJob() *job.Job {
	jb := &job.Job{ID: "j1", Filename: "tender.pdf", Status: constants.StatusComplete}
	jb.Extraction = map[string]any{
		"tender_title":      "District Roads",
		"issuing_authority": "PWD Maharashtra",
		"tender_number":     "PWD/2026/117",
	}
	jb.Eligibility = map[string]any{"overall_eligible": true, "eligibility_score": 82, "recommendation": "PROCEED"}
	jb.Market = map[string]any{"win_probability": 55}
	jb.Strategy = map[string]any{
		"bid_decision":  "BID",
		"overall_score": 74,
		"compliance_checklist": []any{
			map[string]any{"item": "EMD payment", "status": "REQUIRED", "action_required": "Pay before submission"},
		},
	}
	return jb
}

func TestBuildReportXLSX_WritesSummary(t *testing.T) {
	store := job.NewMemoryStore()
	if err := store.Create(completedJob()); err != nil {
		t.Fatalf("create: %v", err)
	}
	svc := NewService(store, nil)

	data, err := svc.BuildReportXLSX("j1")
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Bid Analysis")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	flat := map[string]string{}
	for _, row := range rows {
		if len(row) >= 2 {
			flat[row[0]] = row[1]
		}
	}
	if flat["Tender Title"] != "District Roads" {
		t.Fatalf("expected tender title cell, got %q", flat["Tender Title"])
	}
	if flat["Bid Decision"] != "BID" {
		t.Fatalf("expected bid decision cell, got %q", flat["Bid Decision"])
	}
	if flat["EMD payment"] != "REQUIRED" {
		t.Fatalf("expected compliance checklist row, got %v", flat)
	}
}

func TestBuildReportXLSX_RejectsIncompleteJob(t *testing.T) {
	store := job.NewMemoryStore()
	if err := store.Create(&job.Job{ID: "j1", Status: constants.StatusExtracting}); err != nil {
		t.Fatalf("create: %v", err)
	}
	svc := NewService(store, nil)

	_, err := svc.BuildReportXLSX("j1")
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var appErr *common.AppError
	if !errors.As(err, &appErr) || appErr.Code != "REPORT_NOT_READY" {
		t.Fatalf("expected REPORT_NOT_READY, got %v", err)
	}
}

func TestBuildReportXLSX_UnknownJob(t *testing.T) {
	svc := NewService(job.NewMemoryStore(), nil)

	_, err := svc.BuildReportXLSX("missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
