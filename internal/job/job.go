// Package job owns the unit of work tracked end-to-end: the Job record and
// the store the orchestrator and sequencer share.
package job

import (
	"time"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/profile"
	"github.com/joseph-ayodele/tender-analyzer/internal/stage"
)

// Job is one submitted analysis. Stage records are written once each, in
// order, and never rewritten after a later stage begins; Result is populated
// only on completion and Error only on failure.
type Job struct {
	ID           string
	Filename     string
	ArtifactPath string
	Profile      profile.CompanyProfile

	Status constants.JobStatus

	Extraction  stage.Record
	Eligibility stage.Record
	Market      stage.Record
	Strategy    stage.Record

	Error    string
	Rejected bool // input rejected by guardrail/validation, vs. pipeline failure
	Result   map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BuildResult assembles the final envelope from the four stage records.
func (j *Job) BuildResult() map[string]any {
	return map[string]any{
		"job_id":              j.ID,
		"tender_extraction":   j.Extraction,
		"eligibility_report":  j.Eligibility,
		"market_intelligence": j.Market,
		"bid_strategy":        j.Strategy,
	}
}
