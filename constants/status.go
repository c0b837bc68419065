package constants

// JobStatus is the canonical lifecycle status for an analysis job.
type JobStatus string

// Stable values (these exact strings go over the wire to polling clients).
const (
	StatusQueued             JobStatus = "queued"
	StatusIngesting          JobStatus = "ingesting"
	StatusExtracting         JobStatus = "extracting"
	StatusEligibilityCheck   JobStatus = "eligibility_check"
	StatusMarketIntelligence JobStatus = "market_intelligence"
	StatusStrategySynthesis  JobStatus = "strategy_synthesis"
	StatusComplete           JobStatus = "complete"
	StatusFailed             JobStatus = "failed"
)

// Terminal reports whether a job in this status will never change again.
func (s JobStatus) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}
