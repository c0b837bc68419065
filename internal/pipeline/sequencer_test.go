package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/guardrail"
	"github.com/joseph-ayodele/tender-analyzer/internal/job"
	"github.com/joseph-ayodele/tender-analyzer/internal/profile"
	"github.com/joseph-ayodele/tender-analyzer/internal/stage"
)

// scriptedProvider replays canned replies in call order. A reply of the form
// "ERR:..." becomes a transport error instead.
type scriptedProvider struct {
	replies []string
	calls   int
}

func (p *scriptedProvider) Complete(_ context.Context, _, _ string) (string, error) {
	if p.calls >= len(p.replies) {
		return "", errors.New("script exhausted")
	}
	reply := p.replies[p.calls]
	p.calls++
	if rest, ok := strings.CutPrefix(reply, "ERR:"); ok {
		return "", errors.New(rest)
	}
	return reply, nil
}

type fakeIngestor struct {
	text string
	err  error
}

func (f *fakeIngestor) Ingest(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

// recordingStore wraps a MemoryStore and records every status the job passes
// through.
type recordingStore struct {
	*job.MemoryStore
	statuses []constants.JobStatus
}

func (s *recordingStore) Update(id string, fn func(*job.Job)) error {
	err := s.MemoryStore.Update(id, fn)
	if err == nil {
		if jb, gerr := s.MemoryStore.Get(id); gerr == nil {
			if n := len(s.statuses); n == 0 || s.statuses[n-1] != jb.Status {
				s.statuses = append(s.statuses, jb.Status)
			}
		}
	}
	return err
}

const tenderText = `GOVERNMENT OF MAHARASHTRA - PUBLIC WORKS DEPARTMENT
NOTICE INVITING TENDER No. PWD/2026/117 for construction and maintenance of
district roads. Estimated cost: INR 4,50,00,000. Earnest money deposit as per
rules. Last date of online submission: 30-09-2026 17:00 IST. Bidders must
possess valid contractor registration and GST. Pre-bid meeting on 10-09-2026.`

func newTestSequencer(t *testing.T, provider *scriptedProvider, ing *fakeIngestor, store job.Store) *Sequencer {
	t.Helper()
	return NewSequencer(
		store,
		ing,
		guardrail.NewChecker(provider, nil),
		stage.NewExtraction(provider, nil),
		stage.NewEligibility(provider, nil),
		stage.NewMarket(provider, nil),
		stage.NewStrategy(provider, nil),
		nil,
		nil,
	)
}

func seedJob(t *testing.T, store job.Store, artifact string) string {
	t.Helper()
	jb := &job.Job{
		ID:           "job-1",
		Filename:     "tender.pdf",
		ArtifactPath: artifact,
		Profile:      profile.Default(),
		Status:       constants.StatusQueued,
	}
	if err := store.Create(jb); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return jb.ID
}

func tempArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job-1_tender.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestRun_HappyPath(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"YES",
		`{"tender_title": "District Roads", "issuing_authority": "PWD Maharashtra", "tender_number": "PWD/2026/117", "estimated_value_inr": "4.5 Cr", "submission_deadline": "2026-09-30"}`,
		`{"overall_eligible": true, "eligibility_score": 82, "recommendation": "PROCEED"}`,
		`{"win_probability": 55, "opportunity_score": 70}`,
		`{"bid_decision": "BID", "overall_score": 74}`,
	}}
	store := &recordingStore{MemoryStore: job.NewMemoryStore()}
	artifact := tempArtifact(t)
	id := seedJob(t, store, artifact)

	seq := newTestSequencer(t, provider, &fakeIngestor{text: tenderText}, store)
	seq.Run(context.Background(), id)

	jb, err := store.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if jb.Status != constants.StatusComplete {
		t.Fatalf("expected complete, got %s (error: %s)", jb.Status, jb.Error)
	}
	if provider.calls != 5 {
		t.Fatalf("expected 5 provider calls, got %d", provider.calls)
	}

	want := []constants.JobStatus{
		constants.StatusIngesting,
		constants.StatusExtracting,
		constants.StatusEligibilityCheck,
		constants.StatusMarketIntelligence,
		constants.StatusStrategySynthesis,
		constants.StatusComplete,
	}
	if len(store.statuses) != len(want) {
		t.Fatalf("status trail %v, want %v", store.statuses, want)
	}
	for i := range want {
		if store.statuses[i] != want[i] {
			t.Fatalf("status trail %v, want %v", store.statuses, want)
		}
	}

	for name, rec := range map[string]stage.Record{
		"extraction":  jb.Extraction,
		"eligibility": jb.Eligibility,
		"market":      jb.Market,
		"strategy":    jb.Strategy,
	} {
		if len(rec) == 0 {
			t.Fatalf("expected non-empty %s record", name)
		}
	}
	if jb.Result == nil || jb.Result["job_id"] != id {
		t.Fatalf("expected result envelope, got %v", jb.Result)
	}

	if _, err := os.Stat(artifact); !os.IsNotExist(err) {
		t.Fatal("expected uploaded artifact removed after run")
	}
}

func TestRun_GuardrailRejectsResume(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"NO"}}
	store := &recordingStore{MemoryStore: job.NewMemoryStore()}
	id := seedJob(t, store, tempArtifact(t))

	resume := strings.Repeat("filler text ", 20) +
		"Curriculum Vitae. Education: B.Tech. Internship at Acme, CGPA 9.1."
	seq := newTestSequencer(t, provider, &fakeIngestor{text: resume}, store)
	seq.Run(context.Background(), id)

	jb, _ := store.Get(id)
	if jb.Status != constants.StatusFailed || !jb.Rejected {
		t.Fatalf("expected rejected failure, got status=%s rejected=%v", jb.Status, jb.Rejected)
	}
	if !strings.Contains(jb.Error, "resume / CV") {
		t.Fatalf("expected refusal to name the detected type, got %q", jb.Error)
	}
	if provider.calls != 1 {
		t.Fatalf("expected only the classifier call, got %d", provider.calls)
	}
}

func TestRun_UnreadableDocumentRejectsBeforeInference(t *testing.T) {
	provider := &scriptedProvider{}
	store := &recordingStore{MemoryStore: job.NewMemoryStore()}
	id := seedJob(t, store, tempArtifact(t))

	seq := newTestSequencer(t, provider, &fakeIngestor{text: "   \n  "}, store)
	seq.Run(context.Background(), id)

	jb, _ := store.Get(id)
	if jb.Status != constants.StatusFailed || !jb.Rejected {
		t.Fatalf("expected rejected failure, got status=%s rejected=%v", jb.Status, jb.Rejected)
	}
	if !strings.Contains(jb.Error, "image-based") {
		t.Fatalf("unexpected error message: %q", jb.Error)
	}
	if provider.calls != 0 {
		t.Fatalf("expected zero provider calls, got %d", provider.calls)
	}
}

func TestRun_IngestFaultRejects(t *testing.T) {
	provider := &scriptedProvider{}
	store := &recordingStore{MemoryStore: job.NewMemoryStore()}
	id := seedJob(t, store, tempArtifact(t))

	seq := newTestSequencer(t, provider, &fakeIngestor{err: errors.New("pdftotext: exit status 1")}, store)
	seq.Run(context.Background(), id)

	jb, _ := store.Get(id)
	if jb.Status != constants.StatusFailed || !jb.Rejected {
		t.Fatalf("expected rejected failure, got status=%s rejected=%v", jb.Status, jb.Rejected)
	}
}

func TestRun_SecondaryCheckRejectsEmptyExtraction(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"YES",
		`{"tender_title": "N/A", "issuing_authority": "N/A", "tender_number": "not found", "estimated_value_inr": null, "submission_deadline": "N/A"}`,
	}}
	store := &recordingStore{MemoryStore: job.NewMemoryStore()}
	id := seedJob(t, store, tempArtifact(t))

	seq := newTestSequencer(t, provider, &fakeIngestor{text: tenderText}, store)
	seq.Run(context.Background(), id)

	jb, _ := store.Get(id)
	if jb.Status != constants.StatusFailed || !jb.Rejected {
		t.Fatalf("expected rejected failure, got status=%s rejected=%v", jb.Status, jb.Rejected)
	}
	if provider.calls != 2 {
		t.Fatalf("expected classifier + extraction calls only, got %d", provider.calls)
	}
}

func TestRun_StageFaultFailsWithoutRejection(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"YES",
		`{"tender_title": "District Roads", "issuing_authority": "PWD", "tender_number": "PWD/2026/117", "submission_deadline": "2026-09-30"}`,
		"ERR:upstream timeout",
	}}
	store := &recordingStore{MemoryStore: job.NewMemoryStore()}
	artifact := tempArtifact(t)
	id := seedJob(t, store, artifact)

	seq := newTestSequencer(t, provider, &fakeIngestor{text: tenderText}, store)
	seq.Run(context.Background(), id)

	jb, _ := store.Get(id)
	if jb.Status != constants.StatusFailed {
		t.Fatalf("expected failed, got %s", jb.Status)
	}
	if jb.Rejected {
		t.Fatal("a transport fault is not an input rejection")
	}
	if jb.Error == "" {
		t.Fatal("expected error message on failure")
	}
	if _, err := os.Stat(artifact); !os.IsNotExist(err) {
		t.Fatal("expected artifact removed even on failure")
	}
}
