package stage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joseph-ayodele/tender-analyzer/internal/profile"
)

type scriptedProvider struct {
	reply   string
	err     error
	prompts []string
}

func (p *scriptedProvider) Complete(_ context.Context, _, userPrompt string) (string, error) {
	p.prompts = append(p.prompts, userPrompt)
	return p.reply, p.err
}

func TestExtraction_ParsesWrappedReply(t *testing.T) {
	p := &scriptedProvider{reply: "Here you go:\n" +
		`{"tender_title": "Road Widening NH-48", "issuing_authority": "NHAI", "tender_number": "NHAI/2026/42"}`}
	s := NewExtraction(p, nil)

	rec, err := s.Run(context.Background(), "tender document text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec["tender_title"] != "Road Widening NH-48" {
		t.Fatalf("expected parsed title, got %v", rec["tender_title"])
	}
	if len(p.prompts) != 1 || !strings.Contains(p.prompts[0], "tender document text") {
		t.Fatal("expected document text in the prompt")
	}
}

func TestExtraction_UnparseableReplyKeepsRawText(t *testing.T) {
	p := &scriptedProvider{reply: "I cannot produce JSON for this."}
	s := NewExtraction(p, nil)

	rec, err := s.Run(context.Background(), "doc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec["error"] != "JSON parse failed" {
		t.Fatalf("expected parse-failure marker, got %v", rec["error"])
	}
	if rec["raw_extraction"] != p.reply {
		t.Fatalf("expected raw reply preserved, got %v", rec["raw_extraction"])
	}
}

func TestExtraction_ProviderFaultPropagates(t *testing.T) {
	p := &scriptedProvider{err: errors.New("upstream 503")}
	s := NewExtraction(p, nil)

	if _, err := s.Run(context.Background(), "doc"); err == nil {
		t.Fatal("expected error from provider fault")
	}
}

func TestEligibility_FallbackIsConservative(t *testing.T) {
	p := &scriptedProvider{reply: "no json here"}
	s := NewEligibility(p, nil)

	rec, err := s.Run(context.Background(), Record{"tender_title": "x"}, profile.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec["overall_eligible"] != false {
		t.Fatalf("expected overall_eligible=false, got %v", rec["overall_eligible"])
	}
	if rec["recommendation"] != "DO NOT BID" {
		t.Fatalf("expected DO NOT BID, got %v", rec["recommendation"])
	}
}

func TestEligibility_PromptCarriesExtractionAndProfile(t *testing.T) {
	p := &scriptedProvider{reply: `{"overall_eligible": true, "eligibility_score": 85, "recommendation": "PROCEED"}`}
	s := NewEligibility(p, nil)
	prof := profile.Default()
	prof.Name = "Quantum Infra Pvt Ltd"

	rec, err := s.Run(context.Background(), Record{"tender_number": "GEM/2026/B/99"}, prof)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec["overall_eligible"] != true {
		t.Fatalf("expected eligible verdict, got %v", rec["overall_eligible"])
	}
	prompt := p.prompts[0]
	if !strings.Contains(prompt, "GEM/2026/B/99") || !strings.Contains(prompt, "Quantum Infra Pvt Ltd") {
		t.Fatal("expected extraction record and company profile in the prompt")
	}
}

func TestMarket_FallbackMeansUnknownMarket(t *testing.T) {
	p := &scriptedProvider{reply: "```\nnot json\n```"}
	s := NewMarket(p, nil)

	rec, err := s.Run(context.Background(), Record{}, Record{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec["win_probability"] != 0 {
		t.Fatalf("expected zero win probability, got %v", rec["win_probability"])
	}
	risk, ok := rec["risk_assessment"].(map[string]any)
	if !ok {
		t.Fatalf("expected risk_assessment object, got %T", rec["risk_assessment"])
	}
	if risk["overall_risk_score"] != 100 {
		t.Fatalf("expected max risk score, got %v", risk["overall_risk_score"])
	}
}

func TestStrategy_FallbackIsNoBid(t *testing.T) {
	p := &scriptedProvider{reply: "sorry"}
	s := NewStrategy(p, nil)

	rec, err := s.Run(context.Background(), Record{}, Record{}, Record{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec["bid_decision"] != "NO BID" {
		t.Fatalf("expected NO BID, got %v", rec["bid_decision"])
	}
	if rec["overall_score"] != 0 {
		t.Fatalf("expected zero score, got %v", rec["overall_score"])
	}
}

func TestStrategy_ParsesDecision(t *testing.T) {
	p := &scriptedProvider{reply: `{"bid_decision": "BID", "overall_score": 78}`}
	s := NewStrategy(p, nil)

	rec, err := s.Run(context.Background(), Record{}, Record{}, Record{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec["bid_decision"] != "BID" {
		t.Fatalf("expected BID decision, got %v", rec["bid_decision"])
	}
}
