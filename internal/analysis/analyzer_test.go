// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/civiclens/civiclens/pkg/types"
)

// stubBackend returns canned responses in sequence; the last repeats.
type stubBackend struct {
	responses []string
	errs      []error
	calls     int
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Complete(_ context.Context, _ string) (string, error) {
	i := s.calls
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return s.responses[i], nil
}

func testAnalysisCfg() types.AnalysisConfig {
	return types.AnalysisConfig{
		RequestTimeout: 5 * time.Second,
		ExcerptLimit:   1200,
	}
}

func testCluster() types.ArticleCluster {
	return types.ArticleCluster{
		PrimaryID: 1,
		Articles: []types.Article{
			{ID: 1, Title: "Budget approved", SourceName: "Wire", Credibility: 60, Bias: types.BiasLeft,
				Body: "The minister said the budget will pass this week."},
			{ID: 2, Title: "Budget passes", SourceName: "Tribune", Credibility: 80, Bias: types.BiasCenter},
			{ID: 3, Title: "Budget vote", SourceName: "Herald", Credibility: 75, Bias: types.BiasRight},
		},
	}
}

const validResponse = `{
	"sourceComparison": [{"source": "Wire", "stance": "supportive", "keyClaims": ["budget passes"], "notes": ""}],
	"consensusFacts": ["The budget was approved."],
	"contradictions": [{"fact": "vote margin", "sources": [
		{"source": "Wire", "claim": "narrow margin", "evidence": "passed 51-49"},
		{"source": "Herald", "claim": "comfortable margin", "evidence": "passed 60-40"}
	]}],
	"mediaManipulation": {"detected": true, "techniques": ["loaded language"], "explanation": "emotive framing"},
	"unbiasedSummary": "Parliament approved the budget.",
	"reliabilityScore": 82,
	"recommendations": ["read the roll-call record"]
}`

func TestAnalyzer_UsesBackendReport(t *testing.T) {
	backend := &stubBackend{responses: []string{validResponse}}
	a := NewAnalyzer(testAnalysisCfg(), backend, zerolog.Nop())

	report, err := a.Analyze(context.Background(), testCluster())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Degraded {
		t.Error("report unexpectedly degraded")
	}
	if report.ReliabilityScore != 82 {
		t.Errorf("reliability = %d, want 82", report.ReliabilityScore)
	}
	if len(report.ConsensusFacts) != 1 || len(report.Contradictions) != 1 {
		t.Errorf("facts/contradictions = %d/%d, want 1/1",
			len(report.ConsensusFacts), len(report.Contradictions))
	}
	if report.Topic != "Budget approved" || report.PrimaryArticleID != 1 {
		t.Errorf("topic/primary = %q/%d", report.Topic, report.PrimaryArticleID)
	}
	if !report.MediaManipulation.Detected {
		t.Error("manipulation indicator lost")
	}
}

func TestAnalyzer_RetriesOnceThenSucceeds(t *testing.T) {
	backend := &stubBackend{
		responses: []string{"", validResponse},
		errs:      []error{fmt.Errorf("timeout")},
	}
	a := NewAnalyzer(testAnalysisCfg(), backend, zerolog.Nop())

	report, err := a.Analyze(context.Background(), testCluster())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Degraded {
		t.Error("retry should have produced a full report")
	}
	if backend.calls != 2 {
		t.Errorf("backend calls = %d, want 2", backend.calls)
	}
}

func TestAnalyzer_DegradesOnInvalidJSON(t *testing.T) {
	backend := &stubBackend{responses: []string{"not json at all"}}
	a := NewAnalyzer(testAnalysisCfg(), backend, zerolog.Nop())

	report, err := a.Analyze(context.Background(), testCluster())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !report.Degraded {
		t.Fatal("report should be degraded")
	}
	if backend.calls != 2 {
		t.Errorf("backend calls = %d, want 2 (single retry then terminal)", backend.calls)
	}
	// Degraded reliability is the mean declared credibility: (60+80+75)/3.
	if report.ReliabilityScore != 72 {
		t.Errorf("degraded reliability = %d, want 72", report.ReliabilityScore)
	}
	if len(report.ConsensusFacts) != 0 || len(report.Contradictions) != 0 {
		t.Error("degraded report must not invent consensus or contradictions")
	}
	if len(report.SourceComparison) != 3 {
		t.Errorf("source comparison entries = %d, want 3", len(report.SourceComparison))
	}
}

func TestAnalyzer_NoBackendGoesLocal(t *testing.T) {
	a := NewAnalyzer(testAnalysisCfg(), nil, zerolog.Nop())
	report, err := a.Analyze(context.Background(), testCluster())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !report.Degraded {
		t.Error("local-only analysis must be degraded")
	}
}

func TestAnalyzer_EmptyClusterIsError(t *testing.T) {
	a := NewAnalyzer(testAnalysisCfg(), nil, zerolog.Nop())
	if _, err := a.Analyze(context.Background(), types.ArticleCluster{}); err == nil {
		t.Fatal("expected error for empty cluster")
	}
}
