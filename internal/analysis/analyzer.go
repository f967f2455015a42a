// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/civiclens/civiclens/pkg/types"
)

// Outcome is one strategy's typed result: a usable report, or a reason it
// was unavailable.
type Outcome struct {
	Report types.ComparisonReport
	OK     bool
	Reason string
}

// Unavailable builds a failed outcome.
func Unavailable(reason string) Outcome { return Outcome{Reason: reason} }

// Ok builds a successful outcome.
func Ok(report types.ComparisonReport) Outcome { return Outcome{Report: report, OK: true} }

// Strategy produces a comparison report for a cluster, or declares itself
// unavailable. Strategies are tried in a fixed order; the local strategy at
// the end of every chain cannot fail, so analysis never errors to the caller.
type Strategy interface {
	Name() string
	Analyze(ctx context.Context, cluster types.ArticleCluster) Outcome
}

// Analyzer runs an ordered strategy chain over a cluster.
type Analyzer struct {
	chain []Strategy
	log   zerolog.Logger
}

// NewAnalyzer builds the standard chain: the AI backend first when one is
// configured, then the degraded local strategy.
func NewAnalyzer(cfg types.AnalysisConfig, backend Backend, log zerolog.Logger) *Analyzer {
	var chain []Strategy
	if backend != nil {
		chain = append(chain, &aiStrategy{backend: backend, cfg: cfg})
	}
	chain = append(chain, localStrategy{})
	return &Analyzer{chain: chain, log: log}
}

// NewAnalyzerWithChain builds an Analyzer over an explicit chain; a local
// strategy is appended when the chain's tail can fail.
func NewAnalyzerWithChain(log zerolog.Logger, strategies ...Strategy) *Analyzer {
	chain := append([]Strategy{}, strategies...)
	chain = append(chain, localStrategy{})
	return &Analyzer{chain: chain, log: log}
}

// Analyze produces the ComparisonReport for a cluster. It never returns an
// error for backend failures; those degrade down the chain.
func (a *Analyzer) Analyze(ctx context.Context, cluster types.ArticleCluster) (types.ComparisonReport, error) {
	if len(cluster.Articles) == 0 {
		return types.ComparisonReport{}, fmt.Errorf("empty cluster")
	}

	for _, s := range a.chain {
		out := s.Analyze(ctx, cluster)
		if !out.OK {
			a.log.Warn().
				Str("strategy", s.Name()).
				Str("reason", out.Reason).
				Int64("primary", cluster.PrimaryID).
				Msg("analysis strategy unavailable")
			continue
		}

		report := out.Report
		report.Topic = cluster.Articles[0].Title
		report.PrimaryArticleID = cluster.PrimaryID
		report.GeneratedAt = time.Now().UTC()
		a.log.Info().
			Str("strategy", s.Name()).
			Bool("degraded", report.Degraded).
			Int("reliability", report.ReliabilityScore).
			Int64("primary", cluster.PrimaryID).
			Msg("analysis complete")
		return report, nil
	}

	// Unreachable: localStrategy always returns OK.
	return types.ComparisonReport{}, fmt.Errorf("no analysis strategy available")
}

// aiStrategy calls the external text-analysis backend: one request, at most
// one retry, then unavailable. It never blocks past the configured timeout.
type aiStrategy struct {
	backend Backend
	cfg     types.AnalysisConfig
}

func (s *aiStrategy) Name() string { return s.backend.Name() }

func (s *aiStrategy) Analyze(ctx context.Context, cluster types.ArticleCluster) Outcome {
	prompt, err := BuildPrompt(cluster, s.cfg.ExcerptLimit)
	if err != nil {
		return Unavailable(err.Error())
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
		raw, err := s.backend.Complete(callCtx, prompt)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}

		report, err := ParseReport(raw)
		if err != nil {
			lastErr = err
			continue
		}
		return Ok(report)
	}
	return Unavailable(fmt.Sprintf("after retry: %v", lastErr))
}

// localStrategy computes the degraded report from the cluster alone: the
// heuristic claim lists per source and a reliability score equal to the
// average declared credibility. It cannot fail.
type localStrategy struct{}

func (localStrategy) Name() string { return "local" }

func (localStrategy) Analyze(_ context.Context, cluster types.ArticleCluster) Outcome {
	var report types.ComparisonReport
	report.Degraded = true
	report.ConsensusFacts = []string{}
	report.Contradictions = []types.Contradiction{}
	report.ReliabilityScore = avgCredibility(cluster.Articles)

	for _, a := range cluster.Articles {
		report.SourceComparison = append(report.SourceComparison, types.SourceComparison{
			Source:    a.SourceName,
			KeyClaims: ExtractClaims(a.Body),
		})
	}
	return Ok(report)
}

func avgCredibility(articles []types.Article) int {
	if len(articles) == 0 {
		return 0
	}
	sum := 0
	for _, a := range articles {
		sum += a.Credibility
	}
	return int(math.Round(float64(sum) / float64(len(articles))))
}
