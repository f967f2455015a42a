// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ArticleCluster is the set of articles judged to cover the same event,
// relative to a primary article. Membership is derived from current
// similarity scores and recomputed on demand, never stored.
type ArticleCluster struct {
	PrimaryID int64     `json:"primary_id"`
	Articles  []Article `json:"articles"`
}

// SourceNames returns the distinct source names across the cluster.
func (c ArticleCluster) SourceNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, a := range c.Articles {
		if !seen[a.SourceName] {
			seen[a.SourceName] = true
			names = append(names, a.SourceName)
		}
	}
	return names
}

// SourceComparison summarizes how one source covered the event.
type SourceComparison struct {
	Source    string   `json:"source"`
	Stance    string   `json:"stance,omitempty"`
	KeyClaims []string `json:"key_claims,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// AttributedClaim ties a claim and its evidence to the source that made it.
type AttributedClaim struct {
	Source   string `json:"source"`
	Claim    string `json:"claim"`
	Evidence string `json:"evidence,omitempty"`
}

// Contradiction is a fact on which cluster sources disagree, with each
// side's attributed claims.
type Contradiction struct {
	Fact   string            `json:"fact"`
	Claims []AttributedClaim `json:"claims"`
}

// MediaManipulation flags detected bias or propaganda techniques.
type MediaManipulation struct {
	Detected    bool     `json:"detected"`
	Techniques  []string `json:"techniques,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// ComparisonReport is the cross-source analysis of one article cluster.
// Degraded reports carry only locally computable fields; callers may
// recompute at any time, the report is not authoritative.
type ComparisonReport struct {
	Topic             string             `json:"topic"`
	PrimaryArticleID  int64              `json:"primary_article_id"`
	SourceComparison  []SourceComparison `json:"source_comparison"`
	ConsensusFacts    []string           `json:"consensus_facts"`
	Contradictions    []Contradiction    `json:"contradictions"`
	MediaManipulation MediaManipulation  `json:"media_manipulation"`
	UnbiasedSummary   string             `json:"unbiased_summary"`
	ReliabilityScore  int                `json:"reliability_score"`
	Recommendations   []string           `json:"recommendations,omitempty"`
	Degraded          bool               `json:"degraded"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

// CredibilityAssessment is the deterministic credibility roll-up for a
// cluster; a pure function of the cluster and its report.
type CredibilityAssessment struct {
	OverallScore         int     `json:"overall_score"`
	SourceDiversity      int     `json:"source_diversity"`
	BiasLevel            string  `json:"bias_level"`
	AvgSourceCredibility float64 `json:"avg_source_credibility"`
}

// PublicInterest is the weighted public-interest score with its per-category
// breakdown.
type PublicInterest struct {
	Score     int                `json:"score"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}
