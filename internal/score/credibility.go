// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score turns a cluster and its comparison report into bounded
// credibility and public-interest scores. Both scorers are pure functions:
// the same inputs always produce the same scores.
package score

import (
	"math"

	"github.com/civiclens/civiclens/pkg/types"
)

// Credibility weights: declared source credibility, source diversity, and
// the analyzer's reliability judgment.
const (
	credWeightDeclared    = 0.4
	credWeightDiversity   = 0.3
	credWeightReliability = 0.3
)

// Assess computes the credibility roll-up for a cluster and its report.
func Assess(cluster types.ArticleCluster, report types.ComparisonReport) types.CredibilityAssessment {
	diversity := len(cluster.SourceNames())
	avgCred := avgDeclaredCredibility(cluster.Articles)

	diversityScore := math.Min(100, 10*float64(diversity))
	overall := credWeightDeclared*avgCred +
		credWeightDiversity*diversityScore +
		credWeightReliability*float64(report.ReliabilityScore)

	return types.CredibilityAssessment{
		OverallScore:         clamp(int(math.Round(overall))),
		SourceDiversity:      diversity,
		BiasLevel:            biasLevel(cluster.Articles),
		AvgSourceCredibility: avgCred,
	}
}

// biasLevel classifies the spread of declared bias scores across the
// cluster: < 20 homogeneous, < 50 moderate diversity, else high diversity.
func biasLevel(articles []types.Article) string {
	if len(articles) == 0 {
		return "homogeneous"
	}

	min, max := 100, 0
	for _, a := range articles {
		s := a.Bias.Score()
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	switch spread := max - min; {
	case spread < 20:
		return "homogeneous"
	case spread < 50:
		return "moderate diversity"
	default:
		return "high diversity"
	}
}

func avgDeclaredCredibility(articles []types.Article) float64 {
	if len(articles) == 0 {
		return 0
	}
	sum := 0
	for _, a := range articles {
		sum += a.Credibility
	}
	return float64(sum) / float64(len(articles))
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
