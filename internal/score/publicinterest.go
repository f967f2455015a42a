// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"math"
	"strings"

	"github.com/civiclens/civiclens/pkg/types"
)

// Public-interest category weights. Each category is capped at 100 before
// weighting, so the weighted sum is bounded by 100.
var interestWeights = map[string]float64{
	"politicians":   0.20,
	"policy":        0.25,
	"public_safety": 0.20,
	"economy":       0.15,
	"credibility":   0.10,
	"controversy":   0.10,
}

// Keyword lists per heuristic category.
var (
	politicianWords = []string{
		"minister", "senator", "deputy", "mayor", "president", "chancellor",
		"mp ", "parliament member", "councillor", "governor",
	}
	policyWords = []string{
		"law", "bill", "regulation", "policy", "reform", "amendment",
		"legislation", "decree", "statute",
	}
	safetyWords = []string{
		"safety", "health", "police", "emergency", "epidemic", "crime",
		"security", "disaster", "accident",
	}
	economyWords = []string{
		"budget", "tax", "economy", "inflation", "subsidy", "tariff",
		"deficit", "investment", "procurement", "tender",
	}
	controversyWords = []string{
		"scandal", "corruption", "protest", "investigation", "lawsuit",
		"resignation", "fraud", "conflict of interest",
	}
)

// matchPoints converts a keyword hit count into a capped category score.
const matchPoints = 25

// Interest computes the public-interest score for a cluster and its report.
func Interest(cluster types.ArticleCluster, report types.ComparisonReport) types.PublicInterest {
	text := clusterText(cluster)

	breakdown := map[string]float64{
		"politicians":   keywordScore(text, politicianWords),
		"policy":        keywordScore(text, policyWords),
		"public_safety": keywordScore(text, safetyWords),
		"economy":       keywordScore(text, economyWords),
		"credibility":   math.Min(100, avgDeclaredCredibility(cluster.Articles)),
		"controversy":   controversyScore(text, report),
	}

	total := 0.0
	for category, weight := range interestWeights {
		total += weight * breakdown[category]
	}

	return types.PublicInterest{
		Score:     clamp(int(math.Round(total))),
		Breakdown: breakdown,
	}
}

// keywordScore counts keyword occurrences and caps the scaled result at 100.
func keywordScore(text string, keywords []string) float64 {
	matches := 0
	for _, kw := range keywords {
		matches += strings.Count(text, kw)
	}
	return math.Min(100, float64(matches*matchPoints))
}

// controversyScore combines controversy keywords with what the analyzer
// found: contradicted facts and detected manipulation both raise it.
func controversyScore(text string, report types.ComparisonReport) float64 {
	s := keywordScore(text, controversyWords)
	s += float64(len(report.Contradictions) * matchPoints)
	if report.MediaManipulation.Detected {
		s += matchPoints
	}
	return math.Min(100, s)
}

func clusterText(cluster types.ArticleCluster) string {
	var b strings.Builder
	for _, a := range cluster.Articles {
		b.WriteString(strings.ToLower(a.Title))
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(a.Summary))
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(a.Body))
		b.WriteByte(' ')
	}
	return b.String()
}
