// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster groups articles covering the same event using
// keyword-overlap similarity. Clusters are defined relative to a chosen
// primary article, not as globally stable equivalence classes: membership is
// recomputed from current scores on every request.
package cluster

import (
	"sort"
	"strings"
	"unicode"

	"github.com/civiclens/civiclens/pkg/types"
)

// stopwords are common words excluded from keyword sets even when long
// enough to pass the length filter.
var stopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "have": true,
	"been": true, "will": true, "they": true, "their": true, "about": true,
	"after": true, "were": true, "which": true, "would": true, "when": true,
	"said": true, "more": true, "over": true, "into": true, "than": true,
}

// Keywords extracts the article's keyword set: the most frequent non-trivial
// words (length > 3, lowercased, punctuation-stripped) from title plus
// summary, capped at max. Ties break alphabetically so the set is stable.
func Keywords(a types.Article, max int) []string {
	if max <= 0 {
		max = 10
	}

	freq := make(map[string]int)
	for _, word := range tokenize(a.Title + " " + a.Summary) {
		if len(word) > 3 && !stopwords[word] {
			freq[word]++
		}
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > max {
		words = words[:max]
	}
	return words
}

// Similarity is the Jaccard index of the two keyword sets:
// |intersection| / |union|. It is symmetric by construction and 0 when
// either set is empty.
func Similarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]bool, len(a))
	for _, w := range a {
		set[w] = true
	}

	intersect := 0
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, w := range b {
		if seen[w] {
			continue
		}
		seen[w] = true
		if set[w] {
			intersect++
		} else {
			union++
		}
	}
	return float64(intersect) / float64(union)
}

// Builder computes clusters against a configured threshold and window.
type Builder struct {
	cfg types.ClusterConfig
}

// NewBuilder returns a Builder for the given configuration.
func NewBuilder(cfg types.ClusterConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Related reports whether candidate covers the same event as primary:
// similarity above the threshold and published within the recency window.
func (b *Builder) Related(primary, candidate types.Article) bool {
	gap := primary.Published.Sub(candidate.Published)
	if gap < 0 {
		gap = -gap
	}
	if gap > b.cfg.RecencyWindow {
		return false
	}
	sim := Similarity(Keywords(primary, b.cfg.MaxKeywords), Keywords(candidate, b.cfg.MaxKeywords))
	return sim > b.cfg.SimilarityThreshold
}

// Build returns the cluster for the primary article: itself plus every
// candidate exceeding the similarity threshold against it (single link).
func (b *Builder) Build(primary types.Article, candidates []types.Article) types.ArticleCluster {
	cluster := types.ArticleCluster{
		PrimaryID: primary.ID,
		Articles:  []types.Article{primary},
	}
	for _, c := range candidates {
		if c.ID == primary.ID {
			continue
		}
		if b.Related(primary, c) {
			cluster.Articles = append(cluster.Articles, c)
		}
	}
	return cluster
}

func tokenize(text string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}
