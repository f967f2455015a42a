// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis compares how different sources cover the same event:
// consensus facts, contradictions with attributed evidence, manipulation
// indicators, and an unbiased summary. Semantic judgment is delegated to an
// external text-analysis backend; everything here either prepares its input,
// validates its output, or computes the degraded fallback locally.
package analysis

import (
	"strings"
)

// reportingIndicators mark sentences that attribute a statement to someone.
// Claim extraction is deliberately heuristic, not model-based: it produces
// the raw claim list that accompanies the analyzer request and feeds the
// degraded report.
var reportingIndicators = []string{
	"said", "announced", "confirmed", "according to", "reported",
	"stated", "claimed", "denied", "told", "revealed",
}

const minClaimLength = 20

// ExtractClaims returns the attributable claims in a text: sentences longer
// than 20 characters containing a reporting indicator.
func ExtractClaims(text string) []string {
	var claims []string
	for _, sentence := range splitSentences(text) {
		if len(sentence) <= minClaimLength {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, ind := range reportingIndicators {
			if strings.Contains(lower, ind) {
				claims = append(claims, sentence)
				break
			}
		}
	}
	return claims
}

func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
