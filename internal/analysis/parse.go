// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/civiclens/civiclens/pkg/types"
)

// reportWire is the fixed response schema expected from the backend.
type reportWire struct {
	SourceComparison []struct {
		Source    string   `json:"source"`
		Stance    string   `json:"stance"`
		KeyClaims []string `json:"keyClaims"`
		Notes     string   `json:"notes"`
	} `json:"sourceComparison"`
	ConsensusFacts []string `json:"consensusFacts"`
	Contradictions []struct {
		Fact    string `json:"fact"`
		Sources []struct {
			Source   string `json:"source"`
			Claim    string `json:"claim"`
			Evidence string `json:"evidence"`
		} `json:"sources"`
	} `json:"contradictions"`
	MediaManipulation struct {
		Detected    bool     `json:"detected"`
		Techniques  []string `json:"techniques"`
		Explanation string   `json:"explanation"`
	} `json:"mediaManipulation"`
	UnbiasedSummary  string   `json:"unbiasedSummary"`
	ReliabilityScore *float64 `json:"reliabilityScore"`
	Recommendations  []string `json:"recommendations"`
}

// requiredKeys must be present in the response object for it to be usable.
var requiredKeys = []string{"consensusFacts", "unbiasedSummary", "reliabilityScore"}

// ParseReport parses and validates a backend response, repairing the common
// failure of the model wrapping JSON in a code fence or prose. A missing
// required key or unparseable payload is an error; the caller decides
// whether to retry or degrade.
func ParseReport(raw string) (types.ComparisonReport, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return types.ComparisonReport{}, fmt.Errorf("no JSON object in response")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return types.ComparisonReport{}, fmt.Errorf("parsing response JSON: %w", err)
	}
	for _, key := range requiredKeys {
		if _, ok := probe[key]; !ok {
			return types.ComparisonReport{}, fmt.Errorf("response missing required key %q", key)
		}
	}

	var wire reportWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return types.ComparisonReport{}, fmt.Errorf("decoding response schema: %w", err)
	}
	if wire.ReliabilityScore == nil {
		return types.ComparisonReport{}, fmt.Errorf("reliabilityScore is null")
	}

	report := types.ComparisonReport{
		ConsensusFacts:   wire.ConsensusFacts,
		UnbiasedSummary:  strings.TrimSpace(wire.UnbiasedSummary),
		ReliabilityScore: clampScore(*wire.ReliabilityScore),
		Recommendations:  wire.Recommendations,
	}
	if report.ConsensusFacts == nil {
		report.ConsensusFacts = []string{}
	}

	for _, sc := range wire.SourceComparison {
		report.SourceComparison = append(report.SourceComparison, types.SourceComparison{
			Source:    sc.Source,
			Stance:    sc.Stance,
			KeyClaims: sc.KeyClaims,
			Notes:     sc.Notes,
		})
	}

	report.Contradictions = []types.Contradiction{}
	for _, c := range wire.Contradictions {
		if c.Fact == "" {
			continue
		}
		contradiction := types.Contradiction{Fact: c.Fact}
		for _, s := range c.Sources {
			contradiction.Claims = append(contradiction.Claims, types.AttributedClaim{
				Source:   s.Source,
				Claim:    s.Claim,
				Evidence: s.Evidence,
			})
		}
		report.Contradictions = append(report.Contradictions, contradiction)
	}

	report.MediaManipulation = types.MediaManipulation{
		Detected:    wire.MediaManipulation.Detected,
		Techniques:  wire.MediaManipulation.Techniques,
		Explanation: wire.MediaManipulation.Explanation,
	}

	return report, nil
}

// extractJSON strips code fences and surrounding prose, returning the
// outermost {...} span.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func clampScore(f float64) int {
	n := int(math.Round(f))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
