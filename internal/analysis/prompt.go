// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/civiclens/civiclens/pkg/types"
)

// comparisonPromptTmpl is the prompt sent to the analysis API for one
// article cluster. It instructs the model to compare coverage across sources
// and respond with a fixed JSON schema only.
var comparisonPromptTmpl = template.Must(template.New("comparison").Parse(`You are a cross-source news analysis system. The following {{len .Articles}} articles cover the same event. Compare how each source reports it.

{{range .Articles}}---
Source: {{.Source}} (declared bias: {{.Bias}}, declared credibility: {{.Credibility}}/100)
Title: {{.Title}}
Excerpt: {{.Excerpt}}
{{- if .Claims}}
Attributed claims:
{{- range .Claims}}
- {{.}}
{{- end}}
{{- end}}
{{end}}---

Respond with a JSON object with exactly these keys:
- "sourceComparison": array of {"source", "stance", "keyClaims" (array of strings), "notes"} — one per source
- "consensusFacts": array of facts every source agrees on, most important first
- "contradictions": array of {"fact", "sources": [{"source", "claim", "evidence"}]} — facts the sources disagree on, with each side's claim and the quoted evidence
- "mediaManipulation": {"detected" (boolean), "techniques" (array of strings), "explanation"}
- "unbiasedSummary": a neutral summary of what happened, free of any source's framing
- "reliabilityScore": integer 0-100 for how reliably this event is covered overall
- "recommendations": array of suggestions for a reader seeking the full picture

Do not include any text outside the JSON object.
`))

// promptArticle is the per-article context rendered into the prompt.
type promptArticle struct {
	Source      string
	Bias        types.Bias
	Credibility int
	Title       string
	Excerpt     string
	Claims      []string
}

// BuildPrompt renders the comparison prompt for a cluster. Body excerpts are
// capped at excerptLimit bytes so large articles cannot blow the request.
func BuildPrompt(cluster types.ArticleCluster, excerptLimit int) (string, error) {
	arts := make([]promptArticle, 0, len(cluster.Articles))
	for _, a := range cluster.Articles {
		excerpt := a.Body
		if excerpt == "" {
			excerpt = a.Summary
		}
		if excerptLimit > 0 && len(excerpt) > excerptLimit {
			excerpt = excerpt[:excerptLimit]
		}
		bias := a.Bias
		if bias == "" {
			bias = types.BiasCenter
		}
		arts = append(arts, promptArticle{
			Source:      a.SourceName,
			Bias:        bias,
			Credibility: a.Credibility,
			Title:       a.Title,
			Excerpt:     strings.TrimSpace(excerpt),
			Claims:      ExtractClaims(a.Body),
		})
	}

	var buf bytes.Buffer
	if err := comparisonPromptTmpl.Execute(&buf, struct{ Articles []promptArticle }{arts}); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// Backend issues one text-analysis request and returns the raw model text.
// Implementations must be safe for concurrent use; tests supply a stub.
type Backend interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude Messages API.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// NewClaudeBackend builds a backend from the analysis configuration, with
// its own HTTP client bounded by the request timeout.
func NewClaudeBackend(cfg types.AnalysisConfig) *ClaudeBackend {
	return &ClaudeBackend{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		Client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Name returns the backend identifier.
func (c *ClaudeBackend) Name() string { return "claude" }

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends the prompt and returns the text content of the response.
func (c *ClaudeBackend) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := claudeRequest{
		Model:     c.Model,
		MaxTokens: 4096,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var text strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no text content in Claude API response")
	}
	return text.String(), nil
}
