// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	cluster := testCluster()
	prompt, err := BuildPrompt(cluster, 50)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}

	for _, want := range []string{
		"Source: Wire (declared bias: left, declared credibility: 60/100)",
		"Source: Tribune",
		"Source: Herald",
		"reliabilityScore",
		"unbiasedSummary",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(prompt, "The minister said the budget will pass this week.") {
		t.Error("prompt missing the article's attributed claim")
	}
}

func TestBuildPrompt_CapsExcerpt(t *testing.T) {
	cluster := testCluster()
	cluster.Articles[0].Body = strings.Repeat("a", 5000)
	prompt, err := BuildPrompt(cluster, 100)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if strings.Contains(prompt, strings.Repeat("a", 101)) {
		t.Error("excerpt not capped")
	}
}

func TestClaudeBackend_Complete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		var req claudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "cross-source") {
			t.Error("prompt not forwarded")
		}
		fmt.Fprint(w, `{"content": [{"type": "text", "text": "{\"ok\": true}"}]}`)
	}))
	defer ts.Close()

	orig := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = orig }()

	backend := &ClaudeBackend{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
	text, err := backend.Complete(context.Background(), "You are a cross-source news analysis system.")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != `{"ok": true}` {
		t.Errorf("text = %q", text)
	}
}

func TestClaudeBackend_NonOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	orig := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = orig }()

	backend := &ClaudeBackend{APIKey: "k", Model: "m", Client: ts.Client()}
	if _, err := backend.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}
