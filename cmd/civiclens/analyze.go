// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/civiclens/civiclens/internal/cluster"
	"github.com/civiclens/civiclens/internal/score"
	"github.com/civiclens/civiclens/internal/store"
	"github.com/civiclens/civiclens/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <article-id>",
	Short: "Compare coverage of a stored article across sources",
	Long: `Analyze clusters the given article with related coverage from other
sources, asks the AI backend for a cross-source comparison, and scores the
cluster's credibility and public interest. Without a usable backend the
report is produced locally and marked degraded.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("article id must be a positive integer, got %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	st, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening store %s: %w", cfg.Store.Path, err)
	}
	defer st.Close()

	ctx := cmd.Context()
	primary, err := st.ArticleByID(ctx, id)
	if err != nil {
		return fmt.Errorf("article %d: %w", id, err)
	}

	candidates, err := st.Articles(ctx, store.ArticleQuery{
		Since: primary.Published.Add(-cfg.Cluster.RecencyWindow),
	})
	if err != nil {
		return fmt.Errorf("loading candidate articles: %w", err)
	}

	clustered := cluster.NewBuilder(cfg.Cluster).Build(primary, candidates)
	report, err := newAnalyzer(cfg, log).Analyze(ctx, clustered)
	if err != nil {
		return err
	}

	out := struct {
		Report         types.ComparisonReport      `json:"report"`
		Credibility    types.CredibilityAssessment `json:"credibility"`
		PublicInterest types.PublicInterest        `json:"publicInterest"`
	}{
		Report:         report,
		Credibility:    score.Assess(clustered, report),
		PublicInterest: score.Interest(clustered, report),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
