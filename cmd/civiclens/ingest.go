// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/civiclens/civiclens/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [source-id]",
	Short: "Fetch civic data sources into the canonical store",
	Long: `Ingest runs one configured source adapter, or all of them with --all.
Every source settles independently: a failing source is reported in the
summary without stopping the others. Running ingest twice against unchanged
sources updates records in place rather than duplicating them.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Bool("all", false, "run every configured source")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) != 1 {
		return fmt.Errorf("provide a source id or --all")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	st, orch, err := openPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if all {
		run := orch.RunAll(ctx)
		printRun(os.Stdout, run)
		if run.Succeeded() == 0 && len(run.Results) > 0 {
			return fmt.Errorf("all %d source(s) failed", len(run.Results))
		}
		return nil
	}

	res, err := orch.RunOne(ctx, args[0])
	if err != nil {
		return err
	}
	printResult(os.Stdout, res)
	if !res.Success {
		return fmt.Errorf("source %s failed: %s", res.SourceID, res.Error)
	}
	return nil
}

func printRun(w io.Writer, run types.IngestionRun) {
	ids := make([]string, 0, len(run.Results))
	for id := range run.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		printResult(w, run.Results[id])
	}
	fmt.Fprintf(w, "\nRun %s settled in %s: %d succeeded, %d failed\n",
		run.ID, run.Duration.Round(time.Millisecond), run.Succeeded(), run.Failed())
}

func printResult(w io.Writer, res types.IngestionResult) {
	if res.Success {
		fmt.Fprintf(w, "  ok   %-20s %s\n", res.SourceID, res.Message)
		return
	}
	fmt.Fprintf(w, "  FAIL %-20s %s\n", res.SourceID, res.Error)
}
