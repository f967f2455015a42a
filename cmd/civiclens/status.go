// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/civiclens/civiclens/internal/store"
	"github.com/civiclens/civiclens/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show record counts in the canonical store",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening store %s: %w", cfg.Store.Path, err)
	}
	defer st.Close()

	counts, err := st.CountsByKind(cmd.Context())
	if err != nil {
		return fmt.Errorf("counting records: %w", err)
	}

	total := 0
	for _, kind := range types.Kinds {
		fmt.Fprintf(os.Stdout, "%-22s %d\n", kind, counts[kind])
		total += counts[kind]
	}
	fmt.Fprintf(os.Stdout, "%-22s %d\n", "total", total)
	return nil
}
