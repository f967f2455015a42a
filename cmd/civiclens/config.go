// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/civiclens/civiclens/internal/analysis"
	"github.com/civiclens/civiclens/internal/ingest"
	"github.com/civiclens/civiclens/internal/sources"
	"github.com/civiclens/civiclens/internal/store"
	"github.com/civiclens/civiclens/pkg/types"
)

// loadConfig unmarshals the viper state into a Config, applies defaults, and
// resolves the AI key from .secrets/ when the config leaves it empty.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("parsing configuration: %w", err)
	}
	cfg = cfg.WithDefaults()
	cfg.Analysis.APIKey = secretDefault("anthropic-api-key", cfg.Analysis.APIKey)

	// Sources may live in a separate registry file instead of the main config.
	if len(cfg.Sources) == 0 {
		path := viper.GetString("sources_file")
		if path == "" {
			path = "sources.yaml"
		}
		if _, err := os.Stat(path); err == nil {
			srcs, err := sources.ReadSourceFile(path)
			if err != nil {
				return types.Config{}, err
			}
			cfg.Sources = srcs
		}
	}
	return cfg, nil
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// openPipeline builds the store and orchestrator shared by the ingest,
// serve, and status commands. Callers own closing the store.
func openPipeline(cfg types.Config, log zerolog.Logger) (*store.Store, *ingest.Orchestrator, error) {
	st, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store %s: %w", cfg.Store.Path, err)
	}

	reg, err := sources.NewRegistry(cfg.Sources, cfg.Ingest.HTTPConfig)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("building source registry: %w", err)
	}

	return st, ingest.New(reg, st, cfg.Ingest, log), nil
}

// newAnalyzer wires the Claude backend when a key is configured; without one
// the analyzer runs on the local fallback only.
func newAnalyzer(cfg types.Config, log zerolog.Logger) *analysis.Analyzer {
	var backend analysis.Backend
	if cfg.Analysis.APIKey != "" {
		backend = analysis.NewClaudeBackend(cfg.Analysis)
	}
	return analysis.NewAnalyzer(cfg.Analysis, backend, log)
}
