// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the civiclens CLI: ingestion of civic
// data sources, the HTTP trigger surface, and on-demand cross-source news
// analysis.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/civiclens/civiclens/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the civiclens CLI.
var rootCmd = &cobra.Command{
	Use:   "civiclens",
	Short: "Civic data ingestion and cross-source news analysis",
	Long: `civiclens pulls records from public civic data sources (parliament
registries, procurement portals, lobbying registers, legal gazettes,
election authorities, news feeds) into one canonical store, and compares
how different outlets cover the same event.

Ingestion is a subcommand or an HTTP trigger; analysis runs per stored
article and always produces a report, degrading to a local summary when
the AI backend is unavailable.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./civiclens.yaml or ~/.config/civiclens/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("civiclens")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "civiclens"))
		}
	}

	viper.SetEnvPrefix("CIVICLENS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
