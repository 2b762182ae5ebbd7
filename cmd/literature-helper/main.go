// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the literature-helper CLI: crawl
// paper sources, merge the batches into one canonical set, and serve the
// triage API over it.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/literature-helper/internal/logging"
	"github.com/pdiddy/literature-helper/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds credentials from .secrets/ and .env.
	loadedSecrets secrets.Secrets

	// logger is built from the log.* settings before any subcommand runs.
	logger = zap.NewNop()
)

// rootCmd is the base command for the literature-helper CLI.
var rootCmd = &cobra.Command{
	Use:   "literature-helper",
	Short: "Collect, merge, and triage TTS research papers",
	Long: `literature-helper gathers candidate papers on expressive text-to-speech
from ACM, IEEE, ISCA/Interspeech, arXiv, Semantic Scholar and Papers with
Code, merges them into one de-duplicated set, and serves a small HTTP API a
reviewer uses to accept or reject each paper.

Typical flow: crawl, then merge, then serve. Decisions are stored in a JSON
progress file; match exports the accepted papers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.LoadAll(viper.GetString("secrets_dir"), viper.GetString("env_file"), os.Stderr)
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

		l, err := logging.New(logConfig())
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./literature-helper.yaml or ~/.config/literature-helper/literature-helper.yaml)")
	pf.String("secrets-dir", ".secrets", "directory of credential files")
	pf.String("env-file", ".env", "dotenv file with credentials")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "also write JSON logs to this file, rotated by size")
	pf.Bool("log-json", false, "log JSON to the console")
	pf.String("papers", "filter/filtered_papers.json", "merged canonical paper set")
	pf.String("progress", "progress.json", "review progress file")
	pf.Bool("normalize-titles", false, "trim, collapse whitespace in, and casefold titles before deriving ids")

	bindFlag("secrets_dir", pf.Lookup("secrets-dir"))
	bindFlag("env_file", pf.Lookup("env-file"))
	bindFlag("log.level", pf.Lookup("log-level"))
	bindFlag("log.file", pf.Lookup("log-file"))
	bindFlag("log.json", pf.Lookup("log-json"))
	bindFlag("review.papers_path", pf.Lookup("papers"))
	bindFlag("review.progress_path", pf.Lookup("progress"))
	bindFlag("review.normalize_titles", pf.Lookup("normalize-titles"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("literature-helper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "literature-helper"))
		}
	}

	viper.SetEnvPrefix("LITERATURE_HELPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
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
