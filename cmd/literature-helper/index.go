// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/literature-helper/internal/catalog"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or search a full-text index of the merged set",
	Long: `Index keeps a SQLite copy of the merged paper set with FTS5 search over
titles and abstracts, so a reviewer can look up related work while triaging.
The index is rebuilt from the papers file and never changes progress.`,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the index from the papers file",
	RunE:  runIndexBuild,
}

var indexSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search titles and abstracts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIndexSearch,
}

func init() {
	pf := indexCmd.PersistentFlags()
	pf.String("db", "index/papers.db", "index database path")
	pf.Int("limit", 20, "maximum search results")
	bindFlag("index.path", pf.Lookup("db"))
	bindFlag("index.max_results", pf.Lookup("limit"))

	indexSearchCmd.Flags().Bool("json", false, "output as JSON")
	bindFlag("index.json", indexSearchCmd.Flags().Lookup("json"))

	indexCmd.AddCommand(indexBuildCmd, indexSearchCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	cfg := reviewConfig()
	papers, report, err := catalog.Load(cfg.PapersPath, catalog.Options{NormalizeTitles: cfg.NormalizeTitles}, os.Stderr)
	if err != nil {
		return err
	}

	idx, err := catalog.OpenIndex(indexConfig())
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := idx.Replace(cmd.Context(), papers); err != nil {
		return err
	}
	if !idx.FullText() {
		fmt.Fprintln(os.Stderr, "warning: SQLite built without FTS5, search falls back to substring matching")
	}
	fmt.Fprintf(os.Stdout, "Indexed %d papers (%d records, %d malformed, %d collapsed)\n",
		len(papers), report.Records, report.Malformed, report.Collapsed)
	return nil
}

func runIndexSearch(cmd *cobra.Command, args []string) error {
	idx, err := catalog.OpenIndex(indexConfig())
	if err != nil {
		return err
	}
	defer idx.Close()

	results, err := idx.Search(cmd.Context(), strings.Join(args, " "), 0)
	if err != nil {
		return err
	}

	if viper.GetBool("index.json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, p := range results {
		fmt.Fprintf(os.Stdout, "%3d. %s  [%s, %s]\n", i+1, p.ID, p.Source, p.Submitted)
	}
	return nil
}
