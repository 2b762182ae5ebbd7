// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/literature-helper/internal/catalog"
	"github.com/pdiddy/literature-helper/internal/merge"
	"github.com/pdiddy/literature-helper/internal/progress"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Export accepted papers from the merged set",
	Long: `Match reads the accepted ids from the progress file, removes ids that
differ only in case, and writes them to removed_duplicates.json. It then
looks each id up in the merged set and writes the papers, oldest first, to
matched_papers.json. If any accepted id has no paper, the ids are listed
and matched_papers.json is not written.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().String("output-dir", ".", "directory for removed_duplicates.json and matched_papers.json")
	bindFlag("match.output_dir", matchCmd.Flags().Lookup("output-dir"))

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := reviewConfig()
	dir := viper.GetString("match.output_dir")

	p, err := progress.NewStore(cfg.ProgressPath).Load()
	if err != nil {
		return err
	}
	ids := catalog.UniqueIDs(p.Added)
	fmt.Fprintf(os.Stdout, "Before %d\nAfter %d\n", len(p.Added), len(ids))

	if err := writeIDs(filepath.Join(dir, "removed_duplicates.json"), ids); err != nil {
		return err
	}

	matched, missing, err := reviewService(cfg).Accepted(cmd.Context())
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%d accepted paper(s) unmatched: %s", len(missing), strings.Join(missing, "; "))
	}

	for i := range matched {
		matched[i].ID = ""
	}
	out := filepath.Join(dir, "matched_papers.json")
	if err := merge.WriteFile(out, matched); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %d matched papers to %s\n", len(matched), out)
	return nil
}

func writeIDs(path string, ids []string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(ids); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
