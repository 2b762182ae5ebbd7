// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/literature-helper/internal/merge"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge filtered batch files into one canonical paper set",
	Long: `Merge finds every *filtered*.json file under the input directory, takes
the source from the file name prefix, normalizes dates, drops records
before the cutoff year, collapses identical titles, and writes the
canonical set. Per-source counts are printed; --report also writes them as
YAML.`,
	RunE: runMerge,
}

func init() {
	f := mergeCmd.Flags()
	f.String("input-dir", "data", "directory searched recursively for batch files")
	f.String("output", "filter/filtered_papers.json", "canonical set to write")
	f.Int("cutoff", 2017, "drop records submitted before this year")
	f.String("report", "", "write the merge report as YAML to this path")

	bindFlag("merge.input_dir", f.Lookup("input-dir"))
	bindFlag("merge.output_path", f.Lookup("output"))
	bindFlag("merge.cutoff_year", f.Lookup("cutoff"))
	bindFlag("merge.report_path", f.Lookup("report"))

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg := mergeConfig()
	report, err := merge.Run(cfg, os.Stdout)
	if err != nil {
		return err
	}

	if path := viper.GetString("merge.report_path"); path != "" {
		if err := merge.WriteReport(path, report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Report written to %s\n", path)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d papers to %s\n", report.Total, cfg.OutputPath)
	return nil
}
