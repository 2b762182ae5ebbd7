// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show or edit review progress",
	Long: `Progress reads and appends to the review progress file the API writes.
Without a subcommand it prints the file contents.`,
	RunE: runProgressShow,
}

var progressAddCmd = &cobra.Command{
	Use:   "add [ids...]",
	Short: "Mark papers as accepted",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := reviewService(reviewConfig())
		for _, id := range args {
			if err := svc.Add(cmd.Context(), id); err != nil {
				return err
			}
		}
		fmt.Fprintf(os.Stdout, "Accepted %d paper(s)\n", len(args))
		return nil
	},
}

var progressDeleteCmd = &cobra.Command{
	Use:   "delete [ids...]",
	Short: "Mark papers as rejected",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := reviewService(reviewConfig())
		for _, id := range args {
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
		}
		fmt.Fprintf(os.Stdout, "Rejected %d paper(s)\n", len(args))
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "List papers not yet accepted or rejected",
	RunE:  runDiff,
}

func init() {
	diffCmd.Flags().Bool("json", false, "output as JSON")
	bindFlag("diff.json", diffCmd.Flags().Lookup("json"))

	progressCmd.AddCommand(progressAddCmd, progressDeleteCmd)
	rootCmd.AddCommand(progressCmd, diffCmd)
}

func runProgressShow(cmd *cobra.Command, args []string) error {
	p, err := reviewService(reviewConfig()).Progress(cmd.Context())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "    ")
	return enc.Encode(p)
}

func runDiff(cmd *cobra.Command, args []string) error {
	papers, err := reviewService(reviewConfig()).Diff(cmd.Context())
	if err != nil {
		return err
	}

	if viper.GetBool("diff.json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	if len(papers) == 0 {
		fmt.Println("Nothing left to review.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-10s  %-16s  %s\n", "Submitted", "Source", "ID")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, p := range papers {
		fmt.Fprintf(os.Stdout, "%-10s  %-16s  %s\n", p.Submitted, p.Source, p.ID)
	}
	fmt.Fprintf(os.Stdout, "\n%d paper(s) untriaged\n", len(papers))
	return nil
}
