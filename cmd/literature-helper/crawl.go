// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/literature-helper/internal/crawl"
	"github.com/pdiddy/literature-helper/internal/keywords"
	"github.com/pdiddy/literature-helper/pkg/types"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl [sources...]",
	Short: "Crawl paper sources and write keyword-filtered batch files",
	Long: `Crawl queries each named source (default: all of acm, ieee, interspeech,
arxiv, semanticscholar, paperswithcode) and writes two files per source to
the output directory: <source>_results.json with every record and
<source>_filtered_results.json with the records matching the keyword list.
A crawl_manifest.yaml beside them records the settings and counts.

A failing source is reported and the remaining sources still run.`,
	RunE: runCrawl,
}

func init() {
	f := crawlCmd.Flags()
	f.String("output-dir", "data", "directory for batch files")
	f.StringSlice("query", nil, "override the source's default search queries")
	f.Int("page-size", 0, "records per API page (default per source)")
	f.Int("max-records", 0, "cap on records fetched per query (0 = no cap)")
	f.Duration("delay", defaultDelay, "minimum spacing between requests")
	f.Duration("timeout", defaultTimeout, "HTTP request timeout")

	bindFlag("crawl.output_dir", f.Lookup("output-dir"))
	bindFlag("crawl.queries", f.Lookup("query"))
	bindFlag("crawl.page_size", f.Lookup("page-size"))
	bindFlag("crawl.max_records", f.Lookup("max-records"))
	bindFlag("crawl.request_delay", f.Lookup("delay"))
	bindFlag("crawl.timeout", f.Lookup("timeout"))

	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	sources := types.Sources
	if len(args) > 0 {
		sources = nil
		for _, a := range args {
			s, err := types.ParseSource(a)
			if err != nil {
				return err
			}
			sources = append(sources, s)
		}
	}

	cfg := crawlConfig()
	matcher, err := keywordMatcher(cfg.Keywords)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := crawl.NewClient(cfg)
	manifest := crawl.NewManifest(cfg)
	failed := 0
	for _, src := range sources {
		c, err := crawl.New(src, client, cfg)
		if err != nil {
			return err
		}
		res, err := crawl.Run(ctx, c, cfg, matcher, logger)
		if err != nil {
			logger.Error("crawl failed", zap.String("source", string(src)), zap.Error(err))
			manifest.Fail(src, err)
			failed++
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		manifest.Record(res)
		fmt.Fprintf(os.Stdout, "%-16s %5d found, %5d filtered -> %s\n", src, res.Total, res.Filtered, res.FilteredPath)
	}

	if err := crawl.WriteManifest(cfg.OutputDir, manifest); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d source(s) failed", failed)
	}
	return nil
}

func keywordMatcher(list []string) (*keywords.Matcher, error) {
	if len(list) == 0 {
		list = keywords.Default
	}
	return keywords.New(list)
}
