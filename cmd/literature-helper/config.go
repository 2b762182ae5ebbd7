// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/literature-helper/internal/catalog"
	"github.com/pdiddy/literature-helper/internal/logging"
	"github.com/pdiddy/literature-helper/internal/progress"
	"github.com/pdiddy/literature-helper/internal/review"
	"github.com/pdiddy/literature-helper/pkg/types"
)

// bindFlag ties a flag to a config key so the value resolves as
// flag > LITERATURE_HELPER_* env > config file > flag default.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func logConfig() types.LogConfig {
	return types.LogConfig{
		Level: viper.GetString("log.level"),
		File:  viper.GetString("log.file"),
		JSON:  viper.GetBool("log.json"),
	}
}

func crawlConfig() types.CrawlConfig {
	cfg := types.CrawlConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("crawl.timeout"),
			UserAgent: viper.GetString("crawl.user_agent"),
		},
		OutputDir:             viper.GetString("crawl.output_dir"),
		Queries:               viper.GetStringSlice("crawl.queries"),
		PageSize:              viper.GetInt("crawl.page_size"),
		MaxRecords:            viper.GetInt("crawl.max_records"),
		RequestDelay:          viper.GetDuration("crawl.request_delay"),
		SemanticScholarAPIKey: viper.GetString("crawl.semantic_scholar_api_key"),
		Keywords:              viper.GetStringSlice("crawl.keywords"),
	}
	if cfg.SemanticScholarAPIKey == "" {
		cfg.SemanticScholarAPIKey = loadedSecrets.Get("semantic-scholar-api-key")
	}
	if email := loadedSecrets.Get("crawler-contact-email"); email != "" && cfg.UserAgent == "" {
		cfg.UserAgent = "literature-helper/" + version + " (mailto:" + email + ")"
	}
	return cfg
}

func mergeConfig() types.MergeConfig {
	return types.MergeConfig{
		InputDir:   viper.GetString("merge.input_dir"),
		OutputPath: viper.GetString("merge.output_path"),
		CutoffYear: viper.GetInt("merge.cutoff_year"),
	}
}

func reviewConfig() types.ReviewConfig {
	return types.ReviewConfig{
		PapersPath:      viper.GetString("review.papers_path"),
		ProgressPath:    viper.GetString("review.progress_path"),
		NormalizeTitles: viper.GetBool("review.normalize_titles"),
	}
}

func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		Path:       viper.GetString("index.path"),
		MaxResults: viper.GetInt("index.max_results"),
	}
}

// reviewService wires the progress store and the diff service from config.
func reviewService(cfg types.ReviewConfig) *review.Service {
	store := progress.NewStore(cfg.ProgressPath)
	return review.NewService(cfg.PapersPath, store, catalog.Options{NormalizeTitles: cfg.NormalizeTitles}, logging.Writer{Logger: logger})
}
