// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdiddy/literature-helper/internal/httputil"
	"github.com/pdiddy/literature-helper/pkg/types"
)

// acmBase is the ACM Digital Library root. Declared as a var so tests can
// substitute an httptest server.
var acmBase = "https://dl.acm.org"

var acmQueries = []string{"(tts AND prosod*) OR (TTS AND emot*) OR (TTS AND style*)"}

var acmContentTypes = []string{"research-article", "short-paper"}

const (
	acmPageSize = 50
	// acmMaxHits is the deepest result the search UI will page to.
	acmMaxHits = 2000
)

// ACMCrawler scrapes the ACM DL advanced search for research articles and
// short papers published after 2016, then reads each paper's landing page.
type ACMCrawler struct {
	Client *httputil.Client
}

func (c *ACMCrawler) Source() types.Source { return types.SourceACM }

func (c *ACMCrawler) FilterField() Field { return FieldTitle }

func (c *ACMCrawler) Crawl(ctx context.Context, cfg types.CrawlConfig, logger *zap.Logger) ([]types.RawPaper, error) {
	var papers []types.RawPaper
	seen := make(map[string]struct{})
	searched := 0

	for _, q := range queries(cfg, acmQueries) {
		for _, ct := range acmContentTypes {
			dois, err := c.search(ctx, q, ct, cfg, logger)
			if err != nil {
				logger.Warn("acm search failed", zap.String("content_type", ct), zap.Error(err))
				continue
			}
			searched++

			for _, doi := range dois {
				if _, dup := seen[doi]; dup {
					continue
				}
				seen[doi] = struct{}{}

				p, err := c.paper(ctx, doi)
				if err != nil {
					logger.Warn("skipping acm paper", zap.String("doi", doi), zap.Error(err))
					continue
				}
				papers = append(papers, p)
			}
		}
	}

	if searched == 0 {
		return nil, fmt.Errorf("every ACM search failed")
	}
	return papers, nil
}

func acmSearchURL(query, contentType string, page int) string {
	params := url.Values{
		"fillQuickSearch": {"false"},
		"target":          {"advanced"},
		"expand":          {"dl"},
		"AfterMonth":      {"1"},
		"AfterYear":       {"2016"},
		"field1":          {"AllField"},
		"text1":           {query},
		"ContentItemType": {contentType},
		"startPage":       {strconv.Itoa(page)},
		"pageSize":        {strconv.Itoa(acmPageSize)},
	}
	return acmBase + "/action/doSearch?" + params.Encode()
}

// search collects DOIs from every result page of one content type.
func (c *ACMCrawler) search(ctx context.Context, query, contentType string, cfg types.CrawlConfig, logger *zap.Logger) ([]string, error) {
	doc, err := fetchDocument(ctx, c.Client, acmSearchURL(query, contentType, 0))
	if err != nil {
		return nil, err
	}

	hits, err := strconv.Atoi(strings.ReplaceAll(text(doc.Selection, ".hitsLength"), ",", ""))
	if err != nil {
		return nil, fmt.Errorf("reading hit count: %w", err)
	}
	if hits > acmMaxHits {
		logger.Warn("too many acm hits, truncating", zap.Int("hits", hits), zap.Int("kept", acmMaxHits))
		hits = acmMaxHits
	}
	if cfg.MaxRecords > 0 && hits > cfg.MaxRecords {
		hits = cfg.MaxRecords
	}
	logger.Info("acm search", zap.String("content_type", contentType), zap.Int("hits", hits))

	pages := (hits + acmPageSize - 1) / acmPageSize
	var dois []string
	for page := 0; page < pages; page++ {
		if page > 0 {
			doc, err = fetchDocument(ctx, c.Client, acmSearchURL(query, contentType, page))
			if err != nil {
				logger.Warn("skipping acm result page", zap.Int("page", page), zap.Error(err))
				continue
			}
		}
		doc.Find("a.issue-item__doi").Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok {
				dois = append(dois, strings.TrimPrefix(strings.TrimSpace(href), "https://doi.org/"))
			}
		})
	}
	if len(dois) > hits {
		dois = dois[:hits]
	}
	return dois, nil
}

func (c *ACMCrawler) paper(ctx context.Context, doi string) (types.RawPaper, error) {
	doc, err := fetchDocument(ctx, c.Client, acmBase+"/doi/"+doi)
	if err != nil {
		return types.RawPaper{}, err
	}

	p := types.RawPaper{
		Title:     text(doc.Selection, `h1[property="name"]`),
		Summary:   text(doc.Selection, `div[role="paragraph"]`),
		Submitted: text(doc.Selection, "span.core-date-published"),
		DOI:       doi,
	}
	if content, ok := doc.Find(`meta[name="publication_doi"]`).Attr("content"); ok && content != "" {
		p.DOI = content
	}
	if p.Title == "" {
		return types.RawPaper{}, fmt.Errorf("no title on page")
	}
	return p, nil
}
