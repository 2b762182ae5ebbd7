// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/literature-helper/internal/httputil"
	"github.com/pdiddy/literature-helper/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

var arxivQueries = []string{"TTS", `TTS OR "Text to speech"`}

// submittedLayout renders timestamps the way the date normalizer's
// offset layout reads them back.
const submittedLayout = "2006-01-02 15:04:05-07:00"

// ArxivCrawler pages through the arXiv Atom API, newest submissions first.
// Records are keyed by title; the first occurrence across queries is kept.
type ArxivCrawler struct {
	Client *httputil.Client
}

func (c *ArxivCrawler) Source() types.Source { return types.SourceArxiv }

// FilterField is the abstract: arXiv titles rarely carry the affect terms.
func (c *ArxivCrawler) FilterField() Field { return FieldAbstract }

// Crawl runs every query to exhaustion or until MaxRecords per query.
func (c *ArxivCrawler) Crawl(ctx context.Context, cfg types.CrawlConfig, logger *zap.Logger) ([]types.RawPaper, error) {
	size := pageSize(cfg, 500)
	seen := make(map[string]struct{})
	var papers []types.RawPaper

	for _, q := range queries(cfg, arxivQueries) {
		fetched := 0
		for start := 0; ; start += size {
			feed, err := c.page(ctx, q, start, size)
			if err != nil {
				if len(papers) == 0 {
					return nil, err
				}
				logger.Warn("arxiv page failed, keeping earlier pages",
					zap.String("query", q), zap.Int("start", start), zap.Error(err))
				break
			}

			for _, e := range feed.Entries {
				title := collapseSpace(e.Title)
				if title == "" {
					logger.Debug("skipping entry without title", zap.String("id", e.ID))
					continue
				}
				fetched++
				if _, dup := seen[title]; dup {
					continue
				}
				seen[title] = struct{}{}
				papers = append(papers, e.raw(title))
			}

			logger.Debug("arxiv page", zap.String("query", q), zap.Int("start", start),
				zap.Int("entries", len(feed.Entries)), zap.Int("total", feed.TotalResults))
			if len(feed.Entries) < size || start+size >= feed.TotalResults || capped(cfg, fetched) {
				break
			}
		}
	}
	return papers, nil
}

func (c *ArxivCrawler) page(ctx context.Context, query string, start, size int) (arxivFeed, error) {
	params := url.Values{
		"search_query": {query},
		"start":        {strconv.Itoa(start)},
		"max_results":  {strconv.Itoa(size)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return arxivFeed{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.Client.Do(ctx, req)
	if err != nil {
		return arxivFeed{}, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return arxivFeed{}, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return arxivFeed{}, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return feed, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	TotalResults int          `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	Entries      []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string      `xml:"id"`
	Title     string      `xml:"title"`
	Summary   string      `xml:"summary"`
	Published string      `xml:"published"`
	DOI       string      `xml:"http://arxiv.org/schemas/atom doi"`
	Links     []arxivLink `xml:"link"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

func (e arxivEntry) raw(title string) types.RawPaper {
	p := types.RawPaper{
		Title:     title,
		Summary:   strings.TrimSpace(e.Summary),
		DOI:       strings.TrimSpace(e.DOI),
		ArxivID:   extractArxivID(e.ID),
		Submitted: e.Published,
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		p.Submitted = t.Format(submittedLayout)
	}
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			p.PDF = l.Href
			break
		}
	}
	return p
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
