// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/literature-helper/internal/httputil"
	"github.com/pdiddy/literature-helper/pkg/types"
)

// pwcAPIBase is the Papers with Code API root. Declared as a var so tests
// can substitute an httptest server.
var pwcAPIBase = "https://paperswithcode.com/api/v1"

// pwcTasks are the task slugs whose paper lists are crawled.
var pwcTasks = []string{
	"emotional-speech-synthesis",
	"expressive-speech-synthesis",
	"speech-synthesis",
	"text-to-speech-synthesis",
}

// PapersWithCodeCrawler lists the papers attached to each speech synthesis
// task. Configured queries replace the task slugs. A paper listed under
// several tasks appears once, with the data from the last task.
type PapersWithCodeCrawler struct {
	Client *httputil.Client
}

func (c *PapersWithCodeCrawler) Source() types.Source { return types.SourcePapersWithCode }

func (c *PapersWithCodeCrawler) FilterField() Field { return FieldAbstract }

func (c *PapersWithCodeCrawler) Crawl(ctx context.Context, cfg types.CrawlConfig, logger *zap.Logger) ([]types.RawPaper, error) {
	size := pageSize(cfg, 50)
	index := make(map[string]int)
	var papers []types.RawPaper
	failed := 0

	tasks := queries(cfg, pwcTasks)
	for _, task := range tasks {
		fetched := 0
		for page := 1; ; page++ {
			resp, err := c.page(ctx, task, page, size)
			if err != nil {
				logger.Warn("papers with code page failed",
					zap.String("task", task), zap.Int("page", page), zap.Error(err))
				if page == 1 {
					failed++
				}
				break
			}

			for _, pp := range resp.Results {
				fetched++
				if pp.ID == "" || strings.TrimSpace(pp.Title) == "" {
					continue
				}
				if i, ok := index[pp.ID]; ok {
					papers[i] = pp.raw()
					continue
				}
				index[pp.ID] = len(papers)
				papers = append(papers, pp.raw())
			}

			if resp.Next == nil || *resp.Next == "" || len(resp.Results) == 0 || capped(cfg, fetched) {
				break
			}
		}
		logger.Debug("papers with code task done", zap.String("task", task), zap.Int("fetched", fetched))
	}

	if failed == len(tasks) {
		return nil, fmt.Errorf("every Papers with Code task failed")
	}
	return papers, nil
}

func (c *PapersWithCodeCrawler) page(ctx context.Context, task string, page, size int) (pwcPage, error) {
	params := url.Values{
		"page":           {strconv.Itoa(page)},
		"items_per_page": {strconv.Itoa(size)},
	}
	u := fmt.Sprintf("%s/tasks/%s/papers/?%s", pwcAPIBase, url.PathEscape(task), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return pwcPage{}, fmt.Errorf("creating request: %w", err)
	}

	var resp pwcPage
	if err := getJSON(ctx, c.Client, req, &resp); err != nil {
		return pwcPage{}, fmt.Errorf("Papers with Code API request: %w", err)
	}
	return resp, nil
}

// Papers with Code API JSON structures.
type pwcPage struct {
	Count   int        `json:"count"`
	Next    *string    `json:"next"`
	Results []pwcPaper `json:"results"`
}

type pwcPaper struct {
	ID        string `json:"id"`
	ArxivID   string `json:"arxiv_id"`
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	URLPDF    string `json:"url_pdf"`
	Published string `json:"published"`
}

func (pp pwcPaper) raw() types.RawPaper {
	return types.RawPaper{
		Title:     collapseSpace(pp.Title),
		Summary:   strings.TrimSpace(pp.Abstract),
		PDF:       pp.URLPDF,
		ArxivID:   pp.ArxivID,
		Submitted: pp.Published,
	}
}
