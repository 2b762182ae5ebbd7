// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/literature-helper/internal/httputil"
	"github.com/pdiddy/literature-helper/pkg/types"
)

// ieeeBase is the IEEE Xplore root. Declared as a var so tests can
// substitute an httptest server.
var ieeeBase = "https://ieeexplore.ieee.org"

var ieeeQueries = []string{
	`("All Metadata":tts) AND ("All Metadata":prosod*) OR ("All Metadata":tts) AND ("All Metadata":emot*) OR ("All Metadata":tts) AND ("All Metadata":style)`,
}

// IEEECrawler lists matching documents through the Xplore search endpoint
// and scrapes each document page. The submitted field keeps the page's
// "Date of Conference: ..." or "Date of Publication: ..." text so the IEEE
// date rules apply during merge.
type IEEECrawler struct {
	Client *httputil.Client
}

func (c *IEEECrawler) Source() types.Source { return types.SourceIEEE }

func (c *IEEECrawler) FilterField() Field { return FieldTitle }

func (c *IEEECrawler) Crawl(ctx context.Context, cfg types.CrawlConfig, logger *zap.Logger) ([]types.RawPaper, error) {
	size := pageSize(cfg, 100)
	seen := make(map[string]struct{})
	var papers []types.RawPaper

	for _, q := range queries(cfg, ieeeQueries) {
		first, err := c.search(ctx, q, 1, size)
		if err != nil {
			if len(papers) == 0 {
				return nil, err
			}
			logger.Warn("ieee search failed", zap.Error(err))
			continue
		}

		total := first.TotalRecords
		if cfg.MaxRecords > 0 && total > cfg.MaxRecords {
			total = cfg.MaxRecords
		}
		pages := (total + size - 1) / size
		logger.Info("ieee search", zap.Int("hits", first.TotalRecords), zap.Int("pages", pages))

		links := first.links()
		for page := 2; page <= pages; page++ {
			resp, err := c.search(ctx, q, page, size)
			if err != nil {
				logger.Warn("skipping ieee result page", zap.Int("page", page), zap.Error(err))
				continue
			}
			links = append(links, resp.links()...)
		}
		if len(links) > total {
			links = links[:total]
		}

		for _, link := range links {
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}

			p, err := c.document(ctx, link)
			if err != nil {
				logger.Warn("skipping ieee document", zap.String("link", link), zap.Error(err))
				continue
			}
			papers = append(papers, p)
		}
	}
	return papers, nil
}

type ieeeSearchRequest struct {
	QueryText    string   `json:"queryText"`
	PageNumber   int      `json:"pageNumber"`
	RowsPerPage  int      `json:"rowsPerPage"`
	MatchBoolean bool     `json:"matchBoolean"`
	NewSearch    bool     `json:"newsearch"`
	ReturnFacets []string `json:"returnFacets"`
	ReturnType   string   `json:"returnType"`
}

type ieeeSearchResponse struct {
	TotalRecords int `json:"totalRecords"`
	Records      []struct {
		DocumentLink string `json:"documentLink"`
		ArticleTitle string `json:"articleTitle"`
	} `json:"records"`
}

func (r ieeeSearchResponse) links() []string {
	out := make([]string, 0, len(r.Records))
	for _, rec := range r.Records {
		if rec.DocumentLink != "" {
			out = append(out, rec.DocumentLink)
		}
	}
	return out
}

func (c *IEEECrawler) search(ctx context.Context, query string, page, size int) (ieeeSearchResponse, error) {
	body, err := json.Marshal(ieeeSearchRequest{
		QueryText:    query,
		PageNumber:   page,
		RowsPerPage:  size,
		MatchBoolean: true,
		NewSearch:    page == 1,
		ReturnFacets: []string{"ALL"},
		ReturnType:   "SEARCH",
	})
	if err != nil {
		return ieeeSearchResponse{}, fmt.Errorf("encoding search: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ieeeBase+"/rest/search", bytes.NewReader(body))
	if err != nil {
		return ieeeSearchResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", ieeeBase)
	req.Header.Set("Referer", ieeeBase+"/search/searchresult.jsp")

	var resp ieeeSearchResponse
	if err := getJSON(ctx, c.Client, req, &resp); err != nil {
		return ieeeSearchResponse{}, fmt.Errorf("IEEE search request: %w", err)
	}
	return resp, nil
}

func (c *IEEECrawler) document(ctx context.Context, link string) (types.RawPaper, error) {
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	doc, err := fetchDocument(ctx, c.Client, ieeeBase+link)
	if err != nil {
		return types.RawPaper{}, err
	}

	p := types.RawPaper{
		Title:     text(doc.Selection, "h1.document-title"),
		Summary:   text(doc.Selection, "div.abstract-text"),
		DOI:       text(doc.Selection, "div.stats-document-abstract-doi a"),
		Submitted: text(doc.Selection, "div.doc-abstract-confdate"),
	}
	if p.Submitted == "" {
		p.Submitted = text(doc.Selection, "div.doc-abstract-pubdate")
	}
	if p.Title == "" {
		return types.RawPaper{}, fmt.Errorf("no title on page")
	}
	return p, nil
}
