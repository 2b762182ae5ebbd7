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

// semanticAPIBase is the Semantic Scholar bulk search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search/bulk"

const semanticFields = "title,abstract,externalIds,year,publicationDate"

var semanticQueries = []string{"TTS", "Text to speech"}

// SemanticScholarCrawler walks the bulk search API with its continuation
// token. Records are keyed by paperId; the first occurrence is kept.
type SemanticScholarCrawler struct {
	Client *httputil.Client
	APIKey string
}

func (c *SemanticScholarCrawler) Source() types.Source { return types.SourceSemanticScholar }

func (c *SemanticScholarCrawler) FilterField() Field { return FieldTitle }

func (c *SemanticScholarCrawler) Crawl(ctx context.Context, cfg types.CrawlConfig, logger *zap.Logger) ([]types.RawPaper, error) {
	seen := make(map[string]struct{})
	var papers []types.RawPaper

	for _, q := range queries(cfg, semanticQueries) {
		fetched := 0
		token := ""
		for {
			page, err := c.page(ctx, q, token)
			if err != nil {
				if len(papers) == 0 {
					return nil, err
				}
				logger.Warn("semantic scholar page failed, keeping earlier pages",
					zap.String("query", q), zap.Error(err))
				break
			}

			for _, sp := range page.Data {
				fetched++
				if sp.PaperID == "" || strings.TrimSpace(sp.Title) == "" {
					logger.Debug("skipping paper without id or title", zap.String("paper_id", sp.PaperID))
					continue
				}
				if _, dup := seen[sp.PaperID]; dup {
					continue
				}
				seen[sp.PaperID] = struct{}{}
				papers = append(papers, sp.raw())
			}

			logger.Debug("semantic scholar page", zap.String("query", q),
				zap.Int("papers", len(page.Data)), zap.Int("total", page.Total))
			token = page.Token
			if token == "" || capped(cfg, fetched) {
				break
			}
		}
	}
	return papers, nil
}

func (c *SemanticScholarCrawler) page(ctx context.Context, query, token string) (semanticResponse, error) {
	params := url.Values{
		"query":  {query},
		"fields": {semanticFields},
	}
	if token != "" {
		params.Set("token", token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return semanticResponse{}, fmt.Errorf("creating request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	var sr semanticResponse
	if err := getJSON(ctx, c.Client, req, &sr); err != nil {
		return semanticResponse{}, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	return sr, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Token string          `json:"token"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string              `json:"paperId"`
	Title           string              `json:"title"`
	Abstract        string              `json:"abstract"`
	Year            int                 `json:"year"`
	PublicationDate string              `json:"publicationDate"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

// raw falls back to the bare year when the API has no publication date.
func (sp semanticPaper) raw() types.RawPaper {
	p := types.RawPaper{
		Title:     collapseSpace(sp.Title),
		Summary:   strings.TrimSpace(sp.Abstract),
		DOI:       sp.ExternalIDs.DOI,
		ArxivID:   sp.ExternalIDs.ArXiv,
		Submitted: sp.PublicationDate,
	}
	if p.Submitted == "" && sp.Year > 0 {
		p.Submitted = strconv.Itoa(sp.Year)
	}
	return p
}
