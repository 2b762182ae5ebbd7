// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdiddy/literature-helper/internal/httputil"
	"github.com/pdiddy/literature-helper/pkg/types"
)

// iscaBase is the ISCA archive root. Declared as a var so tests can
// substitute an httptest server.
var iscaBase = "https://www.isca-archive.org"

var interspeechQueries = []string{"text to speech"}

// interspeechMinYear is the oldest archive year worth fetching.
const interspeechMinYear = 2016

var citationYear = regexp.MustCompile(`year=\{?(\d{4})`)

// InterspeechCrawler reads the ISCA archive's paper table, keeps rows that
// contain a query phrase and date from 2016 onwards, and scrapes each
// paper page. The archive's paper file name serves as the DOI.
type InterspeechCrawler struct {
	Client *httputil.Client
}

func (c *InterspeechCrawler) Source() types.Source { return types.SourceInterspeech }

func (c *InterspeechCrawler) FilterField() Field { return FieldTitle }

type iscaRow struct {
	href string
	year int
}

func (c *InterspeechCrawler) Crawl(ctx context.Context, cfg types.CrawlConfig, logger *zap.Logger) ([]types.RawPaper, error) {
	doc, err := fetchDocument(ctx, c.Client, iscaBase+"/")
	if err != nil {
		return nil, err
	}

	rows := matchingRows(doc, queries(cfg, interspeechQueries))
	logger.Info("isca archive rows", zap.Int("matching", len(rows)))

	index := make(map[string]int)
	var papers []types.RawPaper
	for _, row := range rows {
		if row.year < interspeechMinYear {
			continue
		}
		if capped(cfg, len(papers)) {
			break
		}
		p, err := c.paper(ctx, row.href)
		if err != nil {
			logger.Warn("skipping isca paper", zap.String("href", row.href), zap.Error(err))
			continue
		}
		if i, ok := index[p.DOI]; ok {
			papers[i] = p
			continue
		}
		index[p.DOI] = len(papers)
		papers = append(papers, p)
	}
	return papers, nil
}

// matchingRows returns the table rows whose text contains any query,
// case-insensitively. The header row has no cells and is skipped.
func matchingRows(doc *goquery.Document, phrases []string) []iscaRow {
	var rows []iscaRow
	doc.Find("#paper_table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			return
		}
		rowText := strings.ToLower(collapseSpace(tr.Text()))
		found := false
		for _, q := range phrases {
			if strings.Contains(rowText, strings.ToLower(q)) {
				found = true
				break
			}
		}
		if !found {
			return
		}
		href, ok := cells.Eq(0).Find("a").Attr("href")
		if !ok {
			return
		}
		year, err := strconv.Atoi(strings.TrimSpace(cells.Eq(2).Text()))
		if err != nil {
			return
		}
		rows = append(rows, iscaRow{href: href, year: year})
	})
	return rows
}

func (c *InterspeechCrawler) paper(ctx context.Context, href string) (types.RawPaper, error) {
	doc, err := fetchDocument(ctx, c.Client, iscaBase+"/"+strings.TrimPrefix(strings.TrimPrefix(href, "./"), "/"))
	if err != nil {
		return types.RawPaper{}, err
	}

	p := types.RawPaper{
		Title:   text(doc.Selection, "h3"),
		Summary: text(doc.Selection, "p"),
		DOI:     strings.TrimSuffix(path.Base(href), ".html"),
	}
	if p.Title == "" {
		return types.RawPaper{}, fmt.Errorf("no title on page")
	}
	m := citationYear.FindStringSubmatch(doc.Find("pre").First().Text())
	if m == nil {
		return types.RawPaper{}, fmt.Errorf("no year in citation")
	}
	p.Submitted = m[1]
	return p, nil
}
