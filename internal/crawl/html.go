// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/literature-helper/internal/httputil"
)

// fetchDocument GETs url and parses the body as HTML.
func fetchDocument(ctx context.Context, client *httputil.Client, url string) (*goquery.Document, error) {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return doc, nil
}

// text returns the collapsed text of the first node matching selector.
func text(s *goquery.Selection, selector string) string {
	return collapseSpace(s.Find(selector).First().Text())
}
