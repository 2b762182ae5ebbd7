// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/literature-helper/pkg/types"
)

func TestSemanticScholarCrawlFollowsToken(t *testing.T) {
	var tokens []string
	var apiKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("x-api-key")
		q := r.URL.Query()
		assert.Equal(t, semanticFields, q.Get("fields"))
		tokens = append(tokens, q.Get("token"))

		switch q.Get("token") {
		case "":
			fmt.Fprint(w, `{"total": 3, "token": "next-1", "data": [
				{"paperId": "p1", "title": "Expressive TTS", "abstract": "a", "publicationDate": "2021-03-04", "externalIds": {"DOI": "10.1/x"}},
				{"paperId": "p2", "title": "Old Vocoder", "abstract": null, "year": 2019, "publicationDate": null, "externalIds": {}}
			]}`)
		default:
			fmt.Fprint(w, `{"total": 3, "data": [
				{"paperId": "p1", "title": "Expressive TTS duplicate", "publicationDate": "2021-03-04", "externalIds": {}},
				{"paperId": "p3", "title": "Undated", "externalIds": {"ArXiv": "2101.1"}},
				{"paperId": "", "title": "No id"}
			]}`)
		}
	}))
	defer ts.Close()
	override(t, &semanticAPIBase, ts.URL)

	c := &SemanticScholarCrawler{Client: testClient(ts), APIKey: "secret"}
	papers, err := c.Crawl(context.Background(), types.CrawlConfig{Queries: []string{"TTS"}}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "next-1"}, tokens)
	assert.Equal(t, "secret", apiKey)

	require.Len(t, papers, 3)
	assert.Equal(t, types.RawPaper{Title: "Expressive TTS", Summary: "a", DOI: "10.1/x", Submitted: "2021-03-04"}, papers[0])
	assert.Equal(t, "2019", papers[1].Submitted, "year fallback")
	assert.Equal(t, "", papers[2].Submitted)
	assert.Equal(t, "2101.1", papers[2].ArxivID)
}

func TestSemanticScholarCrawlError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()
	override(t, &semanticAPIBase, ts.URL)

	c := &SemanticScholarCrawler{Client: testClient(ts)}
	_, err := c.Crawl(context.Background(), types.CrawlConfig{}, zap.NewNop())
	assert.ErrorContains(t, err, "HTTP 403")
}
