// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/research-report/internal/httputil"
	"github.com/pdiddy/research-report/pkg/types"
)

// ddgEndpoint is the DuckDuckGo lite HTML endpoint. Declared as a var so
// tests can substitute an httptest server.
var ddgEndpoint = "https://lite.duckduckgo.com/lite/"

// browserUserAgent is used when none is configured; the lite page rejects
// obvious bots.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DuckDuckGo scrapes the DuckDuckGo lite results page. It needs no API key.
type DuckDuckGo struct {
	Client    *http.Client
	UserAgent string
}

// NewDuckDuckGo creates a DuckDuckGo provider from cfg.
func NewDuckDuckGo(cfg types.SearchConfig) *DuckDuckGo {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = browserUserAgent
	}
	return &DuckDuckGo{Client: &http.Client{Timeout: timeout}, UserAgent: ua}
}

// Name returns the provider identifier.
func (d *DuckDuckGo) Name() string { return string(types.SearchDuckDuckGo) }

// Search posts the topic to the lite endpoint and parses up to count results.
func (d *DuckDuckGo) Search(ctx context.Context, topic string, count int) ([]types.SearchResult, error) {
	form := url.Values{"q": {topic}}
	req, err := http.NewRequest(http.MethodPost, ddgEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", d.UserAgent)

	resp, err := httputil.Do(ctx, d.Client, req)
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo request: %w", err)
	}
	defer resp.Body.Close()

	// Rate-limited clients get a 202 with a challenge page instead of results.
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DuckDuckGo returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing DuckDuckGo response: %w", err)
	}
	if isChallenge(doc) {
		return nil, errors.New("DuckDuckGo served a bot challenge instead of results")
	}
	return parseLiteResults(doc, count), nil
}

// isChallenge reports whether doc is an anomaly or challenge page rather
// than a results page.
func isChallenge(doc *goquery.Document) bool {
	if doc.Find("a.result-link").Length() > 0 {
		return false
	}
	return doc.Find("#challenge-form, form[action*='anomaly'], .anomaly-modal").Length() > 0
}

// parseLiteResults reads result links and snippets from the lite page. Each
// result is a link row followed by a snippet row, so the snippet is read from
// the row after the link's own row. Sponsored rows are skipped.
func parseLiteResults(doc *goquery.Document, count int) []types.SearchResult {
	var results []types.SearchResult
	doc.Find("a.result-link").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		row := s.Closest("tr")
		if row.HasClass("result-sponsored") {
			return true
		}
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		results = append(results, types.SearchResult{
			Title:   collapseSpace(s.Text()),
			Snippet: collapseSpace(row.Next().Find("td.result-snippet").First().Text()),
			Link:    resolveRedirect(href),
		})
		return len(results) < count
	})
	return results
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links and makes
// protocol-relative links absolute.
func resolveRedirect(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
