// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/research-report/internal/httputil"
	"github.com/pdiddy/research-report/pkg/types"
)

// braveAPIBase is the Brave web search endpoint. Declared as a var so tests
// can substitute an httptest server.
var braveAPIBase = "https://api.search.brave.com/res/v1/web/search"

// braveMaxCount is the largest page size the API accepts.
const braveMaxCount = 20

// Brave queries the Brave Search API. An API key is required.
type Brave struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// NewBrave creates a Brave provider from cfg.
func NewBrave(cfg types.SearchConfig) *Brave {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Brave{
		Client:    &http.Client{Timeout: timeout},
		APIKey:    cfg.BraveAPIKey,
		UserAgent: cfg.UserAgent,
	}
}

// Name returns the provider identifier.
func (b *Brave) Name() string { return string(types.SearchBrave) }

// Search requests one page of up to count results.
func (b *Brave) Search(ctx context.Context, topic string, count int) ([]types.SearchResult, error) {
	if count > braveMaxCount {
		count = braveMaxCount
	}
	params := url.Values{
		"q":     {topic},
		"count": {strconv.Itoa(count)},
	}
	req, err := http.NewRequest(http.MethodGet, braveAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	resp, err := httputil.Do(ctx, b.Client, req)
	if err != nil {
		return nil, fmt.Errorf("Brave API request: %w", err)
	}
	defer resp.Body.Close()

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("parsing Brave response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(br.Web.Results))
	for _, r := range br.Web.Results {
		results = append(results, types.SearchResult{
			Title:   plainText(r.Title),
			Snippet: plainText(r.Description),
			Link:    r.URL,
		})
	}
	return results, nil
}

// snippetPolicy drops every tag, including the <strong> highlighting Brave
// puts in descriptions.
var snippetPolicy = bluemonday.StrictPolicy()

// plainText turns a Brave title or description into plain text. The
// sanitizer emits escaped text, so entities are decoded after it runs.
func plainText(s string) string {
	return collapseSpace(html.UnescapeString(snippetPolicy.Sanitize(s)))
}

// Brave API JSON structures.
type braveResponse struct {
	Web struct {
		Results []braveResult `json:"results"`
	} `json:"web"`
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}
