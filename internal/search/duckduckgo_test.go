// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/research-report/pkg/types"
)

const litePage = `<html><body><table>
<tr class="result-sponsored"><td><a rel="nofollow" href="https://ads.example/buy" class='result-link'>Sponsored</a></td></tr>
<tr class="result-sponsored"><td class='result-snippet'>Buy now</td></tr>
<tr><td><a rel="nofollow" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fen.wikipedia.org%2Fwiki%2FBarack_Obama&amp;rut=abc" class='result-link'>Barack  Obama - Wikipedia</a></td></tr>
<tr><td class='result-snippet'>Barack Hussein <b>Obama</b> II is an American politician.</td></tr>
<tr><td><a rel="nofollow" href="https://www.obama.org/" class='result-link'>The Obama Foundation</a></td></tr>
<tr><td class='result-snippet'>Inspiring and empowering people.</td></tr>
<tr><td><a rel="nofollow" href="https://example.com/third" class='result-link'>Third</a></td></tr>
<tr><td class='result-snippet'>Third snippet.</td></tr>
</table></body></html>`

func withDDGServer(t *testing.T, h http.HandlerFunc) *DuckDuckGo {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	old := ddgEndpoint
	ddgEndpoint = ts.URL
	t.Cleanup(func() { ddgEndpoint = old })

	return &DuckDuckGo{Client: ts.Client(), UserAgent: "test/0.1"}
}

func TestDuckDuckGoSearchParsesResults(t *testing.T) {
	var gotQuery, gotMethod, gotUA string
	d := withDDGServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotUA = r.Header.Get("User-Agent")
		r.ParseForm()
		gotQuery = r.PostForm.Get("q")
		fmt.Fprint(w, litePage)
	})

	results, err := d.Search(context.Background(), "Obama", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotMethod != http.MethodPost || gotQuery != "Obama" || gotUA != "test/0.1" {
		t.Errorf("request = %s q=%q ua=%q", gotMethod, gotQuery, gotUA)
	}

	want := []types.SearchResult{
		{
			Title:   "Barack Obama - Wikipedia",
			Snippet: "Barack Hussein Obama II is an American politician.",
			Link:    "https://en.wikipedia.org/wiki/Barack_Obama",
		},
		{
			Title:   "The Obama Foundation",
			Snippet: "Inspiring and empowering people.",
			Link:    "https://www.obama.org/",
		},
	}
	if len(results) != len(want) {
		t.Fatalf("len(results) = %d, want %d: %+v", len(results), len(want), results)
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("result %d = %+v, want %+v", i, results[i], want[i])
		}
	}
}

func TestDuckDuckGoSearchHTTPError(t *testing.T) {
	d := withDDGServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	if _, err := d.Search(context.Background(), "Obama", 2); err == nil {
		t.Fatal("expected error for HTTP 403")
	}
}

func TestDuckDuckGoSearchNoResults(t *testing.T) {
	d := withDDGServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>No results.</body></html>`)
	})
	results, err := d.Search(context.Background(), "zzzz", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestDuckDuckGoSearchChallenge(t *testing.T) {
	const challenge = `<html><body><form id="challenge-form" action="/anomaly.js"><p>Select all squares containing a duck.</p></form></body></html>`
	tests := []struct {
		name   string
		status int
	}{
		{"202 challenge", http.StatusAccepted},
		{"200 challenge", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := withDDGServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, challenge)
			})
			results, err := d.Search(context.Background(), "Obama", 2)
			if err == nil {
				t.Fatalf("expected error, got %d results", len(results))
			}
		})
	}
}

func TestSearchWrapsDuckDuckGoChallenge(t *testing.T) {
	d := withDDGServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `<html><body><form id="challenge-form"></form></body></html>`)
	})
	_, err := Search(context.Background(), d, "Obama", 2)
	if !errors.Is(err, types.ErrSearch) {
		t.Fatalf("err = %v, want ErrSearch", err)
	}
}

func TestParseLiteResultsSnippetFollowsLinkRow(t *testing.T) {
	// The sponsored result has no snippet row; later snippets must not shift.
	const page = `<html><body><table>
<tr class="result-sponsored"><td><a href="https://ads.example/" class='result-link'>Ad</a></td></tr>
<tr><td><a href="https://a.example/" class='result-link'>A</a></td></tr>
<tr><td class='result-snippet'>Snippet A</td></tr>
<tr><td><a href="https://b.example/" class='result-link'>B</a></td></tr>
<tr><td class='result-snippet'>Snippet B</td></tr>
<tr><td><a href="https://c.example/" class='result-link'>C</a></td></tr>
</table></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	got := parseLiteResults(doc, 10)
	want := []types.SearchResult{
		{Title: "A", Snippet: "Snippet A", Link: "https://a.example/"},
		{Title: "B", Snippet: "Snippet B", Link: "https://b.example/"},
		{Title: "C", Snippet: "", Link: "https://c.example/"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&rut=x", "https://go.dev/"},
		{"https://duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc", "https://go.dev/doc"},
		{"//example.com/page", "https://example.com/page"},
		{"https://example.com/page", "https://example.com/page"},
	}
	for _, tt := range tests {
		if got := resolveRedirect(tt.in); got != tt.want {
			t.Errorf("resolveRedirect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
