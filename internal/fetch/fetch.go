// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch loads a web page and extracts its readable text.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/research-report/internal/httputil"
	"github.com/pdiddy/research-report/pkg/types"
)

const (
	defaultMaxBytes = 5 << 20
	defaultMaxChars = 32 * 1024

	// minReadableChars is the shortest readability output trusted over the
	// plain-text fallback.
	minReadableChars = 200

	truncatedMarker = "\n[TRUNCATED]"
)

// Fetcher retrieves the text of a page. An empty string with a nil error
// means the page had no usable content.
type Fetcher interface {
	Fetch(ctx context.Context, link string) (string, error)
}

// HTTPFetcher downloads pages over HTTP and extracts the main article text.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
	MaxBytes  int64
	MaxChars  int
}

// NewHTTP creates an HTTPFetcher from cfg.
func NewHTTP(cfg types.FetchConfig) *HTTPFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: cfg.UserAgent,
		MaxBytes:  cfg.MaxBytes,
		MaxChars:  cfg.MaxChars,
	}
}

// Fetch downloads link and returns its readable text. Transport failures and
// non-2xx responses are wrapped in types.ErrFetch. Non-text content types and
// pages with no extractable text return "" and no error.
func (f *HTTPFetcher) Fetch(ctx context.Context, link string) (string, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %q: %w", types.ErrFetch, link, err)
	}

	req, err := http.NewRequest(http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %w", types.ErrFetch, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,text/plain;q=0.8")
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := httputil.Do(ctx, f.Client, req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", types.ErrFetch, link, err)
	}
	defer resp.Body.Close()

	kind := contentKind(resp.Header.Get("Content-Type"))
	if kind == kindOther {
		return "", nil
	}

	maxBytes := f.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	body, err := httputil.ReadLimited(resp.Body, maxBytes)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", types.ErrFetch, link, err)
	}

	var text string
	if kind == kindPlain {
		text = normalizeWhitespace(string(body))
	} else {
		text = ExtractText(body, pageURL)
	}

	maxChars := f.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	return truncate(text, maxChars), nil
}

type pageKind int

const (
	kindHTML pageKind = iota
	kindPlain
	kindOther
)

// contentKind classifies a Content-Type header. A missing header is treated as HTML.
func contentKind(header string) pageKind {
	if header == "" {
		return kindHTML
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return kindHTML
	}
	switch {
	case mt == "text/html" || mt == "application/xhtml+xml":
		return kindHTML
	case mt == "text/plain":
		return kindPlain
	default:
		return kindOther
	}
}

// ExtractText strips boilerplate from raw HTML and returns the main content
// as plain text. It prefers go-readability's article text and falls back to
// the paragraphs of the cleaned document when readability finds too little.
func ExtractText(raw []byte, pageURL *url.URL) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, iframe, embed, object, video, audio, canvas, svg, form").Remove()
	doc.Find("nav, aside, footer, [role='navigation'], [class*='cookie'], [id*='cookie']").Remove()

	cleaned, err := doc.Html()
	if err != nil {
		cleaned = string(raw)
	}

	if article, err := readability.FromReader(strings.NewReader(cleaned), pageURL); err == nil {
		var buf strings.Builder
		if err := article.RenderText(&buf); err == nil {
			if text := normalizeWhitespace(buf.String()); utf8.RuneCountInString(text) >= minReadableChars {
				return text
			}
		}
	}

	return paragraphs(doc)
}

// paragraphs joins the text of block elements with blank lines.
func paragraphs(doc *goquery.Document) string {
	var parts []string
	doc.Find("h1, h2, h3, h4, p, li, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return normalizeWhitespace(doc.Find("body").Text())
	}
	return strings.Join(parts, "\n\n")
}

// normalizeWhitespace collapses runs of spaces within lines and drops blank lines.
func normalizeWhitespace(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.Join(strings.Fields(line), " "); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, "\n")
}

// truncate cuts s to at most max runes and marks the cut.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + truncatedMarker
}
