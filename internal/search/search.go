// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries a web search provider for pages about a topic and
// returns validated, deduplicated results in provider order.
package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/research-report/pkg/types"
)

// Provider searches a single web search engine. Each backend (DuckDuckGo,
// Brave) implements this interface.
type Provider interface {
	Name() string
	Search(ctx context.Context, topic string, count int) ([]types.SearchResult, error)
}

// Search queries p for topic and returns at most count results. Any provider
// failure and any malformed result (missing or non-absolute link) fails the
// whole search with types.ErrSearch. Duplicate links keep the first occurrence.
func Search(ctx context.Context, p Provider, topic string, count int) ([]types.SearchResult, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: topic is empty", types.ErrSearch)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: result count must be positive, got %d", types.ErrSearch, count)
	}

	results, err := p.Search(ctx, topic, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrSearch, p.Name(), err)
	}

	for i, r := range results {
		if err := validateLink(r.Link); err != nil {
			return nil, fmt.Errorf("%w: %s returned malformed result %d: %w", types.ErrSearch, p.Name(), i, err)
		}
	}

	results = deduplicate(results)
	if len(results) > count {
		results = results[:count]
	}
	return results, nil
}

// validateLink requires an absolute http(s) URL.
func validateLink(link string) error {
	if strings.TrimSpace(link) == "" {
		return fmt.Errorf("empty link")
	}
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("parsing link %q: %w", link, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("link %q is not an absolute http(s) URL", link)
	}
	return nil
}

// deduplicate drops results whose normalized link was already seen.
func deduplicate(results []types.SearchResult) []types.SearchResult {
	seen := make(map[string]bool, len(results))
	out := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		key := normalizeLink(r.Link)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// normalizeLink lowercases the host and drops the fragment and trailing slash.
func normalizeLink(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return link
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// New returns the provider selected by cfg.
func New(cfg types.SearchConfig) (Provider, error) {
	switch cfg.Provider {
	case "", types.SearchDuckDuckGo:
		return NewDuckDuckGo(cfg), nil
	case types.SearchBrave:
		if cfg.BraveAPIKey == "" {
			return nil, fmt.Errorf("brave search requires an API key")
		}
		return NewBrave(cfg), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Provider)
	}
}
