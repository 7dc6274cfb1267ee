// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-report pipeline:
// search results, per-page summaries, the clustered research result handed
// to the report writer, configuration, and the error taxonomy.
package types

// SearchResult represents a candidate page returned by a search provider.
// Results are consumed once by the fetch and summarize step.
type SearchResult struct {
	// Title is the page title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// Snippet is the short excerpt shown by the provider.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Link is the absolute URL of the page.
	Link string `json:"link" yaml:"link"`
}
