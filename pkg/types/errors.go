// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Stage errors. Each stage wraps its cause with one of these so callers can
// classify failures with errors.Is. ErrFetch is the only soft error: the
// pipeline treats a failed fetch as a skipped page.
var (
	ErrSearch    = errors.New("search failed")
	ErrFetch     = errors.New("fetch failed")
	ErrSummarize = errors.New("summarize failed")
	ErrCluster   = errors.New("cluster failed")
	ErrTemplate  = errors.New("template failed")
	ErrRender    = errors.New("render failed")
)
