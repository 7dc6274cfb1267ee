// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Summary is the outcome of summarizing one page: either Accepted or Skipped.
// The set of variants is closed; switch on the concrete type.
type Summary interface {
	isSummary()
}

// Accepted carries the summary text of a page judged relevant to the topic.
type Accepted struct {
	Text string
}

// Skipped marks a page that was not fetched or was judged irrelevant.
type Skipped struct {
	// Reason is a short human-readable explanation, used for logging only.
	Reason string
}

func (Accepted) isSummary() {}
func (Skipped) isSummary()  {}

// Attribute appends the source link to a summary so provenance survives
// into the clustering input.
func Attribute(text, link string) string {
	return fmt.Sprintf("%s\nSource: %s", text, link)
}
