// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/research-report/pkg/types"
)

// WriteMarkdown renders result as Markdown: a "# " heading per cluster, a
// "* " bullet per key point followed by an indented "[source](link)" line,
// and a blank line after each cluster. Output depends only on result.
func WriteMarkdown(w io.Writer, result types.ResearchResult) error {
	bw := bufio.NewWriter(w)
	for _, c := range result.Clusters {
		fmt.Fprintf(bw, "# %s\n", oneLine(c.Title))
		for _, kp := range c.KeyPoints {
			fmt.Fprintf(bw, "* %s\n", oneLine(kp.Value))
			fmt.Fprintf(bw, "  [%s](%s)\n", oneLine(kp.Source), oneLine(kp.SourceLink))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// oneLine collapses runs of whitespace, including newlines, so every field
// stays on its own line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseMarkdown reads a report produced by WriteMarkdown back into a
// ResearchResult. Blank lines are ignored; anything else that is not a
// heading, bullet or attribution line is an error.
func ParseMarkdown(r io.Reader) (types.ResearchResult, error) {
	var result types.ResearchResult
	var pendingValue *string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		switch {
		case strings.TrimSpace(line) == "":
			continue

		case strings.HasPrefix(line, "# "):
			if pendingValue != nil {
				return types.ResearchResult{}, fmt.Errorf("line %d: key point %q has no attribution", lineNo-1, *pendingValue)
			}
			result.Clusters = append(result.Clusters, types.ResearchCluster{
				Title: strings.TrimSpace(strings.TrimPrefix(line, "# ")),
			})

		case strings.HasPrefix(line, "* "):
			if len(result.Clusters) == 0 {
				return types.ResearchResult{}, fmt.Errorf("line %d: bullet before first heading", lineNo)
			}
			if pendingValue != nil {
				return types.ResearchResult{}, fmt.Errorf("line %d: key point %q has no attribution", lineNo-1, *pendingValue)
			}
			v := strings.TrimSpace(strings.TrimPrefix(line, "* "))
			pendingValue = &v

		case strings.HasPrefix(line, "  ["):
			if pendingValue == nil {
				return types.ResearchResult{}, fmt.Errorf("line %d: attribution without a key point", lineNo)
			}
			source, link, err := parseAttribution(strings.TrimSpace(line))
			if err != nil {
				return types.ResearchResult{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			last := &result.Clusters[len(result.Clusters)-1]
			last.KeyPoints = append(last.KeyPoints, types.KeyPoint{
				Value:      *pendingValue,
				Source:     source,
				SourceLink: link,
			})
			pendingValue = nil

		default:
			return types.ResearchResult{}, fmt.Errorf("line %d: unexpected content %q", lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return types.ResearchResult{}, fmt.Errorf("reading markdown: %w", err)
	}
	if pendingValue != nil {
		return types.ResearchResult{}, fmt.Errorf("key point %q has no attribution", *pendingValue)
	}
	return result, nil
}

// parseAttribution splits "[source](link)". The split is at the last "](" so
// sources containing brackets survive.
func parseAttribution(s string) (source, link string, err error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, ")") {
		return "", "", fmt.Errorf("malformed attribution %q", s)
	}
	i := strings.LastIndex(s, "](")
	if i < 0 {
		return "", "", fmt.Errorf("malformed attribution %q", s)
	}
	return s[1:i], s[i+2 : len(s)-1], nil
}
