// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one research pass: search, then for each result
// fetch and summarize or skip, then cluster the accepted summaries and write
// the reports. Stages run strictly in sequence.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/research-report/internal/fetch"
	"github.com/pdiddy/research-report/internal/metrics"
	"github.com/pdiddy/research-report/internal/report"
	"github.com/pdiddy/research-report/internal/search"
	"github.com/pdiddy/research-report/pkg/types"
)

// NoContentMessage is printed when no page survives summarization.
const NoContentMessage = "No valid summaries generated."

// Summarizer judges one page against the topic.
type Summarizer interface {
	Summarize(ctx context.Context, pageText, topic string) (types.Summary, error)
}

// Clusterer groups all accepted summaries in a single call.
type Clusterer interface {
	Cluster(ctx context.Context, summaries []string) (types.ResearchResult, error)
}

// ReportWriter renders the final result to its output files.
type ReportWriter interface {
	Write(ctx context.Context, result types.ResearchResult, topic string) error
}

// Pipeline holds the stage implementations for a run.
type Pipeline struct {
	Search     search.Provider
	Fetcher    fetch.Fetcher
	Summarizer Summarizer
	Clusterer  Clusterer
	Writer     ReportWriter

	// ResultPath, when set, receives the clustered result as YAML before
	// the reports are written.
	ResultPath string

	Log     zerolog.Logger
	Metrics *metrics.Recorder

	// Out receives user-facing outcome lines.
	Out io.Writer
}

// Outcome describes a finished run. Empty is true when every page was
// skipped; no files are written in that case.
type Outcome struct {
	Result    types.ResearchResult
	Empty     bool
	Searched  int
	Accepted  int
	Skipped   int
	Summaries []string
}

// Run executes the pipeline for topic with resultCount search results.
// Fetch failures are logged and counted as skips. Every other stage failure
// aborts the run and is returned wrapped in its stage error.
func (p *Pipeline) Run(ctx context.Context, topic string, resultCount int) (Outcome, error) {
	rec := p.Metrics
	if rec == nil {
		rec = metrics.New()
	}
	var out Outcome

	start := time.Now()
	results, err := search.Search(ctx, p.Search, topic, resultCount)
	if err != nil {
		return out, err
	}
	rec.ObserveStage("search", start)
	rec.SearchResults.Add(float64(len(results)))
	out.Searched = len(results)
	p.Log.Info().Str("stage", "search").Str("provider", p.Search.Name()).
		Int("results", len(results)).Dur("elapsed", time.Since(start)).Msg("search completed")

	start = time.Now()
	for i, r := range results {
		text, skipReason, err := p.summarizeOne(ctx, r, topic)
		if err != nil {
			return out, err
		}
		entry := p.Log.Info().Int("index", i).Str("link", r.Link)
		if skipReason != "" {
			out.Skipped++
			rec.Skipped.WithLabelValues(skipReason).Inc()
			entry.Str("reason", skipReason).Msg("page skipped")
			continue
		}
		out.Accepted++
		rec.Accepted.Inc()
		out.Summaries = append(out.Summaries, types.Attribute(text, r.Link))
		entry.Int("chars", len(text)).Msg("summary accepted")
	}
	rec.ObserveStage("summarize", start)

	if len(out.Summaries) == 0 {
		out.Empty = true
		p.Log.Info().Int("skipped", out.Skipped).Msg("no summaries survived filtering")
		if p.Out != nil {
			fmt.Fprintln(p.Out, NoContentMessage)
		}
		return out, nil
	}

	start = time.Now()
	result, err := p.Clusterer.Cluster(ctx, out.Summaries)
	if err != nil {
		return out, err
	}
	rec.ObserveStage("cluster", start)
	rec.Clusters.Add(float64(len(result.Clusters)))
	rec.KeyPoints.Add(float64(result.KeyPointCount()))
	out.Result = result
	p.Log.Info().Str("stage", "cluster").Int("clusters", len(result.Clusters)).
		Int("key_points", result.KeyPointCount()).Dur("elapsed", time.Since(start)).Msg("clustering completed")

	if p.ResultPath != "" {
		if err := report.SaveResult(p.ResultPath, result); err != nil {
			return out, fmt.Errorf("saving result: %w", err)
		}
		p.Log.Info().Str("path", p.ResultPath).Msg("result saved")
	}

	start = time.Now()
	if err := p.Writer.Write(ctx, result, topic); err != nil {
		return out, err
	}
	rec.ObserveStage("report", start)
	p.Log.Info().Str("stage", "report").Dur("elapsed", time.Since(start)).Msg("reports written")

	return out, nil
}

// summarizeOne fetches r and summarizes it. It returns the accepted text, or
// a non-empty skip reason. A page that cannot be fetched or has no text is
// never sent to the summarizer.
func (p *Pipeline) summarizeOne(ctx context.Context, r types.SearchResult, topic string) (string, string, error) {
	text, err := p.Fetcher.Fetch(ctx, r.Link)
	if err != nil {
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
		p.Log.Warn().Err(err).Str("link", r.Link).Msg("fetch failed")
		return "", metrics.SkipFetch, nil
	}
	if strings.TrimSpace(text) == "" {
		return "", metrics.SkipFetch, nil
	}

	summary, err := p.Summarizer.Summarize(ctx, text, topic)
	if err != nil {
		return "", "", fmt.Errorf("summarizing %s: %w", r.Link, err)
	}
	switch s := summary.(type) {
	case types.Accepted:
		return s.Text, "", nil
	case types.Skipped:
		p.Log.Debug().Str("link", r.Link).Str("why", s.Reason).Msg("summarizer skipped page")
		return "", metrics.SkipIrrelevant, nil
	default:
		return "", "", fmt.Errorf("%w: unexpected summary type %T", types.ErrSummarize, summary)
	}
}
