// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics counts what happened during one pipeline run and can push
// the totals to a Prometheus Pushgateway when the run ends.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Skip reasons used as label values.
const (
	SkipFetch      = "fetch"
	SkipIrrelevant = "irrelevant"
)

// Recorder holds the collectors for one run on a private registry.
type Recorder struct {
	reg *prometheus.Registry

	SearchResults prometheus.Counter
	Skipped       *prometheus.CounterVec
	Accepted      prometheus.Counter
	Clusters      prometheus.Counter
	KeyPoints     prometheus.Counter
	StageDuration *prometheus.HistogramVec
}

// New registers a fresh set of collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		SearchResults: f.NewCounter(prometheus.CounterOpts{
			Name: "research_report_search_results_total",
			Help: "Search results returned by the search provider",
		}),
		Skipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "research_report_pages_skipped_total",
			Help: "Pages dropped before clustering, by reason",
		}, []string{"reason"}),
		Accepted: f.NewCounter(prometheus.CounterOpts{
			Name: "research_report_summaries_accepted_total",
			Help: "Page summaries accepted for clustering",
		}),
		Clusters: f.NewCounter(prometheus.CounterOpts{
			Name: "research_report_clusters_total",
			Help: "Clusters in the final result",
		}),
		KeyPoints: f.NewCounter(prometheus.CounterOpts{
			Name: "research_report_key_points_total",
			Help: "Key points in the final result",
		}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "research_report_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
	}
}

// ObserveStage records the time elapsed since start for stage.
func (r *Recorder) ObserveStage(stage string, start time.Time) {
	r.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Gatherer exposes the run registry.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.reg }

// Push sends all collectors to the Pushgateway at url under job, grouped by
// run id.
func (r *Recorder) Push(ctx context.Context, url, job, runID string) error {
	p := push.New(url, job).Gatherer(r.reg)
	if runID != "" {
		p = p.Grouping("run_id", runID)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
