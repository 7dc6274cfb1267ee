// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster groups accepted page summaries into titled clusters of
// attributed key points with a single batched model call.
package cluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/research-report/internal/llm"
	"github.com/pdiddy/research-report/pkg/types"
)

const systemPrompt = `You are a helpful assistant that clusters the provided information into topics. ` +
	`For each cluster, add a title and then a bullet list of the relevant key points for each cluster. ` +
	`Also, include behind each bullet point the source of the information and the link of the source. ` +
	`Every piece of information ends with a "Source:" line holding its link; use that link as the source link.`

type response struct {
	Clusters []responseCluster `json:"clusters" description:"Clusters in the order they should appear in the report"`
}

type responseCluster struct {
	Title     string             `json:"title" description:"Short title of the cluster"`
	KeyPoints []responseKeyPoint `json:"key_points" description:"Key points belonging to the cluster"`
}

type responseKeyPoint struct {
	Value      string `json:"value" description:"The key point"`
	Source     string `json:"source" description:"Name of the source, such as the publication or website"`
	SourceLink string `json:"source_link" description:"URL of the source"`
}

var responseSchema = llm.MustSchema("research_result", "Clustered key points with sources", response{})

// Clusterer builds a ResearchResult from attributed summaries.
type Clusterer struct {
	Model llm.Model
}

// New returns a Clusterer backed by m.
func New(m llm.Model) *Clusterer {
	return &Clusterer{Model: m}
}

// Cluster sends all summaries, newline-joined, in one call. Any failure,
// including a result with a key point lacking its source or link, is
// wrapped with types.ErrCluster. There is no partial result.
func (c *Clusterer) Cluster(ctx context.Context, summaries []string) (types.ResearchResult, error) {
	if len(summaries) == 0 {
		return types.ResearchResult{}, fmt.Errorf("%w: no summaries to cluster", types.ErrCluster)
	}

	text, err := c.Model.Generate(ctx, llm.Request{
		System: systemPrompt,
		User:   strings.Join(summaries, "\n"),
		Schema: responseSchema,
	})
	if err != nil {
		return types.ResearchResult{}, fmt.Errorf("%w: %w", types.ErrCluster, err)
	}

	var resp response
	if err := llm.Decode(text, &resp); err != nil {
		return types.ResearchResult{}, fmt.Errorf("%w: %w", types.ErrCluster, err)
	}

	result := toResult(resp)
	if err := result.Validate(); err != nil {
		return types.ResearchResult{}, fmt.Errorf("%w: %w", types.ErrCluster, err)
	}
	return result, nil
}

func toResult(resp response) types.ResearchResult {
	result := types.ResearchResult{Clusters: make([]types.ResearchCluster, 0, len(resp.Clusters))}
	for _, rc := range resp.Clusters {
		cl := types.ResearchCluster{
			Title:     strings.TrimSpace(rc.Title),
			KeyPoints: make([]types.KeyPoint, 0, len(rc.KeyPoints)),
		}
		for _, kp := range rc.KeyPoints {
			cl.KeyPoints = append(cl.KeyPoints, types.KeyPoint{
				Value:      strings.TrimSpace(kp.Value),
				Source:     strings.TrimSpace(kp.Source),
				SourceLink: strings.TrimSpace(kp.SourceLink),
			})
		}
		result.Clusters = append(result.Clusters, cl)
	}
	return result
}
