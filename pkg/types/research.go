// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// KeyPoint is one attributed fact inside a cluster.
type KeyPoint struct {
	// Value is the key point content.
	Value string `json:"value" yaml:"value"`

	// Source names where the information came from (publication or site).
	Source string `json:"source" yaml:"source"`

	// SourceLink is the URL of the source.
	SourceLink string `json:"source_link" yaml:"source_link"`
}

// ResearchCluster is a titled group of key points sharing a theme.
type ResearchCluster struct {
	Title     string     `json:"title" yaml:"title"`
	KeyPoints []KeyPoint `json:"key_points" yaml:"key_points"`
}

// ResearchResult is the terminal artifact of a run. It is built once by the
// clusterer and never mutated afterwards.
type ResearchResult struct {
	Clusters []ResearchCluster `json:"clusters" yaml:"clusters"`
}

// KeyPointCount returns the number of key points across all clusters.
func (r ResearchResult) KeyPointCount() int {
	n := 0
	for _, c := range r.Clusters {
		n += len(c.KeyPoints)
	}
	return n
}

// Validate checks that every cluster has a title and every key point carries
// content, a source and a link. Provenance is mandatory.
func (r ResearchResult) Validate() error {
	if len(r.Clusters) == 0 {
		return fmt.Errorf("result has no clusters")
	}
	var problems []string
	for i, c := range r.Clusters {
		if strings.TrimSpace(c.Title) == "" {
			problems = append(problems, fmt.Sprintf("cluster %d: empty title", i))
		}
		for j, kp := range c.KeyPoints {
			switch {
			case strings.TrimSpace(kp.Value) == "":
				problems = append(problems, fmt.Sprintf("cluster %d key point %d: empty value", i, j))
			case strings.TrimSpace(kp.Source) == "":
				problems = append(problems, fmt.Sprintf("cluster %d key point %d: empty source", i, j))
			case strings.TrimSpace(kp.SourceLink) == "":
				problems = append(problems, fmt.Sprintf("cluster %d key point %d: empty source link", i, j))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid result: %s", strings.Join(problems, "; "))
	}
	return nil
}
