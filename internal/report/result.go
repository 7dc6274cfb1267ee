// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-report/pkg/types"
)

// SaveResult writes result to path as YAML.
func SaveResult(path string, result types.ResearchResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadResult reads a ResearchResult saved by SaveResult and validates it.
func LoadResult(path string) (types.ResearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ResearchResult{}, err
	}
	var result types.ResearchResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return types.ResearchResult{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := result.Validate(); err != nil {
		return types.ResearchResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}
