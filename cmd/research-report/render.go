// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-report/internal/report"
	"github.com/pdiddy/research-report/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render --from <result.yaml|output.md>",
	Short: "Re-render the Markdown and PDF reports from a saved result",
	Long: `Render rebuilds output.md and report.pdf from a result saved with
--save-result (YAML) or from a Markdown report written by an earlier run.
No search or model calls are made.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		topic, _ := cmd.Flags().GetString("topic")
		cmd.SilenceUsage = true

		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		result, err := loadRenderInput(from)
		if err != nil {
			return err
		}
		conv, err := report.NewConverter(cfg.Report)
		if err != nil {
			return err
		}

		w := report.NewWriter(cfg.Report, conv, os.Stdout)
		if filepath.Clean(from) == filepath.Clean(cfg.Report.MarkdownPath) {
			return w.WritePDFFile(cmd.Context(), result, topic)
		}
		return w.Write(cmd.Context(), result, topic)
	},
}

// loadRenderInput reads a YAML result or parses a Markdown report,
// chosen by file extension.
func loadRenderInput(path string) (types.ResearchResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return report.LoadResult(path)
	case ".md", ".markdown":
		f, err := os.Open(path)
		if err != nil {
			return types.ResearchResult{}, err
		}
		defer f.Close()
		result, err := report.ParseMarkdown(f)
		if err != nil {
			return types.ResearchResult{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		if err := result.Validate(); err != nil {
			return types.ResearchResult{}, fmt.Errorf("%s: %w", path, err)
		}
		return result, nil
	default:
		return types.ResearchResult{}, fmt.Errorf("unsupported input %s: expected .yaml, .yml or .md", path)
	}
}

func init() {
	renderCmd.Flags().String("from", "", "saved result (.yaml) or Markdown report (.md) to render")
	renderCmd.Flags().String("topic", "", "topic shown in the PDF report")
	_ = renderCmd.MarkFlagRequired("from")

	rootCmd.AddCommand(renderCmd)
}
