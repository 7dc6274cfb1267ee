// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-report/internal/httputil"
	"github.com/pdiddy/research-report/internal/llm"
	"github.com/pdiddy/research-report/pkg/types"
)

// setDefaults registers every config key so environment variables bind
// through AutomaticEnv and Unmarshal sees them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", string(types.LLMOpenAI))
	v.SetDefault("llm.model", llm.DefaultModel)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 2*time.Minute)
	v.SetDefault("llm.max_tokens", 4096)

	v.SetDefault("search.provider", string(types.SearchDuckDuckGo))
	v.SetDefault("search.timeout", 15*time.Second)
	v.SetDefault("search.user_agent", httputil.DefaultUserAgent)
	v.SetDefault("search.brave_api_key", "")

	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.user_agent", httputil.DefaultUserAgent)
	v.SetDefault("fetch.max_bytes", 5<<20)
	v.SetDefault("fetch.max_chars", 32768)

	v.SetDefault("report.markdown_path", "output.md")
	v.SetDefault("report.pdf_path", "report.pdf")
	v.SetDefault("report.template_path", "templates/report_template.html")
	v.SetDefault("report.result_path", "")
	v.SetDefault("report.pdf_backend", string(types.PDFCommand))
	v.SetDefault("report.pdf_command", "weasyprint - -")
	v.SetDefault("report.pdf_image", "weasyprint:latest")
	v.SetDefault("report.pdf_image_args", []string{"-", "-"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 15)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "research_report")
}

// loadConfig decodes v into a Config.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// validateArgs requires a topic and a positive result count.
func validateArgs(cmd *cobra.Command, args []string) error {
	_, _, err := parseArgs(args)
	return err
}

func parseArgs(args []string) (topic string, count int, err error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("expected <search_context> <search_number>, got %d argument(s)", len(args))
	}
	topic = strings.TrimSpace(args[0])
	if topic == "" {
		return "", 0, fmt.Errorf("search_context must not be empty")
	}
	count, err = strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil || count <= 0 {
		return "", 0, fmt.Errorf("search_number must be a positive integer, got %q", args[1])
	}
	return topic, count, nil
}
