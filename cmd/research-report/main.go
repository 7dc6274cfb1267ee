// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-report CLI.
//
//	research-report <search_context> <search_number>
//
// searches the web for search_context, summarizes up to search_number pages
// with a language model, clusters the summaries and writes output.md and
// report.pdf.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs the research pipeline.
var rootCmd = &cobra.Command{
	Use:   "research-report <search_context> <search_number>",
	Short: "Research a topic on the web and write a clustered report",
	Long: `research-report searches the web for a topic, asks a language model to
summarize each relevant page, clusters the summaries into themed sections and
renders them as a Markdown file and a PDF report.

The model API key is read from the config file, the provider's environment
variable (OPENAI_API_KEY, ANTHROPIC_API_KEY) or .secrets/<provider>-api-key.
If none is set you are prompted for it once before the run starts.`,
	Example: `  research-report "Obama" 5
  research-report --provider ollama --model llama3.1 "rust async runtimes" 3`,
	Args: validateArgs,
	RunE: runResearch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-report.yaml or ~/.config/research-report/research-report.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("markdown", "", "Markdown output path (default output.md)")
	rootCmd.PersistentFlags().String("pdf", "", "PDF output path (default report.pdf)")
	rootCmd.PersistentFlags().String("template", "", "HTML report template (default templates/report_template.html)")

	rootCmd.Flags().String("provider", "", "language model provider: openai, ollama, anthropic")
	rootCmd.Flags().String("model", "", "language model identifier (default gpt-4o-mini)")
	rootCmd.Flags().String("search-provider", "", "web search provider: duckduckgo, brave")
	rootCmd.Flags().String("save-result", "", "also write the clustered result as YAML to this path")

	bindFlags(rootCmd, map[string]string{
		"log.level":            "log-level",
		"report.markdown_path": "markdown",
		"report.pdf_path":      "pdf",
		"report.template_path": "template",
		"llm.provider":         "provider",
		"llm.model":            "model",
		"search.provider":      "search-provider",
		"report.result_path":   "save-result",
	})

	setDefaults(viper.GetViper())
}

// bindFlags binds config keys to flags so a set flag overrides file and env.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.PersistentFlags().Lookup(name)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-report")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-report"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_REPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
