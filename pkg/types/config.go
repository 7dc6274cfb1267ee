// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchProvider identifies the web search backend.
type SearchProvider string

const (
	SearchDuckDuckGo SearchProvider = "duckduckgo"
	SearchBrave      SearchProvider = "brave"
)

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects the search backend: duckduckgo or brave.
	Provider SearchProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// BraveAPIKey is required when Provider is brave.
	BraveAPIKey string `json:"brave_api_key,omitempty" yaml:"brave_api_key,omitempty" mapstructure:"brave_api_key"`
}

// FetchConfig holds settings for the page fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxBytes caps how much of a response body is read.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`

	// MaxChars caps the extracted text handed to the summarizer.
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`
}

// LLMProvider identifies the language-model backend.
type LLMProvider string

const (
	LLMOpenAI    LLMProvider = "openai"
	LLMOllama    LLMProvider = "ollama"
	LLMAnthropic LLMProvider = "anthropic"
)

// LLMConfig holds settings shared by the summarize and cluster stages.
type LLMConfig struct {
	// Provider selects the backend: openai, ollama or anthropic.
	Provider LLMProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the provider. Resolved at startup when empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible servers, remote Ollama).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Timeout bounds a single model call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens bounds the response length where the provider requires it.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PDFBackend selects how HTML is converted to PDF.
type PDFBackend string

const (
	PDFCommand   PDFBackend = "command"
	PDFContainer PDFBackend = "container"
)

// ReportConfig holds settings for the report writer.
type ReportConfig struct {
	// MarkdownPath is where the Markdown report is written (default output.md).
	MarkdownPath string `json:"markdown_path" yaml:"markdown_path" mapstructure:"markdown_path"`

	// PDFPath is where the PDF report is written (default report.pdf).
	PDFPath string `json:"pdf_path" yaml:"pdf_path" mapstructure:"pdf_path"`

	// TemplatePath is the HTML template rendered before PDF conversion.
	TemplatePath string `json:"template_path" yaml:"template_path" mapstructure:"template_path"`

	// ResultPath, when set, receives the clustered result as YAML.
	ResultPath string `json:"result_path,omitempty" yaml:"result_path,omitempty" mapstructure:"result_path"`

	// PDFBackend selects a local command or a container image.
	PDFBackend PDFBackend `json:"pdf_backend" yaml:"pdf_backend" mapstructure:"pdf_backend"`

	// PDFCommand is the converter command line for the command backend.
	// It reads HTML on stdin and writes PDF on stdout.
	PDFCommand string `json:"pdf_command" yaml:"pdf_command" mapstructure:"pdf_command"`

	// PDFImage is the container image for the container backend.
	PDFImage string `json:"pdf_image" yaml:"pdf_image" mapstructure:"pdf_image"`

	// PDFImageArgs are passed to the container after the image name.
	PDFImageArgs []string `json:"pdf_image_args,omitempty" yaml:"pdf_image_args,omitempty" mapstructure:"pdf_image_args"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level      string `json:"level" yaml:"level" mapstructure:"level"`
	File       string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days" mapstructure:"max_age_days"`
}

// MetricsConfig controls the optional Pushgateway export.
type MetricsConfig struct {
	// PushgatewayURL enables pushing run metrics when non-empty.
	PushgatewayURL string `json:"pushgateway_url,omitempty" yaml:"pushgateway_url,omitempty" mapstructure:"pushgateway_url"`

	// Job is the Pushgateway job label.
	Job string `json:"job" yaml:"job" mapstructure:"job"`
}

// Config groups all stage configurations for one run.
type Config struct {
	LLM     LLMConfig     `json:"llm" yaml:"llm" mapstructure:"llm"`
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Report  ReportConfig  `json:"report" yaml:"report" mapstructure:"report"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}
