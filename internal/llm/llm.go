// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the language-model backends used by the summarize and
// cluster stages. Every call asks for a JSON object matching a schema derived
// from a Go type, so callers decode into typed values instead of probing
// free-form text.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/pdiddy/research-report/pkg/types"
)

// DefaultModel matches the model the tool has always used with OpenAI.
const DefaultModel = "gpt-4o-mini"

const defaultTimeout = 2 * time.Minute

// Model generates one structured response for a system/user prompt pair.
// Implementations return the raw JSON text; use Decode to parse it.
type Model interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is a single structured-output model call.
type Request struct {
	System string
	User   string
	Schema Schema
}

// Schema names a JSON schema the response must satisfy.
type Schema struct {
	Name        string
	Description string
	JSON        json.RawMessage
}

// SchemaFor derives a strict JSON schema from the json and description tags of v.
func SchemaFor(name, description string, v any) (Schema, error) {
	def, err := jsonschema.GenerateSchemaForType(v)
	if err != nil {
		return Schema{}, fmt.Errorf("generating schema %s: %w", name, err)
	}
	raw, err := json.Marshal(def)
	if err != nil {
		return Schema{}, fmt.Errorf("marshaling schema %s: %w", name, err)
	}
	return Schema{Name: name, Description: description, JSON: raw}, nil
}

// MustSchema is SchemaFor for package-level schema variables.
func MustSchema(name, description string, v any) Schema {
	s, err := SchemaFor(name, description, v)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode parses a model response into v. It tolerates Markdown code fences
// and prose around a single JSON object, which some local models emit even
// when a format is requested.
func Decode(text string, v any) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("empty model response")
	}
	trimmed = stripFences(trimmed)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in model response: %q", abbreviate(trimmed, 120))
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), v); err != nil {
		return fmt.Errorf("decoding model response: %w", err)
	}
	return nil
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func abbreviate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// New returns the backend selected by cfg.Provider. The API key must already
// be resolved for providers that need one.
func New(cfg types.LLMConfig) (Model, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	switch cfg.Provider {
	case "", types.LLMOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAI(cfg), nil
	case types.LLMOllama:
		return NewOllama(cfg)
	case types.LLMAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		return NewAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
