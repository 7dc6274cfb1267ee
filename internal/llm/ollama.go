// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"

	"github.com/pdiddy/research-report/pkg/types"
)

// Ollama calls a local or remote Ollama server. The JSON schema is passed as
// the structured output format. No API key is needed.
type Ollama struct {
	client *ollama.Client
	model  string
}

// NewOllama creates an Ollama backend. Without a BaseURL the client follows
// OLLAMA_HOST like the ollama CLI does.
func NewOllama(cfg types.LLMConfig) (*Ollama, error) {
	model := strings.TrimPrefix(cfg.Model, "ollama:")
	if cfg.BaseURL == "" {
		client, err := ollama.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("could not create ollama client: %w", err)
		}
		return &Ollama{client: client, model: model}, nil
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama base URL %q: %w", cfg.BaseURL, err)
	}
	return &Ollama{
		client: ollama.NewClient(base, &http.Client{Timeout: cfg.Timeout}),
		model:  model,
	}, nil
}

// Name returns the provider identifier.
func (o *Ollama) Name() string { return string(types.LLMOllama) }

// Generate runs one non-streaming chat request.
func (o *Ollama) Generate(ctx context.Context, req Request) (string, error) {
	stream := false
	creq := &ollama.ChatRequest{
		Model: o.model,
		Messages: []ollama.Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream:  &stream,
		Format:  req.Schema.JSON,
		Options: map[string]any{"temperature": 0},
	}

	var out strings.Builder
	err := o.client.Chat(ctx, creq, func(res ollama.ChatResponse) error {
		out.WriteString(res.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	return out.String(), nil
}
