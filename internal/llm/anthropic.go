// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/research-report/internal/httputil"
	"github.com/pdiddy/research-report/pkg/types"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const defaultClaudeMaxTokens = 4096

// Anthropic calls the Claude Messages API. Claude has no response-format
// switch here, so the schema is appended to the system prompt.
type Anthropic struct {
	APIKey    string
	Model     string
	MaxTokens int
	Client    *http.Client
}

// NewAnthropic creates an Anthropic backend from cfg.
func NewAnthropic(cfg types.LLMConfig) *Anthropic {
	return &Anthropic{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Name returns the provider identifier.
func (c *Anthropic) Name() string { return string(types.LLMAnthropic) }

// Generate calls the Messages API and returns the concatenated text blocks.
func (c *Anthropic) Generate(ctx context.Context, req Request) (string, error) {
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultClaudeMaxTokens
	}

	reqBody := claudeRequest{
		Model:     c.Model,
		MaxTokens: maxTokens,
		System:    systemWithSchema(req),
		Messages:  []claudeMessage{{Role: "user", Content: req.User}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	hreq, err := http.NewRequest(http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("x-api-key", c.APIKey)
	hreq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := httputil.Do(ctx, c.Client, hreq)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var text strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no text content in Claude API response")
	}
	return text.String(), nil
}

// systemWithSchema appends the JSON schema instruction to the system prompt.
func systemWithSchema(req Request) string {
	if len(req.Schema.JSON) == 0 {
		return req.System
	}
	return fmt.Sprintf("%s\n\nRespond with a single JSON object that conforms to this JSON schema (%s). Do not include any text outside the JSON object.\n%s",
		strings.TrimSpace(req.System), req.Schema.Name, string(req.Schema.JSON))
}
