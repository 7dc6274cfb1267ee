// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-report/pkg/types"
)

func testRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		System: "You summarize articles about Obama.",
		User:   "article text",
		Schema: MustSchema("summary", "Summary of an article", sample{}),
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var body map[string]any
	var path, auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"{\"summary\":\"ok\",\"skipped\":false}"},"finish_reason":"stop"}]}`)
	}))
	defer ts.Close()

	m := NewOpenAI(types.LLMConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: ts.URL + "/v1", Timeout: 5 * time.Second})
	out, err := m.Generate(context.Background(), testRequest(t))
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok","skipped":false}`, out)

	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-4o-mini", body["model"])

	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok, "response_format missing: %v", body)
	assert.Equal(t, "json_schema", format["type"])
	schema, ok := format["json_schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "summary", schema["name"])
	assert.Equal(t, true, schema["strict"])

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestOpenAIGenerateHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer ts.Close()

	m := NewOpenAI(types.LLMConfig{APIKey: "bad", Model: "gpt-4o-mini", BaseURL: ts.URL + "/v1", Timeout: 5 * time.Second})
	_, err := m.Generate(context.Background(), testRequest(t))
	require.Error(t, err)
}

func TestOllamaGenerate(t *testing.T) {
	var body map[string]any
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"model":"llama3.1","created_at":"2026-01-01T00:00:00Z","message":{"role":"assistant","content":"{\"summary\":\"local\",\"skipped\":true}"},"done":true}`)
	}))
	defer ts.Close()

	m, err := NewOllama(types.LLMConfig{Model: "ollama:llama3.1", BaseURL: ts.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	out, err := m.Generate(context.Background(), testRequest(t))
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"local","skipped":true}`, out)

	assert.Equal(t, "/api/chat", path)
	assert.Equal(t, "llama3.1", body["model"])
	assert.Equal(t, false, body["stream"])
	assert.NotNil(t, body["format"], "schema should be sent as format")
}

func TestAnthropicGenerate(t *testing.T) {
	var body claudeRequest
	var headers http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content":[{"type":"text","text":"{\"summary\":\"claude\","},{"type":"text","text":"\"skipped\":false}"}]}`)
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	m := &Anthropic{APIKey: "ak-test", Model: "claude-sonnet-4-5", Client: ts.Client()}
	out, err := m.Generate(context.Background(), testRequest(t))
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"claude","skipped":false}`, out)

	assert.Equal(t, "ak-test", headers.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", headers.Get("anthropic-version"))
	assert.Equal(t, defaultClaudeMaxTokens, body.MaxTokens)
	assert.True(t, strings.HasPrefix(body.System, "You summarize articles about Obama."))
	assert.Contains(t, body.System, `"summary"`)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "article text", body.Messages[0].Content)
}

func TestAnthropicGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"HTTP error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"no text blocks", http.StatusOK, `{"content":[{"type":"tool_use"}]}`},
		{"invalid JSON", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			old := claudeAPIURL
			claudeAPIURL = ts.URL
			defer func() { claudeAPIURL = old }()

			m := &Anthropic{APIKey: "k", Model: "m", Client: ts.Client()}
			_, err := m.Generate(context.Background(), testRequest(t))
			require.Error(t, err)
		})
	}
}
