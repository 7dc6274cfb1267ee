// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize asks a language model whether a page is relevant to the
// research topic and, if so, for a summary of it. Each page is judged on its
// own; the skip decision is final.
package summarize

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/research-report/internal/llm"
	"github.com/pdiddy/research-report/pkg/types"
)

// systemPromptTmpl embeds the topic so relevance is judged against it.
var systemPromptTmpl = template.Must(template.New("summarize").Parse(
	`You are a helpful assistant that writes summaries of articles about {{.Topic}}. ` +
		`If the article is not relevant, please skip it. ` +
		`In any case, provide information on whether the article was skipped or not.`))

// response is the structured output requested from the model.
type response struct {
	Summary string `json:"summary" description:"Summary of the article. Empty when the article is skipped."`
	Skipped bool   `json:"skipped" description:"True when the article is not relevant to the topic."`
}

var responseSchema = llm.MustSchema("article_summary", "Summary of one article, or a skip decision", response{})

// Summarizer turns page text into an Accepted or Skipped summary.
type Summarizer struct {
	Model llm.Model
}

// New returns a Summarizer backed by m.
func New(m llm.Model) *Summarizer {
	return &Summarizer{Model: m}
}

// Summarize calls the model once for pageText. Model failures and
// unparseable responses are wrapped with types.ErrSummarize. A response that
// is not skipped but carries no text is treated as a skip.
func (s *Summarizer) Summarize(ctx context.Context, pageText, topic string) (types.Summary, error) {
	system, err := renderPrompt(topic)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering prompt: %w", types.ErrSummarize, err)
	}

	text, err := s.Model.Generate(ctx, llm.Request{
		System: system,
		User:   pageText,
		Schema: responseSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSummarize, err)
	}

	var resp response
	if err := llm.Decode(text, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSummarize, err)
	}
	return toSummary(resp), nil
}

func toSummary(resp response) types.Summary {
	if resp.Skipped {
		return types.Skipped{Reason: "not relevant"}
	}
	text := strings.TrimSpace(resp.Summary)
	if text == "" {
		return types.Skipped{Reason: "empty summary"}
	}
	return types.Accepted{Text: text}
}

func renderPrompt(topic string) (string, error) {
	var buf bytes.Buffer
	if err := systemPromptTmpl.Execute(&buf, struct{ Topic string }{Topic: topic}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
