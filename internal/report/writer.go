// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a ResearchResult to Markdown and, through an HTML
// template and a PDF converter, to a PDF file. It also saves and loads
// results as YAML so reports can be re-rendered without another run.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pdiddy/research-report/pkg/types"
)

// Writer produces both report artifacts for one result.
type Writer struct {
	Config    types.ReportConfig
	Converter Converter

	// Out receives user-facing status lines.
	Out io.Writer

	// Now stamps GeneratedAt in the template context. Defaults to time.Now.
	Now func() time.Time
}

// NewWriter returns a Writer for cfg using conv for PDF conversion.
func NewWriter(cfg types.ReportConfig, conv Converter, out io.Writer) *Writer {
	return &Writer{Config: cfg, Converter: conv, Out: out, Now: time.Now}
}

// Write emits the Markdown file first, then the PDF. A template or
// conversion failure leaves the Markdown file in place. The PDF file is only
// created once conversion has succeeded.
func (w *Writer) Write(ctx context.Context, result types.ResearchResult, topic string) error {
	if err := w.WriteMarkdownFile(result); err != nil {
		return err
	}
	return w.WritePDFFile(ctx, result, topic)
}

// WriteMarkdownFile writes the Markdown report to Config.MarkdownPath.
func (w *Writer) WriteMarkdownFile(result types.ResearchResult) error {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, result); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	if err := os.WriteFile(w.Config.MarkdownPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", w.Config.MarkdownPath, err)
	}
	return nil
}

// WritePDFFile renders the HTML template and converts it to
// Config.PDFPath.
func (w *Writer) WritePDFFile(ctx context.Context, result types.ResearchResult, topic string) error {
	tmpl, err := LoadTemplate(w.Config.TemplatePath)
	if err != nil {
		return err
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	var html bytes.Buffer
	if err := RenderHTML(&html, tmpl, TemplateData{ResearchResult: result, Topic: topic, GeneratedAt: now()}); err != nil {
		return err
	}

	var pdf bytes.Buffer
	if err := w.Converter.Convert(ctx, &html, &pdf); err != nil {
		return fmt.Errorf("%w: %w", types.ErrRender, err)
	}
	if pdf.Len() == 0 {
		return fmt.Errorf("%w: converter produced empty output", types.ErrRender)
	}
	if err := os.WriteFile(w.Config.PDFPath, pdf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", types.ErrRender, w.Config.PDFPath, err)
	}

	if w.Out != nil {
		fmt.Fprintf(w.Out, "PDF report generated: %s\n", w.Config.PDFPath)
	}
	return nil
}
