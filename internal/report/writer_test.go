// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-report/pkg/types"
)

// fakeConverter copies the HTML through with a PDF header, or fails.
type fakeConverter struct {
	err   error
	empty bool
	html  string
}

func (f *fakeConverter) Convert(_ context.Context, html io.Reader, pdf io.Writer) error {
	data, _ := io.ReadAll(html)
	f.html = string(data)
	if f.err != nil {
		return f.err
	}
	if f.empty {
		return nil
	}
	_, err := pdf.Write(append([]byte("%PDF-1.7\n"), data...))
	return err
}

func newTestWriter(t *testing.T, conv Converter, templatePath string) (*Writer, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	var out bytes.Buffer
	w := NewWriter(types.ReportConfig{
		MarkdownPath: filepath.Join(dir, "output.md"),
		PDFPath:      filepath.Join(dir, "report.pdf"),
		TemplatePath: templatePath,
	}, conv, &out)
	w.Now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }
	return w, &out
}

func TestWriterWrite(t *testing.T) {
	conv := &fakeConverter{}
	w, out := newTestWriter(t, conv, writeTemplate(t, testTemplate))

	require.NoError(t, w.Write(context.Background(), sampleResult(), "Obama"))

	md, err := os.ReadFile(w.Config.MarkdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Presidency\n")

	pdf, err := os.ReadFile(w.Config.PDFPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-1.7")))
	assert.Contains(t, conv.html, "<title>Obama</title>")
	assert.Contains(t, conv.html, "January 2, 2026")

	assert.Equal(t, "PDF report generated: "+w.Config.PDFPath+"\n", out.String())
}

func TestWriterTemplateFailureKeepsMarkdown(t *testing.T) {
	w, out := newTestWriter(t, &fakeConverter{}, filepath.Join(t.TempDir(), "missing.html"))

	err := w.Write(context.Background(), sampleResult(), "Obama")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTemplate))

	assert.FileExists(t, w.Config.MarkdownPath)
	assert.NoFileExists(t, w.Config.PDFPath)
	assert.Empty(t, out.String())
}

func TestWriterRenderFailures(t *testing.T) {
	tests := []struct {
		name string
		conv *fakeConverter
	}{
		{"converter error", &fakeConverter{err: errors.New("weasyprint crashed")}},
		{"empty output", &fakeConverter{empty: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := newTestWriter(t, tt.conv, writeTemplate(t, testTemplate))

			err := w.Write(context.Background(), sampleResult(), "Obama")
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrRender))

			assert.FileExists(t, w.Config.MarkdownPath)
			assert.NoFileExists(t, w.Config.PDFPath)
			assert.Empty(t, out.String())
		})
	}
}

func TestWriterOverwrites(t *testing.T) {
	w, _ := newTestWriter(t, &fakeConverter{}, writeTemplate(t, testTemplate))
	require.NoError(t, os.WriteFile(w.Config.MarkdownPath, []byte("stale content that is longer than the new report ........................................................................................................................................................................................................"), 0o644))

	require.NoError(t, w.Write(context.Background(), sampleResult(), "Obama"))

	md, err := os.ReadFile(w.Config.MarkdownPath)
	require.NoError(t, err)
	assert.NotContains(t, string(md), "stale")
}
