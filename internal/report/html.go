// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/research-report/pkg/types"
)

// TemplateData is the context handed to the HTML template. The embedded
// ResearchResult exposes .Clusters directly.
type TemplateData struct {
	types.ResearchResult
	Topic       string
	GeneratedAt time.Time
}

var ugc = bluemonday.UGCPolicy()

// templateFuncs are available to report templates. sanitize lets a template
// keep harmless inline markup from model output while stripping scripts and
// event handlers.
var templateFuncs = template.FuncMap{
	"sanitize": func(s string) template.HTML {
		return template.HTML(ugc.Sanitize(s))
	},
	"date": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
}

// LoadTemplate parses the HTML template at path. A missing or malformed
// file is a types.ErrTemplate.
func LoadTemplate(path string) (*template.Template, error) {
	tmpl, err := template.New(filepath.Base(path)).Funcs(templateFuncs).ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrTemplate, err)
	}
	return tmpl, nil
}

// RenderHTML executes tmpl with data. Execution failures are a
// types.ErrTemplate.
func RenderHTML(w io.Writer, tmpl *template.Template, data TemplateData) error {
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("%w: executing %s: %w", types.ErrTemplate, tmpl.Name(), err)
	}
	return nil
}
