// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/research-report/internal/container"
	"github.com/pdiddy/research-report/pkg/types"
)

const (
	defaultPDFCommand = "weasyprint - -"
	defaultPDFImage   = "weasyprint:latest"
)

// Converter turns rendered HTML into PDF bytes. Implementations read all of
// html and write the complete document to pdf.
type Converter interface {
	Convert(ctx context.Context, html io.Reader, pdf io.Writer) error
}

// CommandConverter pipes HTML through a local command that writes PDF to
// stdout, such as "weasyprint - -".
type CommandConverter struct {
	Argv []string
}

// Convert runs the command once.
func (c *CommandConverter) Convert(ctx context.Context, html io.Reader, pdf io.Writer) error {
	return container.RunCommand(ctx, c.Argv, html, pdf)
}

// ContainerConverter pipes HTML through a converter image using docker or
// podman. The runtime is detected on first use when not injected.
type ContainerConverter struct {
	Runtime container.Runtime
	Image   string
	Args    []string
}

// Convert verifies the image exists locally, then runs it once.
func (c *ContainerConverter) Convert(ctx context.Context, html io.Reader, pdf io.Writer) error {
	if c.Runtime == nil {
		rt, err := container.DetectRuntime()
		if err != nil {
			return err
		}
		c.Runtime = rt
	}
	if err := c.Runtime.ImageExists(c.Image); err != nil {
		return fmt.Errorf("%s image not available in %s: %w", c.Image, c.Runtime.Name(), err)
	}
	return c.Runtime.Run(ctx, c.Image, c.Args, html, pdf)
}

// NewConverter returns the converter selected by cfg.PDFBackend.
func NewConverter(cfg types.ReportConfig) (Converter, error) {
	switch cfg.PDFBackend {
	case "", types.PDFCommand:
		line := cfg.PDFCommand
		if strings.TrimSpace(line) == "" {
			line = defaultPDFCommand
		}
		return &CommandConverter{Argv: strings.Fields(line)}, nil
	case types.PDFContainer:
		image := cfg.PDFImage
		if image == "" {
			image = defaultPDFImage
		}
		return &ContainerConverter{Image: image, Args: cfg.PDFImageArgs}, nil
	default:
		return nil, fmt.Errorf("unknown PDF backend %q", cfg.PDFBackend)
	}
}
