// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-report/pkg/types"
)

// mockRuntime is a container.Runtime that echoes its input with a prefix.
type mockRuntime struct {
	imageErr error
	runErr   error
	image    string
	args     []string
}

func (m *mockRuntime) Name() string    { return "mock" }
func (m *mockRuntime) Available() bool { return true }

func (m *mockRuntime) ImageExists(image string) error { return m.imageErr }

func (m *mockRuntime) Run(_ context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	m.image = image
	m.args = args
	if m.runErr != nil {
		return m.runErr
	}
	data, _ := io.ReadAll(stdin)
	_, err := stdout.Write(append([]byte("%PDF-"), data...))
	return err
}

func TestNewConverter(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.ReportConfig
		check   func(t *testing.T, c Converter)
		wantErr bool
	}{
		{
			name:  "default is weasyprint command",
			cfg:   types.ReportConfig{},
			check: func(t *testing.T, c Converter) {
				cc, ok := c.(*CommandConverter)
				require.True(t, ok)
				assert.Equal(t, []string{"weasyprint", "-", "-"}, cc.Argv)
			},
		},
		{
			name:  "custom command",
			cfg:   types.ReportConfig{PDFBackend: types.PDFCommand, PDFCommand: "wkhtmltopdf --quiet - -"},
			check: func(t *testing.T, c Converter) {
				assert.Equal(t, []string{"wkhtmltopdf", "--quiet", "-", "-"}, c.(*CommandConverter).Argv)
			},
		},
		{
			name:  "container default image",
			cfg:   types.ReportConfig{PDFBackend: types.PDFContainer, PDFImageArgs: []string{"-", "-"}},
			check: func(t *testing.T, c Converter) {
				cc, ok := c.(*ContainerConverter)
				require.True(t, ok)
				assert.Equal(t, "weasyprint:latest", cc.Image)
				assert.Equal(t, []string{"-", "-"}, cc.Args)
			},
		},
		{
			name:    "unknown backend",
			cfg:     types.ReportConfig{PDFBackend: "fax"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConverter(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestContainerConverter(t *testing.T) {
	rt := &mockRuntime{}
	c := &ContainerConverter{Runtime: rt, Image: "weasyprint:latest", Args: []string{"-", "-"}}

	var out bytes.Buffer
	require.NoError(t, c.Convert(context.Background(), strings.NewReader("<html/>"), &out))
	assert.Equal(t, "%PDF-<html/>", out.String())
	assert.Equal(t, "weasyprint:latest", rt.image)
	assert.Equal(t, []string{"-", "-"}, rt.args)
}

func TestContainerConverterErrors(t *testing.T) {
	tests := []struct {
		name string
		rt   *mockRuntime
	}{
		{"image missing", &mockRuntime{imageErr: errors.New("no such image")}},
		{"run fails", &mockRuntime{runErr: errors.New("exit 1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &ContainerConverter{Runtime: tt.rt, Image: "weasyprint:latest"}
			err := c.Convert(context.Background(), strings.NewReader("<html/>"), io.Discard)
			require.Error(t, err)
		})
	}
}

func TestCommandConverterMissingBinary(t *testing.T) {
	c := &CommandConverter{Argv: []string{"no-such-pdf-converter-binary"}}
	err := c.Convert(context.Background(), strings.NewReader("<html/>"), io.Discard)
	require.Error(t, err)
}
