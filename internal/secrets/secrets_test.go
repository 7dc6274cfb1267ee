// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "openai-api-key", "  sk-abc123  \n")
				writeFile(t, dir, "brave-api-key", "bsa_xyz789")
				return dir
			},
			want: map[string]string{
				"openai-api-key": "sk-abc123",
				"brave-api-key":  "bsa_xyz789",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{"anthropic-api-key": "valid-key"},
		},
		{
			name: "ignores files that are not provider keys",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "openai-api-key", "sk-real")
				writeFile(t, dir, "openai-api-key~", "sk-backup")
				writeFile(t, dir, "notes.txt", "remember to rotate")
				return dir
			},
			want: map[string]string{"openai-api-key": "sk-real"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "openai-api-key", "sk-real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{"openai-api-key": "sk-real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadRejectsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "secrets", "not a directory")
	_, err := Load(filepath.Join(dir, "secrets"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"anthropic-api-key":  {Data: []byte("ak-123\n")},
		"brave-api-key":      {Data: []byte("\t\n")},
		"openai-api-key/old": {Data: []byte("sk-nested")},
		"github-token":       {Data: []byte("ghp-unrelated")},
	}
	got := LoadFS(fsys)
	assert.Equal(t, map[string]string{"anthropic-api-key": "ak-123"}, got)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
