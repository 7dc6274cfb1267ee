// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API credentials for the language-model and search
// providers. Keys come from configuration, environment variables, a directory
// of plain-text secret files, or an interactive prompt, in that order.
//
// Secret files are named after the key (openai-api-key, anthropic-api-key,
// brave-api-key) and contain the value, trimmed of surrounding whitespace.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// DefaultDir is the secrets directory consulted when none is configured.
const DefaultDir = ".secrets/"

// knownFiles lists the secret file names the resolver looks up. Other files
// in the directory are never read.
func knownFiles() []string {
	files := []string{braveCredential.file}
	for _, c := range llmCredentials {
		files = append(files, c.file)
	}
	return files
}

// Load reads the provider key files from dir. A missing directory is not an
// error; Load returns an empty map.
func Load(dir string) (map[string]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets path %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir)), nil
}

// LoadFS returns the trimmed contents of each known key file present in fsys.
// Directories and empty files are skipped. A file that cannot be read
// produces a warning on stderr and is skipped.
func LoadFS(fsys fs.FS) map[string]string {
	secrets := make(map[string]string)
	for _, name := range knownFiles() {
		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets
}
