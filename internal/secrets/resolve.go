// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/pdiddy/research-report/pkg/types"
)

// credential names the environment variable and secret file for a provider key.
type credential struct {
	display string
	envVar  string
	file    string
}

var llmCredentials = map[types.LLMProvider]credential{
	types.LLMOpenAI:    {display: "OpenAI", envVar: "OPENAI_API_KEY", file: "openai-api-key"},
	types.LLMAnthropic: {display: "Anthropic", envVar: "ANTHROPIC_API_KEY", file: "anthropic-api-key"},
}

var braveCredential = credential{display: "Brave Search", envVar: "BRAVE_API_KEY", file: "brave-api-key"}

// Prompter asks the user for a secret value.
type Prompter interface {
	Prompt(label string) (string, error)
}

// Resolver performs the one-time credential setup before a run starts.
type Resolver struct {
	// Lookup reads an environment variable. Defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)

	// Files holds secrets loaded from the secrets directory.
	Files map[string]string

	// Prompt is consulted last. A nil Prompt makes a missing key an error.
	Prompt Prompter
}

// NewResolver loads dir and returns a Resolver that prompts on the terminal.
func NewResolver(dir string) (*Resolver, error) {
	files, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		Lookup: os.LookupEnv,
		Files:  files,
		Prompt: &TerminalPrompter{In: os.Stdin, Out: os.Stderr},
	}, nil
}

// ResolveLLM returns the API key for the configured model provider. Providers
// that need no key (ollama) return an empty string.
func (r *Resolver) ResolveLLM(cfg types.LLMConfig) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	provider := cfg.Provider
	if provider == "" {
		provider = types.LLMOpenAI
	}
	cred, ok := llmCredentials[provider]
	if !ok {
		return "", nil
	}
	if v := r.fromEnvOrFile(cred); v != "" {
		return v, nil
	}
	if r.Prompt == nil {
		return "", fmt.Errorf("%s API key not set: export %s or create %s%s", cred.display, cred.envVar, DefaultDir, cred.file)
	}
	key, err := r.Prompt.Prompt(fmt.Sprintf("Enter your %s API key: ", cred.display))
	if err != nil {
		return "", fmt.Errorf("reading %s API key: %w", cred.display, err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("no %s API key provided", cred.display)
	}
	return key, nil
}

// ResolveBrave returns the Brave Search API key. There is no prompt for it.
func (r *Resolver) ResolveBrave(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if v := r.fromEnvOrFile(braveCredential); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s API key not set: export %s or create %s%s",
		braveCredential.display, braveCredential.envVar, DefaultDir, braveCredential.file)
}

func (r *Resolver) fromEnvOrFile(c credential) string {
	lookup := r.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(c.envVar); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return r.Files[c.file]
}

// TerminalPrompter reads a secret with echo disabled when In is a terminal,
// and falls back to reading one line otherwise.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

// Prompt writes label and reads the answer.
func (p *TerminalPrompter) Prompt(label string) (string, error) {
	fmt.Fprint(p.Out, label)
	fd := int(p.In.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}
