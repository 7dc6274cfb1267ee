// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zerolog logger used by the CLI: human-readable
// console output on stderr and, when a log file is configured, JSON lines in a
// size-rotated file.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pdiddy/research-report/pkg/types"
)

const (
	defaultMaxSizeMB  = 15
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

// ParseLevel maps a configured level name to a zerolog level. An empty name
// is info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return lvl, nil
}

// New returns a logger writing to console and, if cfg.File is set, to a
// rotating file. Close the returned io.Closer when the run ends.
func New(cfg types.LogConfig, console io.Writer) (zerolog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	cw := zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen, NoColor: !isTerminal(console)}
	if cfg.File == "" {
		return zerolog.New(cw).Level(lvl).With().Timestamp().Logger(), nopCloser{}, nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    orDefault(cfg.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: orDefault(cfg.MaxBackups, defaultMaxBackups),
		MaxAge:     orDefault(cfg.MaxAgeDays, defaultMaxAgeDays),
		Compress:   true,
	}
	out := zerolog.MultiLevelWriter(cw, file)
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), file, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
