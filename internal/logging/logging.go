// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the slog.Logger used for diagnostics. Progress
// lines meant for people go to stdout separately; diagnostics go to
// stderr and, optionally, a rotating log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Formats accepted by Config.Format.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// Config describes the desired logging setup.
type Config struct {
	Level          string `json:"level" yaml:"level"`
	Format         string `json:"format" yaml:"format"`
	FilePath       string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	FileMaxSizeMB  int    `json:"file_max_size_mb,omitempty" yaml:"file_max_size_mb,omitempty"`
	FileMaxFiles   int    `json:"file_max_files,omitempty" yaml:"file_max_files,omitempty"`
	FileMaxAgeDays int    `json:"file_max_age_days,omitempty" yaml:"file_max_age_days,omitempty"`
}

// DefaultConfig returns warn-level logging with the format picked from
// the terminal.
func DefaultConfig() Config {
	return Config{
		Level:          "warn",
		Format:         FormatAuto,
		FileMaxSizeMB:  10,
		FileMaxFiles:   3,
		FileMaxAgeDays: 30,
	}
}

// New returns a logger writing to w, plus a closer for the log file when
// one is configured. In auto format, w gets text when it is a terminal
// and JSON otherwise; the log file always gets JSON.
func New(cfg Config, w io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	format := strings.ToLower(cfg.Format)
	switch format {
	case "", FormatAuto:
		format = FormatJSON
		if isTerminal(w) {
			format = FormatText
		}
	case FormatText, FormatJSON:
	default:
		return nil, nil, fmt.Errorf("unknown log format %q (want auto, text, or json)", cfg.Format)
	}

	opts := &slog.HandlerOptions{Level: level}
	handler := buildHandler(w, opts, format)
	if cfg.FilePath == "" {
		return slog.New(handler), nopCloser{}, nil
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    positive(cfg.FileMaxSizeMB, 10),
		MaxBackups: positive(cfg.FileMaxFiles, 3),
		MaxAge:     positive(cfg.FileMaxAgeDays, 30),
	}
	fileHandler := slog.NewJSONHandler(lj, opts)
	return slog.New(fanout{handler, fileHandler}), lj, nil
}

// ParseLevel converts a level name to slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func buildHandler(w io.Writer, opts *slog.HandlerOptions, format string) slog.Handler {
	if format == FormatText {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func positive(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
