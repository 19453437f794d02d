package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the handler built by New.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json, text, pretty
	// File, when set, sends output to a size-rotated file instead of the
	// writer passed to New.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// New builds a *SlogLogger writing to w (or to Options.File).
// The json and text formats mask secrets; pretty is meant for a terminal.
func New(opts Options, w io.Writer) *SlogLogger {
	if w == nil {
		w = os.Stderr
	}
	if opts.File != "" {
		w = newRotatingFile(opts)
	}

	level := ParseLevel(opts.Level)

	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "pretty":
		h = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           toCharmLevel(level),
			ReportTimestamp: true,
		})
	case "text":
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: NewReplaceAttr()})
	default:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: NewReplaceAttr()})
	}

	return NewSlogLogger(slog.New(h))
}

// newRotatingFile keeps three compressed 10 MB backups unless opts says
// otherwise.
func newRotatingFile(opts Options) *lumberjack.Logger {
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	backups := opts.MaxBackups
	if backups <= 0 {
		backups = 3
	}
	return &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: backups,
		Compress:   true,
	}
}

// ParseLevel converts a string log level to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// toCharmLevel maps custom slog levels to the nearest charm level.
func toCharmLevel(l slog.Level) charmlog.Level {
	switch {
	case l <= slog.LevelDebug:
		return charmlog.DebugLevel
	case l <= slog.LevelInfo:
		return charmlog.InfoLevel
	case l <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}
