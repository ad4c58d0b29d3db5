// Package logging builds the zerolog logger used across sitelink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"sitelink/internal/config"
)

// New creates a logger from cfg. Console output goes to stderr so it never
// mixes with command output on stdout. When cfg.File is set, a rotating
// JSON log file is written as well.
func New(cfg config.LogConfig, debug bool) (zerolog.Logger, error) {
	return newWithConsole(cfg, debug, os.Stderr)
}

func newWithConsole(cfg config.LogConfig, debug bool, console io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}

	var writers []io.Writer
	if strings.EqualFold(cfg.Format, "json") {
		writers = append(writers, console)
	} else {
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05"})
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), fmt.Errorf("creating log directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger, nil
}
