// Package logging builds the process-wide slog logger on a charm log sink.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/alexanderramin/tempo/internal/config"
)

const appName = "tempo"

// New returns a slog logger whose handler is a charm logger. Console output
// uses the styled text formatter; logfmt and json stay machine-readable.
func New(w io.Writer, cfg config.LoggingConfig) (*slog.Logger, error) {
	if w == nil {
		w = io.Discard
	}
	levelName := strings.TrimSpace(cfg.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := charmLog.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}

	formatter, err := parseFormatter(cfg.Format)
	if err != nil {
		return nil, err
	}

	sink := charmLog.NewWithOptions(w, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter,
	})
	return slog.New(sink), nil
}

// Discard is a logger for tests and quiet commands.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseFormatter(name string) (charmLog.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return charmLog.TextFormatter, nil
	case "logfmt":
		return charmLog.LogfmtFormatter, nil
	case "json":
		return charmLog.JSONFormatter, nil
	default:
		return 0, fmt.Errorf("unknown log format %q", name)
	}
}
