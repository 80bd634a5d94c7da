package app

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the process logger. LOG_FORMAT selects the handler:
// "json" for machine-readable output, while the default "pretty" text
// handler is meant for reading console output during development.
func NewLogger(cfg *Config) *slog.Logger {
	format := "pretty"
	if cfg != nil && cfg.LogFormat != "" {
		format = cfg.LogFormat
	}
	return slog.New(newLogHandler(format, os.Stdout))
}

func newLogHandler(format string, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{AddSource: true}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	// Pretty output keeps source refs but trims timestamps to time of day.
	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey && len(groups) == 0 && a.Value.Kind() == slog.KindTime {
			return slog.String(slog.TimeKey, a.Value.Time().Format("15:04:05.000"))
		}
		return a
	}
	return slog.NewTextHandler(w, opts)
}
