// Package logger builds the zerolog logger shared by the pfd commands.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the level, format and destination of log lines.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // console or json
	Output     string // stderr, stdout or a file path
	TimeFormat string
}

// New returns a logger configured by cfg. The returned closer releases the
// log file, if any.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level: %w", err)
	}

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("could not open log file: %w", err)
		}
		out, closer = f, f
	}
	return NewWriter(out, level, cfg.Format, cfg.TimeFormat), closer, nil
}

// NewWriter returns a logger writing to w.
func NewWriter(w io.Writer, level zerolog.Level, format, timeFormat string) zerolog.Logger {
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// WithRun returns a context carrying l with the run id attached to every line.
func WithRun(ctx context.Context, l zerolog.Logger, runID string) context.Context {
	return l.With().Str("run_id", runID).Logger().WithContext(ctx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
