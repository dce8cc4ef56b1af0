// Package logger configures the process-wide slog logger.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Options configures New.
type Options struct {
	Format    string // "text" (default) or "json"
	File      string // Optional: every record is also appended here
	SentryDSN string // Optional: ERROR records are also sent to Sentry

	// Stdout and Stderr default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// New builds a logger that writes INFO/WARN to stdout and ERROR+ to stderr.
// The returned cleanup function closes the log file and flushes Sentry.
func New(opts Options) (*slog.Logger, func(), error) {
	stdoutW := opts.Stdout
	if stdoutW == nil {
		stdoutW = os.Stdout
	}
	stderrW := opts.Stderr
	if stderrW == nil {
		stderrW = os.Stderr
	}

	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		closers = append(closers, func() { f.Close() })
		stdoutW = io.MultiWriter(stdoutW, f)
		stderrW = io.MultiWriter(stderrW, f)
	}

	handlerOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	newHandler := func(w io.Writer) slog.Handler {
		if opts.Format == "json" {
			return slog.NewJSONHandler(w, handlerOpts)
		}
		return slog.NewTextHandler(w, handlerOpts)
	}

	var handler slog.Handler = slogmulti.Router().
		Add(newHandler(stdoutW), belowError).
		Add(newHandler(stderrW), atLeastError).
		Handler()

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{Dsn: opts.SentryDSN})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("initializing sentry: %w", err)
		}
		closers = append(closers, func() { sentry.Flush(2 * time.Second) })
		handler = slogmulti.Fanout(handler, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
	}

	return slog.New(handler), cleanup, nil
}

func belowError(_ context.Context, r slog.Record) bool {
	return r.Level < slog.LevelError
}

func atLeastError(_ context.Context, r slog.Record) bool {
	return r.Level >= slog.LevelError
}
