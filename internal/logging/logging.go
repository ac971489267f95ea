// Package logging builds the slog.Logger used by traj.
//
// Console output goes to the writer the caller supplies (stderr in the CLI) at
// the console level, as text or JSON. When a log file is configured, a second
// text handler appends to it at the file level. Both are joined with a
// slog-multi fanout.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"

	"github.com/roach88/trajectory/internal/config"
)

// ParseLevel maps a level name to a slog.Level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger for cfg writing console output to console. Every record
// carries run_id when runID is non-empty.
//
// The returned Closer releases the log file; it is always non-nil.
func New(cfg config.Logging, console io.Writer, runID string) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.ConsoleLevel)}

	var consoleHandler slog.Handler
	if cfg.Format == "json" {
		consoleHandler = slog.NewJSONHandler(console, opts)
	} else {
		consoleHandler = slog.NewTextHandler(console, opts)
	}

	handlers := []slog.Handler{consoleHandler}
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		if dir := filepath.Dir(cfg.File); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}))
		closer = f
	}

	h := consoleHandler
	if len(handlers) > 1 {
		h = slogmulti.Fanout(handlers...)
	}

	logger := slog.New(h)
	if runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
