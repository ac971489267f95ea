package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/trajectory/internal/config"
	"github.com/roach88/trajectory/internal/logging"
	"github.com/roach88/trajectory/internal/source"
	"github.com/roach88/trajectory/internal/trajectory"
)

// session is the per-invocation state shared by every command: resolved
// config, run id, logger and output formatter.
type session struct {
	cfg    config.Config
	runID  string
	logger *slog.Logger
	closer io.Closer
	out    *OutputFormatter
}

// newSession resolves config and logging for one command. Errors have
// already been reported through the formatter.
func newSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	gen := opts.RunIDs
	if gen == nil {
		gen = logging.UUIDv7Generator{}
	}
	out.RunID = gen.Generate()

	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			_ = out.Error(ErrCodeConfig, err.Error(), nil)
			return nil, WrapExitError(ExitCommandError, ErrCodeConfig, err)
		}
		cfg = loaded
	}
	if opts.LogFile != "" {
		cfg.Logging.File = opts.LogFile
	}
	if opts.Verbose {
		cfg.Logging.ConsoleLevel = "debug"
	}

	logger, closer, err := logging.New(cfg.Logging, out.GetErrWriter(), out.RunID)
	if err != nil {
		_ = out.Error(ErrCodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, ErrCodeConfig, err)
	}

	return &session{
		cfg:    cfg,
		runID:  out.RunID,
		logger: logger,
		closer: closer,
		out:    out,
	}, nil
}

// Close releases the log file.
func (s *session) Close() {
	_ = s.closer.Close()
}

// locator returns the source named on the command line, or the configured one.
func (s *session) locator(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return s.cfg.Source
}

// openStore loads the source and fails unless it reached the loaded state.
func (s *session) openStore(ctx context.Context, args []string) (*trajectory.Store, error) {
	locator := s.locator(args)
	s.out.VerboseLog("Loading %s", locator)

	store := trajectory.Open(ctx, source.Open(locator),
		trajectory.WithLogger(s.logger),
		trajectory.WithThreshold(s.cfg.Threshold),
	)
	if err := store.Err(); err != nil {
		return nil, s.fail(err)
	}
	return store, nil
}

// fail reports err through the formatter and converts it to an ExitError.
func (s *session) fail(err error) error {
	code := string(trajectory.CodeOf(err))
	if code == "" {
		code = ErrCodeGeneric
	}
	_ = s.out.Error(code, err.Error(), nil)
	return WrapExitError(exitCodeFor(err), code, err)
}

// failWith reports err under a CLI-level code.
func (s *session) failWith(exit int, code string, err error) error {
	_ = s.out.Error(code, err.Error(), nil)
	return WrapExitError(exit, code, err)
}
