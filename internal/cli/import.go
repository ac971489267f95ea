package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/trajectory/internal/source"
	"github.com/roach88/trajectory/internal/trajectory"
)

// ImportResult reports a source copied into a SQLite database.
type ImportResult struct {
	Source   string `json:"source"`
	Database string `json:"database"`
	Records  int    `json:"records"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <source> --db <path>",
		Short: "Copy a source into a SQLite database",
		Long: `Read a source (.npy, .csv or SQLite) and write its raw records to the records
table of a SQLite database, replacing what was there. Records are stored
unnormalized; loading the database applies the same sort and filter as any
other source.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to write (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *RootOptions, locator, dbPath string, cmd *cobra.Command) error {
	sess, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := cmd.Context()
	m, err := source.Open(locator).Read(ctx)
	if err != nil {
		return sess.failWith(ExitCommandError, ErrCodeImport, err)
	}
	// Reject what a later load would reject.
	if _, err := trajectory.FromMatrix(m); err != nil {
		return sess.failWith(ExitCommandError, ErrCodeImport, err)
	}

	sess.out.VerboseLog("Writing %d records to %s", len(m), dbPath)
	if err := source.WriteSQLite(ctx, dbPath, m); err != nil {
		return sess.failWith(ExitFailure, ErrCodeImport, fmt.Errorf("write %s: %w", dbPath, err))
	}
	sess.logger.Info("source imported", "source", locator, "database", dbPath, "records", len(m))

	result := ImportResult{Source: locator, Database: dbPath, Records: len(m)}
	if sess.out.Format == "json" {
		return sess.out.Success(result)
	}
	sess.out.Printf("Imported %d records from %s into %s\n", result.Records, result.Source, result.Database)
	return nil
}
