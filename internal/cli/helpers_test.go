package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"

	"github.com/roach88/trajectory/internal/logging"
)

// testOptions returns root options with a fixed run id so JSON output is stable.
func testOptions(format string) *RootOptions {
	return &RootOptions{
		Format: format,
		RunIDs: logging.NewFixedGenerator("run-1"),
	}
}

// execute runs a command with args and returns stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// assertGolden compares output against testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/cli -update
func assertGolden(t *testing.T, name string, output string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(output))
}
