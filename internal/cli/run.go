package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/trajectory/internal/reduce"
)

// RunResult is the outcome of the full extract, reduce and plot sequence.
type RunResult struct {
	Summary reduce.Summary `json:"summary"`
	Output  string         `json:"output"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		id     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "run [source] --id <object-id>",
		Short: "Extract, summarize and plot one object",
		Long: `Run the whole sequence for one object id: load the source, extract the
object's records, summarize them and write the plot.

If only the plot fails, the summary is still printed and the exit code is 1.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(rootOpts, args, id, output, cmd)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "object id to process (required)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "plot output path (default from config, ./plot.png)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runRun(opts *RootOptions, args []string, id, output string, cmd *cobra.Command) error {
	sess, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	store, err := sess.openStore(cmd.Context(), args)
	if err != nil {
		return err
	}

	c := sess.consumer(store, output)
	summary, err := c.Process(cmd.Context(), id)
	if err != nil {
		if _, selected := c.Current(); selected && sess.out.Format != "json" {
			writeSummary(sess.out, summary)
		}
		return sess.fail(err)
	}

	result := RunResult{Summary: summary, Output: c.Output()}
	if sess.out.Format == "json" {
		return sess.out.Success(result)
	}
	writeSummary(sess.out, summary)
	sess.out.Printf("plot:        %s\n", result.Output)
	return nil
}
