package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/trajectory/internal/consumer"
	"github.com/roach88/trajectory/internal/render"
	"github.com/roach88/trajectory/internal/trajectory"
)

// PlotResult reports where a plot was written.
type PlotResult struct {
	ObjectID trajectory.ObjectID `json:"object_id"`
	Records  int                 `json:"records"`
	Output   string              `json:"output"`
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		id     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "plot [source] --id <object-id> [--out <path>]",
		Short: "Plot one object's trajectory",
		Long: `Extract one object id and draw its trajectory as a line of latitude against
longitude. The image format follows the output extension (png, svg, pdf, jpg).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(rootOpts, args, id, output, cmd)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "object id to plot (required)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output path (default from config, ./plot.png)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runPlot(opts *RootOptions, args []string, id, output string, cmd *cobra.Command) error {
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
	sub, err := c.Select(id)
	if err != nil {
		return sess.fail(err)
	}
	if err := c.Render(cmd.Context()); err != nil {
		return sess.fail(err)
	}

	result := PlotResult{ObjectID: sub.ObjectID(), Records: sub.Len(), Output: c.Output()}
	if sess.out.Format == "json" {
		return sess.out.Success(result)
	}
	sess.out.Printf("Plotted %d records of object_id %d to %s\n", result.Records, result.ObjectID, result.Output)
	return nil
}

// consumer builds a Consumer rendering with the configured figure size.
// output overrides the configured destination when non-empty.
func (s *session) consumer(store *trajectory.Store, output string) *consumer.Consumer {
	if output == "" {
		output = s.cfg.Plot.Output
	}
	return consumer.New(store,
		render.NewPlotter(s.cfg.Plot.Width, s.cfg.Plot.Height),
		consumer.WithLogger(s.logger),
		consumer.WithOutput(output),
	)
}
